package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound  = errors.New("account not found")
	ErrInvalidAccountID = errors.New("invalid account id")

	// Ledger errors
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrDuplicateReference = errors.New("reference id already committed")
	ErrDuplicateReceipt   = errors.New("receipt already submitted")

	// Extraction errors
	ErrTransport        = errors.New("backend unavailable")
	ErrMalformedOutput  = errors.New("malformed model output")
	ErrInvalidReceiver  = errors.New("receiver does not match beneficiary")
	ErrConversionFailed = errors.New("document conversion failed")

	// Confirmation errors
	ErrProposalNotFound = errors.New("no pending proposal")

	// Command errors
	ErrInvalidCommand = errors.New("invalid command")
	ErrInvalidDueDate = errors.New("invalid due date")

	// Admin API errors
	ErrRequestInFlight = errors.New("request with this idempotency key is in progress")
)
