package domain

import "github.com/shopspring/decimal"

// ExtractionStatus is the closed set of outcomes of reading a receipt image.
type ExtractionStatus int

const (
	// ExtractionExtracted means the receipt was read and paid the configured beneficiary.
	ExtractionExtracted ExtractionStatus = iota + 1
	// ExtractionInvalidReceiver means the receipt was read but paid somebody else.
	ExtractionInvalidReceiver
	// ExtractionParseError means the model answer could not be read as a receipt object.
	ExtractionParseError
	// ExtractionNotAReceipt means the model said the image is not a receipt.
	ExtractionNotAReceipt
	// ExtractionUnavailable means the model could not be reached or failed.
	ExtractionUnavailable
)

func (s ExtractionStatus) String() string {
	switch s {
	case ExtractionExtracted:
		return "extracted"
	case ExtractionInvalidReceiver:
		return "invalid_receiver"
	case ExtractionParseError:
		return "parse_error"
	case ExtractionNotAReceipt:
		return "not_a_receipt"
	case ExtractionUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Receipt holds the normalized fields read from a payment receipt.
type Receipt struct {
	Receiver     string
	Bank         string
	Payer        string
	ReferenceID  string
	DeclaredDate string
	Amount       decimal.Decimal
}

// ExtractionResult is the tagged outcome of the extraction pipeline.
// Receipt is set for Extracted and InvalidReceiver; Reason describes the other outcomes.
type ExtractionResult struct {
	Receipt *Receipt
	Reason  string
	Status  ExtractionStatus
}

// Extracted builds a successful result.
func Extracted(r Receipt) ExtractionResult {
	return ExtractionResult{Status: ExtractionExtracted, Receipt: &r}
}

// InvalidReceiver builds a receiver-mismatch result.
func InvalidReceiver(r Receipt) ExtractionResult {
	return ExtractionResult{Status: ExtractionInvalidReceiver, Receipt: &r, Reason: "receiver does not match beneficiary"}
}

// ParseError builds a malformed-output result.
func ParseError(reason string) ExtractionResult {
	return ExtractionResult{Status: ExtractionParseError, Reason: reason}
}

// NotAReceipt builds a result for images the model rejected.
func NotAReceipt(reason string) ExtractionResult {
	return ExtractionResult{Status: ExtractionNotAReceipt, Reason: reason}
}

// Unavailable builds a result for backend failures.
func Unavailable(reason string) ExtractionResult {
	return ExtractionResult{Status: ExtractionUnavailable, Reason: reason}
}

// Ok reports whether a proposal may be raised from this result.
func (r ExtractionResult) Ok() bool {
	return r.Status == ExtractionExtracted && r.Receipt != nil
}
