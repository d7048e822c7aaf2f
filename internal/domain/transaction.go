package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category tags where a ledger movement came from.
type Category string

const (
	// CategoryManual is an adjustment typed in the customer's own chat.
	CategoryManual Category = "manual"
	// CategoryManualAdmin is an adjustment an administrator levied on a named account.
	CategoryManualAdmin Category = "manual_admin"
	// CategoryAIReceipt is a payment read from a receipt image.
	CategoryAIReceipt Category = "ai_receipt"
)

// IsManual reports whether the category was typed rather than extracted.
func (c Category) IsManual() bool {
	return c == CategoryManual || c == CategoryManualAdmin
}

// Transaction is an immutable row of the ledger history.
type Transaction struct {
	RecordedAt      time.Time
	ID              string
	AccountID       string
	Category        Category
	Payer           string
	Bank            string
	DeclaredDate    string
	ReferenceID     string
	Amount          decimal.Decimal // signed delta
	PreviousBalance decimal.Decimal
	NewBalance      decimal.Decimal
}

// Settled reports whether this movement cleared the account.
func (t *Transaction) Settled() bool {
	return IsSettledBalance(t.NewBalance)
}
