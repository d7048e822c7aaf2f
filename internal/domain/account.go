package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Account is a customer's running balance. A positive balance is debt owed to the beneficiary,
// a negative one is credit.
type Account struct {
	ID           string
	Balance      decimal.Decimal
	DueDate      string // dd/mm, empty when unset
	LastReminder string // YYYY-MM-DD of the last reminder sent, empty when unset
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Debtor is one row of the debtor ranking.
type Debtor struct {
	AccountID string
	Balance   decimal.Decimal
}

// ApplyDelta returns the balance after adding delta, rounded up to a whole currency unit.
func (a *Account) ApplyDelta(delta decimal.Decimal) decimal.Decimal {
	return RoundUp(a.Balance.Add(delta))
}

// IsSettled reports whether the account owes nothing.
func (a *Account) IsSettled() bool {
	return IsSettledBalance(a.Balance)
}

// HasDueDate reports whether a due date is configured.
func (a *Account) HasDueDate() bool {
	return a.DueDate != ""
}

// IsSettledBalance reports whether balance clears any outstanding debt.
func IsSettledBalance(balance decimal.Decimal) bool {
	return balance.LessThanOrEqual(decimal.Zero)
}

// RoundUp rounds toward positive infinity to a whole currency unit.
func RoundUp(d decimal.Decimal) decimal.Decimal {
	return d.Ceil()
}

// NormalizeAccountID keeps only the digits of a chat address or typed phone number.
// "5511999990000@c.us" and "+55 (11) 99999-0000" both become "5511999990000".
func NormalizeAccountID(raw string) string {
	if at := strings.IndexByte(raw, '@'); at >= 0 {
		raw = raw[:at]
	}

	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	return b.String()
}
