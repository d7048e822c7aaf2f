package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Sign is the direction of a proposed adjustment.
type Sign string

const (
	// SignIncrease adds debt.
	SignIncrease Sign = "+"
	// SignDecrease pays debt down.
	SignDecrease Sign = "-"
)

// SignOf returns the sign a literal value carries.
func SignOf(v decimal.Decimal) Sign {
	if v.IsNegative() {
		return SignDecrease
	}
	return SignIncrease
}

// Proposal is an adjustment waiting for a human to approve it.
type Proposal struct {
	CreatedAt    time.Time
	AccountID    string
	Category     Category
	Sign         Sign
	ReferenceID  string
	Payer        string
	Bank         string
	DeclaredDate string
	Magnitude    decimal.Decimal
}

// NewReceiptProposal builds the debt-decreasing proposal for an extracted receipt.
func NewReceiptProposal(accountID string, r *Receipt, now time.Time) *Proposal {
	return &Proposal{
		AccountID:    accountID,
		Magnitude:    RoundUp(r.Amount.Abs()),
		Sign:         SignDecrease,
		Category:     CategoryAIReceipt,
		ReferenceID:  r.ReferenceID,
		Payer:        r.Payer,
		Bank:         r.Bank,
		DeclaredDate: r.DeclaredDate,
		CreatedAt:    now,
	}
}

// Delta returns the signed amount to add to the balance.
func (p *Proposal) Delta() decimal.Decimal {
	if p.Sign == SignDecrease {
		return p.Magnitude.Neg()
	}
	return p.Magnitude
}

// Validate checks the proposal can be committed.
func (p *Proposal) Validate() error {
	if p.AccountID == "" {
		return ErrInvalidAccountID
	}

	if p.Magnitude.IsNegative() {
		return fmt.Errorf("%w: magnitude must not be negative", ErrInvalidAmount)
	}

	if !WithinAmountLimit(p.Magnitude) {
		return fmt.Errorf("%w: magnitude out of range", ErrInvalidAmount)
	}

	if p.Sign != SignIncrease && p.Sign != SignDecrease {
		return fmt.Errorf("%w: unknown sign %q", ErrInvalidAmount, p.Sign)
	}

	return nil
}
