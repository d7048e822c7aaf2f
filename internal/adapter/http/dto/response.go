package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/debtledger/internal/domain"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID           string          `json:"id"`
	Balance      decimal.Decimal `json:"balance"`
	Settled      bool            `json:"settled"`
	DueDate      string          `json:"due_date,omitempty"`
	LastReminder string          `json:"last_reminder,omitempty"`
	CreatedAt    *time.Time      `json:"created_at,omitempty"`
	UpdatedAt    *time.Time      `json:"updated_at,omitempty"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	resp := &AccountResponse{
		ID:           a.ID,
		Balance:      a.Balance,
		Settled:      a.IsSettled(),
		DueDate:      a.DueDate,
		LastReminder: a.LastReminder,
	}

	// accounts that were never written have no timestamps
	if !a.CreatedAt.IsZero() {
		resp.CreatedAt = &a.CreatedAt
	}
	if !a.UpdatedAt.IsZero() {
		resp.UpdatedAt = &a.UpdatedAt
	}

	return resp
}

// TransactionResponse represents a ledger movement in API responses.
type TransactionResponse struct {
	ID              string          `json:"id"`
	AccountID       string          `json:"account_id"`
	Category        domain.Category `json:"category"`
	Amount          decimal.Decimal `json:"amount"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	NewBalance      decimal.Decimal `json:"new_balance"`
	ReferenceID     string          `json:"reference_id,omitempty"`
	DeclaredDate    string          `json:"declared_date,omitempty"`
	Payer           string          `json:"payer,omitempty"`
	Bank            string          `json:"bank,omitempty"`
	RecordedAt      time.Time       `json:"recorded_at"`
}

// TransactionFromDomain converts a domain transaction to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:              t.ID,
		AccountID:       t.AccountID,
		Category:        t.Category,
		Amount:          t.Amount,
		PreviousBalance: t.PreviousBalance,
		NewBalance:      t.NewBalance,
		ReferenceID:     t.ReferenceID,
		DeclaredDate:    t.DeclaredDate,
		Payer:           t.Payer,
		Bank:            t.Bank,
		RecordedAt:      t.RecordedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// ListTransactionsResponse is a page of account history.
type ListTransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Limit        int                    `json:"limit"`
	Offset       int                    `json:"offset"`
}

// DebtorResponse is one row of the debtor ranking.
type DebtorResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
}

// ListDebtorsResponse is the debtor ranking with its total.
type ListDebtorsResponse struct {
	Debtors []DebtorResponse `json:"debtors"`
	Total   decimal.Decimal  `json:"total"`
}

// DebtorsFromDomain builds the ranking response.
func DebtorsFromDomain(debtors []domain.Debtor) ListDebtorsResponse {
	resp := ListDebtorsResponse{
		Debtors: make([]DebtorResponse, len(debtors)),
		Total:   decimal.Zero,
	}

	for i, d := range debtors {
		resp.Debtors[i] = DebtorResponse{AccountID: d.AccountID, Balance: d.Balance}
		resp.Total = resp.Total.Add(d.Balance)
	}

	return resp
}

// WebhookResponse acknowledges a gateway event.
type WebhookResponse struct {
	Status string `json:"status"`
}
