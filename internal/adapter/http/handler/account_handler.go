package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/debtledger/internal/adapter/http/dto"
	"github.com/iho/debtledger/internal/domain"
)

// LedgerService defines the behavior needed by AccountHandler.
type LedgerService interface {
	GetBalance(ctx context.Context, accountID string) (*domain.Account, error)
	History(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error)
	SetBalance(ctx context.Context, accountID string, value decimal.Decimal) (decimal.Decimal, error)
	SetDueDate(ctx context.Context, accountID, rawDate string) (string, error)
	Purge(ctx context.Context, accountID string) error
	ListDebtors(ctx context.Context) ([]domain.Debtor, error)
}

// AccountHandler serves the admin API over the ledger.
type AccountHandler struct {
	ledger LedgerService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(ledger LedgerService) *AccountHandler {
	return &AccountHandler{ledger: ledger}
}

// ListDebtors returns the debtor ranking.
func (h *AccountHandler) ListDebtors(w http.ResponseWriter, r *http.Request) {
	debtors, err := h.ledger.ListDebtors(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list debtors", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DebtorsFromDomain(debtors))
}

// Get returns an account. Unknown accounts read as a zero balance.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	account, err := h.ledger.GetBalance(r.Context(), accountParam(r))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// History lists an account's transactions, newest first.
func (h *AccountHandler) History(w http.ResponseWriter, r *http.Request) {
	page := dto.PaginationRequest{
		Limit:  parseIntQuery(r, "limit", 50),
		Offset: parseIntQuery(r, "offset", 0),
	}
	if err := page.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid pagination", err.Error())
		return
	}

	txns, err := h.ledger.History(r.Context(), accountParam(r), page.Limit, page.Offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromDomain(txns),
		Limit:        page.Limit,
		Offset:       page.Offset,
	})
}

// SetBalance overwrites the balance; the stored value is rounded up.
func (h *AccountHandler) SetBalance(w http.ResponseWriter, r *http.Request) {
	var req dto.SetBalanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	id := accountParam(r)
	if _, err := h.ledger.SetBalance(r.Context(), id, *req.Balance); err != nil {
		writeError(w, mapDomainError(err), "failed to set balance", err.Error())
		return
	}

	h.respondAccount(w, r, id)
}

// SetDueDate sets the dd/mm due date of an existing account.
func (h *AccountHandler) SetDueDate(w http.ResponseWriter, r *http.Request) {
	var req dto.SetDueDateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	id := accountParam(r)
	if _, err := h.ledger.SetDueDate(r.Context(), id, req.DueDate); err != nil {
		writeError(w, mapDomainError(err), "failed to set due date", err.Error())
		return
	}

	h.respondAccount(w, r, id)
}

// Delete purges the account and its history.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.Purge(r.Context(), accountParam(r)); err != nil {
		writeError(w, mapDomainError(err), "failed to delete account", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AccountHandler) respondAccount(w http.ResponseWriter, r *http.Request, id string) {
	account, err := h.ledger.GetBalance(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to read account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

func accountParam(r *http.Request) string {
	return domain.NormalizeAccountID(chi.URLParam(r, "id"))
}
