package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/infrastructure/postgres/generated"
	"github.com/iho/debtledger/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return newAccountRepository(pool)
}

func newAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{queries: generated.New(db)}
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// Exists reports whether the account row exists.
func (r *AccountRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.queries.AccountExists(ctx, id)
}

// EnsureTx inserts a zero-balance account unless one exists.
func (r *AccountRepository) EnsureTx(ctx context.Context, tx usecase.Tx, id string, now time.Time) error {
	return txQueries(tx).EnsureAccount(ctx, generated.EnsureAccountParams{
		ID:        id,
		CreatedAt: timeToPgTimestamptz(now),
	})
}

// GetByIDForUpdate retrieves an account by ID with a FOR UPDATE lock.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Tx, id string) (*domain.Account, error) {
	row, err := txQueries(tx).GetAccountByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// UpdateBalanceTx writes the balance. With clearDue the due date and reminder marker are unset.
func (r *AccountRepository) UpdateBalanceTx(ctx context.Context, tx usecase.Tx, id string, balance decimal.Decimal, clearDue bool, updatedAt time.Time) error {
	queries := txQueries(tx)

	if clearDue {
		return queries.UpdateAccountBalanceClearDue(ctx, generated.UpdateAccountBalanceClearDueParams{
			ID:        id,
			Balance:   decimalToNumeric(balance),
			UpdatedAt: timeToPgTimestamptz(updatedAt),
		})
	}

	return queries.UpdateAccountBalance(ctx, generated.UpdateAccountBalanceParams{
		ID:        id,
		Balance:   decimalToNumeric(balance),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
}

// UpsertBalance overwrites the balance, creating the account if needed.
func (r *AccountRepository) UpsertBalance(ctx context.Context, id string, balance decimal.Decimal, updatedAt time.Time) error {
	return r.queries.UpsertAccountBalance(ctx, generated.UpsertAccountBalanceParams{
		ID:        id,
		Balance:   decimalToNumeric(balance),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
}

// SetDueDate sets the due date and clears the reminder marker.
func (r *AccountRepository) SetDueDate(ctx context.Context, id, dueDate string, updatedAt time.Time) error {
	affected, err := r.queries.SetAccountDueDate(ctx, generated.SetAccountDueDateParams{
		ID:        id,
		DueDate:   stringToPgText(dueDate),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return err
	}

	if affected == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// MarkReminderSent records the ISO day of the last reminder.
func (r *AccountRepository) MarkReminderSent(ctx context.Context, id, day string) error {
	return r.queries.MarkAccountReminder(ctx, generated.MarkAccountReminderParams{
		ID:           id,
		LastReminder: stringToPgText(day),
	})
}

// ListDebtors returns accounts with a positive balance, largest first.
func (r *AccountRepository) ListDebtors(ctx context.Context) ([]domain.Debtor, error) {
	rows, err := r.queries.ListDebtors(ctx)
	if err != nil {
		return nil, err
	}

	debtors := make([]domain.Debtor, 0, len(rows))
	for _, row := range rows {
		debtors = append(debtors, domain.Debtor{
			AccountID: row.ID,
			Balance:   numericToDecimal(row.Balance),
		})
	}

	return debtors, nil
}

// ListWithDueDate returns every account with a due date.
func (r *AccountRepository) ListWithDueDate(ctx context.Context) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccountsWithDueDate(ctx)
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

// DeleteTx removes the account row.
func (r *AccountRepository) DeleteTx(ctx context.Context, tx usecase.Tx, id string) error {
	return txQueries(tx).DeleteAccount(ctx, id)
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:           row.ID,
		Balance:      numericToDecimal(row.Balance),
		DueDate:      row.DueDate.String,
		LastReminder: row.LastReminder.String,
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
	}
}

func txQueries(tx usecase.Tx) *generated.Queries {
	return generated.New(tx.(*Tx).PgxTx())
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

// stringToPgText maps the empty string to NULL.
func stringToPgText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
