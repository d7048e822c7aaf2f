package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/infrastructure/postgres/generated"
	"github.com/iho/debtledger/internal/usecase"
)

const (
	pgErrUniqueViolation = "23505"

	referenceConstraint = "transactions_reference_id_key"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	queries *generated.Queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return newTransactionRepository(pool)
}

func newTransactionRepository(db generated.DBTX) *TransactionRepository {
	return &TransactionRepository{queries: generated.New(db)}
}

// CreateTx appends a ledger row inside tx.
func (r *TransactionRepository) CreateTx(ctx context.Context, tx usecase.Tx, txn *domain.Transaction) error {
	err := txQueries(tx).CreateTransaction(ctx, generated.CreateTransactionParams{
		ID:              txn.ID,
		AccountID:       txn.AccountID,
		Category:        string(txn.Category),
		Amount:          decimalToNumeric(txn.Amount),
		PreviousBalance: decimalToNumeric(txn.PreviousBalance),
		NewBalance:      decimalToNumeric(txn.NewBalance),
		ReferenceID:     stringToPgText(txn.ReferenceID),
		DeclaredDate:    stringToPgText(txn.DeclaredDate),
		Payer:           stringToPgText(txn.Payer),
		Bank:            stringToPgText(txn.Bank),
		RecordedAt:      timeToPgTimestamptz(txn.RecordedAt),
	})
	if isDuplicateReference(err) {
		return domain.ErrDuplicateReference
	}

	return err
}

// ExistsByReferenceOrDate reports whether any row carries the reference id or the declared date.
// Empty values are sent as NULL and never match.
func (r *TransactionRepository) ExistsByReferenceOrDate(ctx context.Context, referenceID, declaredDate string) (bool, error) {
	return r.queries.TransactionExistsByReferenceOrDate(ctx, generated.TransactionExistsByReferenceOrDateParams{
		ReferenceID:  stringToPgText(referenceID),
		DeclaredDate: stringToPgText(declaredDate),
	})
}

// ListByAccount returns the account's rows, newest first.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	rows, err := r.queries.ListTransactionsByAccount(ctx, generated.ListTransactionsByAccountParams{
		AccountID: accountID,
		Limit:     int32(limit),
		Offset:    int32(offset),
	})
	if err != nil {
		return nil, err
	}

	txns := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		txns = append(txns, rowToTransaction(row))
	}

	return txns, nil
}

// DeleteByAccountTx removes every row of the account.
func (r *TransactionRepository) DeleteByAccountTx(ctx context.Context, tx usecase.Tx, accountID string) error {
	return txQueries(tx).DeleteTransactionsByAccount(ctx, accountID)
}

func rowToTransaction(row generated.Transaction) *domain.Transaction {
	return &domain.Transaction{
		ID:              row.ID,
		AccountID:       row.AccountID,
		Category:        domain.Category(row.Category),
		Amount:          numericToDecimal(row.Amount),
		PreviousBalance: numericToDecimal(row.PreviousBalance),
		NewBalance:      numericToDecimal(row.NewBalance),
		ReferenceID:     row.ReferenceID.String,
		DeclaredDate:    row.DeclaredDate.String,
		Payer:           row.Payer.String,
		Bank:            row.Bank.String,
		RecordedAt:      row.RecordedAt.Time,
	}
}

func isDuplicateReference(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}

	return pgErr.Code == pgErrUniqueViolation && pgErr.ConstraintName == referenceConstraint
}
