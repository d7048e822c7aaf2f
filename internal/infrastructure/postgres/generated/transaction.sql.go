package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createTransaction = `-- name: CreateTransaction :exec
INSERT INTO transactions (id, account_id, category, amount, previous_balance, new_balance, reference_id, declared_date, payer, bank, recorded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
`

type CreateTransactionParams struct {
	ID              string             `json:"id"`
	AccountID       string             `json:"account_id"`
	Category        string             `json:"category"`
	Amount          pgtype.Numeric     `json:"amount"`
	PreviousBalance pgtype.Numeric     `json:"previous_balance"`
	NewBalance      pgtype.Numeric     `json:"new_balance"`
	ReferenceID     pgtype.Text        `json:"reference_id"`
	DeclaredDate    pgtype.Text        `json:"declared_date"`
	Payer           pgtype.Text        `json:"payer"`
	Bank            pgtype.Text        `json:"bank"`
	RecordedAt      pgtype.Timestamptz `json:"recorded_at"`
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) error {
	_, err := q.db.Exec(ctx, createTransaction,
		arg.ID,
		arg.AccountID,
		arg.Category,
		arg.Amount,
		arg.PreviousBalance,
		arg.NewBalance,
		arg.ReferenceID,
		arg.DeclaredDate,
		arg.Payer,
		arg.Bank,
		arg.RecordedAt,
	)
	return err
}

const deleteTransactionsByAccount = `-- name: DeleteTransactionsByAccount :exec
DELETE FROM transactions WHERE account_id = $1
`

func (q *Queries) DeleteTransactionsByAccount(ctx context.Context, accountID string) error {
	_, err := q.db.Exec(ctx, deleteTransactionsByAccount, accountID)
	return err
}

const listTransactionsByAccount = `-- name: ListTransactionsByAccount :many
SELECT id, account_id, category, amount, previous_balance, new_balance, reference_id, declared_date, payer, bank, recorded_at FROM transactions
WHERE account_id = $1
ORDER BY recorded_at DESC, id DESC
LIMIT $2 OFFSET $3
`

type ListTransactionsByAccountParams struct {
	AccountID string `json:"account_id"`
	Limit     int32  `json:"limit"`
	Offset    int32  `json:"offset"`
}

func (q *Queries) ListTransactionsByAccount(ctx context.Context, arg ListTransactionsByAccountParams) ([]Transaction, error) {
	rows, err := q.db.Query(ctx, listTransactionsByAccount, arg.AccountID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Transaction
	for rows.Next() {
		var i Transaction
		if err := rows.Scan(
			&i.ID,
			&i.AccountID,
			&i.Category,
			&i.Amount,
			&i.PreviousBalance,
			&i.NewBalance,
			&i.ReferenceID,
			&i.DeclaredDate,
			&i.Payer,
			&i.Bank,
			&i.RecordedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const transactionExistsByReferenceOrDate = `-- name: TransactionExistsByReferenceOrDate :one
SELECT EXISTS(
    SELECT 1 FROM transactions WHERE reference_id = $1 OR declared_date = $2
)
`

type TransactionExistsByReferenceOrDateParams struct {
	ReferenceID  pgtype.Text `json:"reference_id"`
	DeclaredDate pgtype.Text `json:"declared_date"`
}

func (q *Queries) TransactionExistsByReferenceOrDate(ctx context.Context, arg TransactionExistsByReferenceOrDateParams) (bool, error) {
	row := q.db.QueryRow(ctx, transactionExistsByReferenceOrDate, arg.ReferenceID, arg.DeclaredDate)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}
