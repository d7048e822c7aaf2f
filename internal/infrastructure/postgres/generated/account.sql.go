package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const accountExists = `-- name: AccountExists :one
SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)
`

func (q *Queries) AccountExists(ctx context.Context, id string) (bool, error) {
	row := q.db.QueryRow(ctx, accountExists, id)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const deleteAccount = `-- name: DeleteAccount :exec
DELETE FROM accounts WHERE id = $1
`

func (q *Queries) DeleteAccount(ctx context.Context, id string) error {
	_, err := q.db.Exec(ctx, deleteAccount, id)
	return err
}

const ensureAccount = `-- name: EnsureAccount :exec
INSERT INTO accounts (id, balance, created_at, updated_at)
VALUES ($1, 0, $2, $2)
ON CONFLICT (id) DO NOTHING
`

type EnsureAccountParams struct {
	ID        string             `json:"id"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

func (q *Queries) EnsureAccount(ctx context.Context, arg EnsureAccountParams) error {
	_, err := q.db.Exec(ctx, ensureAccount, arg.ID, arg.CreatedAt)
	return err
}

const getAccountByID = `-- name: GetAccountByID :one
SELECT id, balance, due_date, last_reminder, created_at, updated_at FROM accounts WHERE id = $1
`

func (q *Queries) GetAccountByID(ctx context.Context, id string) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByID, id)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.Balance,
		&i.DueDate,
		&i.LastReminder,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getAccountByIDForUpdate = `-- name: GetAccountByIDForUpdate :one
SELECT id, balance, due_date, last_reminder, created_at, updated_at FROM accounts WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetAccountByIDForUpdate(ctx context.Context, id string) (Account, error) {
	row := q.db.QueryRow(ctx, getAccountByIDForUpdate, id)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.Balance,
		&i.DueDate,
		&i.LastReminder,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listAccountsWithDueDate = `-- name: ListAccountsWithDueDate :many
SELECT id, balance, due_date, last_reminder, created_at, updated_at FROM accounts
WHERE due_date IS NOT NULL
ORDER BY id
`

func (q *Queries) ListAccountsWithDueDate(ctx context.Context) ([]Account, error) {
	rows, err := q.db.Query(ctx, listAccountsWithDueDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.ID,
			&i.Balance,
			&i.DueDate,
			&i.LastReminder,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const listDebtors = `-- name: ListDebtors :many
SELECT id, balance FROM accounts
WHERE balance > 0
ORDER BY balance DESC, id
`

type ListDebtorsRow struct {
	ID      string         `json:"id"`
	Balance pgtype.Numeric `json:"balance"`
}

func (q *Queries) ListDebtors(ctx context.Context) ([]ListDebtorsRow, error) {
	rows, err := q.db.Query(ctx, listDebtors)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListDebtorsRow
	for rows.Next() {
		var i ListDebtorsRow
		if err := rows.Scan(&i.ID, &i.Balance); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const markAccountReminder = `-- name: MarkAccountReminder :exec
UPDATE accounts SET last_reminder = $2 WHERE id = $1
`

type MarkAccountReminderParams struct {
	ID           string      `json:"id"`
	LastReminder pgtype.Text `json:"last_reminder"`
}

func (q *Queries) MarkAccountReminder(ctx context.Context, arg MarkAccountReminderParams) error {
	_, err := q.db.Exec(ctx, markAccountReminder, arg.ID, arg.LastReminder)
	return err
}

const setAccountDueDate = `-- name: SetAccountDueDate :execrows
UPDATE accounts SET due_date = $2, last_reminder = NULL, updated_at = $3 WHERE id = $1
`

type SetAccountDueDateParams struct {
	ID        string             `json:"id"`
	DueDate   pgtype.Text        `json:"due_date"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) SetAccountDueDate(ctx context.Context, arg SetAccountDueDateParams) (int64, error) {
	result, err := q.db.Exec(ctx, setAccountDueDate, arg.ID, arg.DueDate, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const updateAccountBalance = `-- name: UpdateAccountBalance :exec
UPDATE accounts SET balance = $2, updated_at = $3 WHERE id = $1
`

type UpdateAccountBalanceParams struct {
	ID        string             `json:"id"`
	Balance   pgtype.Numeric     `json:"balance"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateAccountBalance(ctx context.Context, arg UpdateAccountBalanceParams) error {
	_, err := q.db.Exec(ctx, updateAccountBalance, arg.ID, arg.Balance, arg.UpdatedAt)
	return err
}

const updateAccountBalanceClearDue = `-- name: UpdateAccountBalanceClearDue :exec
UPDATE accounts SET balance = $2, due_date = NULL, last_reminder = NULL, updated_at = $3 WHERE id = $1
`

type UpdateAccountBalanceClearDueParams struct {
	ID        string             `json:"id"`
	Balance   pgtype.Numeric     `json:"balance"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateAccountBalanceClearDue(ctx context.Context, arg UpdateAccountBalanceClearDueParams) error {
	_, err := q.db.Exec(ctx, updateAccountBalanceClearDue, arg.ID, arg.Balance, arg.UpdatedAt)
	return err
}

const upsertAccountBalance = `-- name: UpsertAccountBalance :exec
INSERT INTO accounts (id, balance, created_at, updated_at)
VALUES ($1, $2, $3, $3)
ON CONFLICT (id) DO UPDATE SET balance = EXCLUDED.balance, updated_at = EXCLUDED.updated_at
`

type UpsertAccountBalanceParams struct {
	ID        string             `json:"id"`
	Balance   pgtype.Numeric     `json:"balance"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpsertAccountBalance(ctx context.Context, arg UpsertAccountBalanceParams) error {
	_, err := q.db.Exec(ctx, upsertAccountBalance, arg.ID, arg.Balance, arg.UpdatedAt)
	return err
}
