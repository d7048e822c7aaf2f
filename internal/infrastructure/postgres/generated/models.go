package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Account struct {
	ID           string             `json:"id"`
	Balance      pgtype.Numeric     `json:"balance"`
	DueDate      pgtype.Text        `json:"due_date"`
	LastReminder pgtype.Text        `json:"last_reminder"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
	UpdatedAt    pgtype.Timestamptz `json:"updated_at"`
}

type Transaction struct {
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
