package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/debtledger/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	Exists(ctx context.Context, id string) (bool, error)
	// EnsureTx creates a zero-balance account if none exists.
	EnsureTx(ctx context.Context, tx Tx, id string, now time.Time) error
	GetByIDForUpdate(ctx context.Context, tx Tx, id string) (*domain.Account, error)
	// UpdateBalanceTx writes a new balance; clearDue also unsets the due date and reminder marker.
	UpdateBalanceTx(ctx context.Context, tx Tx, id string, balance decimal.Decimal, clearDue bool, updatedAt time.Time) error
	UpsertBalance(ctx context.Context, id string, balance decimal.Decimal, updatedAt time.Time) error
	// SetDueDate sets the due date and clears the reminder marker. Returns ErrAccountNotFound for unknown accounts.
	SetDueDate(ctx context.Context, id, dueDate string, updatedAt time.Time) error
	MarkReminderSent(ctx context.Context, id, day string) error
	ListDebtors(ctx context.Context) ([]domain.Debtor, error)
	ListWithDueDate(ctx context.Context) ([]*domain.Account, error)
	DeleteTx(ctx context.Context, tx Tx, id string) error
}

// TransactionRepository defines data access for the ledger history.
type TransactionRepository interface {
	// CreateTx appends a row. A reference id that already exists yields ErrDuplicateReference.
	CreateTx(ctx context.Context, tx Tx, txn *domain.Transaction) error
	// ExistsByReferenceOrDate reports whether any row carries the reference id or the declared date.
	// Empty values never match.
	ExistsByReferenceOrDate(ctx context.Context, referenceID, declaredDate string) (bool, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error)
	DeleteByAccountTx(ctx context.Context, tx Tx, accountID string) error
}

// Tx represents a database transaction.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxManager handles transaction lifecycle.
type TxManager interface {
	Begin(ctx context.Context) (Tx, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an operation on transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Messenger is the outbound side of the chat gateway. Delivery is fire-and-forget for callers.
type Messenger interface {
	SendText(ctx context.Context, channel, message string) error
	SendPoll(ctx context.Context, channel, question string, options []string) error
}

// ReceiptExtractor reads a receipt image into a typed result. It never returns an error.
type ReceiptExtractor interface {
	Extract(ctx context.Context, image []byte) domain.ExtractionResult
}

// DocumentConverter renders a document to a still image.
type DocumentConverter interface {
	ToImage(ctx context.Context, document []byte) ([]byte, error)
}

// ReceiptArchive keeps a copy of every image sent to extraction.
type ReceiptArchive interface {
	Store(ctx context.Context, accountID string, image []byte) (string, error)
}

// EventDeduplicator remembers gateway event ids.
type EventDeduplicator interface {
	// FirstSeen records id and reports whether it had not been seen within ttl.
	FirstSeen(ctx context.Context, id string, ttl time.Duration) (bool, error)
	// Forget drops id so a redelivery is processed again.
	Forget(ctx context.Context, id string) error
}

// IdempotentResponse is a completed admin API response kept for replay.
type IdempotentResponse struct {
	StatusCode int    `json:"status_code"`
	Body       []byte `json:"body"`
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// Reserve claims key for a new request. It returns the stored response when the key already
	// completed, nil when the caller now owns the key, and ErrRequestInFlight while another
	// request holds it.
	Reserve(ctx context.Context, key string, ttl time.Duration) (*IdempotentResponse, error)
	// Complete stores the final response for key.
	Complete(ctx context.Context, key string, resp IdempotentResponse, ttl time.Duration) error
	// Release drops a reservation so the request can be retried.
	Release(ctx context.Context, key string) error
}
