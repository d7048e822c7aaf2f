package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/debtledger/internal/domain"
)

// LedgerUseCase owns account balances and the transaction history.
type LedgerUseCase struct {
	txManager   TxManager
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	idGen       IDGenerator
	retrier     Retrier
	metrics     MetricsRecorder
	locks       *accountLocks
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TxManager,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	idGen IDGenerator,
	retrier Retrier,
	metrics MetricsRecorder,
) *LedgerUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}

	return &LedgerUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		idGen:       idGen,
		retrier:     retrier,
		metrics:     metrics,
		locks:       newAccountLocks(),
	}
}

// GetBalance returns the account, or a zero-balance account without due date if it does not exist.
func (uc *LedgerUseCase) GetBalance(ctx context.Context, accountID string) (*domain.Account, error) {
	if err := domain.ValidateAccountID(accountID); err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return &domain.Account{ID: accountID, Balance: decimal.Zero}, nil
	}
	if err != nil {
		return nil, err
	}

	return account, nil
}

// AccountExists reports whether the account has ever been created.
func (uc *LedgerUseCase) AccountExists(ctx context.Context, accountID string) (bool, error) {
	return uc.accountRepo.Exists(ctx, accountID)
}

// SetBalance overwrites the balance, creating the account if needed. The value is rounded up.
func (uc *LedgerUseCase) SetBalance(ctx context.Context, accountID string, value decimal.Decimal) (decimal.Decimal, error) {
	if err := domain.ValidateAccountID(accountID); err != nil {
		return decimal.Zero, err
	}

	balance := domain.RoundUp(value)

	unlock := uc.locks.lock(accountID)
	defer unlock()

	if err := uc.accountRepo.UpsertBalance(ctx, accountID, balance, time.Now().UTC()); err != nil {
		return decimal.Zero, err
	}

	return balance, nil
}

// SetDueDate sets a dd/mm due date and clears the reminder marker.
func (uc *LedgerUseCase) SetDueDate(ctx context.Context, accountID, rawDate string) (string, error) {
	if err := domain.ValidateAccountID(accountID); err != nil {
		return "", err
	}

	dueDate, err := domain.ParseDueDate(rawDate)
	if err != nil {
		return "", err
	}

	if err := uc.accountRepo.SetDueDate(ctx, accountID, dueDate, time.Now().UTC()); err != nil {
		return "", err
	}

	return dueDate, nil
}

// IsDuplicate reports whether a receipt's reference id or declared date was already committed.
// The date match is global across accounts.
func (uc *LedgerUseCase) IsDuplicate(ctx context.Context, referenceID, declaredDate string) (bool, error) {
	if referenceID == "" && declaredDate == "" {
		return false, nil
	}

	return uc.txnRepo.ExistsByReferenceOrDate(ctx, referenceID, declaredDate)
}

// Commit applies an approved proposal atomically and returns the written transaction.
// Commits on the same account are serialized in-process and by a row lock.
func (uc *LedgerUseCase) Commit(ctx context.Context, p *domain.Proposal) (*domain.Transaction, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	unlock := uc.locks.lock(p.AccountID)
	defer unlock()

	var txn *domain.Transaction

	err := uc.retrier.Retry(ctx, func() error {
		var err error
		txn, err = uc.commit(ctx, p)
		return err
	})
	if err != nil {
		uc.metrics.CommitFailed(commitFailureReason(err))
		return nil, err
	}

	uc.metrics.CommitSucceeded(p.Category)

	return txn, nil
}

func (uc *LedgerUseCase) commit(ctx context.Context, p *domain.Proposal) (*domain.Transaction, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(txCtx)

	now := time.Now().UTC()

	if err := uc.accountRepo.EnsureTx(txCtx, tx, p.AccountID, now); err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, p.AccountID)
	if err != nil {
		return nil, err
	}

	delta := p.Delta()
	newBalance := account.ApplyDelta(delta)

	txn := &domain.Transaction{
		ID:              uc.idGen.Generate(),
		AccountID:       p.AccountID,
		Category:        p.Category,
		Payer:           p.Payer,
		Bank:            p.Bank,
		DeclaredDate:    p.DeclaredDate,
		ReferenceID:     p.ReferenceID,
		Amount:          delta,
		PreviousBalance: account.Balance,
		NewBalance:      newBalance,
		RecordedAt:      now,
	}

	if err := uc.txnRepo.CreateTx(txCtx, tx, txn); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalanceTx(txCtx, tx, p.AccountID, newBalance, domain.IsSettledBalance(newBalance), now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return txn, nil
}

// ListDebtors returns accounts with a positive balance, largest first.
func (uc *LedgerUseCase) ListDebtors(ctx context.Context) ([]domain.Debtor, error) {
	return uc.accountRepo.ListDebtors(ctx)
}

// History returns the account's transactions, newest first.
func (uc *LedgerUseCase) History(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	if err := domain.ValidateAccountID(accountID); err != nil {
		return nil, err
	}

	limit, offset = domain.ValidatePagination(limit, offset)

	return uc.txnRepo.ListByAccount(ctx, accountID, limit, offset)
}

// Purge deletes the account and its whole history. Unknown accounts are not an error.
func (uc *LedgerUseCase) Purge(ctx context.Context, accountID string) error {
	if err := domain.ValidateAccountID(accountID); err != nil {
		return err
	}

	unlock := uc.locks.lock(accountID)
	defer unlock()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return err
	}
	defer tx.Rollback(txCtx)

	if err := uc.txnRepo.DeleteByAccountTx(txCtx, tx, accountID); err != nil {
		return err
	}

	if err := uc.accountRepo.DeleteTx(txCtx, tx, accountID); err != nil {
		return err
	}

	return tx.Commit(txCtx)
}

// DueAccounts returns every account with a due date.
func (uc *LedgerUseCase) DueAccounts(ctx context.Context) ([]*domain.Account, error) {
	return uc.accountRepo.ListWithDueDate(ctx)
}

// MarkReminderSent records the day a reminder went out.
func (uc *LedgerUseCase) MarkReminderSent(ctx context.Context, accountID string, day time.Time) error {
	return uc.accountRepo.MarkReminderSent(ctx, accountID, day.Format(ReminderDayLayout))
}

func commitFailureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrDuplicateReference):
		return "duplicate_reference"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "storage"
	}
}

// accountLocks is a reference-counted mutex per account id.
type accountLocks struct {
	mu    sync.Mutex
	locks map[string]*accountLock
}

type accountLock struct {
	mu   sync.Mutex
	refs int
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[string]*accountLock)}
}

func (l *accountLocks) lock(id string) func() {
	l.mu.Lock()
	al, ok := l.locks[id]
	if !ok {
		al = &accountLock{}
		l.locks[id] = al
	}
	al.refs++
	l.mu.Unlock()

	al.mu.Lock()

	return func() {
		al.mu.Unlock()

		l.mu.Lock()
		al.refs--
		if al.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
