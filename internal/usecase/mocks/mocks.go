package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/usecase"
)

// FakeAccountRepository is an in-memory AccountRepository. Func fields override behavior.
type FakeAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	GetByIDFunc         func(ctx context.Context, id string) (*domain.Account, error)
	ExistsFunc          func(ctx context.Context, id string) (bool, error)
	UpdateBalanceTxFunc func(ctx context.Context, tx usecase.Tx, id string, balance decimal.Decimal, clearDue bool, updatedAt time.Time) error
	ListWithDueDateFunc func(ctx context.Context) ([]*domain.Account, error)
}

func NewFakeAccountRepository() *FakeAccountRepository {
	return &FakeAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// Put stores a copy of account.
func (m *FakeAccountRepository) Put(account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc := *account
	m.accounts[account.ID] = &acc
}

// Get returns a copy of the stored account, or nil.
func (m *FakeAccountRepository) Get(id string) *domain.Account {
	m.mu.RLock()
	defer m.mu.RUnlock()
	acc, ok := m.accounts[id]
	if !ok {
		return nil
	}
	out := *acc
	return &out
}

func (m *FakeAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	if acc := m.Get(id); acc != nil {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *FakeAccountRepository) Exists(ctx context.Context, id string) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, id)
	}
	return m.Get(id) != nil, nil
}

func (m *FakeAccountRepository) EnsureTx(ctx context.Context, tx usecase.Tx, id string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[id]; !ok {
		m.accounts[id] = &domain.Account{ID: id, Balance: decimal.Zero, CreatedAt: now, UpdatedAt: now}
	}
	return nil
}

func (m *FakeAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Tx, id string) (*domain.Account, error) {
	return m.GetByID(ctx, id)
}

func (m *FakeAccountRepository) UpdateBalanceTx(ctx context.Context, tx usecase.Tx, id string, balance decimal.Decimal, clearDue bool, updatedAt time.Time) error {
	if m.UpdateBalanceTxFunc != nil {
		return m.UpdateBalanceTxFunc(ctx, tx, id, balance, clearDue, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.Balance = balance
	acc.UpdatedAt = updatedAt
	if clearDue {
		acc.DueDate = ""
		acc.LastReminder = ""
	}
	return nil
}

func (m *FakeAccountRepository) UpsertBalance(ctx context.Context, id string, balance decimal.Decimal, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		acc = &domain.Account{ID: id, CreatedAt: updatedAt}
		m.accounts[id] = acc
	}
	acc.Balance = balance
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *FakeAccountRepository) SetDueDate(ctx context.Context, id, dueDate string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.DueDate = dueDate
	acc.LastReminder = ""
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *FakeAccountRepository) MarkReminderSent(ctx context.Context, id, day string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[id]; ok {
		acc.LastReminder = day
	}
	return nil
}

func (m *FakeAccountRepository) ListDebtors(ctx context.Context) ([]domain.Debtor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var debtors []domain.Debtor
	for _, acc := range m.accounts {
		if acc.Balance.IsPositive() {
			debtors = append(debtors, domain.Debtor{AccountID: acc.ID, Balance: acc.Balance})
		}
	}
	sort.Slice(debtors, func(i, j int) bool {
		return debtors[i].Balance.GreaterThan(debtors[j].Balance)
	})
	return debtors, nil
}

func (m *FakeAccountRepository) ListWithDueDate(ctx context.Context) ([]*domain.Account, error) {
	if m.ListWithDueDateFunc != nil {
		return m.ListWithDueDateFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		if acc.HasDueDate() {
			out := *acc
			accounts = append(accounts, &out)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

func (m *FakeAccountRepository) DeleteTx(ctx context.Context, tx usecase.Tx, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.accounts, id)
	return nil
}

// FakeTransactionRepository is an in-memory TransactionRepository enforcing unique reference ids.
type FakeTransactionRepository struct {
	mu   sync.RWMutex
	rows []*domain.Transaction

	CreateTxFunc func(ctx context.Context, tx usecase.Tx, txn *domain.Transaction) error
}

func NewFakeTransactionRepository() *FakeTransactionRepository {
	return &FakeTransactionRepository{}
}

// All returns every stored row in insertion order.
func (m *FakeTransactionRepository) All() []*domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.Transaction(nil), m.rows...)
}

func (m *FakeTransactionRepository) CreateTx(ctx context.Context, tx usecase.Tx, txn *domain.Transaction) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if txn.ReferenceID != "" {
		for _, row := range m.rows {
			if row.ReferenceID == txn.ReferenceID {
				return fmt.Errorf("%w: %s", domain.ErrDuplicateReference, txn.ReferenceID)
			}
		}
	}
	m.rows = append(m.rows, txn)
	return nil
}

func (m *FakeTransactionRepository) ExistsByReferenceOrDate(ctx context.Context, referenceID, declaredDate string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, row := range m.rows {
		if referenceID != "" && row.ReferenceID == referenceID {
			return true, nil
		}
		if declaredDate != "" && row.DeclaredDate == declaredDate {
			return true, nil
		}
	}
	return false, nil
}

func (m *FakeTransactionRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Transaction
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].AccountID == accountID {
			out = append(out, m.rows[i])
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *FakeTransactionRepository) DeleteByAccountTx(ctx context.Context, tx usecase.Tx, accountID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.rows[:0]
	for _, row := range m.rows {
		if row.AccountID != accountID {
			kept = append(kept, row)
		}
	}
	m.rows = kept
	return nil
}

// FakeTxManager hands out FakeTx values.
type FakeTxManager struct {
	BeginFunc func(ctx context.Context) (usecase.Tx, error)
}

func NewFakeTxManager() *FakeTxManager {
	return &FakeTxManager{}
}

func (m *FakeTxManager) Begin(ctx context.Context) (usecase.Tx, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &FakeTx{}, nil
}

// FakeTx is a no-op Tx.
type FakeTx struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *FakeTx) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *FakeTx) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// FakeIDGenerator returns sequential ids.
type FakeIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewFakeIDGenerator() *FakeIDGenerator {
	return &FakeIDGenerator{}
}

func (m *FakeIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("ID%04d", m.counter)
}

// FakeRetrier runs the operation once.
type FakeRetrier struct {
	Calls int
}

func (r *FakeRetrier) Retry(ctx context.Context, operation func() error) error {
	r.Calls++
	return operation()
}

// FakeEventDeduplicator remembers ids forever.
type FakeEventDeduplicator struct {
	mu   sync.Mutex
	seen map[string]bool

	FirstSeenFunc func(ctx context.Context, id string, ttl time.Duration) (bool, error)
	Forgotten     []string
}

func NewFakeEventDeduplicator() *FakeEventDeduplicator {
	return &FakeEventDeduplicator{seen: make(map[string]bool)}
}

func (m *FakeEventDeduplicator) FirstSeen(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	if m.FirstSeenFunc != nil {
		return m.FirstSeenFunc(ctx, id, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen[id] {
		return false, nil
	}
	m.seen[id] = true
	return true, nil
}

func (m *FakeEventDeduplicator) Forget(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.seen, id)
	m.Forgotten = append(m.Forgotten, id)
	return nil
}

// SentMessage is one message captured by RecordingMessenger.
type SentMessage struct {
	Channel string
	Text    string
	Options []string
	Poll    bool
}

// RecordingMessenger captures outbound messages.
type RecordingMessenger struct {
	mu   sync.Mutex
	sent []SentMessage

	SendTextErr error
}

func NewRecordingMessenger() *RecordingMessenger {
	return &RecordingMessenger{}
}

func (m *RecordingMessenger) SendText(ctx context.Context, channel, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendTextErr != nil {
		return m.SendTextErr
	}
	m.sent = append(m.sent, SentMessage{Channel: channel, Text: message})
	return nil
}

func (m *RecordingMessenger) SendPoll(ctx context.Context, channel, question string, options []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentMessage{Channel: channel, Text: question, Options: options, Poll: true})
	return nil
}

// Sent returns every captured message.
func (m *RecordingMessenger) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentMessage(nil), m.sent...)
}

// To returns the messages sent to channel.
func (m *RecordingMessenger) To(channel string) []SentMessage {
	var out []SentMessage
	for _, msg := range m.Sent() {
		if msg.Channel == channel {
			out = append(out, msg)
		}
	}
	return out
}

// Polls returns the polls sent to channel.
func (m *RecordingMessenger) Polls(channel string) []SentMessage {
	var out []SentMessage
	for _, msg := range m.To(channel) {
		if msg.Poll {
			out = append(out, msg)
		}
	}
	return out
}

// FakeIdempotencyStore keeps reservations and responses in memory.
type FakeIdempotencyStore struct {
	mu        sync.Mutex
	pending   map[string]bool
	responses map[string]usecase.IdempotentResponse

	ReserveErr error
}

func NewFakeIdempotencyStore() *FakeIdempotencyStore {
	return &FakeIdempotencyStore{
		pending:   make(map[string]bool),
		responses: make(map[string]usecase.IdempotentResponse),
	}
}

func (m *FakeIdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (*usecase.IdempotentResponse, error) {
	if m.ReserveErr != nil {
		return nil, m.ReserveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if resp, ok := m.responses[key]; ok {
		return &resp, nil
	}
	if m.pending[key] {
		return nil, domain.ErrRequestInFlight
	}
	m.pending[key] = true
	return nil, nil
}

func (m *FakeIdempotencyStore) Complete(ctx context.Context, key string, resp usecase.IdempotentResponse, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, key)
	m.responses[key] = resp
	return nil
}

func (m *FakeIdempotencyStore) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, key)
	return nil
}
