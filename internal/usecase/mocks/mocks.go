package mocks

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/clariohq/tokenledger/internal/domain"
	"github.com/clariohq/tokenledger/internal/usecase"
)

// MockWalletRepository is a mock implementation of WalletRepository backed
// by an in-memory map keyed by account id.
type MockWalletRepository struct {
	mu      sync.RWMutex
	wallets map[string]*domain.Wallet

	GetByAccountIDFunc       func(ctx context.Context, accountID string) (*domain.Wallet, error)
	GetOrCreateForUpdateFunc func(ctx context.Context, tx usecase.Transaction, accountID, newID string) (*domain.Wallet, bool, error)
	UpdateBalancesFunc       func(ctx context.Context, tx usecase.Transaction, id string, balance, reserved, version int64, updatedAt time.Time) error
}

func NewMockWalletRepository() *MockWalletRepository {
	return &MockWalletRepository{
		wallets: make(map[string]*domain.Wallet),
	}
}

// Seed inserts a wallet directly, bypassing the repository contract.
func (m *MockWalletRepository) Seed(w *domain.Wallet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[w.AccountID] = w
}

func (m *MockWalletRepository) GetByAccountID(ctx context.Context, accountID string) (*domain.Wallet, error) {
	if m.GetByAccountIDFunc != nil {
		return m.GetByAccountIDFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if w, ok := m.wallets[accountID]; ok {
		copied := *w
		return &copied, nil
	}
	return nil, domain.ErrWalletNotFound
}

func (m *MockWalletRepository) GetOrCreateForUpdate(ctx context.Context, tx usecase.Transaction, accountID, newID string) (*domain.Wallet, bool, error) {
	if m.GetOrCreateForUpdateFunc != nil {
		return m.GetOrCreateForUpdateFunc(ctx, tx, accountID, newID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if w, ok := m.wallets[accountID]; ok {
		copied := *w
		return &copied, false, nil
	}
	now := time.Now().UTC()
	w := &domain.Wallet{
		ID:        newID,
		AccountID: accountID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.wallets[accountID] = w
	copied := *w
	return &copied, true, nil
}

func (m *MockWalletRepository) UpdateBalances(ctx context.Context, tx usecase.Transaction, id string, balance, reserved, version int64, updatedAt time.Time) error {
	if m.UpdateBalancesFunc != nil {
		return m.UpdateBalancesFunc(ctx, tx, id, balance, reserved, version, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.wallets {
		if w.ID == id {
			w.Balance = balance
			w.Reserved = reserved
			w.Version = version
			w.UpdatedAt = updatedAt
			return nil
		}
	}
	return domain.ErrWalletNotFound
}

// MockEntryRepository is a mock implementation of EntryRepository.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries []*domain.LedgerEntry

	CreateFunc              func(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error
	ListByWalletFunc        func(ctx context.Context, walletID, cursor string, limit int) ([]*domain.LedgerEntry, error)
	OutstandingReservedFunc func(ctx context.Context, tx usecase.Transaction, walletID, reservationID string) (int64, error)
	ReplayTotalsFunc        func(ctx context.Context, walletID string) (int64, int64, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{}
}

// Entries returns a snapshot of everything created so far.
func (m *MockEntryRepository) Entries() []*domain.LedgerEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.LedgerEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockEntryRepository) ListByWallet(ctx context.Context, walletID, cursor string, limit int) ([]*domain.LedgerEntry, error) {
	if m.ListByWalletFunc != nil {
		return m.ListByWalletFunc(ctx, walletID, cursor, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Most recent first; the cursor is the id of the previous page's last entry.
	var out []*domain.LedgerEntry
	passed := cursor == ""
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := m.entries[i]
		if e.WalletID != walletID {
			continue
		}
		if !passed {
			if e.ID == cursor {
				passed = true
			}
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *MockEntryRepository) OutstandingReserved(ctx context.Context, tx usecase.Transaction, walletID, reservationID string) (int64, error) {
	if m.OutstandingReservedFunc != nil {
		return m.OutstandingReservedFunc(ctx, tx, walletID, reservationID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var outstanding int64
	for _, e := range m.entries {
		if e.WalletID != walletID || e.SourceReference != reservationID {
			continue
		}
		switch e.Type {
		case domain.EntryTypeReserve:
			outstanding += e.Amount
		case domain.EntryTypeRelease:
			outstanding -= e.Amount
		}
	}
	return outstanding, nil
}

func (m *MockEntryRepository) ReplayTotals(ctx context.Context, walletID string) (int64, int64, error) {
	if m.ReplayTotalsFunc != nil {
		return m.ReplayTotalsFunc(ctx, walletID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var scoped []*domain.LedgerEntry
	for _, e := range m.entries {
		if e.WalletID == walletID {
			scoped = append(scoped, e)
		}
	}
	balance, reserved := domain.Replay(scoped)
	return balance, reserved, nil
}

// MockIdempotencyRepository is a mock implementation of IdempotencyRepository.
type MockIdempotencyRepository struct {
	mu      sync.RWMutex
	records map[string]*domain.IdempotencyRecord

	GetFunc           func(ctx context.Context, tx usecase.Transaction, operation, key string) (*domain.IdempotencyRecord, error)
	CreateFunc        func(ctx context.Context, tx usecase.Transaction, record *domain.IdempotencyRecord) error
	DeleteFunc        func(ctx context.Context, tx usecase.Transaction, operation, key string) error
	DeleteExpiredFunc func(ctx context.Context, before time.Time) (int64, error)
}

func NewMockIdempotencyRepository() *MockIdempotencyRepository {
	return &MockIdempotencyRepository{
		records: make(map[string]*domain.IdempotencyRecord),
	}
}

func recordKey(operation, key string) string {
	return operation + "|" + key
}

func (m *MockIdempotencyRepository) Get(ctx context.Context, tx usecase.Transaction, operation, key string) (*domain.IdempotencyRecord, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, tx, operation, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if rec, ok := m.records[recordKey(operation, key)]; ok {
		copied := *rec
		return &copied, nil
	}
	return nil, nil
}

func (m *MockIdempotencyRepository) Create(ctx context.Context, tx usecase.Transaction, record *domain.IdempotencyRecord) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, record)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[recordKey(record.Operation, record.Key)] = record
	return nil
}

func (m *MockIdempotencyRepository) Delete(ctx context.Context, tx usecase.Transaction, operation, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, operation, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, recordKey(operation, key))
	return nil
}

func (m *MockIdempotencyRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	if m.DeleteExpiredFunc != nil {
		return m.DeleteExpiredFunc(ctx, before)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, rec := range m.records {
		if rec.ExpiresAt.Before(before) {
			delete(m.records, k)
			n++
		}
	}
	return n, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.OutboxEvent, len(m.events))
	copy(out, m.events)
	return out
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			out = append(out, e)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	return nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	m.RolledBack = true
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockRetrier is a mock implementation of Retrier that runs the operation
// exactly once.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	mu      sync.Mutex
	counter int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "id-" + itoa(m.counter)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu    sync.RWMutex
	items map[string]string

	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{items: make(map[string]string)}
}

var errCacheMiss = errors.New("cache miss")

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if v, ok := m.items[key]; ok {
		return v, nil
	}
	return "", errCacheMiss
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}
