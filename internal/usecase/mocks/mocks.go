package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wrob/paygate/internal/domain"
	"github.com/wrob/paygate/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc              func(ctx context.Context, account *domain.Account) error
	GetByIBANFunc           func(ctx context.Context, iban string) (*domain.Account, error)
	GetByIBANForUpdateFunc  func(ctx context.Context, tx usecase.Tx, iban string) (*domain.Account, error)
	GetByIBANsForUpdateFunc func(ctx context.Context, tx usecase.Tx, ibans []string) ([]*domain.Account, error)
	UpdateBalanceFunc       func(ctx context.Context, tx usecase.Tx, iban string, balance decimal.Decimal, updatedAt time.Time) error
	ListFunc                func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.IBAN]; ok {
		return domain.ErrDuplicateIBAN
	}
	m.accounts[account.IBAN] = account
	return nil
}

func (m *MockAccountRepository) GetByIBAN(ctx context.Context, iban string) (*domain.Account, error) {
	if m.GetByIBANFunc != nil {
		return m.GetByIBANFunc(ctx, iban)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[iban]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIBANForUpdate(ctx context.Context, tx usecase.Tx, iban string) (*domain.Account, error) {
	if m.GetByIBANForUpdateFunc != nil {
		return m.GetByIBANForUpdateFunc(ctx, tx, iban)
	}
	return m.GetByIBAN(ctx, iban)
}

func (m *MockAccountRepository) GetByIBANsForUpdate(ctx context.Context, tx usecase.Tx, ibans []string) ([]*domain.Account, error) {
	if m.GetByIBANsForUpdateFunc != nil {
		return m.GetByIBANsForUpdateFunc(ctx, tx, ibans)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, iban := range ibans {
		if acc, ok := m.accounts[iban]; ok {
			accounts = append(accounts, acc)
		}
	}
	return accounts, nil
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Tx, iban string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, iban, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if acc, ok := m.accounts[iban]; ok {
		acc.Balance = balance
		acc.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var accounts []*domain.Account
	for _, acc := range m.accounts {
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu           sync.RWMutex
	nextID       int64
	transactions []*domain.Transaction

	CreateFunc        func(ctx context.Context, tx usecase.Tx, txn *domain.Transaction) error
	GetByIDFunc       func(ctx context.Context, id int64) (*domain.Transaction, error)
	ListByAccountFunc func(ctx context.Context, iban string, limit, offset int) ([]*domain.Transaction, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Tx, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	txn.ID = m.nextID
	m.transactions = append(m.transactions, txn)
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, txn := range m.transactions {
		if txn.ID == id {
			return txn, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (m *MockTransactionRepository) ListByAccount(ctx context.Context, iban string, limit, offset int) ([]*domain.Transaction, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, iban, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Transaction
	for _, txn := range m.transactions {
		if txn.BankIBAN == iban {
			result = append(result, txn)
		}
	}
	return result, nil
}

// All returns every record inserted, for asserting on side effects.
func (m *MockTransactionRepository) All() []*domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.Transaction(nil), m.transactions...)
}

// MockCardRepository is a mock implementation of CardRepository.
type MockCardRepository struct {
	mu    sync.RWMutex
	cards map[string]*domain.Card

	CreateFunc      func(ctx context.Context, card *domain.Card) error
	GetByNumberFunc func(ctx context.Context, number string) (*domain.Card, error)
	SetValidityFunc func(ctx context.Context, number string, valid bool, updatedAt time.Time) error
}

func NewMockCardRepository() *MockCardRepository {
	return &MockCardRepository{
		cards: make(map[string]*domain.Card),
	}
}

func (m *MockCardRepository) Create(ctx context.Context, card *domain.Card) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, card)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.cards[card.Number]; ok {
		return domain.ErrDuplicateCard
	}
	for _, existing := range m.cards {
		if existing.AccountIBAN == card.AccountIBAN && existing.Network == card.Network {
			return domain.ErrCardNetworkTaken
		}
	}
	m.cards[card.Number] = card
	return nil
}

func (m *MockCardRepository) GetByNumber(ctx context.Context, number string) (*domain.Card, error) {
	if m.GetByNumberFunc != nil {
		return m.GetByNumberFunc(ctx, number)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if card, ok := m.cards[number]; ok {
		return card, nil
	}
	return nil, domain.ErrCardNotFound
}

func (m *MockCardRepository) SetValidity(ctx context.Context, number string, valid bool, updatedAt time.Time) error {
	if m.SetValidityFunc != nil {
		return m.SetValidityFunc(ctx, number, valid, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if card, ok := m.cards[number]; ok {
		card.Valid = valid
		return nil
	}
	return domain.ErrCardNotFound
}

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order

	CreateFunc     func(ctx context.Context, order *domain.Order) error
	GetByIDFunc    func(ctx context.Context, id string) (*domain.Order, error)
	MarkPaidFunc   func(ctx context.Context, id string, paidAt time.Time) error
	MarkUnpaidFunc func(ctx context.Context, id string) error
}

func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]*domain.Order),
	}
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, order)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
	return nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if order, ok := m.orders[id]; ok {
		return order, nil
	}
	return nil, domain.ErrOrderNotFound
}

func (m *MockOrderRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time) error {
	if m.MarkPaidFunc != nil {
		return m.MarkPaidFunc(ctx, id, paidAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if order.IsPaid {
		return domain.ErrOrderAlreadyPaid
	}
	order.MarkPaid(paidAt)
	return nil
}

func (m *MockOrderRepository) MarkUnpaid(ctx context.Context, id string) error {
	if m.MarkUnpaidFunc != nil {
		return m.MarkUnpaidFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if order, ok := m.orders[id]; ok {
		order.MarkUnpaid()
		return nil
	}
	return domain.ErrOrderNotFound
}

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	CheckConsistencyFunc func(ctx context.Context) (decimal.Decimal, decimal.Decimal, error)
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{}
}

func (m *MockLedgerRepository) CheckConsistency(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	if m.CheckConsistencyFunc != nil {
		return m.CheckConsistencyFunc(ctx)
	}
	return decimal.Zero, decimal.Zero, nil
}

// MockTx is a mock storage transaction.
type MockTx struct {
	Committed  bool
	RolledBack bool

	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (t *MockTx) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.Committed = true
	return nil
}

func (t *MockTx) Rollback(ctx context.Context) error {
	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTxManager is a mock implementation of TxManager.
type MockTxManager struct {
	mu  sync.Mutex
	txs []*MockTx

	BeginFunc func(ctx context.Context) (usecase.Tx, error)
}

func NewMockTxManager() *MockTxManager {
	return &MockTxManager{}
}

func (m *MockTxManager) Begin(ctx context.Context) (usecase.Tx, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := &MockTx{}
	m.txs = append(m.txs, tx)
	return tx, nil
}

// Txs returns every transaction handed out, for asserting on rollbacks.
func (m *MockTxManager) Txs() []*MockTx {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*MockTx(nil), m.txs...)
}

// MockRetrier runs the operation once with no backoff.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, op func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, op func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, op)
	}
	return op()
}

// MockIDGenerator generates sequential IDs.
type MockIDGenerator struct {
	mu   sync.Mutex
	next int

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
	m.next++
	return fmt.Sprintf("id-%d", m.next)
}
