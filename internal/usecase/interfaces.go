package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wrob/paygate/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByIBAN(ctx context.Context, iban string) (*domain.Account, error)
	GetByIBANForUpdate(ctx context.Context, tx Tx, iban string) (*domain.Account, error)
	GetByIBANsForUpdate(ctx context.Context, tx Tx, ibans []string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Tx, iban string, balance decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// TransactionRepository defines data access for ledger records.
type TransactionRepository interface {
	Create(ctx context.Context, tx Tx, txn *domain.Transaction) error
	GetByID(ctx context.Context, id int64) (*domain.Transaction, error)
	ListByAccount(ctx context.Context, iban string, limit, offset int) ([]*domain.Transaction, error)
}

// CardRepository defines data access for cards.
type CardRepository interface {
	Create(ctx context.Context, card *domain.Card) error
	GetByNumber(ctx context.Context, number string) (*domain.Card, error)
	SetValidity(ctx context.Context, number string, valid bool, updatedAt time.Time) error
}

// OrderRepository defines data access for orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	// MarkPaid atomically claims an unpaid order; a paid order is
	// reported as domain.ErrOrderAlreadyPaid.
	MarkPaid(ctx context.Context, id string, paidAt time.Time) error
	// MarkUnpaid releases a claim after a failed settlement.
	MarkUnpaid(ctx context.Context, id string) error
}

// LedgerRepository defines ledger-wide data access.
type LedgerRepository interface {
	// CheckConsistency returns the net balance movement across all accounts
	// (balance minus opening balance) and the signed sum of all ledger
	// records; the two must match on a consistent ledger.
	CheckConsistency(ctx context.Context) (netBalance, netRecorded decimal.Decimal, err error)
}

// Tx represents a storage transaction scope.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxManager handles storage transaction lifecycle.
type TxManager interface {
	Begin(ctx context.Context) (Tx, error)
}

// Retrier re-runs an operation when the storage layer reports a transient
// conflict (deadlock, serialization failure).
type Retrier interface {
	Retry(ctx context.Context, op func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
