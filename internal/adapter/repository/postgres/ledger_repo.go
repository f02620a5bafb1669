package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// CheckConsistency compares the net balance movement across all accounts
// with the signed sum of the recorded entries. Deposits count positive,
// withdrawals and transfers negative; the counterparty leg of a transfer is
// booked as a deposit, so a consistent ledger nets out to the same figure
// on both sides.
func (r *LedgerRepository) CheckConsistency(ctx context.Context) (netBalance, netRecorded decimal.Decimal, err error) {
	query := `
		SELECT
			(SELECT COALESCE(SUM(balance - opening_balance), 0) FROM accounts),
			(SELECT COALESCE(SUM(
				CASE WHEN type = 'DEPOSIT' THEN amount ELSE -amount END
			), 0) FROM transactions)
	`

	var balance, recorded pgtype.Numeric
	if err := r.pool.QueryRow(ctx, query).Scan(&balance, &recorded); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(balance), numericToDecimal(recorded), nil
}
