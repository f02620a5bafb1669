package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wrob/paygate/internal/domain"
	"github.com/wrob/paygate/internal/usecase"
)

const transactionColumns = `id, bank_iban, first_name, last_name, type, amount, iban, date`

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create inserts a ledger record within the settlement transaction and fills
// in its assigned ID.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Tx, txn *domain.Transaction) error {
	query := `
		INSERT INTO transactions (bank_iban, first_name, last_name, type, amount, iban, date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	pgxTx := tx.(*Tx).PgxTx()

	return pgxTx.QueryRow(ctx, query,
		txn.BankIBAN,
		txn.FirstName,
		txn.LastName,
		string(txn.Type),
		decimalToNumeric(txn.Amount),
		txn.IBAN,
		timeToPgTimestamptz(txn.Date),
	).Scan(&txn.ID)
}

// GetByID retrieves a ledger record by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE id = $1
	`

	return scanTransaction(r.pool.QueryRow(ctx, query, id))
}

// ListByAccount lists the records booked against an account, newest first.
func (r *TransactionRepository) ListByAccount(ctx context.Context, iban string, limit, offset int) ([]*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE bank_iban = $1
		ORDER BY date DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, iban, int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txns := make([]*domain.Transaction, 0, limit)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}

	return txns, rows.Err()
}

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var (
		txn    domain.Transaction
		kind   string
		amount pgtype.Numeric
		date   pgtype.Timestamptz
	)

	err := row.Scan(
		&txn.ID,
		&txn.BankIBAN,
		&txn.FirstName,
		&txn.LastName,
		&kind,
		&amount,
		&txn.IBAN,
		&date,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}

	txn.Type = domain.TransactionType(kind)
	txn.Amount = numericToDecimal(amount)
	txn.Date = date.Time

	return &txn, nil
}
