package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/wrob/paygate/internal/domain"
	"github.com/wrob/paygate/internal/usecase"
)

const pgErrUniqueViolation = "23505"

const accountColumns = `iban, first_name, last_name, country, balance, opening_balance, created_at, updated_at`

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create inserts a new account. A primary key collision on the IBAN is
// reported as domain.ErrDuplicateIBAN.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		account.IBAN,
		account.FirstName,
		account.LastName,
		string(account.Country),
		decimalToNumeric(account.Balance),
		decimalToNumeric(account.OpeningBalance),
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
		return domain.ErrDuplicateIBAN
	}

	return err
}

// GetByIBAN retrieves an account by IBAN.
func (r *AccountRepository) GetByIBAN(ctx context.Context, iban string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE iban = $1
	`

	return scanAccount(r.pool.QueryRow(ctx, query, iban))
}

// GetByIBANForUpdate retrieves an account by IBAN with a FOR UPDATE lock.
func (r *AccountRepository) GetByIBANForUpdate(ctx context.Context, tx usecase.Tx, iban string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE iban = $1
		FOR UPDATE
	`

	pgxTx := tx.(*Tx).PgxTx()

	return scanAccount(pgxTx.QueryRow(ctx, query, iban))
}

// GetByIBANsForUpdate retrieves multiple accounts with FOR UPDATE locks.
// Rows are locked in ascending IBAN order regardless of input order.
func (r *AccountRepository) GetByIBANsForUpdate(ctx context.Context, tx usecase.Tx, ibans []string) ([]*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE iban = ANY($1::text[])
		ORDER BY iban
		FOR UPDATE
	`

	pgxTx := tx.(*Tx).PgxTx()

	rows, err := pgxTx.Query(ctx, query, ibans)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

// UpdateBalance updates the balance of an account within a transaction.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Tx, iban string, balance decimal.Decimal, updatedAt time.Time) error {
	query := `
		UPDATE accounts
		SET balance = $2, updated_at = $3
		WHERE iban = $1
	`

	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, query, iban, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// List lists accounts with pagination, newest first.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		ORDER BY created_at DESC, iban
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, int32(limit), int32(offset))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]*domain.Account, 0, limit)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}

	return accounts, rows.Err()
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		account   domain.Account
		country   string
		balance   pgtype.Numeric
		opening   pgtype.Numeric
		createdAt pgtype.Timestamptz
		updatedAt pgtype.Timestamptz
	)

	err := row.Scan(
		&account.IBAN,
		&account.FirstName,
		&account.LastName,
		&country,
		&balance,
		&opening,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	account.Country = domain.Country(country)
	account.Balance = numericToDecimal(balance)
	account.OpeningBalance = numericToDecimal(opening)
	account.CreatedAt = createdAt.Time
	account.UpdatedAt = updatedAt.Time

	return &account, nil
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
