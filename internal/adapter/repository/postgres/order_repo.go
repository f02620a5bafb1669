package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wrob/paygate/internal/domain"
)

// OrderRepository implements usecase.OrderRepository.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create inserts a new order.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (id, client_name, client_surname, total, is_paid, link, created_at, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var paidAt pgtype.Timestamptz
	if order.PaidAt != nil {
		paidAt = timeToPgTimestamptz(*order.PaidAt)
	}

	_, err := r.pool.Exec(ctx, query,
		order.ID,
		order.ClientName,
		order.ClientSurname,
		decimalToNumeric(order.Total),
		order.IsPaid,
		order.Link,
		timeToPgTimestamptz(order.CreatedAt),
		paidAt,
	)

	return err
}

// GetByID retrieves an order by ID.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `
		SELECT id, client_name, client_surname, total, is_paid, link, created_at, paid_at
		FROM orders
		WHERE id = $1
	`

	var (
		order     domain.Order
		total     pgtype.Numeric
		createdAt pgtype.Timestamptz
		paidAt    pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&order.ID,
		&order.ClientName,
		&order.ClientSurname,
		&total,
		&order.IsPaid,
		&order.Link,
		&createdAt,
		&paidAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	order.Total = numericToDecimal(total)
	order.CreatedAt = createdAt.Time
	if paidAt.Valid {
		t := paidAt.Time
		order.PaidAt = &t
	}

	return &order, nil
}

// MarkPaid claims an unpaid order. The conditional update is the arbiter
// between concurrent charges: marking an already paid order is reported as
// domain.ErrOrderAlreadyPaid, so of two racing callers only one proceeds
// to settlement.
func (r *OrderRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time) error {
	query := `
		UPDATE orders
		SET is_paid = TRUE, paid_at = $2
		WHERE id = $1 AND is_paid = FALSE
	`

	tag, err := r.pool.Exec(ctx, query, id, timeToPgTimestamptz(paidAt))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		exists, err := r.exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrOrderNotFound
		}
		return domain.ErrOrderAlreadyPaid
	}

	return nil
}

// MarkUnpaid releases a claimed order so it can be charged again after a
// failed settlement.
func (r *OrderRepository) MarkUnpaid(ctx context.Context, id string) error {
	query := `
		UPDATE orders
		SET is_paid = FALSE, paid_at = NULL
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}

	return nil
}

func (r *OrderRepository) exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}
