package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wrob/paygate/internal/domain"
)

// CardRepository implements usecase.CardRepository.
type CardRepository struct {
	pool *pgxpool.Pool
}

// NewCardRepository creates a new CardRepository.
func NewCardRepository(pool *pgxpool.Pool) *CardRepository {
	return &CardRepository{pool: pool}
}

// cardsNetworkIndex enforces one card per network per account.
const cardsNetworkIndex = "idx_cards_account_network"

// Create inserts a newly issued card. A number collision is reported as
// domain.ErrDuplicateCard so the issuer can roll a new number; hitting the
// per-network unique index instead means the account already holds a card
// on that network and no amount of re-rolling will help.
func (r *CardRepository) Create(ctx context.Context, card *domain.Card) error {
	query := `
		INSERT INTO cards (number, cvc, valid_until, valid, network, account_iban, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		card.Number,
		card.CVC,
		card.ValidUntil,
		card.Valid,
		string(card.Network),
		card.AccountIBAN,
		timeToPgTimestamptz(card.CreatedAt),
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
		if pgErr.ConstraintName == cardsNetworkIndex {
			return domain.ErrCardNetworkTaken
		}
		return domain.ErrDuplicateCard
	}

	return err
}

// GetByNumber retrieves a card by its number.
func (r *CardRepository) GetByNumber(ctx context.Context, number string) (*domain.Card, error) {
	query := `
		SELECT number, cvc, valid_until, valid, network, account_iban, created_at
		FROM cards
		WHERE number = $1
	`

	var (
		card      domain.Card
		network   string
		createdAt pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx, query, number).Scan(
		&card.Number,
		&card.CVC,
		&card.ValidUntil,
		&card.Valid,
		&network,
		&card.AccountIBAN,
		&createdAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCardNotFound
	}
	if err != nil {
		return nil, err
	}

	card.Network = domain.CardNetwork(network)
	card.CreatedAt = createdAt.Time

	return &card, nil
}

// SetValidity toggles the card's validity flag.
func (r *CardRepository) SetValidity(ctx context.Context, number string, valid bool, updatedAt time.Time) error {
	query := `
		UPDATE cards
		SET valid = $2, updated_at = $3
		WHERE number = $1
	`

	tag, err := r.pool.Exec(ctx, query, number, valid, timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCardNotFound
	}

	return nil
}
