package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/wrob/paygate/internal/domain"
)

// cardIssueAttempts bounds regeneration when a generated card number
// collides with an existing one.
const cardIssueAttempts = 3

// CardUseCase handles card issuing and lookup.
type CardUseCase struct {
	cardRepo    CardRepository
	accountRepo AccountRepository
}

// NewCardUseCase creates a new CardUseCase.
func NewCardUseCase(cardRepo CardRepository, accountRepo AccountRepository) *CardUseCase {
	return &CardUseCase{
		cardRepo:    cardRepo,
		accountRepo: accountRepo,
	}
}

// IssueCardInput represents input for issuing a card.
type IssueCardInput struct {
	AccountIBAN string
	Network     string
}

// IssueCard creates a card for an existing account on the given network.
// An account holds at most one card per network; a second request on the
// same network fails with domain.ErrCardNetworkTaken. Only number
// collisions are retried with a fresh number.
func (uc *CardUseCase) IssueCard(ctx context.Context, input IssueCardInput) (*domain.Card, error) {
	network, err := domain.ParseCardNetwork(input.Network)
	if err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByIBAN(ctx, input.AccountIBAN)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	var lastErr error
	for attempt := 0; attempt < cardIssueAttempts; attempt++ {
		card := domain.NewCard(network, account.IBAN, now)

		err := uc.cardRepo.Create(ctx, card)
		if err == nil {
			return card, nil
		}
		if !errors.Is(err, domain.ErrDuplicateCard) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

// LookupCard retrieves a card by number, resolving the network from the
// leading digit before touching storage so malformed numbers never hit
// the database.
func (uc *CardUseCase) LookupCard(ctx context.Context, number string) (*domain.Card, error) {
	if err := domain.ValidateCardNumber(number); err != nil {
		return nil, err
	}
	if _, err := domain.NetworkFromNumber(number); err != nil {
		return nil, err
	}

	return uc.cardRepo.GetByNumber(ctx, number)
}

// SetValidity toggles a card's validity flag.
func (uc *CardUseCase) SetValidity(ctx context.Context, number string, valid bool) (*domain.Card, error) {
	card, err := uc.LookupCard(ctx, number)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := uc.cardRepo.SetValidity(ctx, card.Number, valid, now); err != nil {
		return nil, err
	}

	card.Valid = valid
	return card, nil
}
