package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wrob/paygate/internal/domain"
)

// AccountUseCase handles account business logic.
type AccountUseCase struct {
	accountRepo AccountRepository
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository) *AccountUseCase {
	return &AccountUseCase{accountRepo: accountRepo}
}

// CreateAccountInput represents input for creating an account. An empty
// IBAN triggers generation keyed by the country code.
type CreateAccountInput struct {
	FirstName string
	LastName  string
	Country   domain.Country
	IBAN      string
	Balance   decimal.Decimal
}

// CreateAccount creates a new account. A supplied IBAN that already exists
// fails with ErrDuplicateIBAN; a colliding generated IBAN is regenerated a
// bounded number of times before the error surfaces.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateName(input.FirstName); err != nil {
		return nil, err
	}
	if err := domain.ValidateName(input.LastName); err != nil {
		return nil, err
	}
	if !input.Country.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedCountry, input.Country)
	}
	if input.Balance.IsNegative() {
		return nil, fmt.Errorf("%w: opening balance cannot be negative", domain.ErrInvalidAmount)
	}

	if input.IBAN != "" {
		if err := domain.ValidateIBAN(input.IBAN); err != nil {
			return nil, err
		}
		return uc.create(ctx, input, input.IBAN)
	}

	var lastErr error
	for attempt := 0; attempt < ibanGenerationAttempts; attempt++ {
		iban, err := domain.GenerateIBAN(input.Country)
		if err != nil {
			return nil, err
		}

		account, err := uc.create(ctx, input, iban)
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, domain.ErrDuplicateIBAN) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

func (uc *AccountUseCase) create(ctx context.Context, input CreateAccountInput, iban string) (*domain.Account, error) {
	now := time.Now().UTC()

	account := &domain.Account{
		IBAN:           iban,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Country:        input.Country,
		Balance:        input.Balance,
		OpeningBalance: input.Balance,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// GetAccount retrieves an account by IBAN.
func (uc *AccountUseCase) GetAccount(ctx context.Context, iban string) (*domain.Account, error) {
	return uc.accountRepo.GetByIBAN(ctx, iban)
}

// ListAccountsInput represents input for listing accounts.
type ListAccountsInput struct {
	Limit  int
	Offset int
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, input ListAccountsInput) ([]*domain.Account, error) {
	if input.Limit <= 0 {
		input.Limit = DefaultPageSize
	}
	if input.Limit > MaxPageSize {
		input.Limit = MaxPageSize
	}
	return uc.accountRepo.List(ctx, input.Limit, input.Offset)
}
