package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/wrob/paygate/internal/domain"
	"github.com/wrob/paygate/internal/usecase"
	"github.com/wrob/paygate/internal/usecase/mocks"
)

func TestAccountUseCase_CreateAccount(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.CreateAccountInput
		expectError error
	}{
		{
			name: "generated iban",
			input: usecase.CreateAccountInput{
				FirstName: "Jan", LastName: "Kowalski",
				Country: domain.CountryPL,
				Balance: decimal.RequireFromString("1000.00"),
			},
		},
		{
			name: "supplied iban",
			input: usecase.CreateAccountInput{
				FirstName: "Hans", LastName: "Muller",
				Country: domain.CountryDE,
				IBAN:    "DE89876543210532013000",
				Balance: decimal.Zero,
			},
		},
		{
			name: "unsupported country",
			input: usecase.CreateAccountInput{
				FirstName: "John", LastName: "Doe",
				Country: domain.Country("US"),
			},
			expectError: domain.ErrUnsupportedCountry,
		},
		{
			name: "malformed supplied iban",
			input: usecase.CreateAccountInput{
				FirstName: "Jan", LastName: "Kowalski",
				Country: domain.CountryPL,
				IBAN:    "PL123",
			},
			expectError: domain.ErrInvalidIBANFormat,
		},
		{
			name: "negative opening balance",
			input: usecase.CreateAccountInput{
				FirstName: "Jan", LastName: "Kowalski",
				Country: domain.CountryPL,
				Balance: decimal.RequireFromString("-1.00"),
			},
			expectError: domain.ErrInvalidAmount,
		},
		{
			name: "empty first name",
			input: usecase.CreateAccountInput{
				FirstName: "", LastName: "Kowalski",
				Country: domain.CountryPL,
			},
			expectError: domain.ErrInvalidName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := mocks.NewMockAccountRepository()
			uc := usecase.NewAccountUseCase(repo)

			account, err := uc.CreateAccount(context.Background(), tt.input)

			if tt.expectError != nil {
				require.ErrorIs(t, err, tt.expectError)
				return
			}

			require.NoError(t, err)
			require.NoError(t, domain.ValidateIBAN(account.IBAN))
			if tt.input.IBAN != "" {
				require.Equal(t, tt.input.IBAN, account.IBAN)
			}
			require.True(t, account.Balance.Equal(tt.input.Balance))
			require.True(t, account.OpeningBalance.Equal(tt.input.Balance))

			stored, err := repo.GetByIBAN(context.Background(), account.IBAN)
			require.NoError(t, err)
			require.Equal(t, account, stored)
		})
	}
}

func TestAccountUseCase_CreateAccount_DuplicateSuppliedIBAN(t *testing.T) {
	repo := mocks.NewMockAccountRepository()
	uc := usecase.NewAccountUseCase(repo)

	input := usecase.CreateAccountInput{
		FirstName: "Hans", LastName: "Muller",
		Country: domain.CountryDE,
		IBAN:    "DE89876543210532013000",
	}

	_, err := uc.CreateAccount(context.Background(), input)
	require.NoError(t, err)

	_, err = uc.CreateAccount(context.Background(), input)
	require.ErrorIs(t, err, domain.ErrDuplicateIBAN)
}

func TestAccountUseCase_CreateAccount_RetriesGeneratedCollision(t *testing.T) {
	repo := mocks.NewMockAccountRepository()
	uc := usecase.NewAccountUseCase(repo)

	// first two inserts collide, third succeeds
	calls := 0
	repo.CreateFunc = func(ctx context.Context, account *domain.Account) error {
		calls++
		if calls < 3 {
			return domain.ErrDuplicateIBAN
		}
		return nil
	}

	account, err := uc.CreateAccount(context.Background(), usecase.CreateAccountInput{
		FirstName: "Jan", LastName: "Kowalski",
		Country: domain.CountryPL,
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
	require.NoError(t, domain.ValidateIBAN(account.IBAN))
}

func TestAccountUseCase_CreateAccount_GivesUpAfterRepeatedCollisions(t *testing.T) {
	repo := mocks.NewMockAccountRepository()
	uc := usecase.NewAccountUseCase(repo)

	repo.CreateFunc = func(ctx context.Context, account *domain.Account) error {
		return domain.ErrDuplicateIBAN
	}

	_, err := uc.CreateAccount(context.Background(), usecase.CreateAccountInput{
		FirstName: "Jan", LastName: "Kowalski",
		Country: domain.CountryPL,
	})
	require.ErrorIs(t, err, domain.ErrDuplicateIBAN)
}

func TestAccountUseCase_GetAccount_NotFound(t *testing.T) {
	uc := usecase.NewAccountUseCase(mocks.NewMockAccountRepository())

	_, err := uc.GetAccount(context.Background(), "PL61123456780000123400005678")
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}
