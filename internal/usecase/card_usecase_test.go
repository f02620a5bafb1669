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

func newCardFixture(t *testing.T) (*usecase.CardUseCase, *mocks.MockCardRepository, *mocks.MockAccountRepository) {
	t.Helper()

	cardRepo := mocks.NewMockCardRepository()
	accRepo := mocks.NewMockAccountRepository()
	seedAccount(t, accRepo, payerIBAN, "Jan", "Kowalski", "1000.00")

	return usecase.NewCardUseCase(cardRepo, accRepo), cardRepo, accRepo
}

func TestCardUseCase_IssueCard(t *testing.T) {
	uc, cardRepo, _ := newCardFixture(t)

	card, err := uc.IssueCard(context.Background(), usecase.IssueCardInput{
		AccountIBAN: payerIBAN,
		Network:     "visa",
	})
	require.NoError(t, err)
	require.Equal(t, domain.NetworkVisa, card.Network)
	require.Equal(t, payerIBAN, card.AccountIBAN)
	require.True(t, card.Valid)
	require.Equal(t, byte('4'), card.Number[0])

	stored, err := cardRepo.GetByNumber(context.Background(), card.Number)
	require.NoError(t, err)
	require.Equal(t, card, stored)
}

func TestCardUseCase_IssueCard_UnknownAccount(t *testing.T) {
	uc, _, _ := newCardFixture(t)

	_, err := uc.IssueCard(context.Background(), usecase.IssueCardInput{
		AccountIBAN: payeeIBAN,
		Network:     "mastercard",
	})
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestCardUseCase_IssueCard_OneCardPerNetwork(t *testing.T) {
	uc, _, _ := newCardFixture(t)

	first, err := uc.IssueCard(context.Background(), usecase.IssueCardInput{
		AccountIBAN: payerIBAN,
		Network:     "visa",
	})
	require.NoError(t, err)

	// a second Visa card for the same account must be refused outright,
	// not retried as a number collision
	_, err = uc.IssueCard(context.Background(), usecase.IssueCardInput{
		AccountIBAN: payerIBAN,
		Network:     "visa",
	})
	require.ErrorIs(t, err, domain.ErrCardNetworkTaken)

	// the other network is still open
	second, err := uc.IssueCard(context.Background(), usecase.IssueCardInput{
		AccountIBAN: payerIBAN,
		Network:     "mastercard",
	})
	require.NoError(t, err)
	require.NotEqual(t, first.Number, second.Number)
}

func TestCardUseCase_IssueCard_UnknownNetwork(t *testing.T) {
	uc, _, _ := newCardFixture(t)

	_, err := uc.IssueCard(context.Background(), usecase.IssueCardInput{
		AccountIBAN: payerIBAN,
		Network:     "amex",
	})
	require.ErrorIs(t, err, domain.ErrUnsupportedCardNetwork)
}

func TestCardUseCase_LookupCard(t *testing.T) {
	uc, _, _ := newCardFixture(t)

	issued, err := uc.IssueCard(context.Background(), usecase.IssueCardInput{
		AccountIBAN: payerIBAN,
		Network:     "mastercard",
	})
	require.NoError(t, err)

	card, err := uc.LookupCard(context.Background(), issued.Number)
	require.NoError(t, err)
	require.Equal(t, domain.NetworkMasterCard, card.Network)

	_, err = uc.LookupCard(context.Background(), "12345")
	require.ErrorIs(t, err, domain.ErrInvalidCardNumber)

	// well-formed but unknown scheme prefix never reaches storage
	_, err = uc.LookupCard(context.Background(), "6011111111111117")
	require.ErrorIs(t, err, domain.ErrUnsupportedCardNetwork)

	_, err = uc.LookupCard(context.Background(), "4242424242424242")
	require.ErrorIs(t, err, domain.ErrCardNotFound)
}

func TestCardUseCase_SetValidity(t *testing.T) {
	uc, cardRepo, _ := newCardFixture(t)

	issued, err := uc.IssueCard(context.Background(), usecase.IssueCardInput{
		AccountIBAN: payerIBAN,
		Network:     "visa",
	})
	require.NoError(t, err)

	card, err := uc.SetValidity(context.Background(), issued.Number, false)
	require.NoError(t, err)
	require.False(t, card.Valid)

	stored, _ := cardRepo.GetByNumber(context.Background(), issued.Number)
	require.False(t, stored.Valid)
}

func TestOrderUseCase_CreateOrder(t *testing.T) {
	orderRepo := mocks.NewMockOrderRepository()
	uc := usecase.NewOrderUseCase(orderRepo, mocks.NewMockIDGenerator())

	order, err := uc.CreateOrder(context.Background(), usecase.CreateOrderInput{
		ClientName:    "Anna",
		ClientSurname: "Nowak",
		Total:         decimal.RequireFromString("49.99"),
	})
	require.NoError(t, err)
	require.NotEmpty(t, order.ID)
	require.NotEmpty(t, order.Link)
	require.False(t, order.IsPaid)

	stored, err := uc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, order, stored)

	_, err = uc.CreateOrder(context.Background(), usecase.CreateOrderInput{
		ClientName:    "Anna",
		ClientSurname: "Nowak",
		Total:         decimal.Zero,
	})
	require.ErrorIs(t, err, domain.ErrInvalidAmount)
}
