package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wrob/paygate/internal/domain"
)

// OrderUseCase handles order creation and lookup. Orders are the
// collaborator side of the payment flow: the ledger itself knows nothing
// about them.
type OrderUseCase struct {
	orderRepo OrderRepository
	idGen     IDGenerator
}

// NewOrderUseCase creates a new OrderUseCase.
func NewOrderUseCase(orderRepo OrderRepository, idGen IDGenerator) *OrderUseCase {
	return &OrderUseCase{
		orderRepo: orderRepo,
		idGen:     idGen,
	}
}

// CreateOrderInput represents input for creating an order.
type CreateOrderInput struct {
	ClientName    string
	ClientSurname string
	Total         decimal.Decimal
}

// CreateOrder creates an unpaid order with a fresh payment link slug.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, input CreateOrderInput) (*domain.Order, error) {
	if err := domain.ValidateName(input.ClientName); err != nil {
		return nil, err
	}
	if err := domain.ValidateName(input.ClientSurname); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount(input.Total); err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:            uc.idGen.Generate(),
		ClientName:    input.ClientName,
		ClientSurname: input.ClientSurname,
		Total:         input.Total,
		Link:          uuid.NewString(),
		CreatedAt:     time.Now().UTC(),
	}

	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// GetOrder retrieves an order by ID.
func (uc *OrderUseCase) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	return uc.orderRepo.GetByID(ctx, id)
}
