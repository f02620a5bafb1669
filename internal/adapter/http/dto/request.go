package dto

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/wrob/paygate/internal/domain"
	"github.com/wrob/paygate/internal/usecase"
)

var validate = validator.New()

// Validate runs struct tag validation on a request.
func Validate(req any) error {
	return validate.Struct(req)
}

// CreateAccountRequest represents a request to open an account. IBAN is
// optional; when empty one is generated for the country.
type CreateAccountRequest struct {
	FirstName string          `json:"first_name" validate:"required,max=150"`
	LastName  string          `json:"last_name" validate:"required,max=150"`
	Country   string          `json:"country" validate:"required,len=2"`
	IBAN      string          `json:"iban,omitempty" validate:"omitempty,max=34"`
	Balance   decimal.Decimal `json:"balance"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput() usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Country:   domain.Country(r.Country),
		IBAN:      r.IBAN,
		Balance:   r.Balance,
	}
}

// CreateTransactionRequest represents a settlement request. For a TRANSFER
// the first/last name identify the counterparty and counterparty_iban names
// the destination account.
type CreateTransactionRequest struct {
	BankIBAN         string          `json:"bank_iban" validate:"required,max=34"`
	Type             string          `json:"type" validate:"required"`
	FirstName        string          `json:"first_name" validate:"required,max=150"`
	LastName         string          `json:"last_name" validate:"required,max=150"`
	Amount           decimal.Decimal `json:"amount" validate:"required"`
	CounterpartyIBAN string          `json:"counterparty_iban,omitempty" validate:"omitempty,max=34"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateTransactionRequest) ToUseCaseInput() usecase.RecordInput {
	return usecase.RecordInput{
		BankIBAN:         r.BankIBAN,
		Type:             domain.TransactionType(r.Type),
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Amount:           r.Amount,
		CounterpartyIBAN: r.CounterpartyIBAN,
	}
}

// IssueCardRequest represents a request to issue a card for an account.
type IssueCardRequest struct {
	AccountIBAN string `json:"account_iban" validate:"required,max=34"`
	Network     string `json:"network" validate:"required"`
}

// ToUseCaseInput converts to use case input.
func (r *IssueCardRequest) ToUseCaseInput() usecase.IssueCardInput {
	return usecase.IssueCardInput{
		AccountIBAN: r.AccountIBAN,
		Network:     r.Network,
	}
}

// SetCardValidityRequest toggles a card's validity flag.
type SetCardValidityRequest struct {
	Valid *bool `json:"valid" validate:"required"`
}

// CreateOrderRequest represents a request to create an order.
type CreateOrderRequest struct {
	ClientName    string          `json:"client_name" validate:"required,max=150"`
	ClientSurname string          `json:"client_surname" validate:"required,max=150"`
	Total         decimal.Decimal `json:"total" validate:"required"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateOrderRequest) ToUseCaseInput() usecase.CreateOrderInput {
	return usecase.CreateOrderInput{
		ClientName:    r.ClientName,
		ClientSurname: r.ClientSurname,
		Total:         r.Total,
	}
}

// ChargeOrderRequest represents a card charge attempt against an order.
// The link slug comes from the payment URL handed to the buyer.
type ChargeOrderRequest struct {
	OrderID    string `json:"order_id" validate:"required"`
	Link       string `json:"link" validate:"required"`
	CardNumber string `json:"card_number" validate:"required,len=16,numeric"`
	CVC        string `json:"cvc" validate:"required,len=3,numeric"`
}

// ToUseCaseInput converts to use case input.
func (r *ChargeOrderRequest) ToUseCaseInput() usecase.ChargeOrderInput {
	return usecase.ChargeOrderInput{
		OrderID:    r.OrderID,
		Link:       r.Link,
		CardNumber: r.CardNumber,
		CVC:        r.CVC,
	}
}
