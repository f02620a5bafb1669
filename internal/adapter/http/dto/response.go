package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wrob/paygate/internal/domain"
	"github.com/wrob/paygate/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	IBAN      string          `json:"iban"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Country   string          `json:"country"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		IBAN:      a.IBAN,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Country:   string(a.Country),
		Balance:   a.Balance,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// TransactionResponse represents a ledger record in API responses.
type TransactionResponse struct {
	ID        int64           `json:"id"`
	BankIBAN  string          `json:"bank_iban"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Type      string          `json:"type"`
	Amount    decimal.Decimal `json:"amount"`
	IBAN      string          `json:"iban"`
	Date      time.Time       `json:"date"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:        t.ID,
		BankIBAN:  t.BankIBAN,
		FirstName: t.FirstName,
		LastName:  t.LastName,
		Type:      string(t.Type),
		Amount:    t.Amount,
		IBAN:      t.IBAN,
		Date:      t.Date,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// ListTransactionsResponse wraps a page of ledger records.
type ListTransactionsResponse struct {
	Transactions []*TransactionResponse `json:"transactions"`
	Total        int64                  `json:"total"`
}

// CardResponse represents a card in API responses. The CVC is only
// disclosed on issue; lookups blank it.
type CardResponse struct {
	Number      string `json:"number"`
	CVC         string `json:"cvc,omitempty"`
	ValidUntil  string `json:"valid_until"`
	Valid       bool   `json:"valid"`
	Network     string `json:"network"`
	AccountIBAN string `json:"account_iban"`
}

// CardFromDomain converts a domain card to a response without the CVC.
func CardFromDomain(c *domain.Card) *CardResponse {
	return &CardResponse{
		Number:      c.Number,
		ValidUntil:  c.ValidUntil,
		Valid:       c.Valid,
		Network:     string(c.Network),
		AccountIBAN: c.AccountIBAN,
	}
}

// IssuedCardFromDomain converts a freshly issued card, CVC included.
func IssuedCardFromDomain(c *domain.Card) *CardResponse {
	resp := CardFromDomain(c)
	resp.CVC = c.CVC
	return resp
}

// OrderResponse represents an order in API responses.
type OrderResponse struct {
	ID            string          `json:"id"`
	ClientName    string          `json:"client_name"`
	ClientSurname string          `json:"client_surname"`
	Total         decimal.Decimal `json:"total"`
	IsPaid        bool            `json:"is_paid"`
	Link          string          `json:"link"`
	CreatedAt     time.Time       `json:"created_at"`
	PaidAt        *time.Time      `json:"paid_at,omitempty"`
}

// OrderFromDomain converts a domain order to a response.
func OrderFromDomain(o *domain.Order) *OrderResponse {
	return &OrderResponse{
		ID:            o.ID,
		ClientName:    o.ClientName,
		ClientSurname: o.ClientSurname,
		Total:         o.Total,
		IsPaid:        o.IsPaid,
		Link:          o.Link,
		CreatedAt:     o.CreatedAt,
		PaidAt:        o.PaidAt,
	}
}

// ChargeOrderResponse is returned after a successful card charge.
type ChargeOrderResponse struct {
	Transaction *TransactionResponse `json:"transaction"`
	Order       *OrderResponse       `json:"order"`
}

// ConsistencyResponse is the result of a ledger-wide audit.
type ConsistencyResponse struct {
	NetBalance  decimal.Decimal `json:"net_balance"`
	NetRecorded decimal.Decimal `json:"net_recorded"`
	Consistent  bool            `json:"consistent"`
}

// ConsistencyFromReport converts a use case report to a response.
func ConsistencyFromReport(r *usecase.ConsistencyReport) *ConsistencyResponse {
	return &ConsistencyResponse{
		NetBalance:  r.NetBalance,
		NetRecorded: r.NetRecorded,
		Consistent:  r.Consistent,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
