package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a bank account keyed by IBAN. The IBAN is immutable
// once assigned and is the only identity the rest of the system uses.
type Account struct {
	IBAN           string
	FirstName      string
	LastName       string
	Country        Country
	Balance        decimal.Decimal
	OpeningBalance decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ValidateDebit checks if the account holds enough funds to be debited
// by amount. Balances are never allowed to go negative.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if a.Balance.Sub(amount).IsNegative() {
		return ErrInsufficientFunds
	}
	return nil
}

// ApplyDebit returns the balance after a debit.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Sub(amount)
}

// ApplyCredit returns the balance after a credit.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}

// HolderName returns the holder's full name as it appears on statements.
func (a *Account) HolderName() string {
	return a.FirstName + " " + a.LastName
}
