package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger record.
type TransactionType string

const (
	TransactionDeposit    TransactionType = "DEPOSIT"
	TransactionWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTransfer   TransactionType = "TRANSFER"
)

var validTransactionTypes = map[TransactionType]bool{
	TransactionDeposit:    true,
	TransactionWithdrawal: true,
	TransactionTransfer:   true,
}

// IsValid reports whether the type is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	return validTransactionTypes[t]
}

// Transaction is a single immutable ledger record. BankIBAN names the
// account whose balance line the record belongs to; IBAN is the reference
// side: the payee on a TRANSFER, the payer on the system-generated
// counterparty DEPOSIT, the account itself otherwise. Never mutated or
// deleted once inserted, except via cascading account deletion.
type Transaction struct {
	ID        int64
	BankIBAN  string
	FirstName string
	LastName  string
	Type      TransactionType
	Amount    decimal.Decimal
	IBAN      string
	Date      time.Time
}
