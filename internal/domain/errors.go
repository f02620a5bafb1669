package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound    = errors.New("account not found")
	ErrDuplicateIBAN      = errors.New("iban already exists")
	ErrUnsupportedCountry = errors.New("unsupported country code")

	// Ledger errors
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrDestinationNotFound = errors.New("destination account not found")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrSameAccount         = errors.New("cannot transfer to same account")
	ErrInvalidType         = errors.New("unknown transaction type")
	ErrTransactionNotFound = errors.New("transaction not found")

	// Card errors
	ErrCardNotFound           = errors.New("card not found")
	ErrCardInvalid            = errors.New("card is not valid")
	ErrCardExpired            = errors.New("card has expired")
	ErrCVCMismatch            = errors.New("cvc does not match")
	ErrDuplicateCard          = errors.New("card number already exists")
	ErrCardNetworkTaken       = errors.New("account already holds a card on this network")
	ErrUnsupportedCardNetwork = errors.New("unsupported card network")

	// Order errors
	ErrOrderNotFound    = errors.New("order not found")
	ErrOrderLinkInvalid = errors.New("order link does not match")
	ErrOrderAlreadyPaid = errors.New("order is already paid")
)
