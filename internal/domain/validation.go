package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidIBANFormat  = errors.New("invalid iban format")
	ErrInvalidName        = errors.New("invalid name")
	ErrInvalidCardNumber  = errors.New("invalid card number")
	ErrInvalidCVC         = errors.New("invalid cvc")
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")
	ErrAmountNotQuantized = errors.New("amount has more than two decimal places")
)

// Validation constants
const (
	MaxNameLength  = 150
	MaxIBANLength  = 32
	CardNumberLen  = 16
	CardCVCLen     = 3
	MaxAmountValue = "9999999999999.99" // decimal(15,2)
)

// ValidateIBAN checks a supplied IBAN against the fixed per-country shape:
// a known country prefix, the exact total length for that country and a
// digit-only body.
func ValidateIBAN(iban string) error {
	if len(iban) < 4 || len(iban) > MaxIBANLength {
		return fmt.Errorf("%w: bad length %d", ErrInvalidIBANFormat, len(iban))
	}

	country := Country(iban[:2])
	if !country.IsValid() {
		return fmt.Errorf("%w: unknown country prefix %q", ErrInvalidIBANFormat, iban[:2])
	}

	if len(iban) != country.IBANLength() {
		return fmt.Errorf("%w: %s iban must be %d characters", ErrInvalidIBANFormat, country, country.IBANLength())
	}

	if !allDigits(iban[2:]) {
		return fmt.Errorf("%w: body must be digits", ErrInvalidIBANFormat)
	}

	return nil
}

// ValidateAmount checks a settlement amount: strictly positive, at most
// two fractional digits and within the decimal(15,2) column range.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if amount.Exponent() < -2 {
		return ErrAmountNotQuantized
	}

	maxAmount, _ := decimal.NewFromString(MaxAmountValue)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmountValue)
	}

	return nil
}

// ValidateName checks a holder or counterparty name field.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}

	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidName, MaxNameLength)
	}

	return nil
}

// ValidateCardNumber checks a card number is exactly 16 digits.
func ValidateCardNumber(number string) error {
	if len(number) != CardNumberLen || !allDigits(number) {
		return fmt.Errorf("%w: must be %d digits", ErrInvalidCardNumber, CardNumberLen)
	}
	return nil
}

// ValidateCVC checks a CVC is exactly 3 digits.
func ValidateCVC(cvc string) error {
	if len(cvc) != CardCVCLen || !allDigits(cvc) {
		return fmt.Errorf("%w: must be %d digits", ErrInvalidCVC, CardCVCLen)
	}
	return nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
