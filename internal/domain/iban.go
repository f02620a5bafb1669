package domain

import (
	"math/rand/v2"
	"strings"
)

// Country is an ISO 3166-1 alpha-2 code of a country the bank operates in.
type Country string

const (
	CountryPL Country = "PL"
	CountryDE Country = "DE"
	CountryGB Country = "GB"
)

// ibanLayout describes the fixed shape of a pseudo-IBAN for one country:
// country code + 2 check digits + routing literal + account digits.
type ibanLayout struct {
	routing       string
	accountDigits int
}

var ibanLayouts = map[Country]ibanLayout{
	// PLkk BBBB BBBB MMMM MMMM MMMM MMMM MMMM (28 chars)
	CountryPL: {routing: "12345678", accountDigits: 16},
	// DEkk BBBB BBBB CCCC CCCC CC (22 chars)
	CountryDE: {routing: "87654321", accountDigits: 10},
	// GBkk BBBB SSSS SSCC CCCC CC (22 chars)
	CountryGB: {routing: "3123222222", accountDigits: 8},
}

// IsValid reports whether the country is one the bank issues IBANs for.
func (c Country) IsValid() bool {
	_, ok := ibanLayouts[c]
	return ok
}

// IBANLength returns the total IBAN length for the country.
func (c Country) IBANLength() int {
	layout, ok := ibanLayouts[c]
	if !ok {
		return 0
	}
	return len(string(c)) + 2 + len(layout.routing) + layout.accountDigits
}

// GenerateIBAN produces a syntactically plausible pseudo-IBAN for the given
// country. Check digits and the account number are random; the routing part
// is a fixed per-country literal. The generator makes no uniqueness
// guarantee: the account store's unique key on IBAN is what enforces it,
// and a collision surfaces as ErrDuplicateIBAN on creation.
func GenerateIBAN(country Country) (string, error) {
	layout, ok := ibanLayouts[country]
	if !ok {
		return "", ErrUnsupportedCountry
	}

	var b strings.Builder
	b.WriteString(string(country))
	b.WriteString(randomDigits(2))
	b.WriteString(layout.routing)
	b.WriteString(randomDigits(layout.accountDigits))

	return b.String(), nil
}

// randomDigits returns n digits, each independently uniform over 0-9.
// This is a demo ledger, not a production bank: math/rand is enough.
func randomDigits(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte('0' + rand.IntN(10))
	}
	return string(b)
}
