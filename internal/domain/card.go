package domain

import (
	"fmt"
	"strings"
	"time"
)

// CardNetwork tags the card scheme. Resolved once from the leading digit
// at issue or lookup time, never re-derived per validation step.
type CardNetwork string

const (
	NetworkVisa       CardNetwork = "Visa"
	NetworkMasterCard CardNetwork = "Master Card"
)

// NetworkFromNumber resolves the card network from the number's leading
// digit: '4' is Visa, '5' is MasterCard.
func NetworkFromNumber(number string) (CardNetwork, error) {
	if number == "" {
		return "", ErrUnsupportedCardNetwork
	}
	switch number[0] {
	case '4':
		return NetworkVisa, nil
	case '5':
		return NetworkMasterCard, nil
	default:
		return "", ErrUnsupportedCardNetwork
	}
}

// ParseCardNetwork resolves a network from its user-facing label.
func ParseCardNetwork(s string) (CardNetwork, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "visa":
		return NetworkVisa, nil
	case "mastercard", "master card":
		return NetworkMasterCard, nil
	default:
		return "", ErrUnsupportedCardNetwork
	}
}

// numberPrefix returns the leading digit issued for the network.
func (n CardNetwork) numberPrefix() string {
	if n == NetworkMasterCard {
		return "5"
	}
	return "4"
}

// cardValidityMonths is how long a freshly issued card stays valid.
const cardValidityMonths = 24

// validUntilLayout is the expiry format stored and shown to holders.
const validUntilLayout = "01/2006"

// Card represents a payment card bound one-to-one to an account for its
// network. Created administratively; the validity flag is toggled
// externally.
type Card struct {
	Number      string
	CVC         string
	ValidUntil  string // MM/YYYY
	Valid       bool
	Network     CardNetwork
	AccountIBAN string
	CreatedAt   time.Time
}

// NewCard issues a card for an account on the given network. The number
// carries the network prefix followed by 15 random digits, the CVC is 3
// random digits and the expiry is now +24 months normalized to the first
// day of the month.
func NewCard(network CardNetwork, accountIBAN string, now time.Time) *Card {
	return &Card{
		Number:      network.numberPrefix() + randomDigits(15),
		CVC:         randomDigits(3),
		ValidUntil:  DefaultValidUntil(now),
		Valid:       true,
		Network:     network,
		AccountIBAN: accountIBAN,
		CreatedAt:   now,
	}
}

// DefaultValidUntil computes the MM/YYYY expiry for a card issued at now.
func DefaultValidUntil(now time.Time) string {
	expiry := now.AddDate(0, cardValidityMonths, 0)
	// normalize to the first day of the expiry month
	expiry = time.Date(expiry.Year(), expiry.Month(), 1, 0, 0, 0, 0, time.UTC)
	return expiry.Format(validUntilLayout)
}

// Expired reports whether the card is past its expiry month. A card is
// accepted through the last day of the month printed on it.
func (c *Card) Expired(now time.Time) bool {
	expiry, err := time.Parse(validUntilLayout, c.ValidUntil)
	if err != nil {
		return true
	}
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return current.After(expiry)
}

// Validate checks the card can be charged right now with the given CVC.
func (c *Card) Validate(cvc string, now time.Time) error {
	if !c.Valid {
		return ErrCardInvalid
	}
	if c.Expired(now) {
		return fmt.Errorf("%w: valid until %s", ErrCardExpired, c.ValidUntil)
	}
	if c.CVC != cvc {
		return ErrCVCMismatch
	}
	return nil
}
