package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is an e-commerce order awaiting card payment. Link is an opaque
// slug embedded in the payment URL handed to the buyer; both the order ID
// and the link must match before a charge is attempted.
type Order struct {
	ID            string
	ClientName    string
	ClientSurname string
	Total         decimal.Decimal
	IsPaid        bool
	Link          string
	CreatedAt     time.Time
	PaidAt        *time.Time
}

// MarkPaid flips the order into its paid state at the given time.
func (o *Order) MarkPaid(now time.Time) {
	o.IsPaid = true
	o.PaidAt = &now
}

// MarkUnpaid reverts a claimed order back to its unpaid state.
func (o *Order) MarkUnpaid() {
	o.IsPaid = false
	o.PaidAt = nil
}
