package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wrob/paygate/internal/domain"
)

// PaymentUseCase is the card-payment settlement flow: resolve the payer
// account from a card, move the order total to the merchant account via
// the ledger, then mark the order paid. It never touches balances itself.
type PaymentUseCase struct {
	ledger       *LedgerUseCase
	cardRepo     CardRepository
	orderRepo    OrderRepository
	merchantIBAN string
}

// NewPaymentUseCase creates a new PaymentUseCase. merchantIBAN is the
// account all card payments settle into.
func NewPaymentUseCase(ledger *LedgerUseCase, cardRepo CardRepository, orderRepo OrderRepository, merchantIBAN string) *PaymentUseCase {
	return &PaymentUseCase{
		ledger:       ledger,
		cardRepo:     cardRepo,
		orderRepo:    orderRepo,
		merchantIBAN: merchantIBAN,
	}
}

// ChargeOrderInput represents a card charge attempt against an order.
type ChargeOrderInput struct {
	OrderID    string
	Link       string
	CardNumber string
	CVC        string
}

// ChargeOrder validates the card, claims the order, settles a transfer
// from the card's account to the merchant account for the order total and
// returns the paid order. Validation failures reject before the ledger is
// invoked; a failed settlement releases the claim, so a declined payment
// leaves no trace.
func (uc *PaymentUseCase) ChargeOrder(ctx context.Context, input ChargeOrderInput) (*domain.Transaction, *domain.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, nil, err
	}

	if order.Link != input.Link {
		return nil, nil, domain.ErrOrderLinkInvalid
	}
	if order.IsPaid {
		return nil, order, domain.ErrOrderAlreadyPaid
	}

	if err := domain.ValidateCardNumber(input.CardNumber); err != nil {
		return nil, nil, err
	}
	if err := domain.ValidateCVC(input.CVC); err != nil {
		return nil, nil, err
	}
	if _, err := domain.NetworkFromNumber(input.CardNumber); err != nil {
		return nil, nil, err
	}

	card, err := uc.cardRepo.GetByNumber(ctx, input.CardNumber)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	if err := card.Validate(input.CVC, now); err != nil {
		return nil, nil, err
	}

	// Claim the order before any money moves. The conditional mark is the
	// arbiter between concurrent charges: the loser stops here and never
	// reaches settlement.
	if err := uc.orderRepo.MarkPaid(ctx, order.ID, now); err != nil {
		if errors.Is(err, domain.ErrOrderAlreadyPaid) {
			return nil, order, err
		}
		return nil, nil, err
	}

	txn, err := uc.ledger.Record(ctx, RecordInput{
		BankIBAN:         card.AccountIBAN,
		Type:             domain.TransactionTransfer,
		FirstName:        order.ClientName,
		LastName:         order.ClientSurname,
		Amount:           order.Total,
		CounterpartyIBAN: uc.merchantIBAN,
	})
	if err != nil {
		// No money moved; release the claim so the order stays
		// chargeable.
		if revertErr := uc.orderRepo.MarkUnpaid(ctx, order.ID); revertErr != nil {
			return nil, nil, fmt.Errorf("%w (order %s left claimed: %v)", err, order.ID, revertErr)
		}
		return nil, nil, err
	}

	order.MarkPaid(now)

	return txn, order, nil
}
