package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wrob/paygate/internal/domain"
	"github.com/wrob/paygate/internal/infrastructure/metrics"
)

// LedgerUseCase is the settlement state machine for money movement. All
// balance mutation in the system goes through Record: one storage
// transaction per settlement, payer and payee rows locked in ascending
// IBAN order, every error path rejected before the first write.
type LedgerUseCase struct {
	txManager   TxManager
	accountRepo AccountRepository
	txnRepo     TransactionRepository
	ledgerRepo  LedgerRepository
	retrier     Retrier
	metrics     *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase. metrics may be nil.
func NewLedgerUseCase(
	txManager TxManager,
	accountRepo AccountRepository,
	txnRepo TransactionRepository,
	ledgerRepo LedgerRepository,
	retrier Retrier,
	m *metrics.Metrics,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		ledgerRepo:  ledgerRepo,
		retrier:     retrier,
		metrics:     m,
	}
}

// RecordInput represents a settlement request. For a TRANSFER the
// initiating account (BankIBAN) is the payer and CounterpartyIBAN names
// the destination; FirstName/LastName are the counterparty name fields
// written on the record.
type RecordInput struct {
	BankIBAN         string
	Type             domain.TransactionType
	FirstName        string
	LastName         string
	Amount           decimal.Decimal
	CounterpartyIBAN string
}

func (in RecordInput) validate() error {
	if !in.Type.IsValid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidType, in.Type)
	}

	if err := domain.ValidateAmount(in.Amount); err != nil {
		return err
	}

	if in.Type == domain.TransactionTransfer {
		if err := domain.ValidateIBAN(in.CounterpartyIBAN); err != nil {
			return err
		}
		if in.CounterpartyIBAN == in.BankIBAN {
			return domain.ErrSameAccount
		}
	}

	return nil
}

// Record settles a single transaction and returns the inserted record on
// the initiating account's side. Transient storage conflicts are retried;
// business rejections (insufficient funds, missing destination, bad
// amount) are permanent and leave no visible state.
func (uc *LedgerUseCase) Record(ctx context.Context, input RecordInput) (*domain.Transaction, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	start := time.Now()

	var txn *domain.Transaction

	settle := func() error {
		t, err := uc.settle(ctx, input)
		if err != nil {
			return err
		}
		txn = t
		return nil
	}

	var err error
	if uc.retrier != nil {
		err = uc.retrier.Retry(ctx, settle)
	} else {
		err = settle()
	}

	if err != nil {
		if uc.metrics != nil {
			uc.metrics.SettlementErrors.Inc()
		}
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.SettlementsTotal.WithLabelValues(string(input.Type)).Inc()
		uc.metrics.SettlementDuration.Observe(time.Since(start).Seconds())
	}

	return txn, nil
}

func (uc *LedgerUseCase) settle(ctx context.Context, input RecordInput) (*domain.Transaction, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()

	var txn *domain.Transaction
	switch input.Type {
	case domain.TransactionDeposit:
		txn, err = uc.settleDeposit(ctx, tx, input, now)
	case domain.TransactionWithdrawal:
		txn, err = uc.settleWithdrawal(ctx, tx, input, now)
	case domain.TransactionTransfer:
		txn, err = uc.settleTransfer(ctx, tx, input, now)
	default:
		err = domain.ErrInvalidType
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return txn, nil
}

// settleDeposit credits the account and inserts one DEPOSIT record.
// Deposits always succeed: there is no sufficiency check.
func (uc *LedgerUseCase) settleDeposit(ctx context.Context, tx Tx, input RecordInput, now time.Time) (*domain.Transaction, error) {
	account, err := uc.accountRepo.GetByIBANForUpdate(ctx, tx, input.BankIBAN)
	if err != nil {
		return nil, err
	}

	txn := &domain.Transaction{
		BankIBAN:  account.IBAN,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Type:      domain.TransactionDeposit,
		Amount:    input.Amount,
		IBAN:      account.IBAN,
		Date:      now,
	}

	if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, account.IBAN, account.ApplyCredit(input.Amount), now); err != nil {
		return nil, err
	}

	return txn, nil
}

// settleWithdrawal debits the account symmetrically with deposit and
// inserts one WITHDRAWAL record, rejecting with ErrInsufficientFunds
// before any write when the balance would go negative.
func (uc *LedgerUseCase) settleWithdrawal(ctx context.Context, tx Tx, input RecordInput, now time.Time) (*domain.Transaction, error) {
	account, err := uc.accountRepo.GetByIBANForUpdate(ctx, tx, input.BankIBAN)
	if err != nil {
		return nil, err
	}

	if err := account.ValidateDebit(input.Amount); err != nil {
		return nil, err
	}

	txn := &domain.Transaction{
		BankIBAN:  account.IBAN,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Type:      domain.TransactionWithdrawal,
		Amount:    input.Amount,
		IBAN:      account.IBAN,
		Date:      now,
	}

	if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, account.IBAN, account.ApplyDebit(input.Amount), now); err != nil {
		return nil, err
	}

	return txn, nil
}

// settleTransfer moves amount from the initiating account to the one named
// by CounterpartyIBAN. Both rows are locked in ascending IBAN order before
// the sufficiency check, then four writes happen as one unit: the TRANSFER
// record and debit on the payer, a system-generated DEPOSIT record and
// credit on the payee. The payee-side record carries the payer's name and
// IBAN so the receiving statement shows who paid; it is inserted directly
// and never re-enters the transfer branch.
func (uc *LedgerUseCase) settleTransfer(ctx context.Context, tx Tx, input RecordInput, now time.Time) (*domain.Transaction, error) {
	ibans := []string{input.BankIBAN, input.CounterpartyIBAN}
	sort.Strings(ibans)

	accounts, err := uc.accountRepo.GetByIBANsForUpdate(ctx, tx, ibans)
	if err != nil {
		return nil, err
	}

	var payer, payee *domain.Account
	for _, account := range accounts {
		switch account.IBAN {
		case input.BankIBAN:
			payer = account
		case input.CounterpartyIBAN:
			payee = account
		}
	}

	if payer == nil {
		return nil, domain.ErrAccountNotFound
	}
	if payee == nil {
		return nil, domain.ErrDestinationNotFound
	}

	if err := payer.ValidateDebit(input.Amount); err != nil {
		return nil, err
	}

	txn := &domain.Transaction{
		BankIBAN:  payer.IBAN,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Type:      domain.TransactionTransfer,
		Amount:    input.Amount,
		IBAN:      payee.IBAN,
		Date:      now,
	}

	if err := uc.txnRepo.Create(ctx, tx, txn); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, payer.IBAN, payer.ApplyDebit(input.Amount), now); err != nil {
		return nil, err
	}

	counterpartyTxn := &domain.Transaction{
		BankIBAN:  payee.IBAN,
		FirstName: payer.FirstName,
		LastName:  payer.LastName,
		Type:      domain.TransactionDeposit,
		Amount:    input.Amount,
		IBAN:      payer.IBAN,
		Date:      now,
	}

	if err := uc.txnRepo.Create(ctx, tx, counterpartyTxn); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(ctx, tx, payee.IBAN, payee.ApplyCredit(input.Amount), now); err != nil {
		return nil, err
	}

	return txn, nil
}

// GetTransaction retrieves a single ledger record.
func (uc *LedgerUseCase) GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error) {
	return uc.txnRepo.GetByID(ctx, id)
}

// ListTransactionsInput represents input for listing an account's records.
type ListTransactionsInput struct {
	IBAN   string
	Limit  int
	Offset int
}

// ListTransactions lists ledger records for an account, newest first.
func (uc *LedgerUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]*domain.Transaction, error) {
	if input.Limit <= 0 {
		input.Limit = DefaultPageSize
	}
	if input.Limit > MaxPageSize {
		input.Limit = MaxPageSize
	}

	if _, err := uc.accountRepo.GetByIBAN(ctx, input.IBAN); err != nil {
		return nil, err
	}

	return uc.txnRepo.ListByAccount(ctx, input.IBAN, input.Limit, input.Offset)
}

// ConsistencyReport is the result of a ledger-wide audit.
type ConsistencyReport struct {
	NetBalance  decimal.Decimal
	NetRecorded decimal.Decimal
	Consistent  bool
}

// CheckConsistency verifies that balance movement across all accounts
// matches the signed sum of ledger records.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	netBalance, netRecorded, err := uc.ledgerRepo.CheckConsistency(ctx)
	if err != nil {
		return nil, err
	}

	report := &ConsistencyReport{
		NetBalance:  netBalance,
		NetRecorded: netRecorded,
		Consistent:  netBalance.Equal(netRecorded),
	}

	if uc.metrics != nil {
		uc.metrics.ConsistencyChecks.Inc()
		if !report.Consistent {
			uc.metrics.ConsistencyFailures.Inc()
		}
	}

	return report, nil
}
