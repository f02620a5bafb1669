package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/wrob/paygate/internal/domain"
	"github.com/wrob/paygate/internal/usecase"
	"github.com/wrob/paygate/internal/usecase/mocks"
)

const (
	payerIBAN    = "PL61123456780000123400005678"
	payeeIBAN    = "PL02123456780000123400000001"
	merchantIBAN = "DE89876543210532013000"
)

func newLedgerFixture(t *testing.T) (*usecase.LedgerUseCase, *mocks.MockAccountRepository, *mocks.MockTransactionRepository, *mocks.MockTxManager) {
	t.Helper()

	accRepo := mocks.NewMockAccountRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	txMgr := mocks.NewMockTxManager()
	ledgerRepo := mocks.NewMockLedgerRepository()

	uc := usecase.NewLedgerUseCase(txMgr, accRepo, txnRepo, ledgerRepo, mocks.NewMockRetrier(), nil)

	return uc, accRepo, txnRepo, txMgr
}

func seedAccount(t *testing.T, repo *mocks.MockAccountRepository, iban, first, last, balance string) *domain.Account {
	t.Helper()

	acc := &domain.Account{
		IBAN:      iban,
		FirstName: first,
		LastName:  last,
		Country:   domain.Country(iban[:2]),
		Balance:   decimal.RequireFromString(balance),
	}
	require.NoError(t, repo.Create(context.Background(), acc))

	return acc
}

func TestLedgerUseCase_Deposit(t *testing.T) {
	uc, accRepo, _, _ := newLedgerFixture(t)
	seedAccount(t, accRepo, payerIBAN, "Jan", "Kowalski", "1000.00")

	txn, err := uc.Record(context.Background(), usecase.RecordInput{
		BankIBAN:  payerIBAN,
		Type:      domain.TransactionDeposit,
		FirstName: "Jan",
		LastName:  "Kowalski",
		Amount:    decimal.RequireFromString("250.00"),
	})
	require.NoError(t, err)
	require.Equal(t, domain.TransactionDeposit, txn.Type)
	require.Equal(t, payerIBAN, txn.BankIBAN)
	require.Equal(t, payerIBAN, txn.IBAN)
	require.NotZero(t, txn.ID)

	acc, err := accRepo.GetByIBAN(context.Background(), payerIBAN)
	require.NoError(t, err)
	require.True(t, acc.Balance.Equal(decimal.RequireFromString("1250.00")), "got %s", acc.Balance)
}

func TestLedgerUseCase_DepositSumIsExact(t *testing.T) {
	uc, accRepo, _, _ := newLedgerFixture(t)
	seedAccount(t, accRepo, payerIBAN, "Jan", "Kowalski", "0.00")

	// classic float trap: 0.1 + 0.2 repeated must stay exact
	for i := 0; i < 100; i++ {
		for _, amount := range []string{"0.10", "0.20"} {
			_, err := uc.Record(context.Background(), usecase.RecordInput{
				BankIBAN:  payerIBAN,
				Type:      domain.TransactionDeposit,
				FirstName: "Jan",
				LastName:  "Kowalski",
				Amount:    decimal.RequireFromString(amount),
			})
			require.NoError(t, err)
		}
	}

	acc, err := accRepo.GetByIBAN(context.Background(), payerIBAN)
	require.NoError(t, err)
	require.True(t, acc.Balance.Equal(decimal.RequireFromString("30.00")), "got %s", acc.Balance)
}

func TestLedgerUseCase_Withdrawal(t *testing.T) {
	uc, accRepo, txnRepo, _ := newLedgerFixture(t)
	seedAccount(t, accRepo, payerIBAN, "Jan", "Kowalski", "100.00")

	txn, err := uc.Record(context.Background(), usecase.RecordInput{
		BankIBAN:  payerIBAN,
		Type:      domain.TransactionWithdrawal,
		FirstName: "Jan",
		LastName:  "Kowalski",
		Amount:    decimal.RequireFromString("40.00"),
	})
	require.NoError(t, err)
	require.Equal(t, domain.TransactionWithdrawal, txn.Type)

	acc, _ := accRepo.GetByIBAN(context.Background(), payerIBAN)
	require.True(t, acc.Balance.Equal(decimal.RequireFromString("60.00")), "got %s", acc.Balance)
	require.Len(t, txnRepo.All(), 1)
}

func TestLedgerUseCase_WithdrawalInsufficientFunds(t *testing.T) {
	uc, accRepo, txnRepo, txMgr := newLedgerFixture(t)
	seedAccount(t, accRepo, payerIBAN, "Jan", "Kowalski", "100.00")

	_, err := uc.Record(context.Background(), usecase.RecordInput{
		BankIBAN:  payerIBAN,
		Type:      domain.TransactionWithdrawal,
		FirstName: "Jan",
		LastName:  "Kowalski",
		Amount:    decimal.RequireFromString("100.01"),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	acc, _ := accRepo.GetByIBAN(context.Background(), payerIBAN)
	require.True(t, acc.Balance.Equal(decimal.RequireFromString("100.00")))
	require.Empty(t, txnRepo.All(), "no record may exist after a rejection")

	txs := txMgr.Txs()
	require.Len(t, txs, 1)
	require.True(t, txs[0].RolledBack)
	require.False(t, txs[0].Committed)
}

func TestLedgerUseCase_Transfer(t *testing.T) {
	uc, accRepo, txnRepo, _ := newLedgerFixture(t)
	seedAccount(t, accRepo, payerIBAN, "Jan", "Kowalski", "950.00")
	seedAccount(t, accRepo, payeeIBAN, "Anna", "Nowak", "200.00")

	txn, err := uc.Record(context.Background(), usecase.RecordInput{
		BankIBAN:         payerIBAN,
		Type:             domain.TransactionTransfer,
		FirstName:        "Anna",
		LastName:         "Nowak",
		Amount:           decimal.RequireFromString("300.00"),
		CounterpartyIBAN: payeeIBAN,
	})
	require.NoError(t, err)

	payer, _ := accRepo.GetByIBAN(context.Background(), payerIBAN)
	payee, _ := accRepo.GetByIBAN(context.Background(), payeeIBAN)
	require.True(t, payer.Balance.Equal(decimal.RequireFromString("650.00")), "payer got %s", payer.Balance)
	require.True(t, payee.Balance.Equal(decimal.RequireFromString("500.00")), "payee got %s", payee.Balance)

	records := txnRepo.All()
	require.Len(t, records, 2, "exactly one TRANSFER and one DEPOSIT")

	require.Equal(t, domain.TransactionTransfer, records[0].Type)
	require.Equal(t, payerIBAN, records[0].BankIBAN)
	require.Equal(t, payeeIBAN, records[0].IBAN)
	require.Equal(t, txn.ID, records[0].ID)

	// counterparty side: a system DEPOSIT carrying the payer's name and
	// IBAN, so the receiving statement shows who paid
	require.Equal(t, domain.TransactionDeposit, records[1].Type)
	require.Equal(t, payeeIBAN, records[1].BankIBAN)
	require.Equal(t, payerIBAN, records[1].IBAN)
	require.Equal(t, "Jan", records[1].FirstName)
	require.Equal(t, "Kowalski", records[1].LastName)

	require.True(t, records[0].Amount.Equal(records[1].Amount))
}

func TestLedgerUseCase_TransferInsufficientFunds(t *testing.T) {
	uc, accRepo, txnRepo, _ := newLedgerFixture(t)
	seedAccount(t, accRepo, payerIBAN, "Jan", "Kowalski", "100.00")
	seedAccount(t, accRepo, payeeIBAN, "Anna", "Nowak", "200.00")

	_, err := uc.Record(context.Background(), usecase.RecordInput{
		BankIBAN:         payerIBAN,
		Type:             domain.TransactionTransfer,
		FirstName:        "Anna",
		LastName:         "Nowak",
		Amount:           decimal.RequireFromString("2000.00"),
		CounterpartyIBAN: payeeIBAN,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	payer, _ := accRepo.GetByIBAN(context.Background(), payerIBAN)
	payee, _ := accRepo.GetByIBAN(context.Background(), payeeIBAN)
	require.True(t, payer.Balance.Equal(decimal.RequireFromString("100.00")))
	require.True(t, payee.Balance.Equal(decimal.RequireFromString("200.00")))
	require.Empty(t, txnRepo.All())
}

func TestLedgerUseCase_TransferDestinationNotFound(t *testing.T) {
	uc, accRepo, txnRepo, _ := newLedgerFixture(t)
	seedAccount(t, accRepo, payerIBAN, "Jan", "Kowalski", "1000.00")

	_, err := uc.Record(context.Background(), usecase.RecordInput{
		BankIBAN:         payerIBAN,
		Type:             domain.TransactionTransfer,
		FirstName:        "Anna",
		LastName:         "Nowak",
		Amount:           decimal.RequireFromString("10.00"),
		CounterpartyIBAN: payeeIBAN,
	})
	require.ErrorIs(t, err, domain.ErrDestinationNotFound)

	payer, _ := accRepo.GetByIBAN(context.Background(), payerIBAN)
	require.True(t, payer.Balance.Equal(decimal.RequireFromString("1000.00")))
	require.Empty(t, txnRepo.All())
}

func TestLedgerUseCase_RejectsBeforeStorage(t *testing.T) {
	tests := []struct {
		name  string
		input usecase.RecordInput
		want  error
	}{
		{
			name: "zero amount",
			input: usecase.RecordInput{
				BankIBAN: payerIBAN,
				Type:     domain.TransactionDeposit,
				Amount:   decimal.Zero,
			},
			want: domain.ErrInvalidAmount,
		},
		{
			name: "negative amount",
			input: usecase.RecordInput{
				BankIBAN: payerIBAN,
				Type:     domain.TransactionWithdrawal,
				Amount:   decimal.RequireFromString("-5.00"),
			},
			want: domain.ErrInvalidAmount,
		},
		{
			name: "unknown type",
			input: usecase.RecordInput{
				BankIBAN: payerIBAN,
				Type:     domain.TransactionType("REFUND"),
				Amount:   decimal.RequireFromString("5.00"),
			},
			want: domain.ErrInvalidType,
		},
		{
			name: "transfer to self",
			input: usecase.RecordInput{
				BankIBAN:         payerIBAN,
				Type:             domain.TransactionTransfer,
				Amount:           decimal.RequireFromString("5.00"),
				CounterpartyIBAN: payerIBAN,
			},
			want: domain.ErrSameAccount,
		},
		{
			name: "transfer with malformed destination",
			input: usecase.RecordInput{
				BankIBAN:         payerIBAN,
				Type:             domain.TransactionTransfer,
				Amount:           decimal.RequireFromString("5.00"),
				CounterpartyIBAN: "not-an-iban",
			},
			want: domain.ErrInvalidIBANFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _, txnRepo, txMgr := newLedgerFixture(t)

			_, err := uc.Record(context.Background(), tt.input)
			require.ErrorIs(t, err, tt.want)
			require.Empty(t, txnRepo.All())
			require.Empty(t, txMgr.Txs(), "validation must reject before a transaction is opened")
		})
	}
}

func TestLedgerUseCase_LocksAccountsInAscendingIBANOrder(t *testing.T) {
	uc, accRepo, _, _ := newLedgerFixture(t)
	seedAccount(t, accRepo, payerIBAN, "Jan", "Kowalski", "1000.00")
	seedAccount(t, accRepo, payeeIBAN, "Anna", "Nowak", "0.00")

	var locked []string
	accRepo.GetByIBANsForUpdateFunc = func(ctx context.Context, tx usecase.Tx, ibans []string) ([]*domain.Account, error) {
		locked = append([]string(nil), ibans...)
		var accounts []*domain.Account
		for _, iban := range ibans {
			acc, err := accRepo.GetByIBAN(ctx, iban)
			if err != nil {
				return nil, err
			}
			accounts = append(accounts, acc)
		}
		return accounts, nil
	}

	// payerIBAN sorts after payeeIBAN; the lock request must come sorted
	_, err := uc.Record(context.Background(), usecase.RecordInput{
		BankIBAN:         payerIBAN,
		Type:             domain.TransactionTransfer,
		FirstName:        "Anna",
		LastName:         "Nowak",
		Amount:           decimal.RequireFromString("1.00"),
		CounterpartyIBAN: payeeIBAN,
	})
	require.NoError(t, err)
	require.Equal(t, []string{payeeIBAN, payerIBAN}, locked)
}

func TestLedgerUseCase_ConcurrentTransfersSettleExactlyOne(t *testing.T) {
	// two transfers of 70.00 against a 100.00 balance: each affordable on
	// its own, jointly overdrawing, so exactly one may settle
	uc, accRepo, txnRepo, txMgr := newLedgerFixture(t)
	seedAccount(t, accRepo, payerIBAN, "Jan", "Kowalski", "100.00")
	seedAccount(t, accRepo, payeeIBAN, "Anna", "Nowak", "0.00")

	// row lock held from acquisition until the settlement commits or
	// rolls back, the way FOR UPDATE holds it
	var rowLock sync.Mutex
	var entered sync.WaitGroup
	entered.Add(2)

	txMgr.BeginFunc = func(ctx context.Context) (usecase.Tx, error) {
		var once sync.Once
		release := func() { once.Do(rowLock.Unlock) }
		return &mocks.MockTx{
			CommitFunc:   func(ctx context.Context) error { release(); return nil },
			RollbackFunc: func(ctx context.Context) error { release(); return nil },
		}, nil
	}

	accRepo.GetByIBANsForUpdateFunc = func(ctx context.Context, tx usecase.Tx, ibans []string) ([]*domain.Account, error) {
		entered.Done()
		entered.Wait() // both settlements in flight before either locks
		rowLock.Lock()
		var accounts []*domain.Account
		for _, iban := range ibans {
			acc, err := accRepo.GetByIBAN(ctx, iban)
			if err != nil {
				return nil, err
			}
			accounts = append(accounts, acc)
		}
		return accounts, nil
	}

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := uc.Record(context.Background(), usecase.RecordInput{
				BankIBAN:         payerIBAN,
				Type:             domain.TransactionTransfer,
				FirstName:        "Anna",
				LastName:         "Nowak",
				Amount:           decimal.RequireFromString("70.00"),
				CounterpartyIBAN: payeeIBAN,
			})
			errs <- err
		}()
	}

	var failures []error
	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			failures = append(failures, err)
		}
	}

	require.Len(t, failures, 1, "exactly one transfer may settle")
	require.ErrorIs(t, failures[0], domain.ErrInsufficientFunds)

	payer, _ := accRepo.GetByIBAN(context.Background(), payerIBAN)
	payee, _ := accRepo.GetByIBAN(context.Background(), payeeIBAN)
	require.True(t, payer.Balance.Equal(decimal.RequireFromString("30.00")), "payer got %s", payer.Balance)
	require.True(t, payee.Balance.Equal(decimal.RequireFromString("70.00")), "payee got %s", payee.Balance)
	require.Len(t, txnRepo.All(), 2, "the winning transfer writes exactly two records")
}

func TestLedgerUseCase_ScenarioFromTheBook(t *testing.T) {
	// P created with 1000.00, deposit 250.00, transfer 300.00 to Q
	// holding 200.00, then an unaffordable 2000.00 transfer
	uc, accRepo, txnRepo, _ := newLedgerFixture(t)
	seedAccount(t, accRepo, payerIBAN, "Jan", "Kowalski", "1000.00")
	seedAccount(t, accRepo, payeeIBAN, "Anna", "Nowak", "200.00")

	_, err := uc.Record(context.Background(), usecase.RecordInput{
		BankIBAN: payerIBAN, Type: domain.TransactionDeposit,
		FirstName: "Jan", LastName: "Kowalski",
		Amount: decimal.RequireFromString("250.00"),
	})
	require.NoError(t, err)

	p, _ := accRepo.GetByIBAN(context.Background(), payerIBAN)
	require.True(t, p.Balance.Equal(decimal.RequireFromString("1250.00")))

	_, err = uc.Record(context.Background(), usecase.RecordInput{
		BankIBAN: payerIBAN, Type: domain.TransactionTransfer,
		FirstName: "Anna", LastName: "Nowak",
		Amount:           decimal.RequireFromString("300.00"),
		CounterpartyIBAN: payeeIBAN,
	})
	require.NoError(t, err)

	p, _ = accRepo.GetByIBAN(context.Background(), payerIBAN)
	q, _ := accRepo.GetByIBAN(context.Background(), payeeIBAN)
	require.True(t, p.Balance.Equal(decimal.RequireFromString("950.00")))
	require.True(t, q.Balance.Equal(decimal.RequireFromString("500.00")))
	require.Len(t, txnRepo.All(), 3)

	_, err = uc.Record(context.Background(), usecase.RecordInput{
		BankIBAN: payerIBAN, Type: domain.TransactionTransfer,
		FirstName: "Anna", LastName: "Nowak",
		Amount:           decimal.RequireFromString("2000.00"),
		CounterpartyIBAN: payeeIBAN,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	p, _ = accRepo.GetByIBAN(context.Background(), payerIBAN)
	require.True(t, p.Balance.Equal(decimal.RequireFromString("950.00")))
}

func TestLedgerUseCase_GetByIBANIsIdempotent(t *testing.T) {
	_, accRepo, _, _ := newLedgerFixture(t)
	seedAccount(t, accRepo, payerIBAN, "Jan", "Kowalski", "123.45")

	for i := 0; i < 5; i++ {
		acc, err := accRepo.GetByIBAN(context.Background(), payerIBAN)
		require.NoError(t, err)
		require.True(t, acc.Balance.Equal(decimal.RequireFromString("123.45")))
	}
}

func TestLedgerUseCase_CheckConsistency(t *testing.T) {
	accRepo := mocks.NewMockAccountRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	ledgerRepo := mocks.NewMockLedgerRepository()
	ledgerRepo.CheckConsistencyFunc = func(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
		return decimal.RequireFromString("500.00"), decimal.RequireFromString("500.00"), nil
	}

	uc := usecase.NewLedgerUseCase(mocks.NewMockTxManager(), accRepo, txnRepo, ledgerRepo, nil, nil)

	report, err := uc.CheckConsistency(context.Background())
	require.NoError(t, err)
	require.True(t, report.Consistent)

	ledgerRepo.CheckConsistencyFunc = func(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
		return decimal.RequireFromString("500.00"), decimal.RequireFromString("499.99"), nil
	}

	report, err = uc.CheckConsistency(context.Background())
	require.NoError(t, err)
	require.False(t, report.Consistent)
}
