package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wrob/paygate/internal/adapter/http/dto"
	"github.com/wrob/paygate/internal/domain"
	"github.com/wrob/paygate/internal/usecase"
)

// LedgerService defines the behavior needed by TransactionHandler.
type LedgerService interface {
	Record(ctx context.Context, input usecase.RecordInput) (*domain.Transaction, error)
	GetTransaction(ctx context.Context, id int64) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, input usecase.ListTransactionsInput) ([]*domain.Transaction, error)
	CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error)
}

// TransactionHandler handles ledger-related HTTP requests.
type TransactionHandler struct {
	ledgerUC LedgerService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ledgerUC LedgerService) *TransactionHandler {
	return &TransactionHandler{ledgerUC: ledgerUC}
}

// Create settles a deposit, withdrawal or transfer.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	txn, err := h.ledgerUC.Record(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(txn))
}

// Get retrieves a ledger record by ID.
func (h *TransactionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transaction id", err.Error())
		return
	}

	txn, err := h.ledgerUC.GetTransaction(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get transaction", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionFromDomain(txn))
}

// ListByAccount lists the records booked against an account, newest first.
func (h *TransactionHandler) ListByAccount(w http.ResponseWriter, r *http.Request) {
	iban := chi.URLParam(r, "iban")
	if iban == "" {
		writeError(w, http.StatusBadRequest, "missing account iban", "")
		return
	}

	txns, err := h.ledgerUC.ListTransactions(r.Context(), usecase.ListTransactionsInput{
		IBAN:   iban,
		Limit:  parseIntQuery(r, "limit", usecase.DefaultPageSize),
		Offset: parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list transactions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: dto.TransactionsFromDomain(txns),
		Total:        int64(len(txns)),
	})
}

// CheckConsistency audits the whole ledger.
func (h *TransactionHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledgerUC.CheckConsistency(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check consistency", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyFromReport(report))
}
