package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wrob/paygate/internal/adapter/http/dto"
	"github.com/wrob/paygate/internal/domain"
	"github.com/wrob/paygate/internal/usecase"
)

// CardService defines the behavior needed by CardHandler.
type CardService interface {
	IssueCard(ctx context.Context, input usecase.IssueCardInput) (*domain.Card, error)
	LookupCard(ctx context.Context, number string) (*domain.Card, error)
	SetValidity(ctx context.Context, number string, valid bool) (*domain.Card, error)
}

// CardHandler handles card-related HTTP requests.
type CardHandler struct {
	cardUC CardService
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(cardUC CardService) *CardHandler {
	return &CardHandler{cardUC: cardUC}
}

// Issue issues a card for an account. The response is the only place the
// CVC is ever disclosed.
func (h *CardHandler) Issue(w http.ResponseWriter, r *http.Request) {
	var req dto.IssueCardRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	card, err := h.cardUC.IssueCard(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to issue card", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.IssuedCardFromDomain(card))
}

// Get retrieves a card by number.
func (h *CardHandler) Get(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	if number == "" {
		writeError(w, http.StatusBadRequest, "missing card number", "")
		return
	}

	card, err := h.cardUC.LookupCard(r.Context(), number)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get card", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CardFromDomain(card))
}

// SetValidity toggles a card's validity flag.
func (h *CardHandler) SetValidity(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	if number == "" {
		writeError(w, http.StatusBadRequest, "missing card number", "")
		return
	}

	var req dto.SetCardValidityRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	card, err := h.cardUC.SetValidity(r.Context(), number, *req.Valid)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update card", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.CardFromDomain(card))
}
