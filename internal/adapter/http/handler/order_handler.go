package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wrob/paygate/internal/adapter/http/dto"
	"github.com/wrob/paygate/internal/domain"
	"github.com/wrob/paygate/internal/usecase"
)

// OrderService defines the behavior needed by OrderHandler.
type OrderService interface {
	CreateOrder(ctx context.Context, input usecase.CreateOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
}

// PaymentService defines the card charge behavior needed by OrderHandler.
type PaymentService interface {
	ChargeOrder(ctx context.Context, input usecase.ChargeOrderInput) (*domain.Transaction, *domain.Order, error)
}

// OrderHandler handles order and payment HTTP requests.
type OrderHandler struct {
	orderUC   OrderService
	paymentUC PaymentService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderUC OrderService, paymentUC PaymentService) *OrderHandler {
	return &OrderHandler{orderUC: orderUC, paymentUC: paymentUC}
}

// Create creates an order with a fresh payment link.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateOrderRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	order, err := h.orderUC.CreateOrder(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create order", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.OrderFromDomain(order))
}

// Get retrieves an order by ID.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing order id", "")
		return
	}

	order, err := h.orderUC.GetOrder(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get order", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.OrderFromDomain(order))
}

// Charge settles an order with a card payment.
func (h *OrderHandler) Charge(w http.ResponseWriter, r *http.Request) {
	var req dto.ChargeOrderRequest
	if err := decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	txn, order, err := h.paymentUC.ChargeOrder(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "payment declined", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ChargeOrderResponse{
		Transaction: dto.TransactionFromDomain(txn),
		Order:       dto.OrderFromDomain(order),
	})
}
