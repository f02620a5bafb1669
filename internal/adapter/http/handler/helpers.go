package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/wrob/paygate/internal/adapter/http/dto"
	"github.com/wrob/paygate/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// decodeRequest decodes the JSON body into req and runs tag validation.
func decodeRequest(r *http.Request, req any) error {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return err
	}
	return dto.Validate(req)
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrDestinationNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrCardNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrOrderLinkInvalid):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrCardInvalid),
		errors.Is(err, domain.ErrCardExpired),
		errors.Is(err, domain.ErrCVCMismatch):
		return http.StatusPaymentRequired
	case errors.Is(err, domain.ErrDuplicateIBAN),
		errors.Is(err, domain.ErrDuplicateCard),
		errors.Is(err, domain.ErrCardNetworkTaken),
		errors.Is(err, domain.ErrOrderAlreadyPaid):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrInvalidType),
		errors.Is(err, domain.ErrUnsupportedCountry),
		errors.Is(err, domain.ErrInvalidIBANFormat),
		errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidCardNumber),
		errors.Is(err, domain.ErrInvalidCVC),
		errors.Is(err, domain.ErrUnsupportedCardNetwork),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrAmountNotQuantized):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
