package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"storefront/internal/middleware"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

var statusByCode = map[string]int{
	model.ErrCodeInvalidJSON:          http.StatusBadRequest,
	model.ErrCodeMissingField:         http.StatusBadRequest,
	model.ErrCodeInvalidQuantity:      http.StatusBadRequest,
	model.ErrCodeInvalidQuery:         http.StatusBadRequest,
	model.ErrCodeUnknownCoupon:        http.StatusBadRequest,
	model.ErrCodeUnauthorised:         http.StatusUnauthorized,
	model.ErrCodeNotFound:             http.StatusNotFound,
	model.ErrCodeProductNotFound:      http.StatusNotFound,
	model.ErrCodeLineNotFound:         http.StatusNotFound,
	model.ErrCodeNoActiveCheckout:     http.StatusNotFound,
	model.ErrCodeAlreadyPresent:       http.StatusConflict,
	model.ErrCodeCollectionFull:       http.StatusConflict,
	model.ErrCodeInvalidStep:          http.StatusConflict,
	model.ErrCodeCouponAlreadyApplied: http.StatusConflict,
	model.ErrCodeEmptyCart:            http.StatusConflict,
	model.ErrCodeCheckoutClosed:       http.StatusConflict,
	model.ErrCodeValidationFailed:     http.StatusUnprocessableEntity,
}

var errInvalidJSON = model.NewDomainError(model.ErrCodeInvalidJSON, "Request body is not valid JSON")

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError maps err to a status code and writes the standard error body.
// Errors that are not domain errors are reported as internal errors without
// their details.
func writeError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	resp := model.ErrorResponse{
		Error:         model.ErrCodeInternalError,
		Message:       "internal server error",
		CorrelationID: middleware.RequestIDFromContext(r.Context()),
	}
	status := http.StatusInternalServerError

	if de, ok := model.AsDomainError(err); ok {
		if s, known := statusByCode[de.Code]; known {
			status = s
			resp.Error = de.Code
			resp.Message = de.Message
			resp.Fields = de.Fields
		}
	}

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).
		Int("status", status).
		Str("code", resp.Error).
		Str("request_id", resp.CorrelationID).
		Msg("handler error")

	writeJSON(w, status, resp)
}

// decodeJSON reads the request body into dst. An empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return errInvalidJSON
	}
	return nil
}

// pathID parses an integer path parameter. Malformed ids report notFound.
func pathID(r *http.Request, name string, notFound error) (int, error) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil || id <= 0 {
		return 0, notFound
	}
	return id, nil
}

// productRef is the body of requests that name a catalogue product.
type productRef struct {
	ProductID int `json:"productId"`
}

func (p productRef) validate() error {
	if p.ProductID <= 0 {
		return model.NewValidationError("productId is required", []model.FieldError{{Field: "productId", Rule: "required"}})
	}
	return nil
}
