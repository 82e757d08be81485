package model

import "errors"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string       `json:"error"`
	Message       string       `json:"message"`
	Fields        []FieldError `json:"fields,omitempty"`
	CorrelationID string       `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON          = "INVALID_JSON"
	ErrCodeMissingField         = "MISSING_FIELD"
	ErrCodeAlreadyPresent       = "ALREADY_PRESENT"
	ErrCodeCollectionFull       = "COLLECTION_FULL"
	ErrCodeInvalidQuantity      = "INVALID_QUANTITY"
	ErrCodeLineNotFound         = "LINE_NOT_FOUND"
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeProductNotFound      = "PRODUCT_NOT_FOUND"
	ErrCodeInvalidQuery         = "INVALID_QUERY"
	ErrCodeValidationFailed     = "VALIDATION_FAILED"
	ErrCodeInvalidStep          = "INVALID_STEP"
	ErrCodeUnknownCoupon        = "UNKNOWN_COUPON"
	ErrCodeCouponAlreadyApplied = "COUPON_ALREADY_APPLIED"
	ErrCodeEmptyCart            = "EMPTY_CART"
	ErrCodeCheckoutClosed       = "CHECKOUT_CLOSED"
	ErrCodeNoActiveCheckout     = "NO_ACTIVE_CHECKOUT"
	ErrCodeUnauthorised         = "UNAUTHORIZED"
	ErrCodeInternalError        = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
	Fields  []FieldError
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches domain errors by code so that errors carrying field details still
// compare equal to their sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// FieldError describes a single invalid field of a checkout step.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation failure carrying field details.
func NewValidationError(message string, fields []FieldError) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidationFailed,
		Message: message,
		Fields:  fields,
	}
}

// AsDomainError unwraps err into a DomainError when it is one.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Common domain errors
var (
	ErrAlreadyPresent       = NewDomainError(ErrCodeAlreadyPresent, "Item is already in the collection")
	ErrCollectionFull       = NewDomainError(ErrCodeCollectionFull, "Collection is full")
	ErrCompareFull          = NewDomainError(ErrCodeCollectionFull, "You can compare up to 4 products at a time")
	ErrInvalidQuantity      = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrLineNotFound         = NewDomainError(ErrCodeLineNotFound, "Cart line not found")
	ErrNotFound             = NewDomainError(ErrCodeNotFound, "Item not found")
	ErrProductNotFound      = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrInvalidQuery         = NewDomainError(ErrCodeInvalidQuery, "Catalog query is invalid")
	ErrValidationFailed     = NewDomainError(ErrCodeValidationFailed, "Step data is invalid")
	ErrInvalidStep          = NewDomainError(ErrCodeInvalidStep, "Requested step is not reachable from the current step")
	ErrUnknownCoupon        = NewDomainError(ErrCodeUnknownCoupon, "Coupon code is not recognised")
	ErrCouponAlreadyApplied = NewDomainError(ErrCodeCouponAlreadyApplied, "Remove the applied coupon before applying another")
	ErrEmptyCart            = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrCheckoutClosed       = NewDomainError(ErrCodeCheckoutClosed, "Order has already been placed")
	ErrNoActiveCheckout     = NewDomainError(ErrCodeNoActiveCheckout, "No checkout in progress")
)
