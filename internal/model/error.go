package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeInvalidCart      = "INVALID_CART"
	ErrCodeMissingSessionID = "MISSING_SESSION_ID"
	ErrCodeSessionNotFound  = "SESSION_NOT_FOUND"
	ErrCodeInvalidSignature = "INVALID_SIGNATURE"
	ErrCodeUnauthorised     = "UNAUTHORIZED"
	ErrCodePaymentFailed    = "PAYMENT_FAILED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// DomainError is a business-rule violation carrying a stable error code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrCartEmpty           = NewDomainError(ErrCodeInvalidCart, "Cart is empty or invalid")
	ErrInvalidCartLine     = NewDomainError(ErrCodeInvalidCart, "Cart contains a malformed line")
	ErrSessionNotFound     = NewDomainError(ErrCodeSessionNotFound, "Session not found or expired")
	ErrMissingSessionID    = NewDomainError(ErrCodeMissingSessionID, "Session ID is required")
	ErrInvalidSignature    = NewDomainError(ErrCodeInvalidSignature, "Webhook signature verification failed")
	ErrMissingUserIdentity = NewDomainError(ErrCodeUnauthorised, "Missing user identity")
)
