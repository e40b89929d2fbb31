package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies a failure the screen layer knows how to present
type Kind string

const (
	KindMalformedPayload     Kind = "malformed_payload"
	KindProductNotFound      Kind = "product_not_found"
	KindInvalidInput         Kind = "invalid_input"
	KindPaymentRejected      Kind = "payment_rejected"
	KindNetworkUnavailable   Kind = "network_unavailable"
	KindStoreWriteFailed     Kind = "store_write_failed"
	KindTimeout              Kind = "timeout"
	KindScanInProgress       Kind = "scan_in_progress"
	KindConfirmationRequired Kind = "confirmation_required"
	KindNotFound             Kind = "not_found"
	KindBadRequest           Kind = "bad_request"
	KindTooManyRequests      Kind = "too_many_requests"
	KindInternal             Kind = "internal"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Kind    Kind         `json:"kind"`
	Title   string       `json:"title"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
	Err     error        `json:"-"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches on Kind so errors.Is(err, apperror.ErrTimeout) works for any timeout
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Common errors
var (
	ErrMalformedPayload     = &AppError{Code: http.StatusBadRequest, Kind: KindMalformedPayload, Title: "Invalid QR", Message: "QR code data is not valid JSON."}
	ErrProductNotFound      = &AppError{Code: http.StatusNotFound, Kind: KindProductNotFound, Title: "Not Found", Message: "No product matched this QR code."}
	ErrInvalidInput         = &AppError{Code: http.StatusUnprocessableEntity, Kind: KindInvalidInput, Title: "Invalid Input", Message: "Please enter valid quantity and QR code"}
	ErrPaymentRejected      = &AppError{Code: http.StatusPaymentRequired, Kind: KindPaymentRejected, Title: "Payment Failed", Message: "Something went wrong"}
	ErrNetworkUnavailable   = &AppError{Code: http.StatusServiceUnavailable, Kind: KindNetworkUnavailable, Title: "Error", Message: "Something went wrong while contacting the store."}
	ErrStoreWriteFailed     = &AppError{Code: http.StatusInternalServerError, Kind: KindStoreWriteFailed, Title: "Storage Error", Message: "Could not update the local receipt history."}
	ErrTimeout              = &AppError{Code: http.StatusGatewayTimeout, Kind: KindTimeout, Title: "Timeout", Message: "The store did not answer in time."}
	ErrScanInProgress       = &AppError{Code: http.StatusConflict, Kind: KindScanInProgress, Title: "Scan In Progress", Message: "A code was already scanned. Tap scan again to retry."}
	ErrConfirmationRequired = &AppError{Code: http.StatusPreconditionRequired, Kind: KindConfirmationRequired, Title: "Confirm", Message: "Clear payment history?"}
	ErrNotFound             = &AppError{Code: http.StatusNotFound, Kind: KindNotFound, Title: "Not Found", Message: "Resource not found"}
	ErrBadRequest           = &AppError{Code: http.StatusBadRequest, Kind: KindBadRequest, Title: "Error", Message: "Bad request"}
	ErrTooManyRequests      = &AppError{Code: http.StatusTooManyRequests, Kind: KindTooManyRequests, Title: "Slow Down", Message: "Rate limit exceeded. Please try again later."}
	ErrInternalServer       = &AppError{Code: http.StatusInternalServerError, Kind: KindInternal, Title: "Error", Message: "Internal server error"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Kind:    KindInternal,
		Title:   "Error",
		Message: message,
	}
}

// With returns a copy of base carrying a custom message (empty keeps the default) and cause
func With(base *AppError, message string, cause error) *AppError {
	e := *base
	if message != "" {
		e.Message = message
	}
	e.Err = cause
	return &e
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	e := *ErrInvalidInput
	e.Errors = fieldErrors
	return &e
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return With(ErrNotFound, resource+" not found", nil)
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return With(ErrBadRequest, message, nil)
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// KindOf returns the kind of err, or KindInternal when it is not an AppError
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Kind:    KindInternal,
		Title:   "Error",
		Message: err.Error(),
	}
}
