package dto

import "net/http"

// Error codes returned in ErrorInfo.Code. Format: ERR_<CATEGORY>_<DESCRIPTION>
const (
	ErrCodeInternal = "ERR_INTERNAL"

	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"

	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
	ErrCodeTokenRevoked = "ERR_TOKEN_REVOKED"

	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"

	ErrCodeInvalidState     = "ERR_INVALID_STATE"
	ErrCodeAlreadySubmitted = "ERR_ALREADY_SUBMITTED"
	ErrCodeSubmitInProgress = "ERR_SUBMIT_IN_PROGRESS"

	// ErrCodeSalesCycleFailed means the remote sales backend rejected a step of the submit pipeline
	ErrCodeSalesCycleFailed      = "ERR_SALES_CYCLE_FAILED"
	ErrCodePaymentAccountMissing = "ERR_PAYMENT_ACCOUNT_MISSING"

	ErrCodeArchiveUnavailable  = "ERR_ARCHIVE_UNAVAILABLE"
	ErrCodeRendererUnavailable = "ERR_RENDERER_UNAVAILABLE"
	ErrCodeRenderFailed        = "ERR_RENDER_FAILED"

	ErrCodeRateLimited     = "ERR_RATE_LIMITED"
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeTokenRevoked: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:     http.StatusUnprocessableEntity,
	ErrCodeAlreadySubmitted: http.StatusUnprocessableEntity,
	ErrCodeSubmitInProgress: http.StatusConflict,

	ErrCodeSalesCycleFailed:      http.StatusBadGateway,
	ErrCodePaymentAccountMissing: http.StatusUnprocessableEntity,

	ErrCodeArchiveUnavailable:  http.StatusServiceUnavailable,
	ErrCodeRendererUnavailable: http.StatusServiceUnavailable,
	ErrCodeRenderFailed:        http.StatusInternalServerError,

	ErrCodeRateLimited:     http.StatusTooManyRequests,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the status for code, 500 when the code is unknown
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainCodeMapping maps shared.DomainError codes onto API codes
var domainCodeMapping = map[string]string{
	"NOT_FOUND":               ErrCodeNotFound,
	"ALREADY_EXISTS":          ErrCodeAlreadyExists,
	"INVALID_INPUT":           ErrCodeInvalidInput,
	"VALIDATION_FAILED":       ErrCodeValidation,
	"INVALID_STATE":           ErrCodeInvalidState,
	"ALREADY_SUBMITTED":       ErrCodeAlreadySubmitted,
	"NAME_ALREADY_SET":        ErrCodeInvalidState,
	"UNAUTHORIZED":            ErrCodeUnauthorized,
	"CONCURRENCY_CONFLICT":    ErrCodeConcurrencyConflict,
	"CONCURRENT_MODIFICATION": ErrCodeConcurrencyConflict,
	"SUBMIT_IN_PROGRESS":      ErrCodeSubmitInProgress,
	"SALES_CYCLE_FAILED":      ErrCodeSalesCycleFailed,
	"PAYMENT_ACCOUNT_MISSING": ErrCodePaymentAccountMissing,
	"ARCHIVE_UNAVAILABLE":     ErrCodeArchiveUnavailable,
	"RENDERER_UNAVAILABLE":    ErrCodeRendererUnavailable,
	"RENDER_FAILED":           ErrCodeRenderFailed,
	"RENDER_TIMEOUT":          ErrCodeRenderFailed,
	"INVALID_HTML":            ErrCodeRenderFailed,
}

// NormalizeErrorCode converts a domain error code to its API code.
// Codes beginning with INVALID_ are input errors; anything else unknown passes through.
func NormalizeErrorCode(code string) string {
	if mapped, ok := domainCodeMapping[code]; ok {
		return mapped
	}
	if len(code) > len("INVALID_") && code[:len("INVALID_")] == "INVALID_" {
		return ErrCodeInvalidInput
	}
	return code
}
