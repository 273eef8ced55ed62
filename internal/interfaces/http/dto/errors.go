package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
// Codes not listed here are treated as validation failures (400).
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeConflict:     http.StatusConflict,

	"ALREADY_EXISTS":          http.StatusConflict,
	"CONCURRENT_MODIFICATION": http.StatusConflict,
	"ALREADY_RATED":           http.StatusConflict,

	"NOT_SELLER": http.StatusForbidden,
	"NOT_BUYER":  http.StatusForbidden,

	"INVALID_STATE": http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for a domain error code
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusBadRequest
}
