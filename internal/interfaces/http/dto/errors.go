package dto

import (
	"net/http"
	"strings"
)

// Error code constants shared by the handlers.
const (
	ErrCodeUnknown      = "ERR_UNKNOWN"
	ErrCodeInternal     = "ERR_INTERNAL"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	ErrCodeForbidden    = "ERR_FORBIDDEN"
	ErrCodeNotFound     = "ERR_NOT_FOUND"
	ErrCodeConflict     = "ERR_CONFLICT"
	ErrCodeOffline      = "ERR_OFFLINE"
)

// domainErrorHTTPStatus maps domain error codes to HTTP status codes.
// Codes not in the map fall through to 422: the request was readable but
// a business rule rejected it.
var domainErrorHTTPStatus = map[string]int{
	"NOT_FOUND":             http.StatusNotFound,
	"ALREADY_EXISTS":        http.StatusConflict,
	"UNAUTHORIZED":          http.StatusUnauthorized,
	"INVALID_STATE":         http.StatusConflict,
	"INSUFFICIENT_STOCK":    http.StatusUnprocessableEntity,
	"INSUFFICIENT_POINTS":   http.StatusUnprocessableEntity,
	"INSUFFICIENT_PAYMENT":  http.StatusUnprocessableEntity,
	"MISSING_CREDENTIALS":   http.StatusUnprocessableEntity,
	"CHANNEL_DISABLED":      http.StatusUnprocessableEntity,
	"UNKNOWN_SMS_PROVIDER":  http.StatusUnprocessableEntity,
	"OFFLINE_QUEUE_CORRUPT": http.StatusInternalServerError,
}

// GetHTTPStatus resolves a domain error code to its HTTP status.
func GetHTTPStatus(code string) int {
	if status, ok := domainErrorHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") || strings.HasPrefix(code, "EMPTY_") {
		return http.StatusBadRequest
	}
	switch code {
	case ErrCodeBadRequest, ErrCodeInvalidJSON:
		return http.StatusBadRequest
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeInternal, ErrCodeUnknown:
		return http.StatusInternalServerError
	case ErrCodeOffline:
		return http.StatusServiceUnavailable
	}
	return http.StatusUnprocessableEntity
}
