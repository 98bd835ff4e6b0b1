package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
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
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrInsufficientStock   = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrInsufficientPoints  = NewDomainError("INSUFFICIENT_POINTS", "Insufficient loyalty points available")
	ErrMissingCredentials  = NewDomainError("MISSING_CREDENTIALS", "Required channel credentials are not configured")
	ErrChannelDisabled     = NewDomainError("CHANNEL_DISABLED", "Dispatch channel is not enabled")
	ErrUnknownSMSProvider  = NewDomainError("UNKNOWN_SMS_PROVIDER", "SMS provider is not registered")
	ErrOfflineQueueCorrupt = NewDomainError("OFFLINE_QUEUE_CORRUPT", "Pending write payload could not be decoded")
)
