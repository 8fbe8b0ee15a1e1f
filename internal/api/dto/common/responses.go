package common

// APIResponse is the standard wrapper for all API responses
type APIResponse struct {
	OK      bool        `json:"ok"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// ValidationError represents a validation error detail
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Define type for error codes to enforce consistency
type ErrorCode string

// Standard error codes
const (
	ErrCodeValidation           ErrorCode = "VALIDATION_ERROR"
	ErrCodeTurnstileFailed      ErrorCode = "TURNSTILE_FAILED"
	ErrCodeUnsupportedMediaType ErrorCode = "UNSUPPORTED_MEDIA_TYPE"
	ErrCodeRateLimit            ErrorCode = "RATE_LIMIT"
	ErrCodeEmailSendFailed      ErrorCode = "EMAIL_SEND_FAILED"
	ErrCodeServiceUnavailable   ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeServerError          ErrorCode = "SERVER_ERROR"
)

// NewSuccessResponse creates a new successful API response
func NewSuccessResponse() APIResponse {
	return APIResponse{OK: true}
}

// NewErrorResponse creates a new error API response. Details are only
// exposed for validation failures.
func NewErrorResponse(code ErrorCode, details interface{}) APIResponse {
	return APIResponse{
		OK:      false,
		Code:    string(code),
		Details: details,
	}
}
