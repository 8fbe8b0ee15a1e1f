package constants

// Context keys shared between handlers and middleware
const (
	ContextKeyRequestID = "RequestID"
	ContextKeyErrorCode = "errorCode"
)

// Headers
const (
	HeaderRequestID     = "X-Request-ID"
	HeaderCorrelationID = "X-Correlation-ID"
)
