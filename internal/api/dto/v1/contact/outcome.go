package contact

import (
	"net/http"

	"github.com/osa911/portfolio-contact/internal/api/dto/common"
)

// Outcome is the terminal result of one contact submission.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeValidationFailed
	OutcomeRateLimited
	OutcomeCaptchaFailed
	OutcomeEmailFailed
	OutcomeServiceUnavailable
	OutcomeUnsupportedMediaType
	OutcomeServerError
)

// Status returns the HTTP status code for the outcome.
func (o Outcome) Status() int {
	switch o {
	case OutcomeSuccess:
		return http.StatusOK
	case OutcomeValidationFailed, OutcomeCaptchaFailed:
		return http.StatusBadRequest
	case OutcomeRateLimited:
		return http.StatusTooManyRequests
	case OutcomeEmailFailed:
		return http.StatusBadGateway
	case OutcomeServiceUnavailable:
		return http.StatusServiceUnavailable
	case OutcomeUnsupportedMediaType:
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the machine-readable error code, empty for success.
func (o Outcome) Code() common.ErrorCode {
	switch o {
	case OutcomeSuccess:
		return ""
	case OutcomeValidationFailed:
		return common.ErrCodeValidation
	case OutcomeCaptchaFailed:
		return common.ErrCodeTurnstileFailed
	case OutcomeRateLimited:
		return common.ErrCodeRateLimit
	case OutcomeEmailFailed:
		return common.ErrCodeEmailSendFailed
	case OutcomeServiceUnavailable:
		return common.ErrCodeServiceUnavailable
	case OutcomeUnsupportedMediaType:
		return common.ErrCodeUnsupportedMediaType
	default:
		return common.ErrCodeServerError
	}
}

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeValidationFailed:
		return "validation_failed"
	case OutcomeRateLimited:
		return "rate_limited"
	case OutcomeCaptchaFailed:
		return "captcha_failed"
	case OutcomeEmailFailed:
		return "email_failed"
	case OutcomeServiceUnavailable:
		return "service_unavailable"
	case OutcomeUnsupportedMediaType:
		return "unsupported_media_type"
	default:
		return "server_error"
	}
}
