package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/osa911/portfolio-contact/internal/api/dto/common"
	"github.com/osa911/portfolio-contact/internal/api/dto/v1/contact"
	"github.com/osa911/portfolio-contact/internal/api/middleware"
	"github.com/osa911/portfolio-contact/internal/api/validation"
	"github.com/osa911/portfolio-contact/internal/ratelimit"
	"github.com/osa911/portfolio-contact/internal/service"
	"github.com/osa911/portfolio-contact/internal/utils"

	"github.com/gin-gonic/gin"
)

// CaptchaVerifier checks a proof-of-humanity token
type CaptchaVerifier interface {
	Verify(ctx context.Context, token, clientIP string) service.VerifyResult
}

// EmailSender delivers the notification for a submission
type EmailSender interface {
	Enabled() bool
	Send(ctx context.Context, c contact.ValidatedContact) service.SendResult
}

// SubmissionObserver records pipeline outcomes
type SubmissionObserver interface {
	ObserveSubmission(outcome string, elapsed time.Duration)
}

type ContactHandler struct {
	validator *validation.Validator
	limiter   ratelimit.Limiter
	captcha   CaptchaVerifier
	email     EmailSender
	observer  SubmissionObserver
}

func NewContactHandler(limiter ratelimit.Limiter, captcha CaptchaVerifier, email EmailSender, observer SubmissionObserver) *ContactHandler {
	return &ContactHandler{
		validator: validation.NewValidator(),
		limiter:   limiter,
		captcha:   captcha,
		email:     email,
		observer:  observer,
	}
}

// stageResult is the terminal state of one pipeline run
type stageResult struct {
	outcome contact.Outcome
	details []common.ValidationError
	cause   error
}

func fail(outcome contact.Outcome, cause error) stageResult {
	return stageResult{outcome: outcome, cause: cause}
}

// Submit runs the contact pipeline. Stages execute in order and the first
// failure ends the request.
func (h *ContactHandler) Submit(c *gin.Context) {
	start := time.Now()

	// A panic leaves the server error outcome in place for the deferred observer
	result := fail(contact.OutcomeServerError, nil)
	if h.observer != nil {
		defer func() {
			h.observer.ObserveSubmission(result.outcome.String(), time.Since(start))
		}()
	}

	result = h.process(c)

	if result.outcome == contact.OutcomeSuccess {
		utils.HandleSuccess(c)
		return
	}

	var details interface{}
	if len(result.details) > 0 {
		details = result.details
	}
	utils.HandleAPIError(c, result.cause, result.outcome.Status(), result.outcome.Code(), details)
}

func (h *ContactHandler) process(c *gin.Context) stageResult {
	ctx := c.Request.Context()

	// The form is disabled where no provider is configured
	if !h.email.Enabled() {
		return fail(contact.OutcomeServiceUnavailable, nil)
	}

	if !isJSONContentType(c.ContentType()) {
		return fail(contact.OutcomeUnsupportedMediaType, nil)
	}

	raw, err := decodeBody(c)
	if err != nil {
		return stageResult{
			outcome: contact.OutcomeValidationFailed,
			details: []common.ValidationError{{Field: validation.BodyField, Message: "Invalid JSON"}},
		}
	}

	validated := h.validator.Validate(raw)
	if !validated.Valid() {
		return stageResult{outcome: contact.OutcomeValidationFailed, details: validated.Errors}
	}

	clientIP := utils.GetRealIP(c)
	decision, err := h.limiter.Check(ctx, clientIP)
	if err != nil {
		return fail(contact.OutcomeServerError, err)
	}
	middleware.SetRateLimitHeaders(c, decision)
	if !decision.Allowed {
		return fail(contact.OutcomeRateLimited, nil)
	}

	verification := h.captcha.Verify(ctx, validated.Data.TurnstileToken, clientIP)
	if !verification.Success {
		return fail(contact.OutcomeCaptchaFailed, fmt.Errorf("turnstile: %s", strings.Join(verification.ErrorCodes, ",")))
	}

	if sent := h.email.Send(ctx, *validated.Data); !sent.Success {
		return fail(contact.OutcomeEmailFailed, errors.New(sent.Error))
	}

	return stageResult{outcome: contact.OutcomeSuccess}
}

// decodeBody reads the whole body and decodes it as a single JSON value
func decodeBody(c *gin.Context) (interface{}, error) {
	if c.Request.Body == nil {
		return nil, errors.New("empty body")
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}

	var raw interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// isJSONContentType accepts application/json and structured +json types.
// gin strips media type parameters such as charset.
func isJSONContentType(contentType string) bool {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	return contentType == "application/json" ||
		(strings.HasPrefix(contentType, "application/") && strings.HasSuffix(contentType, "+json"))
}
