package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/osa911/portfolio-contact/internal/api/dto/v1/contact"

	"golang.org/x/time/rate"
)

const (
	// DefaultEmailAPIURL is the Resend send endpoint
	DefaultEmailAPIURL = "https://api.resend.com/emails"
	// ContactSubjectPrefix tags contact form mail in the recipient's inbox
	ContactSubjectPrefix = "[Portfolio Contact]"

	genericSendError = "Failed to send email"
)

// EmailConfig holds e-mail provider settings
type EmailConfig struct {
	APIKey string
	To     string
	From   string
	APIURL string
	// SendRate limits outbound sends per second; zero disables the throttle
	SendRate float64
}

// SendResult is the outcome of a notification send
type SendResult struct {
	Success bool
	Error   string
}

// EmailService sends contact form notifications through an HTTP e-mail API
type EmailService struct {
	cfg     EmailConfig
	client  *http.Client
	limiter *rate.Limiter
	now     func() time.Time
}

// NewEmailService creates a new e-mail service
func NewEmailService(cfg EmailConfig) *EmailService {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultEmailAPIURL
	}

	s := &EmailService{
		cfg: cfg,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		now: time.Now,
	}
	if cfg.SendRate > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.SendRate), 1)
	}
	return s
}

// Enabled reports whether a provider API key is configured
func (s *EmailService) Enabled() bool {
	return s.cfg.APIKey != ""
}

// emailMessage represents the provider's send request
type emailMessage struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// emailError represents the provider's error body
type emailError struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name"`
	Message    string `json:"message"`
}

// Send delivers a notification for a validated submission. It never
// returns an error; failures are reported in the result.
func (s *EmailService) Send(ctx context.Context, c contact.ValidatedContact) SendResult {
	if s.cfg.APIKey == "" || s.cfg.To == "" || s.cfg.From == "" {
		return SendResult{Error: "email service not configured"}
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return SendResult{Error: fmt.Sprintf("email send throttled: %v", err)}
		}
	}

	sentAt := s.now().UTC()
	payload := emailMessage{
		From:    s.cfg.From,
		To:      []string{s.cfg.To},
		Subject: ContactSubjectPrefix + " " + c.Subject,
		Text:    RenderContactText(c, sentAt),
		HTML:    RenderContactHTML(c, sentAt),
		ReplyTo: c.Email,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return SendResult{Error: genericSendError}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return SendResult{Error: genericSendError}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return SendResult{Error: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return SendResult{Error: providerErrorMessage(resp)}
	}

	return SendResult{Success: true}
}

func providerErrorMessage(resp *http.Response) string {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err == nil {
		var providerErr emailError
		if json.Unmarshal(body, &providerErr) == nil && providerErr.Message != "" {
			return providerErr.Message
		}
	}
	return fmt.Sprintf("%s: provider returned status %d", genericSendError, resp.StatusCode)
}

// RenderContactText builds the plain-text notification body
func RenderContactText(c contact.ValidatedContact, sentAt time.Time) string {
	var b strings.Builder
	b.WriteString("New contact form submission\n\n")
	fmt.Fprintf(&b, "Name: %s\n", c.Name)
	fmt.Fprintf(&b, "Email: %s\n", c.Email)
	fmt.Fprintf(&b, "Subject: %s\n", c.Subject)
	fmt.Fprintf(&b, "Received: %s\n\n", sentAt.Format(time.RFC3339))
	b.WriteString("Message:\n")
	b.WriteString(c.Message)
	b.WriteString("\n")
	return b.String()
}

// RenderContactHTML builds the HTML notification body. All submitted text
// is escaped before embedding.
func RenderContactHTML(c contact.ValidatedContact, sentAt time.Time) string {
	message := strings.ReplaceAll(escapeHTML(c.Message), "\r\n", "\n")
	message = strings.ReplaceAll(message, "\n", "<br>")

	var b strings.Builder
	b.WriteString("<h2>New contact form submission</h2>\n")
	fmt.Fprintf(&b, "<p><strong>Name:</strong> %s</p>\n", escapeHTML(c.Name))
	fmt.Fprintf(&b, "<p><strong>Email:</strong> %s</p>\n", escapeHTML(c.Email))
	fmt.Fprintf(&b, "<p><strong>Subject:</strong> %s</p>\n", escapeHTML(c.Subject))
	fmt.Fprintf(&b, "<p><strong>Received:</strong> %s</p>\n", sentAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "<p><strong>Message:</strong></p>\n<p>%s</p>\n", message)
	return b.String()
}

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// escapeHTML escapes HTML special characters
func escapeHTML(s string) string {
	return htmlReplacer.Replace(s)
}
