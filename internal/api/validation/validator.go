package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/osa911/portfolio-contact/internal/api/dto/common"
	"github.com/osa911/portfolio-contact/internal/api/dto/v1/contact"

	"github.com/go-playground/validator/v10"
)

// BodyField is the pseudo-field used for errors about the request body as a whole.
const BodyField = "body"

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RegisterValidators registers custom validators
func RegisterValidators(v *validator.Validate) {
	v.RegisterValidation("nocontrol", validateNoControl)
	v.RegisterValidation("simpleemail", validateSimpleEmail)
}

// validateNoControl rejects C0 control characters other than tab, LF and CR
func validateNoControl(fl validator.FieldLevel) bool {
	return !ContainsControl(fl.Field().String())
}

// validateSimpleEmail checks for one @, no whitespace and a dot in the domain part
func validateSimpleEmail(fl validator.FieldLevel) bool {
	return emailRegex.MatchString(fl.Field().String())
}

// ContainsControl reports whether s holds a character in
// 0x00-0x08, 0x0B, 0x0C or 0x0E-0x1F.
func ContainsControl(s string) bool {
	for _, r := range s {
		if r >= 0x20 {
			continue
		}
		if r != '\t' && r != '\n' && r != '\r' {
			return true
		}
	}
	return false
}

// FieldRule describes the bounds for one contact form field.
type FieldRule struct {
	Name  string
	Min   int
	Max   int
	Extra string
}

func (r FieldRule) tag() string {
	tag := fmt.Sprintf("required,min=%d,max=%d,nocontrol", r.Min, r.Max)
	if r.Extra != "" {
		tag += "," + r.Extra
	}
	return tag
}

// ContactFields lists the submission fields in the order they are checked.
var ContactFields = []FieldRule{
	{Name: "name", Min: 1, Max: 80},
	{Name: "email", Min: 3, Max: 254, Extra: "simpleemail"},
	{Name: "subject", Min: 1, Max: 120},
	{Name: "message", Min: 1, Max: 2000},
	{Name: "turnstileToken", Min: 10, Max: 5000},
}

// Result is the outcome of validating a raw contact payload. Data is set
// only when Errors is empty.
type Result struct {
	Data   *contact.ValidatedContact
	Errors []common.ValidationError
}

// Valid reports whether validation succeeded
func (r Result) Valid() bool {
	return len(r.Errors) == 0 && r.Data != nil
}

// Validator checks untrusted contact payloads
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the custom tags registered
func NewValidator() *Validator {
	validate := validator.New()
	RegisterValidators(validate)
	return &Validator{validate: validate}
}

// Validate checks a decoded JSON value. Every field is checked and all
// failures are returned together.
func (v *Validator) Validate(raw interface{}) Result {
	obj, ok := raw.(map[string]interface{})
	if !ok {
		return Result{Errors: []common.ValidationError{{
			Field:   BodyField,
			Message: "Request body must be a JSON object",
		}}}
	}

	values := make(map[string]string, len(ContactFields))
	var errs []common.ValidationError
	for _, rule := range ContactFields {
		value, err := v.checkField(rule, obj[rule.Name])
		if err != nil {
			errs = append(errs, *err)
			continue
		}
		values[rule.Name] = value
	}

	if len(errs) > 0 {
		return Result{Errors: errs}
	}

	return Result{Data: &contact.ValidatedContact{
		Name:           values["name"],
		Email:          values["email"],
		Subject:        values["subject"],
		Message:        values["message"],
		TurnstileToken: values["turnstileToken"],
	}}
}

func (v *Validator) checkField(rule FieldRule, raw interface{}) (string, *common.ValidationError) {
	if raw == nil {
		return "", &common.ValidationError{Field: rule.Name, Message: rule.Name + " is required"}
	}

	s, ok := raw.(string)
	if !ok {
		return "", &common.ValidationError{Field: rule.Name, Message: rule.Name + " must be a string"}
	}

	// TrimSpace strips \v and \f, so control characters are checked on the
	// raw value before trimming.
	if ContainsControl(s) {
		return "", &common.ValidationError{Field: rule.Name, Message: rule.Name + " contains invalid control characters"}
	}

	trimmed := strings.TrimSpace(s)
	if err := v.validate.Var(trimmed, rule.tag()); err != nil {
		return "", &common.ValidationError{Field: rule.Name, Message: formatFieldError(rule, err)}
	}
	return trimmed, nil
}

// formatFieldError turns the first failed tag into a user-facing message
func formatFieldError(rule FieldRule, err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return rule.Name + " is invalid"
	}

	switch validationErrors[0].Tag() {
	case "required":
		return rule.Name + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %d characters", rule.Name, rule.Min)
	case "max":
		return fmt.Sprintf("%s must be at most %d characters", rule.Name, rule.Max)
	case "nocontrol":
		return rule.Name + " contains invalid control characters"
	case "simpleemail":
		return rule.Name + " must be a valid email address"
	default:
		return rule.Name + " is invalid"
	}
}
