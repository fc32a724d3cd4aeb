// Package validation checks raw form submissions before they reach the service layer.
package validation

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Field length limits, counted in characters.
const (
	MaxNameLength     = 100
	MaxEmailLength    = 254 // RFC 5321 path limit
	MinPasswordLength = 6
	MaxMessageLength  = 2000
)

// Input holds raw submitted field values.
type Input struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Message  string `json:"message"`
}

// Submission is a normalized input that passed every rule.
type Submission struct {
	Name     string
	Email    string
	Password string
	// Message is nil when the submitted message was empty.
	Message *string
}

// Result is the outcome of running the rules.
type Result struct {
	// Submission carries the normalized values even when Errors is non-empty,
	// so callers can re-display them.
	Submission Submission
	Errors     []string
}

// Valid reports whether no rule failed.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Rule pairs a validator tag applied to one field with the message shown when it fails.
type Rule struct {
	Field   string
	Tag     string
	Message string
}

// defaultRules is evaluated in order; every failing rule contributes its message.
var defaultRules = []Rule{
	{Field: "name", Tag: "required", Message: "Name is required"},
	{
		Field:   "name",
		Tag:     "max=" + strconv.Itoa(MaxNameLength),
		Message: "Name must be at most " + strconv.Itoa(MaxNameLength) + " characters",
	},
	{Field: "email", Tag: "required,email", Message: "Please enter a valid email address"},
	{
		Field:   "email",
		Tag:     "max=" + strconv.Itoa(MaxEmailLength),
		Message: "Email must be at most " + strconv.Itoa(MaxEmailLength) + " characters",
	},
	{
		Field:   "password",
		Tag:     "min=" + strconv.Itoa(MinPasswordLength),
		Message: "Password must be at least " + strconv.Itoa(MinPasswordLength) + " characters",
	},
	{
		Field:   "message",
		Tag:     "omitempty,max=" + strconv.Itoa(MaxMessageLength),
		Message: "Message must be at most " + strconv.Itoa(MaxMessageLength) + " characters",
	},
}

// Validator runs an ordered rule list against inputs.
type Validator struct {
	validate *validator.Validate
	rules    []Rule
}

// New creates a Validator with its own copy of the default rules.
func New() *Validator {
	return &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		rules:    DefaultRules(),
	}
}

// DefaultRules returns a copy of the rule list New uses.
func DefaultRules() []Rule {
	return append([]Rule(nil), defaultRules...)
}

// Validate normalizes in and checks it against every rule.
func (v *Validator) Validate(in Input) Result {
	normalized := normalize(in)

	values := map[string]string{
		"name":     normalized.Name,
		"email":    normalized.Email,
		"password": normalized.Password,
		"message":  normalized.Message,
	}

	var errs []string
	for _, rule := range v.rules {
		if err := v.validate.Var(values[rule.Field], rule.Tag); err != nil {
			errs = append(errs, rule.Message)
		}
	}

	sub := Submission{
		Name:     normalized.Name,
		Email:    normalized.Email,
		Password: normalized.Password,
	}
	if normalized.Message != "" {
		msg := normalized.Message
		sub.Message = &msg
	}

	return Result{Submission: sub, Errors: errs}
}

// normalize trims free text and canonicalizes the email address.
// The password is left exactly as submitted.
func normalize(in Input) Input {
	return Input{
		Name:     strings.TrimSpace(in.Name),
		Email:    NormalizeEmail(in.Email),
		Password: in.Password,
		Message:  strings.TrimSpace(in.Message),
	}
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
