package leads

import (
	"regexp"
	"strings"

	"github.com/growthops/lead-intake/internal/config"
)

// emailPattern is a coarse syntactic check: something before the @, and a dot
// somewhere after it, with no whitespace anywhere. Deliverability is not our
// problem at capture time.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validator checks raw submissions against the lead acceptance rules.
type Validator struct {
	industries map[string]struct{}
}

// NewValidator builds a validator from explicit validation settings.
func NewValidator(cfg config.Validation) *Validator {
	industries := make(map[string]struct{}, len(cfg.Industries))
	for _, name := range cfg.Industries {
		industries[name] = struct{}{}
	}
	return &Validator{industries: industries}
}

// Validate evaluates every rule against the raw submission and returns all
// failures together. An empty slice means the submission is acceptable.
// Rules never short-circuit each other, so a client sees every problem in
// one round trip.
func (v *Validator) Validate(raw map[string]any) []FieldError {
	var errs []FieldError

	if name := rawString(raw["fullName"]); len(strings.TrimSpace(name)) < 2 {
		errs = append(errs, FieldError{Field: "fullName", Message: "Full name must be at least 2 characters"})
	}

	if email := strings.TrimSpace(rawString(raw["email"])); !emailPattern.MatchString(email) {
		errs = append(errs, FieldError{Field: "email", Message: "A valid email address is required"})
	}

	if company := rawString(raw["company"]); len(strings.TrimSpace(company)) < 2 {
		errs = append(errs, FieldError{Field: "company", Message: "Company name must be at least 2 characters"})
	}

	if !truthy(raw["consent"]) {
		errs = append(errs, FieldError{Field: "consent", Message: "Consent is required to process your inquiry"})
	}

	if industry := strings.TrimSpace(rawString(raw["industry"])); industry != "" {
		if _, ok := v.industries[industry]; !ok {
			errs = append(errs, FieldError{Field: "industry", Message: "Industry must be one of the supported options"})
		}
	}

	return errs
}

// rawString reads a raw value as a string; non-string values count as absent.
func rawString(v any) string {
	s, _ := v.(string)
	return s
}
