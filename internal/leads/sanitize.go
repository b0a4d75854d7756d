package leads

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Sanitize converts a raw, untyped submission into a canonical Lead. It is
// total: any input shape degrades to zero values instead of failing, and
// re-sanitizing already-clean input changes nothing. Enrichment fields (id,
// ip, country, userAgent, device, receivedAt) are left for the service to fill.
func Sanitize(raw map[string]any) Lead {
	lead := Lead{
		FullName:    cleanString(raw["fullName"], MaxFieldLength),
		Email:       strings.ToLower(cleanString(raw["email"], MaxFieldLength)),
		Company:     cleanString(raw["company"], MaxFieldLength),
		Phone:       cleanString(raw["phone"], MaxFieldLength),
		Industry:    cleanString(raw["industry"], MaxFieldLength),
		Service:     cleanString(raw["service"], MaxFieldLength),
		Budget:      cleanString(raw["budget"], MaxFieldLength),
		Timeline:    cleanString(raw["timeline"], MaxFieldLength),
		Message:     cleanString(raw["message"], MaxMessageLength),
		Consent:     truthy(raw["consent"]),
		SubmittedAt: cleanString(raw["submittedAt"], MaxFieldLength),
	}
	if lead.SubmittedAt == "" {
		lead.SubmittedAt = time.Now().UTC().Format(time.RFC3339)
	}
	return lead
}

// cleanString coerces a raw value to a trimmed, length-capped string.
// Non-string values become "". The cap is a byte ceiling: a cut landing
// inside a multi-byte rune backs off to the rune boundary, and the result
// is trimmed again so a cut exposing interior whitespace still yields
// canonical output.
func cleanString(v any, maxLen int) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	if len(s) > maxLen {
		cut := maxLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = strings.TrimSpace(s[:cut])
	}
	return s
}

// truthy reports whether a raw consent value counts as consent given.
// Unlike loose source-form semantics, the strings "false", "0" and "no"
// are rejected: a checkbox serializing its off state must not pass.
func truthy(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		s := strings.ToLower(strings.TrimSpace(val))
		return s != "" && s != "false" && s != "0" && s != "no"
	case float64:
		// encoding/json decodes every JSON number into float64.
		return val != 0
	case int:
		return val != 0
	default:
		return false
	}
}
