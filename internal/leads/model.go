package leads

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Field length caps applied by the sanitizer before persistence.
const (
	MaxFieldLength   = 500
	MaxMessageLength = 2000
)

// Lead represents a sanitized, enriched lead submission from the marketing site
type Lead struct {
	ID          string    `json:"id"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	Company     string    `json:"company"`
	Phone       string    `json:"phone"`
	Industry    string    `json:"industry"`
	Service     string    `json:"service"`
	Budget      string    `json:"budget"`
	Timeline    string    `json:"timeline"`
	Message     string    `json:"message"`
	Consent     bool      `json:"consent"`
	SubmittedAt string    `json:"submittedAt"`
	IP          string    `json:"ip"`
	Country     string    `json:"country"`
	UserAgent   string    `json:"userAgent"`
	Device      string    `json:"device"`
	ReceivedAt  time.Time `json:"receivedAt"`
}

// FieldError describes a single validation failure on a named field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NewLeadID generates a lead identifier of the form lead_<unix-ms>_<8 hex>.
// The random suffix disambiguates submissions landing in the same millisecond;
// the store's conditional write is the backstop for the remaining collisions.
func NewLeadID() string {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand only fails when the platform entropy source is broken.
		panic(fmt.Sprintf("leads: reading random suffix: %v", err))
	}
	return fmt.Sprintf("lead_%d_%s", time.Now().UnixMilli(), hex.EncodeToString(suffix))
}
