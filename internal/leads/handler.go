package leads

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"github.com/growthops/lead-intake/internal/requestmeta"
	"github.com/growthops/lead-intake/pkg/logging"
)

const (
	errContentType   = "Content-Type must be application/json"
	errMalformedJSON = "Request body must be valid JSON"
	errInternal      = "Internal server error. Please try again."
	successMessage   = "Thank you for your inquiry. Our team will be in touch within one business day."
	jsonMediaType    = "application/json"
)

// Handler handles HTTP requests for lead submission
type Handler struct {
	service *Service
	logger  *logging.Logger
}

// NewHandler creates a new lead submission handler
func NewHandler(service *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		service: service,
		logger:  logger,
	}
}

type submitSuccess struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	LeadID  string `json:"leadId"`
}

type submitFailure struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

type submitInvalid struct {
	Success bool         `json:"success"`
	Errors  []FieldError `json:"errors"`
}

// SubmitLead handles POST /api/submit-lead requests.
//
// Client mistakes get specific 4xx responses; everything unexpected collapses
// to one generic 500 with the cause logged server-side only. The deferred
// recover keeps even a panicking step on that contract.
func (h *Handler) SubmitLead(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("panic during lead submission", "panic", rec)
			respondJSON(w, http.StatusInternalServerError, submitFailure{Error: errInternal})
		}
	}()

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != jsonMediaType {
		respondJSON(w, http.StatusBadRequest, submitFailure{Error: errContentType})
		return
	}

	// Unmarshal over a full read rather than a streaming decode: the body
	// must be exactly one JSON object, with no trailing bytes after it.
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.logger.Info("rejected unreadable submission body", "error", err)
		respondJSON(w, http.StatusBadRequest, submitFailure{Error: errMalformedJSON})
		return
	}
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		h.logger.Info("rejected unparsable submission body", "error", err)
		respondJSON(w, http.StatusBadRequest, submitFailure{Error: errMalformedJSON})
		return
	}

	meta, ok := requestmeta.FromContext(r.Context())
	if !ok {
		meta = requestmeta.FromRequest(r, nil)
	}

	lead, fieldErrs, err := h.service.Submit(r.Context(), raw, meta)
	if err != nil {
		h.logger.Error("lead submission failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, submitFailure{Error: errInternal})
		return
	}
	if len(fieldErrs) > 0 {
		respondJSON(w, http.StatusUnprocessableEntity, submitInvalid{Errors: fieldErrs})
		return
	}

	respondJSON(w, http.StatusOK, submitSuccess{
		Success: true,
		Message: successMessage,
		LeadID:  lead.ID,
	})
}

// respondJSON writes a payload with the fixed JSON content type. Cross-origin
// headers are attached by the CORS middleware so every response, error or
// not, carries the same set.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
