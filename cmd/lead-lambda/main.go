package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"mime"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/growthops/lead-intake/cmd/mainconfig"
	"github.com/growthops/lead-intake/internal/app/bootstrap"
	appconfig "github.com/growthops/lead-intake/internal/config"
	"github.com/growthops/lead-intake/internal/leads"
	"github.com/growthops/lead-intake/internal/notify"
	"github.com/growthops/lead-intake/internal/observability/metrics"
	"github.com/growthops/lead-intake/internal/requestmeta"
	"github.com/growthops/lead-intake/pkg/logging"
)

const (
	submitPath       = "/api/submit-lead"
	errContentType   = "Content-Type must be application/json"
	errMalformedJSON = "Request body must be valid JSON"
	errInternal      = "Internal server error. Please try again."
	successMessage   = "Thank you for your inquiry. Our team will be in touch within one business day."
	jsonMediaType    = "application/json"
)

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
	Success bool               `json:"success"`
	Errors  []leads.FieldError `json:"errors"`
}

// app carries the collaborators built once per cold start.
type app struct {
	service  *leads.Service
	geo      *requestmeta.GeoResolver
	allowAny bool
	allowed  map[string]struct{}
	logger   *logging.Logger
}

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	awsCfg, err := mainconfig.LoadAWSConfig(context.Background(), cfg)
	if err != nil {
		panic(err)
	}

	store, _, err := bootstrap.BuildLeadStore(context.Background(), cfg, awsCfg, logger)
	if err != nil {
		panic(err)
	}

	emailSender, reason := bootstrap.BuildEmailSender(cfg, awsCfg, logger)
	if emailSender == nil {
		logger.Info("lead email notifications disabled", "reason", reason)
	}

	var notifier leads.Notifier
	if dispatcher := notify.NewDispatcher(emailSender, cfg.Notify, logger); dispatcher != nil {
		notifier = dispatcher
	}

	// The execution environment freezes between invocations, so notification
	// must finish before the handler returns.
	service := leads.NewService(
		leads.NewValidator(cfg.Validation),
		store,
		notifier,
		metrics.NewLeadMetrics(nil),
		logger,
		leads.Options{AwaitNotify: true, NotifyTimeout: cfg.Notify.Timeout},
	)

	a := newApp(service, bootstrap.BuildGeoResolver(cfg, logger), cfg.CORSAllowedOrigins, logger)
	lambda.Start(a.handle)
}

func newApp(service *leads.Service, geo *requestmeta.GeoResolver, allowedOrigins []string, logger *logging.Logger) *app {
	if logger == nil {
		logger = logging.Default()
	}
	a := &app{
		service: service,
		geo:     geo,
		allowed: map[string]struct{}{},
		logger:  logger,
	}
	for _, origin := range allowedOrigins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			a.allowAny = true
			continue
		}
		a.allowed[origin] = struct{}{}
	}
	return a
}

func (a *app) handle(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (resp events.APIGatewayV2HTTPResponse, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			a.logger.Error("panic during lead submission", "panic", rec)
			resp = a.respond(evt, http.StatusInternalServerError, submitFailure{Error: errInternal})
			err = nil
		}
	}()

	method := strings.ToUpper(strings.TrimSpace(evt.RequestContext.HTTP.Method))
	path := strings.TrimSpace(evt.RawPath)
	if path == "" {
		path = strings.TrimSpace(evt.RequestContext.HTTP.Path)
	}

	if method == http.MethodOptions {
		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusNoContent,
			Headers:    a.corsHeaders(evt),
		}, nil
	}

	if path == "/health" || path == "/_health" {
		return a.respond(evt, http.StatusOK, map[string]string{"status": "ok"}), nil
	}

	if path != submitPath {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusNotFound}, nil
	}
	if method != http.MethodPost {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusMethodNotAllowed}, nil
	}

	mediaType, _, ctErr := mime.ParseMediaType(headerValue(evt.Headers, "content-type"))
	if ctErr != nil || mediaType != jsonMediaType {
		return a.respond(evt, http.StatusBadRequest, submitFailure{Error: errContentType}), nil
	}

	body, decodeErr := decodeBody(evt)
	if decodeErr != nil {
		return a.respond(evt, http.StatusBadRequest, submitFailure{Error: errMalformedJSON}), nil
	}

	var raw map[string]any
	if jsonErr := json.Unmarshal(body, &raw); jsonErr != nil {
		a.logger.Info("rejected unparsable submission body", "error", jsonErr)
		return a.respond(evt, http.StatusBadRequest, submitFailure{Error: errMalformedJSON}), nil
	}

	meta := requestmeta.FromLambdaRequest(evt, a.geo)

	lead, fieldErrs, submitErr := a.service.Submit(ctx, raw, meta)
	if submitErr != nil {
		a.logger.Error("lead submission failed", "error", submitErr)
		return a.respond(evt, http.StatusInternalServerError, submitFailure{Error: errInternal}), nil
	}
	if len(fieldErrs) > 0 {
		return a.respond(evt, http.StatusUnprocessableEntity, submitInvalid{Errors: fieldErrs}), nil
	}

	return a.respond(evt, http.StatusOK, submitSuccess{
		Success: true,
		Message: successMessage,
		LeadID:  lead.ID,
	}), nil
}

// respond marshals the payload and attaches the cross-origin headers, which
// the function must set itself because no middleware runs in front of it.
func (a *app) respond(evt events.APIGatewayV2HTTPRequest, status int, payload any) events.APIGatewayV2HTTPResponse {
	headers := a.corsHeaders(evt)
	headers["Content-Type"] = jsonMediaType
	body, _ := json.Marshal(payload)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    headers,
		Body:       string(body),
	}
}

func (a *app) corsHeaders(evt events.APIGatewayV2HTTPRequest) map[string]string {
	headers := map[string]string{}
	origin := strings.TrimSpace(headerValue(evt.Headers, "origin"))
	switch {
	case a.allowAny:
		headers["Access-Control-Allow-Origin"] = "*"
	case origin != "":
		if _, ok := a.allowed[origin]; ok {
			headers["Access-Control-Allow-Origin"] = origin
			headers["Vary"] = "Origin"
		}
	}
	if _, ok := headers["Access-Control-Allow-Origin"]; ok {
		headers["Access-Control-Allow-Headers"] = "Content-Type"
		headers["Access-Control-Allow-Methods"] = "GET, POST, OPTIONS"
		headers["Access-Control-Max-Age"] = "600"
	}
	return headers
}

func decodeBody(evt events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if !evt.IsBase64Encoded {
		return []byte(evt.Body), nil
	}
	decoded, err := base64.StdEncoding.DecodeString(evt.Body)
	if err != nil {
		return nil, err
	}
	return decoded, nil
}

func headerValue(headers map[string]string, key string) string {
	for k, v := range headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}
