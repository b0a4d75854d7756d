package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/growthops/lead-intake/internal/config"
	"github.com/growthops/lead-intake/internal/leads"
	"github.com/growthops/lead-intake/pkg/logging"
)

// defaultRecipient receives lead notifications when no recipient is configured.
const defaultRecipient = "leads@growthops.io"

// Dispatcher builds the new-lead notification email and hands it to the
// configured sender. Delivery is best-effort: the caller decides whether a
// returned error matters.
type Dispatcher struct {
	email     EmailSender
	recipient string
	tracer    trace.Tracer
	logger    *logging.Logger
}

var _ leads.Notifier = (*Dispatcher)(nil)

// NewDispatcher creates a dispatcher for the configured recipient. A nil
// sender yields a nil dispatcher, which disables notification entirely.
func NewDispatcher(email EmailSender, cfg config.Notify, logger *logging.Logger) *Dispatcher {
	if email == nil {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	recipient := strings.TrimSpace(cfg.Recipient)
	if recipient == "" {
		recipient = defaultRecipient
	}
	return &Dispatcher{
		email:     email,
		recipient: recipient,
		tracer:    otel.Tracer("leadintake.internal.notify"),
		logger:    logger,
	}
}

// NotifyLead sends a single email summarizing every captured field.
func (d *Dispatcher) NotifyLead(ctx context.Context, lead leads.Lead) error {
	if d == nil || d.email == nil {
		return nil
	}
	ctx, span := d.tracer.Start(ctx, "notify.lead_email")
	defer span.End()

	msg := EmailMessage{
		To:      d.recipient,
		Subject: fmt.Sprintf("📥 New Lead - %s (%s)", lead.FullName, lead.Company),
		Body:    plainBody(lead),
		HTML:    htmlBody(lead),
	}

	if err := d.email.Send(ctx, msg); err != nil {
		span.RecordError(err)
		d.logger.Error("notify: failed to send lead email", "error", err, "to", d.recipient, "lead_id", lead.ID)
		return fmt.Errorf("notify: lead email: %w", err)
	}

	d.logger.Info("notify: lead email sent", "to", d.recipient, "lead_id", lead.ID)
	return nil
}

func plainBody(lead leads.Lead) string {
	received := lead.ReceivedAt.Format("January 2, 2006 at 3:04 PM")

	return fmt.Sprintf(`New lead from the marketing site.

Name: %s
Email: %s
Company: %s%s%s%s%s%s
Consent: %t
Submitted: %s

Lead ID: %s
IP: %s
Country: %s
Device: %s
User Agent: %s
Received: %s`,
		lead.FullName, lead.Email, lead.Company,
		plainLine("Phone", lead.Phone),
		plainLine("Industry", lead.Industry),
		plainLine("Service", lead.Service),
		plainLine("Budget", lead.Budget),
		plainLine("Timeline", lead.Timeline),
		lead.Consent, lead.SubmittedAt,
		lead.ID, lead.IP, lead.Country, lead.Device, lead.UserAgent, received,
	) + plainMessage(lead.Message)
}

func plainLine(label, value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf("\n%s: %s", label, value)
}

func plainMessage(message string) string {
	if message == "" {
		return ""
	}
	return fmt.Sprintf("\n\nMessage:\n%s", message)
}

func htmlBody(lead leads.Lead) string {
	received := lead.ReceivedAt.Format("January 2, 2006 at 3:04 PM")

	var rows strings.Builder
	rows.WriteString(htmlRow("Name", lead.FullName))
	rows.WriteString(htmlRow("Email", lead.Email))
	rows.WriteString(htmlRow("Company", lead.Company))
	rows.WriteString(htmlRow("Phone", lead.Phone))
	rows.WriteString(htmlRow("Industry", lead.Industry))
	rows.WriteString(htmlRow("Service", lead.Service))
	rows.WriteString(htmlRow("Budget", lead.Budget))
	rows.WriteString(htmlRow("Timeline", lead.Timeline))
	rows.WriteString(htmlRow("Submitted", lead.SubmittedAt))
	rows.WriteString(htmlRow("IP", lead.IP))
	rows.WriteString(htmlRow("Country", lead.Country))
	rows.WriteString(htmlRow("Device", lead.Device))
	rows.WriteString(htmlRow("User Agent", lead.UserAgent))
	rows.WriteString(htmlRow("Received", received))

	messageBlock := ""
	if lead.Message != "" {
		messageBlock = fmt.Sprintf(`<p style="background: #f9fafb; padding: 12px; border-radius: 8px; border-left: 4px solid #6366f1; white-space: pre-wrap;">%s</p>`,
			html.EscapeString(lead.Message))
	}

	return fmt.Sprintf(`<div style="font-family: sans-serif; max-width: 600px;">
<h2 style="color: #6366f1;">📥 New Lead</h2>
<p><strong>%s</strong> from <strong>%s</strong> submitted the contact form.</p>
<table style="border-collapse: collapse; margin: 20px 0;">
  %s
</table>
%s
<p style="color: #6b7280; font-size: 12px; margin-top: 20px;">Lead ID: %s</p>
</div>`,
		html.EscapeString(lead.FullName), html.EscapeString(lead.Company),
		rows.String(), messageBlock, html.EscapeString(lead.ID))
}

// htmlRow renders one labeled table row, escaping the user-supplied value.
// Empty values produce no row.
func htmlRow(label, value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf(`<tr><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;"><strong>%s:</strong></td><td style="padding: 8px; border-bottom: 1px solid #e5e7eb;">%s</td></tr>
  `, label, html.EscapeString(value))
}
