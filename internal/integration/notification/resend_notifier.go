// Package notification delivers budget alerts to the configured sink.
package notification

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/finance-tracker/engine/internal/application/adapter"
	"github.com/finance-tracker/engine/internal/domain/entity"
)

// ResendNotifier implements the adapter.AlertNotifier interface using Resend.
type ResendNotifier struct {
	client    *resend.Client
	fromName  string
	fromEmail string
	toEmail   string
}

// NewResendNotifier creates a new Resend-backed alert notifier.
func NewResendNotifier(apiKey, fromName, fromEmail, toEmail string) *ResendNotifier {
	return &ResendNotifier{
		client:    resend.NewClient(apiKey),
		fromName:  fromName,
		fromEmail: fromEmail,
		toEmail:   toEmail,
	}
}

// Send delivers a single budget alert email via Resend.
func (n *ResendNotifier) Send(ctx context.Context, alert *entity.BudgetAlert) error {
	from := fmt.Sprintf("%s <%s>", n.fromName, n.fromEmail)

	params := &resend.SendEmailRequest{
		From:    from,
		To:      []string{n.toEmail},
		Subject: subjectFor(alert),
		Text:    bodyFor(alert),
	}

	if _, err := n.client.Emails.SendWithContext(ctx, params); err != nil {
		return err
	}
	return nil
}

func subjectFor(alert *entity.BudgetAlert) string {
	switch alert.Kind {
	case entity.AlertKindOverrun:
		return "Budget exceeded"
	default:
		return "Budget threshold reached"
	}
}

func bodyFor(alert *entity.BudgetAlert) string {
	return fmt.Sprintf(
		"Budget %s is at %s%% of its target for the window %s to %s.",
		alert.BudgetID,
		alert.PercentUsed.StringFixed(1),
		alert.WindowStart.Format("2006-01-02"),
		alert.WindowEnd.Format("2006-01-02"),
	)
}

// MockAlertNotifier is a mock implementation for testing.
type MockAlertNotifier struct {
	SentAlerts []*entity.BudgetAlert
	FailError  error
}

// NewMockAlertNotifier creates a new mock alert notifier.
func NewMockAlertNotifier() *MockAlertNotifier {
	return &MockAlertNotifier{
		SentAlerts: make([]*entity.BudgetAlert, 0),
	}
}

// Send implements the adapter.AlertNotifier interface for testing.
func (m *MockAlertNotifier) Send(ctx context.Context, alert *entity.BudgetAlert) error {
	if m.FailError != nil {
		return m.FailError
	}
	m.SentAlerts = append(m.SentAlerts, alert)
	return nil
}

// Reset clears all sent alerts and failure configuration.
func (m *MockAlertNotifier) Reset() {
	m.SentAlerts = make([]*entity.BudgetAlert, 0)
	m.FailError = nil
}

// Ensure implementations satisfy interfaces.
var (
	_ adapter.AlertNotifier = (*ResendNotifier)(nil)
	_ adapter.AlertNotifier = (*MockAlertNotifier)(nil)
)
