package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/todalabs/toda-leads/internal/leads"
	"github.com/todalabs/toda-leads/pkg/logging"
)

// Service mails the configured operator address when a new lead is
// captured. It implements leads.Notifier.
type Service struct {
	email      EmailSender
	operatorTo string
	logger     *logging.Logger
}

// NewService creates a notification service. Returns nil when either the
// sender or the recipient is not configured, which callers treat as
// notifications disabled.
func NewService(email EmailSender, operatorTo string, logger *logging.Logger) *Service {
	if email == nil || strings.TrimSpace(operatorTo) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:      email,
		operatorTo: operatorTo,
		logger:     logger,
	}
}

var _ leads.Notifier = (*Service)(nil)

// NotifyNewLead sends a summary of a freshly inserted lead record.
func (s *Service) NotifyNewLead(ctx context.Context, rec leads.Record) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Neuer Lead: %s <%s>\n", rec.Name, rec.Email)
	if rec.Segment != "" {
		fmt.Fprintf(&b, "Segment: %s\n", rec.Segment)
	}
	if rec.RevenueRange != "" {
		fmt.Fprintf(&b, "Umsatzbereich: %s\n", rec.RevenueRange)
	}
	fmt.Fprintf(&b, "Einwilligung: %s\n", rec.ConsentTimestamp.Format(time.RFC3339))

	msg := EmailMessage{
		To:      s.operatorTo,
		Subject: "Neuer Lead: " + rec.Email,
		Body:    b.String(),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("notify: new lead email: %w", err)
	}
	return nil
}
