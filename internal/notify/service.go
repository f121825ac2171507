package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/lhweb/site-backend/internal/leads"
	"github.com/lhweb/site-backend/pkg/logging"
)

// Service emails the agency inbox when a lead is accepted. It implements
// leads.Notifier; failures are logged and swallowed so a broken mail
// provider never affects intake.
type Service struct {
	email     EmailSender
	recipient string
	logger    *logging.Logger
}

// NewService creates a notification service.
func NewService(email EmailSender, recipient string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:     email,
		recipient: recipient,
		logger:    logger,
	}
}

// LeadAccepted sends the new-lead email.
func (s *Service) LeadAccepted(ctx context.Context, lead *leads.Lead) {
	if s.email == nil || s.recipient == "" {
		return
	}

	msg := EmailMessage{
		To:      s.recipient,
		Subject: fmt.Sprintf("New lead: %s (score %d)", lead.Fields.Name, lead.LeadScore),
		Body:    leadEmailBody(lead),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.logger.Error("failed to send lead notification", "error", err, "lead_id", lead.ID)
		return
	}
	s.logger.Info("lead notification sent", "lead_id", lead.ID)
}

func leadEmailBody(lead *leads.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", lead.Fields.Name)
	fmt.Fprintf(&b, "Email: %s\n", lead.Fields.Email)
	if lead.Fields.Phone != nil {
		fmt.Fprintf(&b, "Phone: %s\n", *lead.Fields.Phone)
	}
	if lead.Fields.Company != nil {
		fmt.Fprintf(&b, "Company: %s\n", *lead.Fields.Company)
	}
	if lead.Fields.Budget != nil {
		fmt.Fprintf(&b, "Budget: %s\n", *lead.Fields.Budget)
	}
	if lead.Fields.ServiceInterest != nil {
		fmt.Fprintf(&b, "Service interest: %s\n", *lead.Fields.ServiceInterest)
	}
	fmt.Fprintf(&b, "Score: %d\n", lead.LeadScore)
	if lead.PagePath != nil {
		fmt.Fprintf(&b, "Page: %s\n", *lead.PagePath)
	}
	fmt.Fprintf(&b, "\n%s\n", lead.Fields.Message)
	return b.String()
}
