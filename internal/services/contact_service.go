package services

import (
	"context"

	"github.com/kemtech/forms-backend/internal/domain"
	"github.com/kemtech/forms-backend/internal/mail"
)

// contactSubjectFallback is used when the visitor supplied no subject.
const contactSubjectFallback = "Nieuwe contactaanvraag"

// contactFromName is the fixed display name of the contact sender identity.
const contactFromName = "Kemtech Contact"

// ContactService validates contact submissions, composes the notification
// mail, and dispatches it through the injected transport.
type ContactService struct {
	// Mailer is the outbound transport collaborator.
	Mailer mail.Sender
	// From is the fixed service sender address; To the business inbox.
	From string
	To   string
}

// Submit processes one normalized contact submission.
//
// Email and message are required (ErrMissingFields); name is optional and
// the subject falls back to a fixed string. The submitter's email becomes
// the Reply-To so answering the notification reaches the visitor; it is
// never used as the sender identity. Transport errors are returned as-is so
// the handler can surface the collaborator's message.
func (s *ContactService) Submit(ctx context.Context, sub *domain.Submission) error {
	if sub.Email == "" || sub.Message == "" {
		return ErrMissingFields
	}

	subject := sub.Subject
	if subject == "" {
		subject = contactSubjectFallback
	}

	return s.Mailer.Send(ctx, &mail.Message{
		FromName: contactFromName,
		From:     s.From,
		To:       s.To,
		ReplyTo:  sub.Email,
		Subject:  subject,
		Text:     contactText(sub),
		HTML:     contactHTML(sub),
	})
}
