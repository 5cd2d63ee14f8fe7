package services

import (
	"context"

	"github.com/kemtech/forms-backend/internal/domain"
	"github.com/kemtech/forms-backend/internal/mail"
)

// quoteSubjectFallback is used when the visitor supplied no subject.
const quoteSubjectFallback = "Nieuwe offerte-aanvraag"

// quoteFromName is the fixed display name of the quote sender identity.
const quoteFromName = "Kemtech Offerte"

// QuoteService validates quote submissions, composes the notification mail,
// and dispatches it through the injected transport.
type QuoteService struct {
	Mailer mail.Sender
	From   string
	To     string
}

// Submit processes one normalized quote submission.
//
// Name, street, house number, postal code, city, message, and at least one
// selected service are required (ErrMissingRequiredFields). Email, phone,
// and the unit number are optional; Reply-To is set only when the visitor
// left an email address.
func (s *QuoteService) Submit(ctx context.Context, sub *domain.Submission) error {
	if sub.Name == "" || sub.Street == "" || sub.Number == "" ||
		sub.Zip == "" || sub.City == "" || sub.Message == "" || !sub.HasServices() {
		return ErrMissingRequiredFields
	}

	subject := sub.Subject
	if subject == "" {
		subject = quoteSubjectFallback
	}

	return s.Mailer.Send(ctx, &mail.Message{
		FromName: quoteFromName,
		From:     s.From,
		To:       s.To,
		ReplyTo:  sub.Email,
		Subject:  subject,
		Text:     quoteText(sub),
		HTML:     quoteHTML(sub),
	})
}
