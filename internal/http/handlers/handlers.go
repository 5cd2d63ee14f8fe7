package handlers

import (
	"context"

	"github.com/kemtech/forms-backend/internal/domain"
	"github.com/kemtech/forms-backend/internal/guard"
)

// Submitter validates a normalized submission and dispatches the resulting
// notification mail. Implemented by services.ContactService and
// services.QuoteService.
type Submitter interface {
	Submit(ctx context.Context, sub *domain.Submission) error
}

// Handlers bundles the abuse-guard pipeline with the per-endpoint services.
type Handlers struct {
	guard   *guard.Pipeline
	contact Submitter
	quote   Submitter
}

// New wires the handler set. All dependencies are required.
func New(pipeline *guard.Pipeline, contact, quote Submitter) *Handlers {
	return &Handlers{guard: pipeline, contact: contact, quote: quote}
}
