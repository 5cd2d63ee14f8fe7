// Package guard implements the anti-abuse pipeline run in front of every
// form submission.
//
// The pipeline is a fixed, ordered list of independent gates. Each gate
// either passes or rejects the request with an HTTP status and a
// human-readable message. Ordering matters: cheap local checks (origin,
// cooldown, honeypot) run before the CAPTCHA gate, which calls an external
// verification service, so a disqualified request never spends the network
// round trip.
package guard

import (
	"context"
	"net/http"
	"strings"

	"github.com/kemtech/forms-backend/internal/sysutil"
)

// Request carries the per-submission facts the gates inspect. It is derived
// from the HTTP request and the normalized submission by the transport layer
// so that gates stay independent of Gin.
type Request struct {
	// Origin is the raw Origin header value, possibly empty.
	Origin string
	// ClientID identifies the submitting client for rate limiting. It is
	// derived from proxy headers and is not cryptographically trustworthy.
	ClientID string
	// Honeypot is the value of the hidden trap field.
	Honeypot string
	// CaptchaToken is the CAPTCHA response token, possibly empty.
	CaptchaToken string
}

// Rejection terminates a submission with a specific HTTP status and message.
// Cause is a short stable label used for logs and metrics; it is never sent
// to the client.
type Rejection struct {
	Status  int
	Message string
	Cause   string
}

// Gate is a single pass/reject check. A nil return means pass.
type Gate interface {
	// Name identifies the gate in logs.
	Name() string
	// Check inspects the request and returns a Rejection to short-circuit
	// the submission, or nil to let it proceed to the next gate.
	Check(ctx context.Context, req *Request) *Rejection
}

// Pipeline runs gates in order; the first rejection wins.
type Pipeline struct {
	gates []Gate
}

// NewPipeline builds a pipeline over the given gates, run in argument order.
func NewPipeline(gates ...Gate) *Pipeline {
	return &Pipeline{gates: gates}
}

// Check runs every gate in order and returns the first rejection, or nil
// when all gates pass.
func (p *Pipeline) Check(ctx context.Context, req *Request) *Rejection {
	for _, g := range p.gates {
		if rej := g.Check(ctx, req); rej != nil {
			return rej
		}
	}
	return nil
}

// ClientID derives the rate-limit identifier from proxy forwarding headers:
// the first entry of X-Forwarded-For, else the CDN client-IP header, else the
// literal "unknown" sentinel.
func ClientID(h http.Header) string {
	forwarded := h.Get("X-Forwarded-For")
	if i := strings.IndexByte(forwarded, ','); i >= 0 {
		forwarded = forwarded[:i]
	}
	forwarded = strings.TrimSpace(forwarded)

	if id := sysutil.FirstNonEmpty(forwarded, h.Get("CF-Connecting-IP")); id != "" {
		return id
	}
	return "unknown"
}
