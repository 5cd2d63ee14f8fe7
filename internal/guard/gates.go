package guard

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// OriginGate rejects requests whose Origin header does not contain any of
// the configured allowed domain substrings. Cross-site submission attempts
// are cut off here before any other resource is spent.
type OriginGate struct {
	// AllowedDomains are substrings matched against the Origin header,
	// e.g. "localhost" or "kemtech.be".
	AllowedDomains []string
}

func (g *OriginGate) Name() string { return "origin" }

func (g *OriginGate) Check(_ context.Context, req *Request) *Rejection {
	for _, domain := range g.AllowedDomains {
		if domain != "" && strings.Contains(req.Origin, domain) {
			return nil
		}
	}
	return &Rejection{
		Status:  http.StatusForbidden,
		Message: "Invalid origin",
		Cause:   "invalid_origin",
	}
}

// CooldownGate enforces a minimum elapsed time between two attempts from the
// same client identifier. On pass it unconditionally records the attempt, so
// the cooldown is consumed even when a later gate or validation rejects the
// request.
type CooldownGate struct {
	Tracker *Tracker
	// Window is the cooldown duration, typically 60s.
	Window time.Duration

	// Now is a test seam; nil means time.Now.
	Now func() time.Time
}

func (g *CooldownGate) Name() string { return "cooldown" }

func (g *CooldownGate) Check(_ context.Context, req *Request) *Rejection {
	now := time.Now()
	if g.Now != nil {
		now = g.Now()
	}

	remaining, ok := g.Tracker.CheckAndSet(req.ClientID, now, g.Window)
	if ok {
		return nil
	}
	return &Rejection{
		Status:  http.StatusTooManyRequests,
		Message: waitMessage(remaining),
		Cause:   "rate_limited",
	}
}

// waitMessage renders the remaining cooldown in whole seconds, rounded up.
// The wording (including the missing tail on the singular form) matches what
// the site has always returned.
func waitMessage(remaining time.Duration) string {
	seconds := int(math.Ceil(remaining.Seconds()))
	if seconds > 1 {
		return fmt.Sprintf("Please wait %d seconds and try sending again.", seconds)
	}
	return fmt.Sprintf("Please wait %d second", seconds)
}

// HoneypotGate rejects any submission whose hidden trap field is non-empty.
// Real visitors never see the field; automated form-fillers tend to fill it.
type HoneypotGate struct{}

func (HoneypotGate) Name() string { return "honeypot" }

func (HoneypotGate) Check(_ context.Context, req *Request) *Rejection {
	if req.Honeypot == "" {
		return nil
	}
	return &Rejection{
		Status:  http.StatusBadRequest,
		Message: "Spam detected",
		Cause:   "honeypot",
	}
}

// CaptchaVerifier is the verification collaborator consumed by CaptchaGate.
// A false result means the service judged the token invalid; an error means
// the verification call itself failed or was unreachable.
type CaptchaVerifier interface {
	Verify(ctx context.Context, token string) (bool, error)
}

// CaptchaGate verifies the CAPTCHA token with an external service. The three
// failure causes (missing token, failed verification, unreachable verifier)
// share the response status but stay distinguishable in logs.
type CaptchaGate struct {
	Verifier CaptchaVerifier
}

func (g *CaptchaGate) Name() string { return "captcha" }

func (g *CaptchaGate) Check(ctx context.Context, req *Request) *Rejection {
	if req.CaptchaToken == "" {
		log.Warn().Str("gate", g.Name()).Str("cause", "captcha_missing").
			Str("client_id", req.ClientID).Msg("captcha token missing")
		return &Rejection{
			Status:  http.StatusBadRequest,
			Message: "Captcha missing",
			Cause:   "captcha_missing",
		}
	}

	success, err := g.Verifier.Verify(ctx, req.CaptchaToken)
	if err != nil {
		// Unreachable verifier is a server-side incident, unlike the
		// expected-traffic rejections above.
		log.Error().Err(err).Str("gate", g.Name()).Str("cause", "captcha_unreachable").
			Str("client_id", req.ClientID).Msg("captcha verification call failed")
		return &Rejection{
			Status:  http.StatusBadRequest,
			Message: "Captcha request failed",
			Cause:   "captcha_unreachable",
		}
	}
	if !success {
		log.Warn().Str("gate", g.Name()).Str("cause", "captcha_invalid").
			Str("client_id", req.ClientID).Msg("captcha verification failed")
		return &Rejection{
			Status:  http.StatusBadRequest,
			Message: "Captcha verification failed",
			Cause:   "captcha_invalid",
		}
	}
	return nil
}
