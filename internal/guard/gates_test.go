package guard

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestOriginGate(t *testing.T) {
	gate := &OriginGate{AllowedDomains: []string{"localhost", "kemtech.be"}}

	tests := []struct {
		name   string
		origin string
		pass   bool
	}{
		{"allowed production origin", "https://www.kemtech.be", true},
		{"allowed dev origin with port", "http://localhost:3000", true},
		{"cross-site origin", "https://evil.example", false},
		{"empty origin", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rej := gate.Check(context.Background(), &Request{Origin: tc.origin})
			if tc.pass && rej != nil {
				t.Fatalf("expected pass, got rejection %+v", rej)
			}
			if !tc.pass {
				if rej == nil {
					t.Fatal("expected rejection")
				}
				if rej.Status != http.StatusForbidden || rej.Message != "Invalid origin" {
					t.Fatalf("rejection = %+v, want 403 Invalid origin", rej)
				}
			}
		})
	}
}

func TestCooldownGate_RejectionMessageWording(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    string
	}{
		{"many seconds left", 15 * time.Second, "Please wait 45 seconds and try sending again."},
		{"fraction rounds up", 58500 * time.Millisecond, "Please wait 2 seconds and try sending again."},
		{"exactly one second left", 59 * time.Second, "Please wait 1 second"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			base := time.UnixMilli(0)
			gate := &CooldownGate{
				Tracker: NewTracker(),
				Window:  time.Minute,
				Now:     func() time.Time { return base },
			}
			if rej := gate.Check(context.Background(), &Request{ClientID: "ip"}); rej != nil {
				t.Fatalf("first attempt rejected: %+v", rej)
			}

			gate.Now = func() time.Time { return base.Add(tc.elapsed) }
			rej := gate.Check(context.Background(), &Request{ClientID: "ip"})
			if rej == nil {
				t.Fatal("second attempt inside window should be rejected")
			}
			if rej.Status != http.StatusTooManyRequests {
				t.Fatalf("status = %d, want 429", rej.Status)
			}
			if rej.Message != tc.want {
				t.Fatalf("message = %q, want %q", rej.Message, tc.want)
			}
		})
	}
}

func TestCooldownGate_PassesAfterWindow(t *testing.T) {
	base := time.UnixMilli(0)
	gate := &CooldownGate{
		Tracker: NewTracker(),
		Window:  time.Minute,
		Now:     func() time.Time { return base },
	}
	gate.Check(context.Background(), &Request{ClientID: "ip"})

	gate.Now = func() time.Time { return base.Add(time.Minute) }
	if rej := gate.Check(context.Background(), &Request{ClientID: "ip"}); rej != nil {
		t.Fatalf("attempt at window boundary rejected: %+v", rej)
	}
}

func TestHoneypotGate(t *testing.T) {
	gate := HoneypotGate{}

	if rej := gate.Check(context.Background(), &Request{Honeypot: ""}); rej != nil {
		t.Fatalf("empty honeypot should pass, got %+v", rej)
	}

	rej := gate.Check(context.Background(), &Request{Honeypot: "Acme Inc"})
	if rej == nil {
		t.Fatal("filled honeypot should be rejected")
	}
	if rej.Status != http.StatusBadRequest || rej.Message != "Spam detected" {
		t.Fatalf("rejection = %+v, want 400 Spam detected", rej)
	}
}

type stubVerifier struct {
	success bool
	err     error
	calls   int
}

func (s *stubVerifier) Verify(context.Context, string) (bool, error) {
	s.calls++
	return s.success, s.err
}

func TestCaptchaGate_Outcomes(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		verifier  stubVerifier
		wantMsg   string
		wantCause string
		wantCalls int
	}{
		{"missing token", "", stubVerifier{}, "Captcha missing", "captcha_missing", 0},
		{"verification failure", "tok", stubVerifier{success: false}, "Captcha verification failed", "captcha_invalid", 1},
		{"verifier unreachable", "tok", stubVerifier{err: errors.New("dial timeout")}, "Captcha request failed", "captcha_unreachable", 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := tc.verifier
			gate := &CaptchaGate{Verifier: &v}

			rej := gate.Check(context.Background(), &Request{CaptchaToken: tc.token})
			if rej == nil {
				t.Fatal("expected rejection")
			}
			if rej.Status != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rej.Status)
			}
			if rej.Message != tc.wantMsg {
				t.Fatalf("message = %q, want %q", rej.Message, tc.wantMsg)
			}
			if rej.Cause != tc.wantCause {
				t.Fatalf("cause = %q, want %q", rej.Cause, tc.wantCause)
			}
			if v.calls != tc.wantCalls {
				t.Fatalf("verifier calls = %d, want %d", v.calls, tc.wantCalls)
			}
		})
	}
}

func TestCaptchaGate_PassesOnSuccess(t *testing.T) {
	gate := &CaptchaGate{Verifier: &stubVerifier{success: true}}
	if rej := gate.Check(context.Background(), &Request{CaptchaToken: "tok"}); rej != nil {
		t.Fatalf("valid token rejected: %+v", rej)
	}
}

// The honeypot gate sits before the captcha gate: a trapped submission must
// never trigger an external verification call.
func TestPipeline_HoneypotShortCircuitsBeforeCaptcha(t *testing.T) {
	v := &stubVerifier{success: true}
	p := NewPipeline(
		HoneypotGate{},
		&CaptchaGate{Verifier: v},
	)

	rej := p.Check(context.Background(), &Request{Honeypot: "bot", CaptchaToken: "tok"})
	if rej == nil || rej.Message != "Spam detected" {
		t.Fatalf("rejection = %+v, want Spam detected", rej)
	}
	if v.calls != 0 {
		t.Fatalf("captcha verifier called %d times after honeypot rejection", v.calls)
	}
}

// The origin gate sits before the cooldown gate: a cross-site request must
// not consume the client's cooldown.
func TestPipeline_OriginRejectionDoesNotTouchTracker(t *testing.T) {
	tr := NewTracker()
	p := NewPipeline(
		&OriginGate{AllowedDomains: []string{"kemtech.be"}},
		&CooldownGate{Tracker: tr, Window: time.Minute},
	)

	rej := p.Check(context.Background(), &Request{Origin: "https://evil.example", ClientID: "ip"})
	if rej == nil || rej.Cause != "invalid_origin" {
		t.Fatalf("rejection = %+v, want invalid_origin", rej)
	}
	if tr.Len() != 0 {
		t.Fatalf("tracker mutated by rejected origin: %d entries", tr.Len())
	}
}

func TestClientID(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"first forwarded-for entry", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "203.0.113.7"},
		{"forwarded-for with spaces", map[string]string{"X-Forwarded-For": " 203.0.113.7 , 10.0.0.1"}, "203.0.113.7"},
		{"cdn header fallback", map[string]string{"CF-Connecting-IP": "198.51.100.2"}, "198.51.100.2"},
		{"forwarded-for wins over cdn", map[string]string{"X-Forwarded-For": "203.0.113.7", "CF-Connecting-IP": "198.51.100.2"}, "203.0.113.7"},
		{"no headers", nil, "unknown"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := http.Header{}
			for k, v := range tc.headers {
				h.Set(k, v)
			}
			if got := ClientID(h); got != tc.want {
				t.Fatalf("ClientID = %q, want %q", got, tc.want)
			}
		})
	}
}
