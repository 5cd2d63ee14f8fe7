// Package captcha talks to the CAPTCHA verification collaborator.
//
// The verifier is the only external call made by the abuse guard, so it is
// kept behind a small interface (guard.CaptchaVerifier) and given a bounded
// HTTP timeout. A network, status, or decode failure is reported as an
// error, which the guard treats as "unreachable", distinct from a
// well-formed response whose success flag is false.
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultEndpoint is Google's reCAPTCHA server-side verification endpoint.
const DefaultEndpoint = "https://www.google.com/recaptcha/api/siteverify"

// DefaultTimeout bounds the verification round trip.
const DefaultTimeout = 5 * time.Second

// verifyResponse is the subset of the siteverify response we act on.
type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// RecaptchaVerifier verifies tokens against the reCAPTCHA siteverify API.
type RecaptchaVerifier struct {
	Secret   string
	Endpoint string
	Client   *http.Client
}

// NewRecaptchaVerifier returns a verifier for the given shared secret with
// the default endpoint and a bounded-timeout HTTP client. A non-positive
// timeout falls back to DefaultTimeout.
func NewRecaptchaVerifier(secret string, timeout time.Duration) *RecaptchaVerifier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &RecaptchaVerifier{
		Secret:   secret,
		Endpoint: DefaultEndpoint,
		Client:   &http.Client{Timeout: timeout},
	}
}

// Verify posts the token to the verification endpoint and reports whether
// the service judged it valid. The returned error is non-nil only when the
// call itself failed (network error, unexpected status, malformed body);
// callers must treat that case separately from a false result.
func (v *RecaptchaVerifier) Verify(ctx context.Context, token string) (bool, error) {
	form := url.Values{
		"secret":   {v.Secret},
		"response": {token},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.Client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("captcha: verification endpoint returned status %d", resp.StatusCode)
	}

	var out verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("captcha: decoding verification response: %w", err)
	}
	return out.Success, nil
}
