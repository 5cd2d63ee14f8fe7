package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kemtech/forms-backend/internal/domain"
	"github.com/kemtech/forms-backend/internal/guard"
	"github.com/kemtech/forms-backend/internal/services"
)

// ---- stubs ----

type stubSubmitter struct {
	err  error
	subs []*domain.Submission
}

func (s *stubSubmitter) Submit(_ context.Context, sub *domain.Submission) error {
	s.subs = append(s.subs, sub)
	return s.err
}

// rejectGate always rejects; used to exercise the guard path.
type rejectGate struct{ rej guard.Rejection }

func (g rejectGate) Name() string { return "reject" }
func (g rejectGate) Check(context.Context, *guard.Request) *guard.Rejection {
	r := g.rej
	return &r
}

func newContactRouter(pipeline *guard.Pipeline, svc Submitter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(pipeline, svc, &stubSubmitter{})
	r := gin.New()
	r.POST("/contact", h.SubmitContact)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v (body=%s)", err, w.Body.String())
	}
	return resp
}

// ---- tests ----

func TestSubmitContact_Success(t *testing.T) {
	svc := &stubSubmitter{}
	r := newContactRouter(guard.NewPipeline(), svc)

	w := postJSON(r, "/contact", `{"email":"jan@example.be","message":"hallo"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, want 200. body=%s", w.Code, w.Body.String())
	}
	resp := decodeEnvelope(t, w)
	if !resp.OK || resp.Error != "" {
		t.Fatalf("envelope = %+v, want {ok:true}", resp)
	}
	if len(svc.subs) != 1 {
		t.Fatalf("service called %d times, want 1", len(svc.subs))
	}
	if svc.subs[0].Email != "jan@example.be" {
		t.Fatalf("submission not passed through: %+v", svc.subs[0])
	}
}

func TestSubmitContact_GuardRejection(t *testing.T) {
	svc := &stubSubmitter{}
	pipeline := guard.NewPipeline(rejectGate{rej: guard.Rejection{
		Status:  http.StatusForbidden,
		Message: "Invalid origin",
		Cause:   "origin",
	}})
	r := newContactRouter(pipeline, svc)

	w := postJSON(r, "/contact", `{"email":"jan@example.be","message":"hallo"}`)

	if w.Code != http.StatusForbidden {
		t.Fatalf("status=%d, want 403", w.Code)
	}
	resp := decodeEnvelope(t, w)
	if resp.OK || resp.Error != "Invalid origin" {
		t.Fatalf("envelope = %+v", resp)
	}
	if len(svc.subs) != 0 {
		t.Fatalf("service must not be called after a guard rejection")
	}
}

func TestSubmitContact_ValidationErrors400(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{"missing_fields", services.ErrMissingFields, "Missing fields"},
		{"missing_required", services.ErrMissingRequiredFields, "Missing required fields"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubSubmitter{err: tc.err}
			r := newContactRouter(guard.NewPipeline(), svc)

			w := postJSON(r, "/contact", `{}`)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status=%d, want 400", w.Code)
			}
			resp := decodeEnvelope(t, w)
			if resp.OK || resp.Error != tc.wantMsg {
				t.Fatalf("envelope = %+v, want error %q", resp, tc.wantMsg)
			}
		})
	}
}

func TestSubmitContact_DispatchError500(t *testing.T) {
	svc := &stubSubmitter{err: errors.New("SMTP timeout")}
	r := newContactRouter(guard.NewPipeline(), svc)

	w := postJSON(r, "/contact", `{"email":"jan@example.be","message":"hallo"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d, want 500", w.Code)
	}
	resp := decodeEnvelope(t, w)
	if resp.OK || resp.Error != "SMTP timeout" {
		t.Fatalf("envelope = %+v, want dispatch error surfaced", resp)
	}
}

func TestSubmitContact_EmptyErrorGetsFallback(t *testing.T) {
	svc := &stubSubmitter{err: errors.New("")}
	r := newContactRouter(guard.NewPipeline(), svc)

	w := postJSON(r, "/contact", `{"email":"jan@example.be","message":"hallo"}`)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d, want 500", w.Code)
	}
	resp := decodeEnvelope(t, w)
	if resp.Error != "Failed to send" {
		t.Fatalf("error = %q, want fallback message", resp.Error)
	}
}
