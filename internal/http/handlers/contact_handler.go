package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kemtech/forms-backend/internal/guard"
	"github.com/kemtech/forms-backend/internal/http/middleware"
	"github.com/kemtech/forms-backend/internal/services"
)

// SubmitContact godoc
// @ID          submitContact
// @Summary     Submit the contact form
// @Description Validates the submission, runs the abuse checks (origin,
// @Description cooldown, honeypot, captcha) and mails the site owner.
// @Tags        Forms
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.ContactRequest  true  "Contact form payload"
//
// @Success     200  {object} handlers.Response "Submission accepted"
// @Failure     400  {object} handlers.Response "Missing fields or spam"
// @Failure     403  {object} handlers.Response "Invalid origin"
// @Failure     429  {object} handlers.Response "Cooldown active"
// @Failure     500  {object} handlers.Response "Mail dispatch failed"
// @Router      /contact [post]
func (h *Handlers) SubmitContact(c *gin.Context) {
	h.submit(c, "contact", h.contact)
}

// submit runs the shared guard → validate → dispatch flow for one endpoint.
func (h *Handlers) submit(c *gin.Context, endpoint string, svc Submitter) {
	sub := parseSubmission(c)

	req := &guard.Request{
		Origin:       c.GetHeader("Origin"),
		ClientID:     guard.ClientID(c.Request.Header),
		Honeypot:     sub.Company,
		CaptchaToken: sub.Captcha,
	}
	if rej := h.guard.Check(c.Request.Context(), req); rej != nil {
		middleware.ObserveSubmission(endpoint, rej.Cause)
		fail(c, rej.Status, rej.Message)
		return
	}

	if err := svc.Submit(c.Request.Context(), sub); err != nil {
		switch {
		case errors.Is(err, services.ErrMissingFields),
			errors.Is(err, services.ErrMissingRequiredFields):
			middleware.ObserveSubmission(endpoint, "invalid_fields")
			fail(c, http.StatusBadRequest, err.Error())
		default:
			middleware.ObserveSubmission(endpoint, "dispatch_failed")
			msg := err.Error()
			if msg == "" {
				msg = "Failed to send"
			}
			fail(c, http.StatusInternalServerError, msg)
		}
		return
	}

	middleware.ObserveSubmission(endpoint, "accepted")
	acknowledge(c)
}

// ContactRequest documents the contact form payload for Swagger. The live
// decoder is laxer than this shape (see parseSubmission).
type ContactRequest struct {
	Name    string `json:"name"    example:"Jan Peeters"`
	Email   string `json:"email"   example:"jan@example.be"`
	Tel     string `json:"tel"     example:"+32 470 12 34 56"`
	Subject string `json:"subject" example:"Vraag over herstelling"`
	Message string `json:"message" example:"Kunnen jullie langskomen?"`
	Captcha string `json:"captcha" example:"recaptcha-token"`
}
