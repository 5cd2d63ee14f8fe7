// Package handlers implements the HTTP endpoints of the form backend.
//
// This file defines the uniform response envelope. Every endpoint answers
// either {"ok":true} or {"ok":false,"error":"<human-readable string>"}; the
// HTTP status carries the machine-readable outcome. Server-side failures
// (5xx) are additionally logged with request context before responding.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kemtech/forms-backend/internal/http/middleware"
)

// Response is the envelope returned by every endpoint.
type Response struct {
	OK bool `json:"ok" example:"false"`
	// Error is present only on failure and safe to show to visitors.
	Error string `json:"error,omitempty" example:"Missing fields"`
}

// acknowledge writes the success envelope.
func acknowledge(c *gin.Context) {
	c.JSON(http.StatusOK, Response{OK: true})
}

// fail aborts the request with the error envelope. Statuses >= 500 are
// logged through the request-scoped logger; 4xx rejections are expected
// traffic and already covered by the access log.
func fail(c *gin.Context, status int, msg string) {
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("error", msg).
			Msg("submission failed")
	}
	c.AbortWithStatusJSON(status, Response{OK: false, Error: msg})
}

// Fail is the exported variant of fail, used by router fallbacks.
func Fail(c *gin.Context, status int, msg string) { fail(c, status, msg) }
