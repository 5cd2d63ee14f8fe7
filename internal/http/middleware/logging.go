// Package middleware contains the shared Gin middleware of the form backend.
//
// This file provides the request ID injector, the structured access logger,
// and the panic recovery handler. Form submissions carry visitor PII (names,
// email addresses, phone numbers), so the access logger never logs request
// bodies and scrubs PII-shaped values from query strings and headers before
// emitting anything.
//
// Ordering: RequestID → AccessLogger → Recovery, so panics and errors are
// logged with the correlation ID attached.
package middleware

import (
	"net/http"
	"regexp"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// requestIDKey is the Gin context key under which the request ID is stored.
	requestIDKey = "requestID"
	// loggerKey is the Gin context key of the request-scoped logger.
	loggerKey = "logger"
	// requestIDHeader propagates the correlation ID.
	requestIDHeader = "X-Request-ID"
)

// PII patterns scrubbed from logged query strings and header values.
// Email must run before phone so the digits of a mail-local-part are not
// half-matched by the looser phone pattern.
var (
	emailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	phoneRE = regexp.MustCompile(`\b(?:\+?\d{1,3}[ .\-]?)?(?:\(?\d{2,4}\)?[ .\-]?)?\d{3,4}[ .\-]?\d{4}\b`)
)

// scrub replaces PII-shaped substrings with redaction markers.
func scrub(s string) string {
	if s == "" {
		return s
	}
	s = emailRE.ReplaceAllString(s, "[redacted:email]")
	s = phoneRE.ReplaceAllString(s, "[redacted:phone]")
	return s
}

// RequestID attaches (or propagates) a correlation identifier per request.
// An incoming X-Request-ID is reused; otherwise a fresh UUIDv4 is generated.
// The ID is echoed on the response and stored in the Gin context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// AccessLogger writes one structured log line per request and attaches a
// request-scoped logger to the context for handlers to enrich.
//
// The emitted level follows the outcome: error for 5xx or collected Gin
// errors, warn for 4xx (expected abuse-guard traffic), info otherwise.
// Sensitive headers are masked entirely; everything else is scrubbed.
func AccessLogger(maskHeaders ...string) gin.HandlerFunc {
	masked := map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
	}
	for _, h := range maskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			masked[h] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		rid, _ := c.Get(requestIDKey)

		l := log.With().
			Str("request_id", asString(rid)).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("remote_ip", c.ClientIP()).
			Str("origin", c.GetHeader("Origin")).
			Str("user_agent", c.Request.UserAgent()).
			Str("query", scrub(c.Request.URL.RawQuery)).
			Int64("bytes_in", c.Request.ContentLength).
			Logger()
		c.Set(loggerKey, &l)

		c.Next()

		status := c.Writer.Status()
		ev := l.With().
			Int("status", status).
			Dur("latency", time.Since(start)).
			Int("bytes_out", c.Writer.Size()).
			Logger()

		switch {
		case len(c.Errors) > 0:
			ev.Error().Str("errors", scrub(c.Errors.String())).Msg("request")
		case status >= 500:
			ev.Error().Msg("request")
		case status >= 400:
			ev.Warn().Msg("request")
		default:
			ev.Info().Msg("request")
		}

		// Header audit at debug level only, scrubbed and masked.
		if zerolog.GlobalLevel() <= zerolog.DebugLevel {
			safe := zerolog.Dict()
			for k, vv := range c.Request.Header {
				if _, ok := masked[strings.ToLower(k)]; ok {
					safe.Str(k, "[masked]")
					continue
				}
				safe.Str(k, scrub(strings.Join(vv, ", ")))
			}
			l.Debug().Dict("headers", safe).Msg("request headers")
		}
	}
}

// Recovery intercepts panics, logs the stack with the request ID, and
// answers with the uniform error envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				rid, _ := c.Get(requestIDKey)
				log.Error().
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Str("request_id", asString(rid)).
					Msg("panic recovered")

				if !c.Writer.Written() {
					c.Header(requestIDHeader, asString(rid))
					c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
						"ok":    false,
						"error": "internal server error",
					})
					return
				}
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped zerolog.Logger attached by
// AccessLogger, or a plain fallback so callers never need a nil check.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

// asString converts a context value to a string, or "" when it is not one.
func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
