package handlers

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kemtech/forms-backend/internal/domain"
)

// parseSubmission normalizes the request body into a Submission.
//
// JSON bodies are decoded into a loose map so that numbers, booleans, and
// null coerce to trimmed strings the same way form values do. Form bodies
// are read field by field; for "services" the repeated-field occurrences win
// over a single comma-separated value.
//
// Decode failures are swallowed on purpose: a malformed body yields an
// all-empty Submission, which the field validator then rejects as missing
// required fields. This keeps the parse stage total and pushes all policy
// into one place.
func parseSubmission(c *gin.Context) *domain.Submission {
	if strings.Contains(c.ContentType(), "application/json") {
		return parseJSONSubmission(c)
	}
	return parseFormSubmission(c)
}

func parseJSONSubmission(c *gin.Context) *domain.Submission {
	var body map[string]any
	sub := &domain.Submission{}
	if err := json.NewDecoder(c.Request.Body).Decode(&body); err != nil {
		return sub // empty submission falls through to validation
	}

	sub.Name = str(body["name"])
	sub.Email = str(body["email"])
	sub.Tel = str(body["tel"])
	sub.Street = str(body["street"])
	sub.Number = str(body["number"])
	sub.Bus = str(body["bus"])
	sub.Zip = str(body["zip"])
	sub.City = str(body["city"])
	sub.Message = str(body["message"])
	sub.Subject = str(body["subject"])
	sub.Captcha = str(body["captcha"])
	sub.Company = str(body["company"])
	sub.Services = labels(body["services"])
	return sub
}

func parseFormSubmission(c *gin.Context) *domain.Submission {
	sub := &domain.Submission{
		Name:    strings.TrimSpace(c.PostForm("name")),
		Email:   strings.TrimSpace(c.PostForm("email")),
		Tel:     strings.TrimSpace(c.PostForm("tel")),
		Street:  strings.TrimSpace(c.PostForm("street")),
		Number:  strings.TrimSpace(c.PostForm("number")),
		Bus:     strings.TrimSpace(c.PostForm("bus")),
		Zip:     strings.TrimSpace(c.PostForm("zip")),
		City:    strings.TrimSpace(c.PostForm("city")),
		Message: strings.TrimSpace(c.PostForm("message")),
		Subject: strings.TrimSpace(c.PostForm("subject")),
		Captcha: strings.TrimSpace(c.PostForm("captcha")),
		Company: strings.TrimSpace(c.PostForm("company")),
	}

	// Repeated occurrences win as-is, even a single one whose value holds a
	// comma; CSV splitting is only for the JSON string shape.
	if repeated := c.PostFormArray("services"); len(repeated) > 0 {
		sub.Services = trimAll(repeated)
	}
	return sub
}

// str coerces an arbitrary decoded JSON value to a trimmed string. nil
// (JSON null or absent key) becomes ""; numbers and booleans are rendered
// with fmt so "zip": 2000 arrives as "2000".
func str(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		// JSON numbers decode as float64; %v renders 2000.0 as "2000".
		return fmt.Sprintf("%v", t)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

// labels coerces the services value: an array of anything becomes a list of
// trimmed non-empty strings, a plain string is split on commas, anything
// else is no selection.
func labels(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s := str(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		return splitCSV(t)
	default:
		return nil
	}
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func trimAll(vals []string) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if t := strings.TrimSpace(v); t != "" {
			out = append(out, t)
		}
	}
	return out
}
