package services

import (
	"fmt"
	"strings"

	"github.com/kemtech/forms-backend/internal/domain"
)

// htmlEscaper escapes the five characters the HTML rendition must neutralize
// before interpolating user content. The single quote maps to &#039; (the
// entity the site has always emitted), which is why html.EscapeString, which
// emits &#39;, is not used here.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

func escapeHTML(s string) string { return htmlEscaper.Replace(s) }

// textLines joins the non-empty lines with newlines. Lines whose source
// field was empty are dropped entirely so the plain-text body never shows an
// empty label.
func textLines(lines []string) string {
	out := lines[:0]
	for _, l := range lines {
		if l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

// htmlWrap surrounds the labeled paragraphs with the shared mail styling.
// Only structural literals live here; every user value is escaped by the
// callers before interpolation.
func htmlWrap(inner string) string {
	return `<div style="font-family:Arial,sans-serif;font-size:14px;line-height:1.5;color:#111">` +
		inner +
		`</div>`
}

// htmlMessageBlock renders the free-form message with preserved line breaks.
func htmlMessageBlock(message string) string {
	return `<hr style="border:none;border-top:1px solid #e5e7eb;margin:12px 0" />` +
		`<p><strong>Bericht:</strong></p>` +
		`<p style="white-space:pre-wrap">` + escapeHTML(message) + `</p>`
}

// contactText renders the plain-text body of a contact submission.
func contactText(sub *domain.Submission) string {
	var nameLine string
	if sub.Name != "" {
		nameLine = "Naam: " + sub.Name
	}
	return textLines([]string{
		nameLine,
		"E-mail: " + sub.Email,
	}) + "\n\nBericht:\n" + sub.Message
}

// contactHTML renders the HTML body of a contact submission.
func contactHTML(sub *domain.Submission) string {
	var b strings.Builder
	if sub.Name != "" {
		fmt.Fprintf(&b, "<p><strong>Naam:</strong> %s</p>", escapeHTML(sub.Name))
	}
	fmt.Fprintf(&b, "<p><strong>E-mail:</strong> %s</p>", escapeHTML(sub.Email))
	b.WriteString(htmlMessageBlock(sub.Message))
	return htmlWrap(b.String())
}

// addressLine concatenates street, number, optional unit, postal code, and
// city into the single human-readable line used by both renditions.
func addressLine(sub *domain.Submission) string {
	line := sub.Street + " " + sub.Number
	if sub.Bus != "" {
		line += " bus " + sub.Bus
	}
	return line + ", " + sub.Zip + " " + sub.City
}

// quoteText renders the plain-text body of a quote submission.
func quoteText(sub *domain.Submission) string {
	var emailLine, telLine string
	if sub.Email != "" {
		emailLine = "E-mail: " + sub.Email
	}
	if sub.Tel != "" {
		telLine = "Telefoon: " + sub.Tel
	}
	return textLines([]string{
		"Naam: " + sub.Name,
		emailLine,
		telLine,
		"Adres: " + addressLine(sub),
		"Diensten: " + strings.Join(sub.Services, ", "),
	}) + "\n\nBericht:\n" + sub.Message
}

// quoteHTML renders the HTML body of a quote submission. Each service label
// is escaped individually before joining.
func quoteHTML(sub *domain.Submission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p><strong>Naam:</strong> %s</p>", escapeHTML(sub.Name))
	if sub.Email != "" {
		fmt.Fprintf(&b, "<p><strong>E-mail:</strong> %s</p>", escapeHTML(sub.Email))
	}
	if sub.Tel != "" {
		fmt.Fprintf(&b, "<p><strong>Telefoon:</strong> %s</p>", escapeHTML(sub.Tel))
	}

	addr := escapeHTML(sub.Street) + " " + escapeHTML(sub.Number)
	if sub.Bus != "" {
		addr += " bus " + escapeHTML(sub.Bus)
	}
	addr += ", " + escapeHTML(sub.Zip) + " " + escapeHTML(sub.City)
	fmt.Fprintf(&b, "<p><strong>Adres:</strong> %s</p>", addr)

	escaped := make([]string, len(sub.Services))
	for i, svc := range sub.Services {
		escaped[i] = escapeHTML(svc)
	}
	fmt.Fprintf(&b, "<p><strong>Diensten:</strong> %s</p>", strings.Join(escaped, ", "))

	b.WriteString(htmlMessageBlock(sub.Message))
	return htmlWrap(b.String())
}
