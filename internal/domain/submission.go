// Package domain contains the core data structures of the form backend.
//
// A Submission is the canonical, already-normalized view of one form post.
// It is created fresh per request by the HTTP layer, flows through the abuse
// guard, validation, and composition stages, and is discarded once the
// response has been written. Nothing in this package is persisted.
package domain

// Submission is the parsed field set of a contact or quote request.
//
// All scalar fields are trimmed strings; absent fields are empty strings and
// an absent services selection is an empty slice. Company is the honeypot
// field: it is rendered invisibly on the site and must stay empty for a
// legitimate submission.
type Submission struct {
	Name    string
	Email   string
	Tel     string
	Street  string
	Number  string
	Bus     string
	Zip     string
	City    string
	Message string
	Subject string

	// Captcha is the CAPTCHA response token issued to the browser.
	Captcha string
	// Company is the honeypot field.
	Company string

	// Services holds the selected service labels in submission order.
	Services []string
}

// HasServices reports whether at least one service label was selected.
func (s *Submission) HasServices() bool { return len(s.Services) > 0 }
