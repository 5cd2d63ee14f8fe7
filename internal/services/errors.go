// Package services holds the business logic of the two form endpoints:
// required-field validation, message composition, and dispatch through the
// mail transport. This file centralizes the service-level sentinel errors so
// handlers can map them to HTTP results consistently.
package services

import "errors"

var (
	// ErrMissingFields is returned by the contact endpoint when a required
	// field (email or message) is empty. The error text is the exact
	// client-facing message.
	ErrMissingFields = errors.New("Missing fields")

	// ErrMissingRequiredFields is returned by the quote endpoint when any of
	// its required fields is empty or no service was selected.
	ErrMissingRequiredFields = errors.New("Missing required fields")
)
