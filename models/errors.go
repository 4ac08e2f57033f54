package models

import "fmt"

// ConfigurationError marks missing or malformed credentials or settings.
// It disables the affected exchange instead of aborting the run.
type ConfigurationError struct {
	Exchange string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: configuration error: %s", e.Exchange, e.Reason)
}

// FetchError is a network, HTTP or parse failure on a market feed. The body
// is truncated by the adapter so diagnostics stay bounded.
type FetchError struct {
	Exchange string
	Status   int
	Body     string
	Err      error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: fetch failed: status %d: %s", e.Exchange, e.Status, e.Body)
	}
	return fmt.Sprintf("%s: fetch failed: %v", e.Exchange, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// SigningError is a cryptographic key construction or signing failure at
// request time, as opposed to a credential that was never configured.
type SigningError struct {
	Exchange string
	Err      error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("%s: signing failed: %v", e.Exchange, e.Err)
}

func (e *SigningError) Unwrap() error { return e.Err }

// OrderError is an exchange order rejection, surfaced verbatim in the leg's
// OrderResult and never retried.
type OrderError struct {
	Exchange string
	Status   int
	Detail   string
}

func (e *OrderError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: order rejected (status %d): %s", e.Exchange, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s: order failed: %s", e.Exchange, e.Detail)
}
