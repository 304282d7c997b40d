package triage

import "errors"

// Failure taxonomy for one triage cycle. Callers match with errors.Is;
// every error produced inside the pipeline wraps exactly one of these.
var (
	// ErrMalformedMessage: the raw provider message is missing required
	// fields (id, sender). Local and non-retryable within a cycle.
	ErrMalformedMessage = errors.New("malformed message")

	// ErrServiceUnavailable: the reasoning service could not be reached
	// or did not answer in time. Not retried by this pipeline.
	ErrServiceUnavailable = errors.New("reasoning service unavailable")

	// ErrUnparsableResponse: the reasoning service answered, but the
	// response violates the decision contract. Never coerced to a
	// default category.
	ErrUnparsableResponse = errors.New("unparsable classifier response")

	// ErrIncompletePlan: the decision cannot be turned into an
	// executable plan (e.g. URGENT without a reply draft).
	ErrIncompletePlan = errors.New("incomplete action plan")

	// ErrProviderCall: a mailbox provider call failed (network, auth,
	// permission). Converted to a Failed audit entry by the executor.
	ErrProviderCall = errors.New("mailbox provider call failed")
)
