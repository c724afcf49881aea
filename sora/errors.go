package sora

import (
	"errors"
	"fmt"
)

// Static errors for Sora client operations.
var (
	// ErrEndpointRequired is returned when no endpoint is configured.
	ErrEndpointRequired = errors.New("sora: endpoint is required")
	// ErrAPIKeyRequired is returned when no API key is configured.
	ErrAPIKeyRequired = errors.New("sora: API key is required")
	// ErrDeploymentRequired is returned when no deployment name is configured.
	ErrDeploymentRequired = errors.New("sora: deployment name is required")
	// ErrJobIDRequired is returned when the job ID is not provided.
	ErrJobIDRequired = errors.New("sora: job ID is required")
	// ErrGenerationIDRequired is returned when the generation ID is not provided.
	ErrGenerationIDRequired = errors.New("sora: generation ID is required")
	// ErrNoJobIDReturned is returned when the create response contains no job ID.
	ErrNoJobIDReturned = errors.New("sora: create job failed: no job ID returned")

	// ErrAuthentication is returned when the service rejects the credentials (401/403).
	ErrAuthentication = errors.New("sora: authentication failed")
	// ErrNotFound is returned when the requested resource does not exist (404).
	ErrNotFound = errors.New("sora: not found")
	// ErrRateLimited is returned when the service returns a 429 status code.
	ErrRateLimited = errors.New("sora: rate limited")
	// ErrService is returned when the service fails with a 5xx or otherwise
	// unclassified status code.
	ErrService = errors.New("sora: service error")

	// ErrPollTimeout is returned when a job does not reach a terminal state
	// within the polling timeout.
	ErrPollTimeout = errors.New("sora: poll timeout exceeded")
	// ErrContentNotReady is returned when content is requested for a
	// generation whose job has not succeeded.
	ErrContentNotReady = errors.New("sora: content not ready")
)

// APIError carries the raw status code and response body of a failed
// request so callers can log full diagnostics. It unwraps to one of the
// transport sentinels (ErrAuthentication, ErrNotFound, ErrRateLimited,
// ErrService, ErrContentNotReady) so errors.Is works as expected.
type APIError struct {
	StatusCode int
	Body       string

	err error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%v: status %d: %s", e.err, e.StatusCode, e.Body)
}

func (e *APIError) Unwrap() error {
	return e.err
}

// statusError maps an HTTP status code to a typed API error.
func statusError(statusCode int, body []byte) error {
	e := &APIError{StatusCode: statusCode, Body: string(body)}
	switch {
	case statusCode == 401 || statusCode == 403:
		e.err = ErrAuthentication
	case statusCode == 404:
		e.err = ErrNotFound
	case statusCode == 429:
		e.err = ErrRateLimited
	default:
		e.err = ErrService
	}
	return e
}
