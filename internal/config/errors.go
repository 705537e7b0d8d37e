package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoInput is returned when no document path, glob, or URL is given.
	ErrNoInput = errors.New("no input specified: provide at least one file, glob, or URL")

	// ErrInvalidConcurrency is returned when the concurrency bound is not
	// positive. Zero concurrency would mean no checks run at all.
	ErrInvalidConcurrency = errors.New("invalid max concurrency: must be positive")

	// ErrInvalidTimeout is returned when the per-request timeout is not
	// positive. A zero timeout would fail every request immediately.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidRetryCount is returned when the attempt budget is below
	// one. At least the first attempt must be allowed.
	ErrInvalidRetryCount = errors.New("invalid retry count: must be at least 1")

	// ErrInvalidBackoff is returned when the backoff base is negative.
	// Use 0 for immediate retries.
	ErrInvalidBackoff = errors.New("invalid backoff base: must be non-negative")

	// ErrInvalidMaxRedirects is returned when the redirect cap is
	// negative. Use 0 to fail on any redirect.
	ErrInvalidMaxRedirects = errors.New("invalid max redirects: must be non-negative")

	// ErrInvalidMethod is returned for request methods other than
	// "head" or "get".
	ErrInvalidMethod = errors.New("invalid method: only \"head\" and \"get\" are supported")

	// ErrInvalidMaxBodySize is returned when the body size limit is
	// negative. Use 0 to apply the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
