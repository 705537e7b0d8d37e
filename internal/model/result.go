package model

import "time"

// Status is the top-level classification of a check outcome.
type Status string

// Check statuses.
const (
	// StatusSuccess means the target was validated successfully.
	StatusSuccess Status = "success"

	// StatusFailure means the target was checked and found broken.
	// Reason carries the failure class.
	StatusFailure Status = "failure"

	// StatusExcluded means an include/exclude pattern kept the target
	// from being checked.
	StatusExcluded Status = "excluded"

	// StatusSkipped means policy other than patterns kept the target from
	// being checked (unsupported scheme, private host, anchor-only).
	StatusSkipped Status = "skipped"
)

// FailureReason classifies why a check failed.
type FailureReason string

// Failure reasons.
const (
	// FailureHTTPStatus is a final, non-accepted HTTP status code.
	FailureHTTPStatus FailureReason = "http_status"

	// FailureTooManyRedirects means the redirect chain exceeded the
	// configured depth. Never retried.
	FailureTooManyRedirects FailureReason = "too_many_redirects"

	// FailureExhaustedRetries means every attempt hit a retryable error
	// and the attempt budget ran out. Detail carries the last error.
	FailureExhaustedRetries FailureReason = "exhausted_retries"

	// FailureNotFound is a missing local file. Never retried.
	FailureNotFound FailureReason = "not_found"

	// FailureMissingAnchor means the target document exists but does not
	// contain the referenced fragment anchor.
	FailureMissingAnchor FailureReason = "missing_anchor"

	// FailureInvalidMail is a mail address that fails the syntactic
	// validity rule. No network verification is ever performed.
	FailureInvalidMail FailureReason = "invalid_mail"

	// FailureCancelled means the global timeout or a shutdown signal
	// cancelled the check before it completed.
	FailureCancelled FailureReason = "cancelled"
)

// CheckResult is the outcome of validating one target. Exactly one
// CheckResult exists per RawLink, including skipped and cancelled links.
type CheckResult struct {
	// DocumentID identifies the originating document.
	DocumentID string `json:"document_id"`

	// Index is the RawLink appearance order, used to restore source order
	// in the final report.
	Index int `json:"index"`

	// Link is the checkable form of the target, or the raw text for
	// skipped links.
	Link string `json:"link"`

	// Line is the 1-based source line of the originating link.
	Line int `json:"line"`

	// Kind is the target kind, empty for links that never resolved to a
	// target.
	Kind TargetKind `json:"kind,omitempty"`

	// Status is the top-level outcome.
	Status Status `json:"status"`

	// FailureReason is set when Status is StatusFailure.
	FailureReason FailureReason `json:"failure_reason,omitempty"`

	// SkipReason is set when Status is StatusExcluded or StatusSkipped.
	SkipReason SkipReason `json:"skip_reason,omitempty"`

	// HTTPStatus is the final HTTP status code, when applicable.
	HTTPStatus int `json:"http_status,omitempty"`

	// Detail carries the underlying error text, when applicable.
	Detail string `json:"detail,omitempty"`

	// Elapsed is the wall-clock time the check took, including backoff.
	Elapsed time.Duration `json:"elapsed_ns"`

	// Retries is the number of retry attempts consumed (0 means the first
	// attempt decided the outcome).
	Retries int `json:"retries"`
}

// Ok reports whether the result does not count as broken.
// Excluded and skipped links never fail a run.
func (r *CheckResult) Ok() bool {
	return r.Status != StatusFailure
}

// SkipResult builds the CheckResult for a link that never reached the
// checker. Pattern-based skips become StatusExcluded, everything else
// StatusSkipped.
func SkipResult(v *SkipVerdict) CheckResult {
	status := StatusSkipped
	if v.Excluded() {
		status = StatusExcluded
	}
	return CheckResult{
		DocumentID: v.DocumentID,
		Index:      v.Raw.Index,
		Link:       v.Raw.Text,
		Line:       v.Raw.Line,
		Status:     status,
		SkipReason: v.Reason,
	}
}

// CancelledResult builds the CheckResult for a target whose check was
// cancelled before completion. The report must stay complete even under
// cancellation, so cancelled targets are reported rather than dropped.
func CancelledResult(t *Target) CheckResult {
	return CheckResult{
		DocumentID:    t.DocumentID,
		Index:         t.Raw.Index,
		Link:          t.String(),
		Line:          t.Raw.Line,
		Kind:          t.Kind,
		Status:        StatusFailure,
		FailureReason: FailureCancelled,
	}
}
