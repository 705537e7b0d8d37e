package model

import "time"

// Summary holds the aggregate counts for one run.
//
// Whether excluded and skipped links count toward Total is a policy
// choice controlled by Config.CountSkipped; see aggregate.Aggregator.
type Summary struct {
	// Total is the number of links counted for the run.
	Total int `json:"total"`

	// Successful is the number of targets that validated successfully.
	Successful int `json:"successful"`

	// Failed is the number of targets found broken.
	Failed int `json:"failed"`

	// Excluded is the number of links kept from checking by patterns.
	Excluded int `json:"excluded"`

	// Skipped is the number of links kept from checking by other policy.
	Skipped int `json:"skipped"`
}

// Report is the complete result of one run: every document's check
// results in source order, plus aggregate counts.
//
// Design decision: We keep Report a plain serializable container with no
// behavior beyond Success(). Construction and ordering live in the
// aggregate package; formatting lives in the report package. This keeps
// the type usable for JSON output and database storage as-is.
type Report struct {
	// RunID uniquely identifies the run. Assigned when the report is
	// persisted to the history database.
	RunID string `json:"run_id,omitempty"`

	// StartedAt is when checking began.
	StartedAt time.Time `json:"started_at"`

	// Elapsed is the total wall-clock duration of the run.
	Elapsed time.Duration `json:"elapsed_ns"`

	// DocumentOrder lists document IDs in input order, since the Results
	// map is unordered.
	DocumentOrder []string `json:"document_order"`

	// Results maps document ID to its check results in source order.
	Results map[string][]CheckResult `json:"results"`

	// Summary holds the aggregate counts.
	Summary Summary `json:"summary"`

	// Cancelled is true when the run was cut short by the global timeout
	// or a shutdown signal. The report is still complete: unfinished
	// targets appear as failures with reason "cancelled".
	Cancelled bool `json:"cancelled,omitempty"`
}

// Success reports whether no non-excluded target failed.
// This is what the CLI layer maps to the process exit code.
func (r *Report) Success() bool {
	return r.Summary.Failed == 0
}

// FailedResults returns every failed result across all documents, in
// document input order then source order.
func (r *Report) FailedResults() []CheckResult {
	var failed []CheckResult
	for _, id := range r.DocumentOrder {
		for _, res := range r.Results[id] {
			if res.Status == StatusFailure {
				failed = append(failed, res)
			}
		}
	}
	return failed
}
