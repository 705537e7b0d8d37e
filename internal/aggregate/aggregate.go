package aggregate

import (
	"sort"
	"sync"
	"time"

	"github.com/linkscout/linkscout/internal/model"
)

// Aggregator accumulates check results across all documents of a run.
// Record is safe for concurrent use; Report must be called only after
// every worker has finished recording.
type Aggregator struct {
	// documentOrder preserves the input order of documents.
	documentOrder []string

	// countSkipped controls whether excluded and skipped links count
	// toward the summary total. Default is checked links only.
	countSkipped bool

	// startedAt anchors the run's elapsed time.
	startedAt time.Time

	// byDocument collects results per document in completion order.
	// Access is synchronized via mutex.
	byDocument map[string][]model.CheckResult
	mu         sync.Mutex
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithCountSkipped includes excluded and skipped links in the summary
// total.
func WithCountSkipped() Option {
	return func(a *Aggregator) {
		a.countSkipped = true
	}
}

// New creates an Aggregator for the given documents. The order of
// documentOrder is the order documents appear in the final report.
func New(documentOrder []string, opts ...Option) *Aggregator {
	a := &Aggregator{
		documentOrder: documentOrder,
		startedAt:     time.Now(),
		byDocument:    make(map[string][]model.CheckResult, len(documentOrder)),
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Record stores one result. Called from worker goroutines.
func (a *Aggregator) Record(res model.CheckResult) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.byDocument[res.DocumentID] = append(a.byDocument[res.DocumentID], res)
}

// Report builds the final report: per-document results restored to
// source order by appearance index, plus the aggregate counts.
func (a *Aggregator) Report(cancelled bool) *model.Report {
	a.mu.Lock()
	defer a.mu.Unlock()

	results := make(map[string][]model.CheckResult, len(a.byDocument))
	var summary model.Summary

	for id, list := range a.byDocument {
		ordered := make([]model.CheckResult, len(list))
		copy(ordered, list)
		sort.Slice(ordered, func(i, j int) bool {
			return ordered[i].Index < ordered[j].Index
		})
		results[id] = ordered

		for i := range ordered {
			count(&summary, &ordered[i], a.countSkipped)
		}
	}

	return &model.Report{
		StartedAt:     a.startedAt,
		Elapsed:       time.Since(a.startedAt),
		DocumentOrder: a.documentOrder,
		Results:       results,
		Summary:       summary,
		Cancelled:     cancelled,
	}
}

// count adds one result to the summary. Excluded and skipped links are
// always tallied in their own buckets; whether they join the total is
// the countSkipped policy.
func count(s *model.Summary, res *model.CheckResult, countSkipped bool) {
	switch res.Status {
	case model.StatusSuccess:
		s.Total++
		s.Successful++
	case model.StatusFailure:
		s.Total++
		s.Failed++
	case model.StatusExcluded:
		s.Excluded++
		if countSkipped {
			s.Total++
		}
	case model.StatusSkipped:
		s.Skipped++
		if countSkipped {
			s.Total++
		}
	}
}
