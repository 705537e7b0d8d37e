package pool

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/linkscout/linkscout/internal/model"
)

// CheckFunc validates a single target. It must honor context
// cancellation and must always return a result, never panic.
type CheckFunc func(ctx context.Context, t *model.Target) model.CheckResult

// RecordFunc receives each completed result. It is called from worker
// goroutines, so implementations must be safe for concurrent use.
type RecordFunc func(res model.CheckResult)

// Pool fans targets out to a check function under a concurrency limit.
//
// Design decision: We use errgroup.SetLimit rather than a hand-rolled
// worker pool with channels. Each target gets its own goroutine, but
// only 'concurrency' of them run simultaneously, and errgroup handles
// the lifecycle correctly.
type Pool struct {
	// check validates one target.
	check CheckFunc

	// concurrency is the maximum number of in-flight checks.
	concurrency int

	// logger is used for dispatch-level logging.
	logger *slog.Logger
}

// Option configures a Pool.
type Option func(*Pool)

// WithLogger sets a custom logger for the pool.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pool) {
		p.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent checks.
// Non-positive values are ignored.
func WithConcurrency(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// New creates a Pool around the given check function.
// Default concurrency is 32.
func New(check CheckFunc, opts ...Option) *Pool {
	p := &Pool{
		check:       check,
		concurrency: 32,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// Run checks every target and records exactly one result per target.
//
// Targets whose goroutine observes cancellation before the check starts
// are recorded as cancelled failures rather than dropped; a check
// already in flight reports its own cancellation through the check
// function. Workers never return errors to the group, so one broken
// target cannot abort the rest of the run. The only error Run returns
// is the context's, signalling that the run was cut short.
func (p *Pool) Run(ctx context.Context, targets []*model.Target, record RecordFunc) error {
	p.logger.Info("starting checks",
		"total_targets", len(targets),
		"concurrency", p.concurrency,
	)

	startTime := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for _, target := range targets {
		target := target
		g.Go(func() error {
			// A slot may open only after the deadline has passed; the
			// target is still owed a result.
			select {
			case <-gctx.Done():
				record(model.CancelledResult(target))
				return nil
			default:
			}

			res := p.check(gctx, target)
			record(res)

			if res.Status == model.StatusFailure {
				p.logger.Debug("check failed",
					"link", res.Link,
					"reason", res.FailureReason,
					"http_status", res.HTTPStatus,
				)
			}

			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // Workers never return errors

	p.logger.Info("checks complete",
		"total_targets", len(targets),
		"elapsed", time.Since(startTime),
	)

	return ctx.Err()
}
