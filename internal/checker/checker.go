package checker

import (
	"context"
	"crypto/tls"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/linkscout/linkscout/internal/config"
	"github.com/linkscout/linkscout/internal/model"
)

// errTooManyRedirects marks a redirect chain that exceeded the
// configured depth. It is terminal, never retried.
var errTooManyRedirects = errors.New("too many redirects")

// Checker validates targets. It is immutable after construction and
// safe for concurrent use; the pool calls Check from many goroutines.
//
// Design decision: We hold one shared http.Client rather than creating
// one per check because:
//  1. Client configuration (TLS, timeouts, redirects) must be uniform
//  2. Connection pooling only works with a shared client
//  3. Tests can swap the client via an option
type Checker struct {
	// client is the HTTP client used for web targets.
	client *http.Client

	// logger receives per-attempt debug records.
	logger *slog.Logger

	// userAgent is sent with every request.
	userAgent string

	// method is the HTTP method tried first ("head" or "get").
	method string

	// basicUser and basicPass are Basic Auth credentials, sent when the
	// user is non-empty.
	basicUser, basicPass string

	// headers are custom headers added to every request.
	headers map[string]string

	// hosts is the per-host side-table consulted before building each
	// request. Credentials here are injected proactively, before the
	// first attempt.
	hosts map[string]config.HostConfig

	// accepted are status codes treated as success even outside 2xx/3xx.
	accepted map[int]bool

	// retryable are status codes treated as transient.
	retryable map[int]bool

	// retryCount is the maximum number of attempts, including the first.
	retryCount int

	// backoffBase and backoffCap shape the exponential retry delay.
	backoffBase time.Duration
	backoffCap  time.Duration

	// checkAnchors enables fragment verification for file targets.
	checkAnchors bool

	// maxBody limits how much of a GET response body is drained.
	maxBody int64
}

// Option configures a Checker.
type Option func(*Checker)

// WithClient replaces the HTTP client. Used by tests to point the
// checker at an httptest server or a counting transport.
func WithClient(client *http.Client) Option {
	return func(c *Checker) {
		c.client = client
	}
}

// WithLogger sets the logger for per-attempt records.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

// New builds a Checker from configuration.
func New(cfg *config.Config, opts ...Option) *Checker {
	c := &Checker{
		logger:       slog.Default(),
		userAgent:    cfg.UserAgent,
		method:       cfg.Method,
		basicUser:    cfg.BasicAuthUser,
		basicPass:    cfg.BasicAuthPass,
		headers:      cfg.CustomHeaders,
		hosts:        cfg.HostTable(),
		accepted:     toSet(cfg.AcceptedStatusCodes),
		retryable:    toSet(cfg.RetryStatusCodes),
		retryCount:   cfg.RetryCount,
		backoffBase:  cfg.BackoffBase,
		backoffCap:   cfg.BackoffCap,
		checkAnchors: cfg.CheckAnchors,
		maxBody:      cfg.MaxBodySize,
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // Explicit user opt-out
	}

	c.client = &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= cfg.MaxRedirects {
				return errTooManyRedirects
			}
			return nil
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Check validates one target and returns its result. Per-target
// failures are data, never errors: the caller always gets exactly one
// CheckResult.
func (c *Checker) Check(ctx context.Context, t *model.Target) model.CheckResult {
	start := time.Now()

	var res model.CheckResult
	switch t.Kind {
	case model.TargetWeb:
		res = c.checkWeb(ctx, t)
	case model.TargetFile:
		res = c.checkFile(t)
	case model.TargetMail:
		res = c.checkMail(t)
	}

	res.Elapsed = time.Since(start)
	return res
}

// baseResult fills the traceability fields shared by every outcome.
func baseResult(t *model.Target) model.CheckResult {
	return model.CheckResult{
		DocumentID: t.DocumentID,
		Index:      t.Raw.Index,
		Link:       t.String(),
		Line:       t.Raw.Line,
		Kind:       t.Kind,
	}
}

func toSet(codes []int) map[int]bool {
	set := make(map[int]bool, len(codes))
	for _, code := range codes {
		set[code] = true
	}
	return set
}
