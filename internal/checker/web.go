package checker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/linkscout/linkscout/internal/model"
)

// checkWeb validates an absolute web URL.
//
// The first attempt uses the configured method (HEAD by default); when
// the server rejects HEAD with 405 or 501, the same attempt retries
// immediately with GET, since method rejection says nothing about the
// resource. Transient failures (transport errors and the configured
// retryable status codes) are retried with exponential backoff until
// the attempt budget is spent.
func (c *Checker) checkWeb(ctx context.Context, t *model.Target) model.CheckResult {
	res := baseResult(t)

	method := http.MethodGet
	if c.method == "head" {
		method = http.MethodHead
	}

	var lastErr error
	lastStatus := 0

	for attempt := 0; attempt < c.retryCount; attempt++ {
		if attempt > 0 {
			delay := c.backoffDelay(attempt - 1)
			c.logger.Debug("retrying after backoff",
				"url", t.URL.String(),
				"attempt", attempt,
				"delay", delay,
			)
			if err := sleepContext(ctx, delay); err != nil {
				res.Status = model.StatusFailure
				res.FailureReason = model.FailureCancelled
				res.Retries = attempt
				return res
			}
		}

		status, err := c.attempt(ctx, t, method)

		// HEAD rejection falls back to GET within the same attempt.
		if err == nil && method == http.MethodHead &&
			(status == http.StatusMethodNotAllowed || status == http.StatusNotImplemented) {
			method = http.MethodGet
			status, err = c.attempt(ctx, t, method)
		}

		switch {
		case errors.Is(err, errTooManyRedirects):
			// Redirect loops are a property of the resource; retrying
			// cannot help.
			res.Status = model.StatusFailure
			res.FailureReason = model.FailureTooManyRedirects
			res.Retries = attempt
			return res

		case ctx.Err() != nil:
			res.Status = model.StatusFailure
			res.FailureReason = model.FailureCancelled
			res.Detail = ctx.Err().Error()
			res.Retries = attempt
			return res

		case err != nil:
			// Transport-level failure: timeout, connection reset, DNS.
			lastErr = err
			continue

		case c.isAccepted(status, t.URL.Hostname()):
			res.Status = model.StatusSuccess
			res.HTTPStatus = status
			res.Retries = attempt
			return res

		case c.retryable[status]:
			lastStatus = status
			lastErr = nil
			continue

		default:
			res.Status = model.StatusFailure
			res.FailureReason = model.FailureHTTPStatus
			res.HTTPStatus = status
			res.Retries = attempt
			return res
		}
	}

	res.Status = model.StatusFailure
	res.FailureReason = model.FailureExhaustedRetries
	res.Retries = c.retryCount - 1
	res.HTTPStatus = lastStatus
	if lastErr != nil {
		res.Detail = lastErr.Error()
	} else if lastStatus != 0 {
		res.Detail = fmt.Sprintf("last status %d", lastStatus)
	}
	return res
}

// attempt performs one HTTP request and returns the final status code
// after redirects.
func (c *Checker) attempt(ctx context.Context, t *model.Target, method string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, t.URL.String(), nil)
	if err != nil {
		return 0, err
	}

	c.applyHeaders(req, t.URL.Hostname())

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close() //nolint:errcheck // Best-effort close on a drained body

	// Drain a bounded amount so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, c.maxBody))

	return resp.StatusCode, nil
}

// applyHeaders sets the uniform request headers plus the per-host
// side-table entries. Per-host credentials are proactive rate-limit
// mitigation, applied before the first attempt ever leaves.
func (c *Checker) applyHeaders(req *http.Request, host string) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "*/*")

	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	if c.basicUser != "" {
		req.SetBasicAuth(c.basicUser, c.basicPass)
	}

	if hc, ok := c.hosts[host]; ok {
		for k, v := range hc.Headers {
			req.Header.Set(k, v)
		}
		if hc.Token != "" {
			token := hc.Token
			if !strings.Contains(token, " ") {
				token = "Bearer " + token
			}
			req.Header.Set("Authorization", token)
		}
	}
}

// isAccepted decides whether a final status code is a success.
// The configured accepted set (global, or per-host override) wins;
// otherwise 2xx and 3xx count as success. 3xx only surfaces here when
// the redirect target was unfetchable in a way the transport did not
// report, since the client follows redirects.
func (c *Checker) isAccepted(status int, host string) bool {
	if hc, ok := c.hosts[host]; ok && len(hc.AcceptedStatusCodes) > 0 {
		for _, code := range hc.AcceptedStatusCodes {
			if code == status {
				return true
			}
		}
	}

	if c.accepted[status] {
		return true
	}

	return status >= 200 && status < 400
}

// backoffDelay returns the delay before retry n (0-based):
// base × 2^n, capped. Delays are non-decreasing by construction.
func (c *Checker) backoffDelay(n int) time.Duration {
	if c.backoffBase <= 0 {
		return 0
	}
	delay := c.backoffBase
	for i := 0; i < n; i++ {
		delay *= 2
		if delay >= c.backoffCap {
			return c.backoffCap
		}
	}
	if c.backoffCap > 0 && delay > c.backoffCap {
		return c.backoffCap
	}
	return delay
}

// sleepContext sleeps for the given duration or until the context is
// cancelled. The backoff wait is one of the two suspension points of a
// check (the other is the network wait itself); it must never hold a
// pool slot hostage past cancellation.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
