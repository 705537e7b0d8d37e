// Package checker validates resolved targets.
//
// The checker is polymorphic over target kinds: web URLs are verified
// over HTTP with retry/backoff and proactive per-host credential
// injection, file paths are verified against the filesystem (optionally
// down to fragment anchors), and mail addresses are verified
// syntactically only.
//
// Checking is idempotent: the same target with the same configuration
// and a stable remote yields the same classification, and retries
// mutate nothing beyond local counters.
package checker
