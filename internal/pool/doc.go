// Package pool dispatches resolved targets to the checker under a
// bounded concurrency limit.
//
// The pool owns no domain logic: it takes a check function, fans the
// targets out across at most N goroutines, and hands every outcome to a
// record callback. Cancellation never loses results: targets whose
// check did not start before the context was cancelled are recorded as
// cancelled failures, so the final report stays complete under the
// global timeout and under interrupt signals alike.
package pool
