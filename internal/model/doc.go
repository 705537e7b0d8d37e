// Package model defines the core data structures used throughout linkscout.
//
// This package contains the following main types:
//   - Document: An input document whose links are checked
//   - RawLink: A link occurrence as written in a document
//   - Target: A normalized, checkable reference derived from a RawLink
//   - CheckResult: The outcome of validating one Target
//   - Report: The complete, per-document collection of CheckResults
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (extractor, resolver, checker, report) need
// to use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
