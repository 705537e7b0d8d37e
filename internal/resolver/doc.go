// Package resolver normalizes raw link candidates into checkable targets
// or terminal skip verdicts.
//
// Resolution depends only on the raw link, the document base, and static
// configuration: no shared mutable state and no network I/O. In
// particular, the private-host policy is decided by literal host and IP
// inspection, never by DNS resolution.
package resolver
