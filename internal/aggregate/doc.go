// Package aggregate collects check results from concurrent workers and
// assembles the final report.
//
// Workers finish in arbitrary order, so the aggregator serializes
// recording behind a mutex and restores per-document source order by
// the link appearance index before the report is built. Counting policy
// for excluded and skipped links lives here too.
package aggregate
