// Package config provides configuration structures and utilities for
// linkscout. It defines the options recognized by the checking engine
// (concurrency bounds, retry policy, pattern filters, credentials) and
// the loading order: defaults, then config file, then environment, then
// CLI flags.
package config
