package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/ilyakaznacheev/cleanenv"
)

// Default configuration values.
// These values are chosen to be polite to remote servers while keeping
// typical documentation runs fast.
const (
	// DefaultMaxConcurrency bounds the number of in-flight checks.
	// 32 keeps a single run from overwhelming one host or exhausting
	// local file descriptors, while still saturating typical latencies.
	DefaultMaxConcurrency = 32

	// DefaultTimeout is the per-request timeout. 20 seconds is generous
	// for slow servers without letting one dead host stall the run.
	DefaultTimeout = 20 * time.Second

	// DefaultRetryCount is the maximum number of attempts per target,
	// including the first. Three attempts catches transient failures
	// without hammering genuinely broken hosts.
	DefaultRetryCount = 3

	// DefaultBackoffBase is the initial retry delay. The delay doubles
	// on each attempt up to DefaultBackoffCap.
	DefaultBackoffBase = 1 * time.Second

	// DefaultBackoffCap limits the exponential backoff delay so that a
	// high retry count cannot stall the run for minutes per target.
	DefaultBackoffCap = 30 * time.Second

	// DefaultMaxRedirects is the redirect depth after which a chain is
	// reported as a failure rather than followed further.
	DefaultMaxRedirects = 10

	// DefaultUserAgent identifies linkscout in HTTP requests.
	// A descriptive User-Agent lets operators identify checker traffic
	// in their logs.
	DefaultUserAgent = "linkscout/1.0 (+https://github.com/linkscout/linkscout)"

	// DefaultMaxBodySize limits the response body read for fetched
	// documents. 5MB covers any realistic page while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultMethod is the HTTP method tried first for web targets.
	// HEAD avoids downloading bodies; the checker falls back to GET when
	// a server rejects HEAD.
	DefaultMethod = "head"

	// AppName is the application name used for XDG directory paths.
	AppName = "linkscout"
)

// DefaultRetryStatusCodes are the HTTP status codes treated as retryable
// in addition to transport-level errors. 429 and 503 signal transient
// server-side conditions that a later attempt may clear.
var DefaultRetryStatusCodes = []int{429, 503}

// Config holds all configuration options for linkscout.
// This struct is populated from CLI flags, an optional config file, and
// environment variables, and is passed through the application via
// dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CheckerConfig, ReportConfig) for simplicity. The number of
// options is manageable, and nesting would add complexity without
// significant benefit.
type Config struct {
	// Inputs are the documents to check: file paths, glob patterns, or
	// http(s) URLs to fetch and scan.
	Inputs []string

	// MaxConcurrency bounds the number of in-flight checks.
	MaxConcurrency int `env:"LINKSCOUT_MAX_CONCURRENCY"`

	// Timeout is the per-request timeout for each check attempt.
	Timeout time.Duration `env:"LINKSCOUT_TIMEOUT"`

	// GlobalTimeout cancels the whole run when it elapses. Targets not
	// yet completed are reported as cancelled failures, never dropped.
	// Zero means no global timeout.
	GlobalTimeout time.Duration

	// RetryCount is the maximum number of attempts per web target,
	// including the first attempt.
	RetryCount int

	// BackoffBase is the initial delay before the first retry. The delay
	// doubles on each subsequent attempt, capped at BackoffCap.
	BackoffBase time.Duration

	// BackoffCap limits the exponential backoff delay.
	BackoffCap time.Duration

	// MaxRedirects is the redirect depth after which a check fails with
	// too_many_redirects.
	MaxRedirects int

	// AcceptedStatusCodes are treated as success even when not 2xx.
	// Useful for hosts that answer 403 to automated clients.
	AcceptedStatusCodes []int

	// RetryStatusCodes are treated as retryable rather than terminal.
	RetryStatusCodes []int

	// ExcludePatterns are regular expressions; matching links are
	// reported as excluded and never checked.
	ExcludePatterns []string

	// IncludePatterns, when present, act as a whitelist: links matching
	// none of them are excluded.
	IncludePatterns []string

	// SkipPrivate skips targets whose host is a private, loopback or
	// link-local address. Decided by literal host inspection, not DNS.
	SkipPrivate bool

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string `env:"LINKSCOUT_USER_AGENT"`

	// BasicAuthUser and BasicAuthPass are sent as Basic Auth credentials
	// with every request when set.
	BasicAuthUser string `env:"LINKSCOUT_BASIC_AUTH_USER"`
	BasicAuthPass string `env:"LINKSCOUT_BASIC_AUTH_PASS"`

	// CustomHeaders are added to every request.
	CustomHeaders map[string]string

	// GitHubToken is injected as an Authorization header on requests to
	// github.com to avoid rate limiting. This is proactive, applied
	// before the first attempt, not a reaction to a 429.
	GitHubToken string `env:"LINKSCOUT_GITHUB_TOKEN"`

	// Hosts maps additional host names to per-host request settings,
	// typically loaded from the config file.
	Hosts map[string]HostConfig

	// InsecureTLS disables TLS certificate verification. Explicit
	// opt-out only.
	InsecureTLS bool

	// CheckAnchors enables fragment-anchor validation for local file
	// targets. When disabled, fragment-only links are reported as
	// skipped.
	CheckAnchors bool

	// CountSkipped controls whether excluded and skipped links count
	// toward the summary total.
	CountSkipped bool

	// Method is the HTTP method tried first: "head" or "get".
	Method string

	// MaxBodySize limits the response body read for fetched documents
	// and GET fallbacks.
	MaxBodySize int64

	// RootDir, when set, is the directory that relative file targets must
	// stay within. Paths resolving outside it are skipped.
	RootDir string

	// Verbose enables debug-level log output.
	Verbose bool

	// JSONReport and MarkdownReport select the report format. Mutually
	// exclusive; the default is the human-readable summary.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile writes the report to a file instead of stdout.
	// Directories are created as needed.
	ReportFile string

	// ConfigFilePath is an explicit config file path. When empty, the
	// loader searches the usual locations.
	ConfigFilePath string

	// DBDir is the directory holding the run-history SQLite database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB persists the run report for later comparison with the
	// history command.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases. Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because many defaults are non-zero (e.g., timeout,
// concurrency). This also serves as documentation of what the defaults
// are.
func NewConfig() *Config {
	return &Config{
		MaxConcurrency:   DefaultMaxConcurrency,
		Timeout:          DefaultTimeout,
		RetryCount:       DefaultRetryCount,
		BackoffBase:      DefaultBackoffBase,
		BackoffCap:       DefaultBackoffCap,
		MaxRedirects:     DefaultMaxRedirects,
		RetryStatusCodes: append([]int(nil), DefaultRetryStatusCodes...),
		UserAgent:        DefaultUserAgent,
		Method:           DefaultMethod,
		MaxBodySize:      DefaultMaxBodySize,
		DBDir:            XDGDataDir(),
	}
}

// ReadEnv overlays environment variables onto the config.
// Only the credential- and tuning-related fields carry env tags; flags
// and the config file cover everything else.
func (c *Config) ReadEnv() error {
	return cleanenv.ReadEnv(c)
}

// XDGDataDir returns the XDG data directory for linkscout.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/linkscout
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for linkscout.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.config/linkscout
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate once after CLI parsing, before any
// checking begins, to fail fast with a clear message. We return the
// first error found rather than collecting all errors because fixing
// one error often makes others irrelevant. Pattern compilation is
// validated by the resolver, which owns the compiled form.
func (c *Config) Validate() error {
	if len(c.Inputs) == 0 {
		return ErrNoInput
	}

	if c.MaxConcurrency <= 0 {
		return ErrInvalidConcurrency
	}

	// Zero timeout would cause immediate failures on every request
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.RetryCount < 1 {
		return ErrInvalidRetryCount
	}

	if c.BackoffBase < 0 {
		return ErrInvalidBackoff
	}

	if c.MaxRedirects < 0 {
		return ErrInvalidMaxRedirects
	}

	if c.Method != "head" && c.Method != "get" {
		return ErrInvalidMethod
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
