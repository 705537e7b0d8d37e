package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/linkscout/linkscout/internal/aggregate"
	"github.com/linkscout/linkscout/internal/checker"
	"github.com/linkscout/linkscout/internal/config"
	"github.com/linkscout/linkscout/internal/database"
	"github.com/linkscout/linkscout/internal/extractor"
	"github.com/linkscout/linkscout/internal/input"
	"github.com/linkscout/linkscout/internal/log"
	"github.com/linkscout/linkscout/internal/model"
	"github.com/linkscout/linkscout/internal/pool"
	"github.com/linkscout/linkscout/internal/report"
	"github.com/linkscout/linkscout/internal/resolver"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [inputs...]",
		Short: "Check documents for broken links",
		Long: `Check extracts links from the given documents and validates them.

Inputs may be file paths, glob patterns, directories, http(s) URLs to
fetch and scan, or "-" for standard input. Web links are checked over
HTTP with retries and backoff, local file links against the
filesystem, and mailto links syntactically.

Examples:
  # Check a single file
  linkscout check README.md

  # Check all markdown files in a directory tree
  linkscout check docs/

  # Check a remote page
  linkscout check https://example.com

  # Exclude links matching a pattern
  linkscout check --exclude 'twitter\.com' README.md

  # Validate fragment anchors in local files
  linkscout check --check-anchors docs/

  # Output JSON report to a file
  linkscout check --json -o report.json README.md

Configuration file (.linkscout) example:
  timeout: 30s
  excludePatterns:
    - 'localhost'
  hosts:
    api.example.com:
      token: "secret"
      acceptedStatusCodes: [403]`,
		Args: cobra.ArbitraryArgs,
		RunE: runCheckCmd,
	}

	// Check behavior flags
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Per-request timeout for each check attempt")
	cmd.Flags().Duration("global-timeout", 0,
		"Cancel the whole run after this duration (0 disables)")
	cmd.Flags().IntP("concurrency", "n", config.DefaultMaxConcurrency,
		"Maximum number of concurrent checks")
	cmd.Flags().IntP("retry", "r", config.DefaultRetryCount,
		"Maximum attempts per link, including the first")
	cmd.Flags().Int("max-redirects", config.DefaultMaxRedirects,
		"Redirect depth before a chain counts as broken")
	cmd.Flags().String("method", config.DefaultMethod,
		"HTTP method tried first: head or get")
	cmd.Flags().IntSlice("accept", nil,
		"HTTP status codes to treat as success (e.g. 403,429)")

	// Link selection flags
	cmd.Flags().StringArrayP("exclude", "e", nil,
		"Regex; matching links are excluded from checking (repeatable)")
	cmd.Flags().StringArray("include", nil,
		"Regex whitelist; links matching none are excluded (repeatable)")
	cmd.Flags().Bool("exclude-private", false,
		"Skip links whose host is a private, loopback or link-local address")
	cmd.Flags().BoolP("check-anchors", "a", false,
		"Validate fragment anchors in local file targets")
	cmd.Flags().String("root-dir", "",
		"Directory that relative file links must stay within")

	// Request flags
	cmd.Flags().StringP("user-agent", "u", config.DefaultUserAgent,
		"User-Agent header for HTTP requests")
	cmd.Flags().StringToString("header", nil,
		"Custom header added to every request (key=value, repeatable)")
	cmd.Flags().String("basic-auth", "",
		"Basic auth credentials as user:password")
	cmd.Flags().String("github-token", "",
		"Token injected on requests to github.com to avoid rate limits")
	cmd.Flags().Bool("insecure", false,
		"Skip TLS certificate verification")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .linkscout in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("count-skipped", false,
		"Count excluded and skipped links toward the summary total")
	cmd.Flags().Bool("no-save", false,
		"Do not persist this run to the history database")
	cmd.Flags().String("db", "",
		"Directory holding the history database (default: XDG data dir)")

	return cmd
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with credential redaction
	verbose := getVerboseFlag(cmd)
	cfg.Verbose = verbose
	logger := log.NewSecureLogger(cmd.ErrOrStderr(), verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runCheck(ctx, cfg, logger, cmd)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags, the optional
// config file, and the environment. Precedence from weakest to
// strongest: defaults, config file, environment, flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	configPathFlag, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg.ConfigFilePath = configPathFlag

	// Load the config file first so flags can override it.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently skip when no file is found.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.ApplyTo(cfg)
	} else if configPathFlag != "" {
		return nil, fmt.Errorf("configuration file not found: %s", configPathFlag)
	}

	// Environment overlays the file.
	if err := cfg.ReadEnv(); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	// Flags win. Only explicitly set flags override, so a config file
	// value survives when the flag keeps its default.
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	// Positional arguments are the inputs to check.
	cfg.Inputs = args

	return cfg, nil
}

// applyFlags copies explicitly set flag values into the config.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	setDuration := func(name string, dst *time.Duration) {
		if err != nil || !flags.Changed(name) {
			return
		}
		*dst, err = flags.GetDuration(name)
	}
	setInt := func(name string, dst *int) {
		if err != nil || !flags.Changed(name) {
			return
		}
		*dst, err = flags.GetInt(name)
	}
	setString := func(name string, dst *string) {
		if err != nil || !flags.Changed(name) {
			return
		}
		*dst, err = flags.GetString(name)
	}
	setBool := func(name string, dst *bool) {
		if err != nil || !flags.Changed(name) {
			return
		}
		*dst, err = flags.GetBool(name)
	}

	setDuration("timeout", &cfg.Timeout)
	setDuration("global-timeout", &cfg.GlobalTimeout)
	setInt("concurrency", &cfg.MaxConcurrency)
	setInt("retry", &cfg.RetryCount)
	setInt("max-redirects", &cfg.MaxRedirects)
	setString("method", &cfg.Method)
	setString("user-agent", &cfg.UserAgent)
	setString("github-token", &cfg.GitHubToken)
	setString("root-dir", &cfg.RootDir)
	setString("output", &cfg.ReportFile)
	setString("db", &cfg.DBDir)
	setBool("exclude-private", &cfg.SkipPrivate)
	setBool("check-anchors", &cfg.CheckAnchors)
	setBool("insecure", &cfg.InsecureTLS)
	setBool("count-skipped", &cfg.CountSkipped)
	setBool("json", &cfg.JSONReport)
	setBool("markdown", &cfg.MarkdownReport)
	if err != nil {
		return err
	}

	if flags.Changed("accept") {
		codes, err := flags.GetIntSlice("accept")
		if err != nil {
			return err
		}
		cfg.AcceptedStatusCodes = codes
	}
	if flags.Changed("exclude") {
		patterns, err := flags.GetStringArray("exclude")
		if err != nil {
			return err
		}
		cfg.ExcludePatterns = append(cfg.ExcludePatterns, patterns...)
	}
	if flags.Changed("include") {
		patterns, err := flags.GetStringArray("include")
		if err != nil {
			return err
		}
		cfg.IncludePatterns = append(cfg.IncludePatterns, patterns...)
	}
	if flags.Changed("header") {
		headers, err := flags.GetStringToString("header")
		if err != nil {
			return err
		}
		if cfg.CustomHeaders == nil {
			cfg.CustomHeaders = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			cfg.CustomHeaders[k] = v
		}
	}
	if flags.Changed("basic-auth") {
		auth, err := flags.GetString("basic-auth")
		if err != nil {
			return err
		}
		user, pass, ok := splitBasicAuth(auth)
		if !ok {
			return fmt.Errorf("invalid --basic-auth value, expected user:password")
		}
		cfg.BasicAuthUser = user
		cfg.BasicAuthPass = pass
	}

	noSave, err := flags.GetBool("no-save")
	if err != nil {
		return err
	}
	cfg.SaveToDB = !noSave

	return nil
}

// splitBasicAuth splits a user:password credential pair.
func splitBasicAuth(auth string) (user, pass string, ok bool) {
	for i := 0; i < len(auth); i++ {
		if auth[i] == ':' {
			return auth[:i], auth[i+1:], true
		}
	}
	return "", "", false
}

// runCheck executes the check: gather documents, extract and resolve
// links, dispatch targets to the checker pool, and report.
func runCheck(ctx context.Context, cfg *config.Config, logger *slog.Logger, cmd *cobra.Command) error {
	res, err := resolver.New(cfg)
	if err != nil {
		return fmt.Errorf("invalid link pattern: %w", err)
	}

	gatherer := input.New(
		input.WithLogger(logger),
		input.WithMaxBodySize(cfg.MaxBodySize),
		input.WithClient(&http.Client{Timeout: cfg.Timeout}),
	)
	docs, err := gatherer.Gather(ctx, cfg.Inputs)
	if err != nil {
		return err
	}

	// Extract and resolve all links up front. Skip verdicts become
	// results immediately; only checkable targets go to the pool.
	docOrder := make([]string, 0, len(docs))
	aggOpts := []aggregate.Option{}
	if cfg.CountSkipped {
		aggOpts = append(aggOpts, aggregate.WithCountSkipped())
	}
	for _, doc := range docs {
		docOrder = append(docOrder, doc.ID)
	}
	agg := aggregate.New(docOrder, aggOpts...)

	var targets []*model.Target
	totalLinks := 0
	for _, doc := range docs {
		links := extractor.ForFormat(doc.Format).Extract(doc)
		totalLinks += len(links)

		for _, raw := range links {
			target, verdict := res.Resolve(doc, raw)
			if verdict != nil {
				agg.Record(model.SkipResult(verdict))
				continue
			}
			targets = append(targets, target)
		}
	}

	logger.Info("links extracted",
		"documents", len(docs),
		"links", totalLinks,
		"targets", len(targets),
	)

	// Apply the global timeout, if any. Targets still pending when it
	// fires are reported as cancelled, never dropped.
	runCtx := ctx
	if cfg.GlobalTimeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, cfg.GlobalTimeout)
		defer cancel()
	}

	chk := checker.New(cfg, checker.WithLogger(logger))
	p := pool.New(chk.Check,
		pool.WithConcurrency(cfg.MaxConcurrency),
		pool.WithLogger(logger),
	)

	runErr := p.Run(runCtx, targets, agg.Record)
	checkReport := agg.Report(runErr != nil)

	if err := outputReport(cfg, checkReport, cmd); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if cfg.SaveToDB {
		if err := saveReport(ctx, cfg, checkReport, logger); err != nil {
			// History is best effort; the check result stands.
			logger.Error("failed to save run to history", "error", err)
		}
	}

	if !checkReport.Success() {
		return fmt.Errorf("%w: %d of %d link(s)", errBrokenLinks,
			checkReport.Summary.Failed, checkReport.Summary.Total)
	}
	return nil
}

// outputReport writes the report in the requested format.
func outputReport(cfg *config.Config, checkReport *model.Report, cmd *cobra.Command) error {
	var output = cmd.OutOrStdout()
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600) //nolint:gosec // User-chosen report path
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close() //nolint:errcheck // Best-effort close after explicit writes
		output = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	_, err := w.Write(checkReport)
	return err
}

// saveReport persists the run to the history database.
func saveReport(ctx context.Context, cfg *config.Config, checkReport *model.Report, logger *slog.Logger) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // Best-effort close on a read-write handle

	runID, err := db.SaveReport(ctx, checkReport)
	if err != nil {
		return err
	}

	logger.Info("run saved to history", "run_id", runID)
	return nil
}
