package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// errBrokenLinks signals that the run completed but found broken
// links. It maps to exit code 2, distinct from configuration and
// runtime errors which exit with 1.
var errBrokenLinks = errors.New("broken links found")

// NewRootCmd creates the root command for linkscout.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linkscout",
		Short: "Check documents for broken links",
		Long: `Linkscout extracts links from Markdown, HTML and plain text documents
and validates them concurrently: web URLs over HTTP, local file paths
against the filesystem, and mail addresses syntactically.

Every link is accounted for in the final report, including links that
were excluded by patterns, skipped by policy, or cut off by a timeout.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command and maps the outcome to the process
// exit code: 0 when all links are valid, 2 when broken links were
// found, 1 for configuration and runtime errors.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		if errors.Is(err, errBrokenLinks) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
