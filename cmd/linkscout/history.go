package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linkscout/linkscout/internal/config"
	"github.com/linkscout/linkscout/internal/database"
	"github.com/linkscout/linkscout/internal/report"
)

// NewHistoryCmd creates the history command.
// This command lists past runs and compares two runs from the history
// database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id] [run-id]",
		Short: "List and compare past check runs",
		Long: `History works with the runs saved by 'linkscout check'.

With no arguments it lists stored runs, newest first. With one run ID
it prints that run's full report. With two run IDs it diffs them,
showing which links broke and which were fixed between the runs.

Examples:
  # List the last 20 runs
  linkscout history

  # Show a stored run's report
  linkscout history 2f1c9a7e-...

  # Diff two runs
  linkscout history <old-run-id> <new-run-id>

  # Diff in JSON for tooling
  linkscout history --json <old-run-id> <new-run-id>`,
		Args: cobra.MaximumNArgs(2),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "l", 20,
		"Maximum number of runs to list (0 lists all)")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")
	cmd.Flags().String("db", "",
		"Directory holding the history database (default: XDG data dir)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	dbDir, err := cmd.Flags().GetString("db")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close() //nolint:errcheck // Read-mostly handle; close is best effort

	switch len(args) {
	case 0:
		limit, err := cmd.Flags().GetInt("limit")
		if err != nil {
			return err
		}
		return listRuns(cmd, db, limit, jsonOut)
	case 1:
		return showRun(cmd, db, args[0], jsonOut)
	default:
		return diffRuns(cmd, db, args[0], args[1], jsonOut)
	}
}

// listRuns prints stored run metadata, newest first.
func listRuns(cmd *cobra.Command, db *database.HistoryDB, limit int, jsonOut bool) error {
	runs, err := db.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs stored yet. Run 'linkscout check' first.")
		return nil
	}

	fmt.Fprintf(out, "%-36s  %-20s  %5s  %6s  %6s  %s\n",
		"RUN ID", "DATE", "DOCS", "OK", "FAILED", "STATUS")
	for _, run := range runs {
		status := "ok"
		switch {
		case run.Cancelled:
			status = "cancelled"
		case run.Summary.Failed > 0:
			status = "broken"
		}
		fmt.Fprintf(out, "%-36s  %-20s  %5d  %6d  %6d  %s\n",
			run.RunID,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Documents,
			run.Summary.Successful,
			run.Summary.Failed,
			status,
		)
	}

	return nil
}

// showRun prints one stored run's full report.
func showRun(cmd *cobra.Command, db *database.HistoryDB, runID string, jsonOut bool) error {
	stored, err := db.GetReport(cmd.Context(), runID)
	if err != nil {
		return err
	}

	var w report.Writer
	if jsonOut {
		w = report.NewJSONWriter(cmd.OutOrStdout(), report.WithPrettyPrint())
	} else {
		w = report.NewSimpleWriter(cmd.OutOrStdout())
	}
	_, err = w.Write(stored)
	return err
}

// diffRuns prints the link-level differences between two stored runs.
func diffRuns(cmd *cobra.Command, db *database.HistoryDB, oldID, newID string, jsonOut bool) error {
	diff, err := db.CompareRuns(cmd.Context(), oldID, newID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(diff)
	}

	fmt.Fprintf(out, "Comparing runs\n  old: %s\n  new: %s\n\n", diff.OldRunID, diff.NewRunID)

	if len(diff.Broken) == 0 && len(diff.Fixed) == 0 {
		fmt.Fprintln(out, "No changes: the same links fail in both runs.")
		return nil
	}

	if len(diff.Broken) > 0 {
		fmt.Fprintf(out, "Newly broken (%d):\n", len(diff.Broken))
		for _, change := range diff.Broken {
			fmt.Fprintf(out, "  %s:%d  %s\n", change.DocumentID, change.Line, change.Link)
		}
		fmt.Fprintln(out)
	}

	if len(diff.Fixed) > 0 {
		fmt.Fprintf(out, "Fixed (%d):\n", len(diff.Fixed))
		for _, change := range diff.Fixed {
			fmt.Fprintf(out, "  %s  %s\n", change.DocumentID, change.Link)
		}
		fmt.Fprintln(out)
	}

	return nil
}
