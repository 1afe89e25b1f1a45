package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/onethinglab/nomixedcontent/internal/config"
	"github.com/onethinglab/nomixedcontent/internal/database"
	"github.com/onethinglab/nomixedcontent/internal/model"
	"github.com/onethinglab/nomixedcontent/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [url]",
		Short: "Show past scan results",
		Long: `History lists scans stored in the local database. With a URL argument
only scans of that target are shown.

Examples:
  # List all stored scans
  nomixedcontent history

  # List scans of one site
  nomixedcontent history https://example.com/

  # Show a stored report in full
  nomixedcontent history --id 42

  # Show the most recent report for a site
  nomixedcontent history --latest https://example.com/

  # List the distinct targets with stored scans
  nomixedcontent history --targets`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int64("id", 0, "Show the full report with this scan ID")
	cmd.Flags().Bool("latest", false, "Show the most recent full report for the given URL")
	cmd.Flags().Bool("targets", false, "List the distinct targets with stored scans")
	cmd.Flags().BoolP("json", "j", false, "Output full reports as JSON")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	db, err := database.Open(config.XDGDataDir(), database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		return fmt.Errorf("no scan history available: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()

	var target string
	if len(args) > 0 {
		target, err = normalizeTarget(args[0])
		if err != nil {
			return err
		}
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	id, err := cmd.Flags().GetInt64("id")
	if err != nil {
		return err
	}
	if id > 0 {
		scanReport, err := db.ReportByID(ctx, id)
		if err != nil {
			return err
		}
		if scanReport == nil {
			return fmt.Errorf("no scan with ID %d", id)
		}
		return writeStoredReport(scanReport, asJSON)
	}

	targetsOnly, err := cmd.Flags().GetBool("targets")
	if err != nil {
		return err
	}
	if targetsOnly {
		return listTargets(cmd, db)
	}

	latest, err := cmd.Flags().GetBool("latest")
	if err != nil {
		return err
	}
	if latest {
		if target == "" {
			return fmt.Errorf("--latest requires a target URL")
		}
		scanReport, err := db.LatestReport(ctx, target)
		if err != nil {
			return err
		}
		if scanReport == nil {
			return fmt.Errorf("no scans recorded for %s", target)
		}
		return writeStoredReport(scanReport, asJSON)
	}

	return listHistory(cmd, db, target)
}

// writeStoredReport prints a stored report in console or JSON format.
func writeStoredReport(scanReport *model.ScanReport, asJSON bool) error {
	var w report.Writer
	if asJSON {
		w = report.NewJSONWriter(os.Stdout, report.WithPrettyPrint())
	} else {
		w = report.NewConsoleWriter(os.Stdout, report.WithShowErrors(true))
	}

	_, err := w.Write(scanReport)
	return err
}

// listTargets prints the distinct targets with stored scans, one per line.
func listTargets(cmd *cobra.Command, db *database.HistoryDB) error {
	targets, err := db.ListTargets(cmd.Context())
	if err != nil {
		return err
	}

	if len(targets) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No scans recorded.")
		return nil
	}

	for _, target := range targets {
		fmt.Fprintln(cmd.OutOrStdout(), target)
	}

	return nil
}

// listHistory prints the stored scan metadata as a table.
func listHistory(cmd *cobra.Command, db *database.HistoryDB, target string) error {
	history, err := db.History(cmd.Context(), target)
	if err != nil {
		return err
	}

	if len(history) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No scans recorded.")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%-6s %-40s %-20s %8s %9s %10s\n",
		"ID", "TARGET", "DATE", "PAGES", "FINDINGS", "RESOURCES")
	for _, meta := range history {
		fmt.Fprintf(cmd.OutOrStdout(), "%-6d %-40s %-20s %8d %9d %10d\n",
			meta.ID,
			meta.Target,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			meta.PagesCrawled,
			meta.FindingCount,
			meta.ResourceCount,
		)
	}

	return nil
}
