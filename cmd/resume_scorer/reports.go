package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-scorer/internal/db"
	"github.com/jonathan/resume-scorer/internal/observability"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List, show and delete saved scoring reports",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved reports, newest first",
	RunE:  runReportsList,
}

var reportsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a saved report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportsGet,
}

var reportsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved report",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportsDelete,
}

var (
	reportsLimit  int
	reportsOffset int
	reportsHash   string
	reportsJSON   bool
)

func init() {
	reportsListCmd.Flags().IntVar(&reportsLimit, "limit", db.DefaultListLimit, "Maximum reports to list")
	reportsListCmd.Flags().IntVar(&reportsOffset, "offset", 0, "Reports to skip")
	reportsListCmd.Flags().StringVar(&reportsHash, "hash", "", "Only list reports for this content hash")
	reportsGetCmd.Flags().BoolVar(&reportsJSON, "json", false, "Print the stored JSON report")

	reportsCmd.AddCommand(reportsListCmd, reportsGetCmd, reportsDeleteCmd)
	rootCmd.AddCommand(reportsCmd)
}

func runReportsList(cmd *cobra.Command, _ []string) error {
	store, err := openStore(cmd.Context(), fileConfig)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	reports, err := store.ListReports(cmd.Context(), db.ListOptions{
		Limit:       reportsLimit,
		Offset:      reportsOffset,
		ContentHash: reportsHash,
	})
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}
	if len(reports) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No reports found.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSOURCE\tMODE\tSCORE\tBAND")
	for _, r := range reports {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.1f\t%s\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.SourceName, r.Mode, r.Overall, r.MatchBand)
	}
	return tw.Flush()
}

func runReportsGet(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid report id %q: %w", args[0], err)
	}
	store, err := openStore(cmd.Context(), fileConfig)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	report, err := store.GetReport(cmd.Context(), id)
	if err != nil {
		return err
	}
	res, err := report.Decode()
	if err != nil {
		return err
	}
	if reportsJSON {
		return writeJSON(cmd.OutOrStdout(), "", res)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintScore(res)
	return nil
}

func runReportsDelete(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid report id %q: %w", args[0], err)
	}
	store, err := openStore(cmd.Context(), fileConfig)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.DeleteReport(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted report %s\n", id)
	return nil
}
