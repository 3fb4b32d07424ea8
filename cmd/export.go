package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sadopc/chronomark/internal/calendar"
	"github.com/sadopc/chronomark/internal/export"
)

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all entries to a CSV or JSON file",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Output format: csv, json")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (default chronomark-<date>.<format>)")
}

func runExport(cmd *cobra.Command, args []string) error {
	f, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	s, err := openStore(cliLog(cmd.ErrOrStderr()))
	if err != nil {
		return err
	}
	defer s.Close()

	entries, err := s.List()
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}

	out := exportOut
	if out == "" {
		out = export.DefaultFileName(f, time.Now().Format("2006-01-02"))
	}
	if err := export.Write(f, entries, out); err != nil {
		return err
	}

	var total int64
	for _, e := range entries {
		total += e.Duration
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entries (%s) to %s\n",
		len(entries), calendar.FormatDuration(total), out)
	return nil
}
