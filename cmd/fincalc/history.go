package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/fincalc/internal/export"
	"github.com/verte-zerg/fincalc/internal/model"
	"github.com/verte-zerg/fincalc/internal/report"
)

var (
	historyKind  string
	historySince string
	historyLast  int
	historyYes   bool
	historyCSV   string
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded calculations",
		Args:  cobra.NoArgs,
		RunE:  runHistoryListCmd,
	}
	addHistoryFilterFlags(cmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded calculations",
		Args:  cobra.NoArgs,
		RunE:  runHistoryListCmd,
	}
	addHistoryFilterFlags(listCmd)

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded calculation",
		Args:  cobra.NoArgs,
		RunE:  runHistoryClearCmd,
	}
	clearCmd.Flags().BoolVarP(&historyYes, "yes", "y", false, "do not ask for confirmation")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export history as CSV",
		Args:  cobra.NoArgs,
		RunE:  runHistoryExportCmd,
	}
	addHistoryFilterFlags(exportCmd)
	exportCmd.Flags().StringVar(&historyCSV, "csv", "", "CSV output path ('-' for stdout)")

	cmd.AddCommand(listCmd, clearCmd, exportCmd)
	return cmd
}

func addHistoryFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&historyKind, "kind", "", "only this calculation kind")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to the last N calculations")
}

func historyFilter() (model.HistoryFilter, error) {
	var filter model.HistoryFilter
	if kind := strings.TrimSpace(historyKind); kind != "" {
		parsed, err := model.ParseKind(strings.ToLower(kind))
		if err != nil {
			return filter, fmt.Errorf("invalid --kind: %w", err)
		}
		filter.Kind = parsed
	}
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return filter, fmt.Errorf("invalid --since value: %w", err)
		}
		filter.Since = &parsed
	}
	if historyLast < 0 {
		return filter, fmt.Errorf("--last must be >= 0")
	}
	filter.Limit = historyLast
	return filter, nil
}

func loadHistory(cmd *cobra.Command) ([]model.CalculationRecord, error) {
	filter, err := historyFilter()
	if err != nil {
		return nil, err
	}
	a, err := loadApp(cmd, cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	defer closeStore(st, a.log)
	records, err := st.List(cmd.Context(), filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return records, nil
}

func runHistoryListCmd(cmd *cobra.Command, _ []string) error {
	records, err := loadHistory(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, line := range report.RenderHistory(records) {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func runHistoryClearCmd(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st, a.log)

	count, err := st.Count(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to count history: %w", err)
	}
	if count == 0 {
		logErrf(cmd, "History is already empty.\n")
		return nil
	}
	if !historyYes {
		ok, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), fmt.Sprintf("Delete all %d calculations? [y/N] ", count))
		if err != nil {
			return err
		}
		if !ok {
			logErrf(cmd, "Aborted.\n")
			return nil
		}
	}
	deleted, err := st.Clear(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	a.log.WithField("deleted", deleted).Info("history cleared")
	logErrf(cmd, "Deleted %d calculations.\n", deleted)
	return nil
}

func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	if _, err := io.WriteString(out, prompt); err != nil {
		return false, err
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func runHistoryExportCmd(cmd *cobra.Command, _ []string) error {
	if strings.TrimSpace(historyCSV) == "" {
		return fmt.Errorf("--csv is required")
	}
	records, err := loadHistory(cmd)
	if err != nil {
		return err
	}
	if historyCSV == "-" {
		return export.WriteHistoryCSV(cmd.OutOrStdout(), records)
	}
	if len(records) == 0 {
		return export.ErrEmptyHistory
	}
	if err := export.ToFile(historyCSV, func(w io.Writer) error {
		return export.WriteHistoryCSV(w, records)
	}); err != nil {
		return fmt.Errorf("failed to export history: %w", err)
	}
	logErrf(cmd, "Wrote %d calculations to %s\n", len(records), historyCSV)
	return nil
}
