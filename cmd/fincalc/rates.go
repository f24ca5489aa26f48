package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/fincalc/internal/currency"
	"github.com/verte-zerg/fincalc/internal/report"
)

func newRatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rates",
		Short: "Show exchange rates used for display currencies",
		Args:  cobra.NoArgs,
		RunE:  runRatesCmd,
	}
}

func runRatesCmd(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	provider, closeRates := a.rateProvider()
	defer closeRates()

	ctx, cancel := context.WithTimeout(cmd.Context(), a.ratesTimeout())
	defer cancel()
	rates, err := provider.Rates(ctx)
	if err != nil {
		return fmt.Errorf("failed to load exchange rates: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, line := range ratesLines(rates, a.defaults.Currency) {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func ratesLines(rates currency.Rates, selected string) []string {
	conv := currency.NewConverter(rates)
	rows := make([][]string, 0, len(currency.Supported))
	for _, code := range currency.Supported {
		marker := ""
		if code == selected {
			marker = "*"
		}
		rows = append(rows, []string{
			marker + code,
			fmt.Sprintf("%.4f", rates.Rate(code)),
			conv.Format(100, code),
		})
	}
	source := "offline (1:1)"
	if rates.Live {
		source = "live"
		if !rates.FetchedAt.IsZero() {
			source += ", fetched " + rates.FetchedAt.Local().Format("2006-01-02 15:04")
		}
	}
	lines := []string{fmt.Sprintf("Base %s, %s", rates.Base, source)}
	lines = append(lines, report.FormatTable(
		[]string{"Code", "Rate", "100 " + rates.Base},
		rows,
		map[int]bool{1: true, 2: true},
	)...)
	return lines
}
