package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/fincalc/internal/calc"
	"github.com/verte-zerg/fincalc/internal/currency"
	"github.com/verte-zerg/fincalc/internal/export"
	"github.com/verte-zerg/fincalc/internal/model"
	"github.com/verte-zerg/fincalc/internal/report"
)

const maxCLITableRows = 24

var (
	calcNoHistory bool
	calcNoChart   bool
	calcAllRows   bool
	calcPDF       string
	calcXLSX      string
)

func newCalcCmd() *cobra.Command {
	kinds := make([]string, len(model.Kinds))
	for i, k := range model.Kinds {
		kinds[i] = string(k)
	}
	cmd := &cobra.Command{
		Use:       "calc <" + strings.Join(kinds, "|") + ">",
		Short:     "Run one calculation and print the result",
		Args:      cobra.ExactArgs(1),
		ValidArgs: kinds,
		RunE:      runCalcCmd,
	}
	flags := cmd.Flags()
	flags.Float64(calc.FieldAmount, 0, "principal or loan amount")
	flags.Float64(calc.FieldRate, 0, "annual interest or discount rate in percent")
	flags.Float64(calc.FieldYears, 0, "time in years")
	flags.Int(calc.FieldCompounds, 0, "compounding periods per year (default from config)")
	flags.String(calc.FieldCashFlows, "", `comma-separated cash flows, e.g. "-1000,300,400,500"`)
	flags.String(calc.FieldRange, "", `sensitivity rate range in percent, e.g. "2,8"`)
	flags.Float64(calc.FieldIncome, 0, "monthly income")
	flags.Float64(calc.FieldMaxPct, 0, "mortgage payment cap in percent of income (default from config)")
	flags.Float64(calc.FieldGoal, 0, "savings goal")
	flags.Float64(calc.FieldSaved, 0, "current savings")
	flags.Int(calc.FieldMonths, 0, "months to reach the goal or to cover")
	flags.Float64(calc.FieldFood, 0, "monthly food expenses")
	flags.Float64(calc.FieldTransport, 0, "monthly transport expenses")
	flags.Float64(calc.FieldUtilities, 0, "monthly utilities expenses")
	flags.Float64(calc.FieldOther, 0, "other monthly expenses")
	flags.Float64(calc.FieldMonthlyExpenses, 0, "monthly expenses for the emergency fund")
	flags.String(calc.FieldScenarios, "", `investment scenarios: YAML file or "name:principal:rate:years; ..."`)
	flags.BoolVar(&calcNoHistory, "no-history", false, "do not record the calculation")
	flags.BoolVar(&calcNoChart, "no-chart", false, "skip the chart")
	flags.BoolVar(&calcAllRows, "all-rows", false, "print every table row")
	flags.StringVar(&calcPDF, "pdf", "", "write a PDF report to this path")
	flags.StringVar(&calcXLSX, "xlsx", "", "write an Excel workbook to this path")
	return cmd
}

func runCalcCmd(cmd *cobra.Command, args []string) error {
	kind, err := model.ParseKind(strings.ToLower(strings.TrimSpace(args[0])))
	if err != nil {
		return err
	}
	a, err := loadApp(cmd, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	in, err := inputFromFlags(cmd, kind, a.defaults.Currency)
	if err != nil {
		return err
	}

	rates, closeRates := a.rateProvider()
	defer closeRates()
	ctx, cancel := context.WithTimeout(cmd.Context(), a.ratesTimeout())
	defer cancel()
	table, err := rates.Rates(ctx)
	if err != nil {
		return fmt.Errorf("failed to load exchange rates: %w", err)
	}
	conv := currency.NewConverter(table)
	calculator := calc.New(conv, a.defaults)

	res, err := calculator.Run(in)
	if err != nil {
		return err
	}
	a.log.WithField("kind", kind).Debug("calculation finished")

	if err := printResult(cmd.OutOrStdout(), res, conv); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !calcNoHistory {
		if err := recordResult(cmd.Context(), res, a); err != nil {
			return err
		}
	}
	return exportResult(cmd, res)
}

// inputFromFlags reads the flags the kind uses; unset flags stay blank so defaults apply.
func inputFromFlags(cmd *cobra.Command, kind model.Kind, code string) (calc.Input, error) {
	values := map[string]string{}
	var scenarioFile string
	for _, field := range calc.FieldsFor(kind) {
		flag := cmd.Flags().Lookup(field.Key)
		if flag == nil || !flag.Changed {
			continue
		}
		value := flag.Value.String()
		if field.Key == calc.FieldScenarios && isYAMLPath(value) {
			scenarioFile = value
			continue
		}
		values[field.Key] = value
	}
	in, err := calc.InputFromFields(kind, code, values)
	if err != nil {
		return calc.Input{}, err
	}
	if scenarioFile != "" {
		scenarios, err := calc.LoadScenarios(scenarioFile)
		if err != nil {
			return calc.Input{}, err
		}
		in.Scenarios = scenarios
	}
	return in, nil
}

func isYAMLPath(value string) bool {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(value)))
	return ext == ".yaml" || ext == ".yml"
}

func printResult(w io.Writer, res model.Result, conv *currency.Converter) error {
	maxRows := maxCLITableRows
	if calcAllRows {
		maxRows = 0
	}
	return report.RenderResult(w, res, report.Options{
		MaxTableRows: maxRows,
		NoChart:      calcNoChart,
		FormatValue:  func(v float64) string { return conv.Format(v, res.Currency) },
	})
}

func recordResult(ctx context.Context, res model.Result, a *app) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st, a.log)
	if _, err := st.Append(ctx, res.Record); err != nil {
		return err
	}
	return nil
}

func exportResult(cmd *cobra.Command, res model.Result) error {
	if calcPDF != "" {
		generated := time.Now()
		if err := export.ToFile(calcPDF, func(w io.Writer) error {
			return export.WritePDF(w, res, generated)
		}); err != nil {
			return fmt.Errorf("failed to export PDF: %w", err)
		}
		logErrf(cmd, "Wrote %s\n", calcPDF)
	}
	if calcXLSX != "" {
		if err := export.ToFile(calcXLSX, func(w io.Writer) error {
			return export.WriteXLSX(w, res)
		}); err != nil {
			return fmt.Errorf("failed to export XLSX: %w", err)
		}
		logErrf(cmd, "Wrote %s\n", calcXLSX)
	}
	return nil
}

func logErrf(cmd *cobra.Command, format string, args ...any) {
	if _, err := fmt.Fprintf(cmd.ErrOrStderr(), format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
