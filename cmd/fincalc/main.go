// Package main provides the CLI entrypoint for fincalc.
package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/fincalc/internal/calc"
	"github.com/verte-zerg/fincalc/internal/config"
	"github.com/verte-zerg/fincalc/internal/currency"
	"github.com/verte-zerg/fincalc/internal/model"
	"github.com/verte-zerg/fincalc/internal/store"
	"github.com/verte-zerg/fincalc/internal/tui"
)

const (
	defaultCurrency        = currency.Base
	defaultCompounds       = 1
	defaultMaxPaymentPct   = 28.0
	defaultEmergencyMonths = 6
	defaultRatesTimeout    = 10
	defaultCacheTTLMinutes = 60
	defaultLogLevel        = "warn"
)

var (
	rootCurrency string
	rootOffline  bool
	rootLogLevel string
)

// app bundles what every command needs once config and flags are merged.
type app struct {
	file     config.FileConfig
	defaults model.Config
	log      *logrus.Logger
	offline  bool
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fincalc",
		Short:         "Terminal financial calculator",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTUICmd,
	}

	rootCmd.PersistentFlags().StringVar(&rootCurrency, "currency", defaultCurrency, "display currency (USD, EUR, MXN)")
	rootCmd.PersistentFlags().BoolVar(&rootOffline, "offline", false, "skip the exchange-rate fetch and use 1:1 rates")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newCalcCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newRatesCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// loadApp reads the config file and overlays flags that were set explicitly.
func loadApp(cmd *cobra.Command, logOut io.Writer) (*app, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "currency", &rootCurrency, fileCfg.Calculator.Currency)
	applyBoolConfig(cmd, "offline", &rootOffline, fileCfg.Rates.Offline)
	applyStringConfig(cmd, "log-level", &rootLogLevel, fileCfg.Log.Level)

	code, err := currency.ValidateCode(rootCurrency)
	if err != nil {
		return nil, fmt.Errorf("invalid --currency: %w", err)
	}
	log, err := newLogger(rootLogLevel, logOut)
	if err != nil {
		return nil, err
	}

	defaults := model.Config{
		Currency:        code,
		Compounds:       defaultCompounds,
		MaxPaymentPct:   defaultMaxPaymentPct,
		EmergencyMonths: defaultEmergencyMonths,
	}
	if v := fileCfg.Calculator.Compounds; v != nil {
		defaults.Compounds = *v
	}
	if v := fileCfg.Calculator.MaxPaymentPct; v != nil {
		defaults.MaxPaymentPct = *v
	}
	if v := fileCfg.Calculator.EmergencyMonths; v != nil {
		defaults.EmergencyMonths = *v
	}
	if err := validateDefaults(defaults); err != nil {
		return nil, err
	}
	return &app{file: fileCfg, defaults: defaults, log: log, offline: rootOffline}, nil
}

func validateDefaults(cfg model.Config) error {
	if cfg.Compounds <= 0 {
		return fmt.Errorf("calculator.compounds must be > 0")
	}
	if cfg.MaxPaymentPct <= 0 || cfg.MaxPaymentPct > 100 {
		return fmt.Errorf("calculator.max-payment-pct must be between 0 and 100")
	}
	if cfg.EmergencyMonths <= 0 || cfg.EmergencyMonths > calc.MaxMonths {
		return fmt.Errorf("calculator.emergency-months must be between 1 and %d", calc.MaxMonths)
	}
	return nil
}

func newLogger(level string, out io.Writer) (*logrus.Logger, error) {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(parsed)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})
	return log, nil
}

// ratesTimeout is the configured [rates] timeout, used both for the HTTP
// client and for the deadline callers put on a rate lookup.
func (a *app) ratesTimeout() time.Duration {
	timeout := defaultRatesTimeout
	if v := a.file.Rates.TimeoutSeconds; v != nil && *v > 0 {
		timeout = *v
	}
	return time.Duration(timeout) * time.Second
}

// rateProvider builds the rate chain: live HTTP behind a cache, with 1:1 fallback.
// The returned close function releases the Redis client when one is used.
func (a *app) rateProvider() (currency.Provider, func()) {
	if a.offline {
		return currency.StaticProvider{Value: currency.DefaultRates()}, func() {}
	}
	endpoint := ""
	if v := a.file.Rates.Endpoint; v != nil {
		endpoint = *v
	}
	ttl := defaultCacheTTLMinutes
	if v := a.file.Rates.CacheTTLMinutes; v != nil && *v > 0 {
		ttl = *v
	}
	source := currency.NewHTTPProvider(endpoint, a.ratesTimeout())
	cacheTTL := time.Duration(ttl) * time.Minute

	var cache currency.Cache
	closeFn := func() {}
	if v := a.file.Rates.RedisAddr; v != nil && strings.TrimSpace(*v) != "" {
		client := redis.NewClient(&redis.Options{Addr: strings.TrimSpace(*v)})
		cache = currency.NewRedisCache(client, cacheTTL)
		closeFn = func() {
			if err := client.Close(); err != nil {
				a.log.WithError(err).Debug("failed to close redis client")
			}
		}
	} else {
		cache = currency.NewFileCache(config.DefaultRatesCacheDir(), cacheTTL)
	}
	a.log.WithFields(logrus.Fields{
		"endpoint": source.Endpoint,
		"ttl":      cacheTTL,
		"timeout":  source.Timeout,
	}).Debug("rate provider configured")
	return &currency.FallbackProvider{
		Source: &currency.CachedProvider{Source: source, Cache: cache, Log: a.log},
		Log:    a.log,
	}, closeFn
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store, log logrus.FieldLogger) {
	if cerr := st.Close(); cerr != nil {
		log.WithError(cerr).Warn("failed to close db")
	}
}

func runTUICmd(cmd *cobra.Command, _ []string) error {
	logPath := config.DefaultLogPath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() {
		if cerr := logFile.Close(); cerr != nil {
			// Best-effort close of the log file.
			_ = cerr
		}
	}()

	a, err := loadApp(cmd, logFile)
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st, a.log)

	rates, closeRates := a.rateProvider()
	defer closeRates()

	m, err := tui.NewModel(tui.Deps{
		Calculator:   calc.New(nil, a.defaults),
		History:      st,
		Rates:        rates,
		RatesTimeout: a.ratesTimeout(),
		Log:          a.log,
	})
	if err != nil {
		return err
	}
	a.log.Info("starting calculator UI")
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := writeDefaultConfig(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeDefaultConfig creates the commented template unless a config already exists.
func writeDefaultConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# fincalc configuration
# Uncomment a value to enable it. CLI flags override config values.

[calculator]
# currency = %q            # Display currency: USD, EUR or MXN
# compounds = %d              # Compounding periods per year
# max-payment-pct = %.1f     # Mortgage payment cap as %% of monthly income
# emergency-months = %d       # Months of expenses in an emergency fund

[rates]
# endpoint = %q
# offline = false            # Skip the rate fetch and use 1:1 rates
# timeout-seconds = %d
# cache-ttl-minutes = %d
# redis-addr = "localhost:6379"   # Cache rates in Redis instead of a local file

[log]
# level = %q             # debug, info, warn, error
`,
		defaultCurrency,
		defaultCompounds,
		defaultMaxPaymentPct,
		defaultEmergencyMonths,
		currency.DefaultEndpoint,
		defaultRatesTimeout,
		defaultCacheTTLMinutes,
		defaultLogLevel,
	)
}
