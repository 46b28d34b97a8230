package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/formula"
	"github.com/zephyrtronium/formula/internal/config"
	"github.com/zephyrtronium/formula/internal/logger"
	"github.com/zephyrtronium/formula/suggest"
	"github.com/zephyrtronium/formula/tui"
)

var (
	configFile string
	endpoint   string
	catalog    string
	prec       uint
	logLevel   string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "formula",
	Short: "Build and evaluate arithmetic formulas over named variables",
	Long: `Formula edits arithmetic formulas made of numbers, operators and variables
looked up from an autocomplete service, and evaluates them as you type.

Run without a subcommand to start the interactive editor.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", config.GetConfigPath(), "Configuration file (JSON)")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "Autocomplete endpoint (overrides config)")
	rootCmd.PersistentFlags().StringVar(&catalog, "catalog", "", "SQLite variable catalog to use instead of the endpoint")
	rootCmd.PersistentFlags().UintVarP(&prec, "prec", "p", 0, "Precision of calculations in bits (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error, none (overrides config)")
}

// loadConfig reads the configuration file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.Endpoint = endpoint
	}
	if flags.Changed("catalog") {
		cfg.CatalogPath = catalog
	}
	if flags.Changed("prec") {
		cfg.Precision = prec
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if cfg.Precision == 0 {
		return nil, fmt.Errorf("precision must be positive")
	}
	return cfg, nil
}

// openProvider builds the suggestion provider described by cfg. The closer
// releases any catalog database.
func openProvider(cfg *config.Config) (suggest.Provider, io.Closer, error) {
	var (
		p      suggest.Provider
		closer io.Closer = io.NopCloser(nil)
	)
	if cfg.CatalogPath != "" {
		c, err := suggest.OpenSQLiteCatalog(cfg.CatalogPath)
		if err != nil {
			return nil, nil, err
		}
		p, closer = c, c
	} else {
		h, err := suggest.NewHTTPProvider(cfg.Endpoint, cfg.Timeout())
		if err != nil {
			return nil, nil, err
		}
		p = h
	}
	if ttl := cfg.CacheDuration(); ttl > 0 {
		p = suggest.NewCache(p, ttl, cfg.MaxCacheEntries)
	}
	return p, closer, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, logCloser, err := logger.New(logger.ParseLevel(cfg.LogLevel), cfg.LogPath)
	if err != nil {
		return err
	}
	defer logCloser.Close()

	p, closer, err := openProvider(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	log.Info("starting editor", slog.String("endpoint", cfg.Endpoint), slog.String("catalog", cfg.CatalogPath), slog.Uint64("prec", uint64(cfg.Precision)))
	m := tui.New(tui.Options{
		Provider: p,
		Context:  formula.NewContext(formula.Prec(cfg.Precision)),
		Timeout:  cfg.Timeout(),
		Log:      log,
	})
	return tui.Run(m)
}
