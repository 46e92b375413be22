package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/uuidify/uuidify-go/config"
	"github.com/uuidify/uuidify-go/uuidify"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  uuidify.API

	// Global overrides
	apiURL       string
	apiKey       string
	outputFormat string
	checkIDs     bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "uuidify",
	Short: "Generate UUIDs and ULIDs using the uuidify service",
	Long: `uuidify is a command line client for the uuidify identifier service.

Identifiers are never generated locally: every command performs a request
against the configured service and prints what it returns.`,
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./uuidify.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "url", "", "uuidify service URL (overrides api.url)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key sent as a bearer token (overrides api.key)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: text or json")
	rootCmd.PersistentFlags().BoolVar(&checkIDs, "check", false, "parse returned identifiers and show embedded timestamps")
}

// initializeApp initializes the configuration and the service client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Command line flags win over file and environment
	flags := cmd.Flags()
	if flags.Changed("url") {
		cfg.API.URL = apiURL
	}
	if flags.Changed("api-key") {
		cfg.API.Key = apiKey
	}
	if flags.Changed("output") {
		if outputFormat != "text" && outputFormat != "json" {
			return fmt.Errorf("invalid output format: %s", outputFormat)
		}
		cfg.Output.Format = outputFormat
	}
	if flags.Changed("check") {
		cfg.Output.Check = checkIDs
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger = setupLogger(cfg.Logging, os.Stderr)

	client = uuidify.NewClient(cfg.API.URL, cfg.API.Key, logger,
		uuidify.WithTimeout(cfg.API.Timeout),
		uuidify.WithConcurrency(cfg.Batch.Concurrency),
		uuidify.WithUserAgent("uuidify-cli/"+version),
	)

	logger.Debug().Str("url", cfg.API.URL).Bool("authenticated", cfg.API.Key != "").Msg("uuidify client ready")
	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	level := zerolog.WarnLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	if cfg.Format == "json" {
		return zerolog.New(out).Level(level).With().Timestamp().Logger()
	}

	// Console format, colour only on a real terminal
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(out),
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
