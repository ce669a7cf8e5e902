// Package cli implements the rounds command line.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/rounds/internal/config"
	"github.com/opencode-ai/rounds/internal/logging"
)

var (
	cfgFile        string
	logLevel       string
	logFormat      string
	jsonOutput     bool
	jsonlOutput    bool
	noColor        bool
	noProgress     bool
	nonInteractive bool

	appConfig *config.Config
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersionInfo records build metadata for the version command.
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var rootCmd = &cobra.Command{
	Use:   "rounds",
	Short: "Workout interval timer",
	Long: `rounds times workouts made of prepare, work and rest steps.

Run a built-in preset, a preset from ~/.config/rounds/presets, or describe a
workout with flags. In a terminal the timer runs full screen; otherwise each
step change is printed as it happens.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ~/.config/rounds/config.yaml)")
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&logFormat, "log-format", "", "log format: console or json")
	flags.BoolVar(&jsonOutput, "json", false, "output JSON")
	flags.BoolVar(&jsonlOutput, "jsonl", false, "output JSON lines")
	flags.BoolVar(&noColor, "no-color", false, "disable colored output")
	flags.BoolVar(&noProgress, "no-progress", false, "disable progress output")
	flags.BoolVar(&nonInteractive, "non-interactive", false, "never start the full-screen timer")
}

// Execute runs the root command and prints errors to stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func initConfig(cmd *cobra.Command) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return &PreflightError{
			Message:  fmt.Sprintf("failed to load config: %v", err),
			Hint:     "Check the YAML syntax and field names",
			NextStep: "rounds --config /path/to/config.yaml ...",
		}
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Logging.Format = logFormat
	}
	if err := cfg.Validate(); err != nil {
		return &PreflightError{
			Message: fmt.Sprintf("invalid config: %v", err),
			Hint:    "Fix the reported fields or remove them to use defaults",
		}
	}

	if err := logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}); err != nil {
		return err
	}

	appConfig = cfg
	logger().Debug().
		Str("command", cmd.CommandPath()).
		Str("config", cfgFile).
		Msg("config loaded")
	return nil
}

// GetConfig returns the loaded configuration, or defaults before load.
func GetConfig() *config.Config {
	if appConfig == nil {
		return config.DefaultConfig()
	}
	return appConfig
}

// IsJSONOutput reports whether --json was requested.
func IsJSONOutput() bool {
	return jsonOutput
}

// IsJSONLOutput reports whether --jsonl was requested.
func IsJSONLOutput() bool {
	return jsonlOutput
}

func printError(err error) {
	var preflight *PreflightError
	if errors.As(err, &preflight) {
		fmt.Fprintln(os.Stderr, colorize("Error: "+preflight.Message, colorRed))
		if preflight.Hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", preflight.Hint)
		}
		if preflight.NextStep != "" {
			fmt.Fprintf(os.Stderr, "Try:  %s\n", preflight.NextStep)
		}
		return
	}
	fmt.Fprintln(os.Stderr, colorize("Error: "+strings.TrimSpace(err.Error()), colorRed))
}
