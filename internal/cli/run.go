package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/opencode-ai/rounds/internal/logging"
)

var (
	runFlags workoutFlags
	runStart bool
)

func init() {
	rootCmd.AddCommand(runCmd)
	runFlags.register(runCmd)
	runCmd.Flags().BoolVar(&runStart, "start", false, "start immediately instead of waiting for space")
}

var runCmd = &cobra.Command{
	Use:   "run [preset]",
	Short: "Run a workout timer",
	Long: `Run a workout from a preset or from flags.

In a terminal the timer runs full screen and waits for space to start.
Without a terminal (or with --non-interactive, --json or --jsonl) the
workout starts immediately and prints each step; Ctrl+C ends it early.`,
	Example: `  rounds run tabata
  rounds run --mode emom --work 1m --rounds 12
  rounds run --mode intervals --work 40s --rest 20s --rounds 6 --jsonl`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		def, err := resolveWorkout(cmd, args, &runFlags, cfg)
		if err != nil {
			return err
		}

		reason := headlessReason()
		headless := reason != ""
		opts := sessionOptions{def: def, cfg: cfg}
		if headless {
			logger().Debug().Str("reason", reason).Msg("running headless")
			opts.events = eventOutput()
			opts.onStep = stepPrinter(os.Stdout)
		}

		step := startProgress("Connecting keep-awake")
		s, err := newSession(opts)
		if err != nil {
			step.Fail(err)
			return &PreflightError{
				Message: err.Error(),
				Hint:    "Set keep_awake.backend to auto or none in the config file",
			}
		}
		step.Done()
		defer func() {
			if err := s.Close(); err != nil {
				logger().Debug().Err(err).Msg("failed to close session")
			}
		}()

		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if headless {
			return runHeadless(ctx, s, os.Stdout)
		}
		return runTUI(ctx, s, runStart)
	},
}

func logger() *zerolog.Logger {
	l := logging.Component("cli")
	return &l
}

// commandContext returns cmd's context or Background.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
