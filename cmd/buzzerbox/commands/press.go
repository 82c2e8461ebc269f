package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/haivivi/buzzerbox/pkg/cli"
	"github.com/haivivi/buzzerbox/pkg/debounce"
)

var (
	flagBounces int
	flagSpacing time.Duration
	flagHold    time.Duration
	flagTimeout time.Duration
	flagFormat  string
)

// pressCmd represents the press command
var pressCmd = &cobra.Command{
	Use:   "press",
	Short: "Press the button once and wait for the melody",
	Long: `Simulate one press of the button: a contact bounce, a hold, and a
release. The command waits until the melody has finished and the device is
idle again, then prints a summary.

Examples:
  # Record one melody to a file
  buzzerbox press --output=pcm --pcm-file=/tmp/melody.pcm

  # Hold for 2 seconds and stop the melody on release
  buzzerbox press --hold 2s --abort-on-release`,
	RunE: runPress,
}

func init() {
	pressCmd.Flags().IntVar(&flagBounces, "bounces", defaultBounces, "edges in the bounce train before the press settles")
	pressCmd.Flags().DurationVar(&flagSpacing, "spacing", defaultBounceSpacing, "time between bounce edges")
	pressCmd.Flags().DurationVar(&flagHold, "hold", 200*time.Millisecond, "how long the button is held after it settles")
	pressCmd.Flags().DurationVar(&flagTimeout, "timeout", time.Minute, "give up waiting for the device after this long")
	pressCmd.Flags().StringVarP(&flagFormat, "format", "o", string(cli.FormatTable), "summary format: table, yaml or json")
}

func runPress(cmd *cobra.Command, args []string) error {
	if flagHold <= debounce.DefaultDelay {
		return fmt.Errorf("--hold must be longer than the %v debounce delay", debounce.DefaultDelay)
	}
	settings, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(os.Stderr, settings)
	if err != nil {
		return err
	}

	sim, err := NewSimulator(SimulatorConfig{Settings: settings, Logger: log})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), flagTimeout)
	defer cancel()
	if err := sim.Start(ctx); err != nil {
		sim.Close()
		return err
	}

	sum, err := pressOnce(ctx, sim, flagBounces, flagSpacing, flagHold)
	if cerr := sim.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	if cli.OutputFormat(flagFormat) == cli.FormatTable {
		printSummary(cmd.OutOrStdout(), cli.NewStyles(cli.DefaultTheme), sum)
		return nil
	}
	return cli.Output(sum, cli.OutputOptions{
		Format: cli.OutputFormat(flagFormat),
		Writer: cmd.OutOrStdout(),
	})
}

// pressOnce bounces the button into the pressed level, holds it, releases
// it and waits until the device is idle.
func pressOnce(ctx context.Context, sim *Simulator, bounces int, spacing, hold time.Duration) (Summary, error) {
	pin := sim.Pin()
	pin.Bounce(true, bounces, spacing)

	select {
	case <-ctx.Done():
		return sim.Summary(), ctx.Err()
	case <-time.After(hold):
	}
	pin.Release()

	if err := sim.WaitIdle(ctx, 1); err != nil {
		return sim.Summary(), fmt.Errorf("wait for melody: %w", err)
	}
	return sim.Summary(), nil
}
