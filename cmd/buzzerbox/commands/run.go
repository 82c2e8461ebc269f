package commands

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/haivivi/buzzerbox/pkg/buzzer"
	"github.com/haivivi/buzzerbox/pkg/cli"
	"github.com/haivivi/buzzerbox/pkg/melody"
)

// Bounce train used by the "b" command and by press.
const (
	defaultBounces       = 6
	defaultBounceSpacing = 2 * time.Millisecond
)

var (
	// Command-line overrides
	flagOutput         string
	flagPCMFile        string
	flagTraceFile      string
	flagAbortOnRelease bool
	flagLogLevel       string
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the interactive simulator",
	Long: `Run the buzzer simulator and drive the button from stdin.

Commands (one per line):
  p   press the button (clean edge)
  b   press the button with a contact bounce
  r   release the button
  s   show status
  q   quit

The melody starts about 50 ms after a press, once the debounce settles.
A started melody always plays to the end unless abort_on_release is set.`,
	RunE: runInteractive,
}

func init() {
	for _, cmd := range []*cobra.Command{rootCmd, runCmd, pressCmd} {
		addOverrideFlags(cmd)
	}
}

func addOverrideFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagOutput, "output", "", "buzzer output: speaker, pcm or none")
	cmd.Flags().StringVar(&flagPCMFile, "pcm-file", "", "raw L16 file written when output is pcm")
	cmd.Flags().StringVar(&flagTraceFile, "trace-file", "", "msgpack file receiving every PWM call")
	cmd.Flags().BoolVar(&flagAbortOnRelease, "abort-on-release", false, "stop the melody when the button is released")
	cmd.Flags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn or error")
}

// resolveSettings returns the context with command-line overrides applied.
func resolveSettings(cmd *cobra.Command) (*cli.Context, error) {
	base, err := getContext()
	if err != nil {
		return nil, err
	}
	settings := *base

	flags := cmd.Flags()
	if flags.Changed("output") {
		settings.Output = flagOutput
	}
	if flags.Changed("pcm-file") {
		settings.PCMFile = flagPCMFile
		if !flags.Changed("output") {
			settings.Output = cli.OutputPCM
		}
	}
	if flags.Changed("trace-file") {
		settings.TraceFile = flagTraceFile
	}
	if flags.Changed("abort-on-release") {
		settings.AbortOnRelease = flagAbortOnRelease
	}
	if flags.Changed("log-level") {
		settings.LogLevel = flagLogLevel
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &settings, nil
}

func runInteractive(cmd *cobra.Command, args []string) error {
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
	defer func() {
		if err := sim.Close(); err != nil {
			cli.PrintWarning("close: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := sim.Start(ctx); err != nil {
		return err
	}

	styles := cli.NewStyles(cli.DefaultTheme)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, styles.Title.Render("buzzerbox"), styles.Help.Render(fmt.Sprintf(
		"%d steps at %d bpm, about %s per melody",
		len(melody.Default), melody.DefaultTempo.BPM,
		cli.FormatDuration(melody.Default.Duration(melody.DefaultTempo, buzzer.DefaultGap)))))
	fmt.Fprintln(out, styles.Help.Render("p=press b=bounce r=release s=status q=quit"))

	lines := make(chan string)
	go scanLines(cmd.InOrStdin(), lines)

	for {
		select {
		case <-ctx.Done():
			printSummary(out, styles, sim.Summary())
			return nil
		case line, ok := <-lines:
			if !ok {
				printSummary(out, styles, sim.Summary())
				return nil
			}
			if quit := handleLine(out, styles, sim, line); quit {
				printSummary(out, styles, sim.Summary())
				return nil
			}
		}
	}
}

func scanLines(r io.Reader, lines chan<- string) {
	defer close(lines)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines <- strings.TrimSpace(sc.Text())
	}
}

// handleLine executes one interactive command and reports whether to quit.
func handleLine(out io.Writer, styles cli.Styles, sim *Simulator, line string) bool {
	switch strings.ToLower(line) {
	case "":
	case "p", "press":
		sim.Pin().Press()
	case "b", "bounce":
		go sim.Pin().Bounce(true, defaultBounces, defaultBounceSpacing)
	case "r", "release":
		sim.Pin().Release()
	case "s", "status":
		fmt.Fprintln(out, statusLine(styles, sim))
	case "q", "quit", "exit":
		return true
	default:
		fmt.Fprintln(out, styles.Help.Render("unknown command "+line+" (p, b, r, s, q)"))
	}
	return false
}

func statusLine(styles cli.Styles, sim *Simulator) string {
	pin := sim.Pin().Get()
	pressed := sim.Device().Pressed()
	return strings.Join([]string{
		styles.Field("pin", levelName(pin), pin),
		styles.Field("state", sim.Device().State(), pressed),
		styles.Field("melodies", sim.Device().Player().Finished(), false),
	}, "  ")
}

func levelName(high bool) string {
	if high {
		return "high"
	}
	return "low"
}

func printSummary(out io.Writer, styles cli.Styles, sum Summary) {
	fields := []string{
		styles.Field("output", sum.Output, true),
		styles.Field("edges", sum.Edges, false),
		styles.Field("commits", sum.Commits, false),
		styles.Field("melodies", sum.Melodies, sum.Melodies > 0),
		styles.Field("notes", sum.Tones, false),
		styles.Field("elapsed", cli.FormatDuration(sum.Elapsed), false),
	}
	if sum.PCMBytes > 0 {
		fields = append(fields, styles.Field("pcm", cli.FormatBytes(sum.PCMBytes), false))
	}
	fmt.Fprintln(out, strings.Join(fields, "  "))
}
