package commands

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/haivivi/buzzerbox/pkg/cli"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage buzzerbox configuration.

Configuration is stored in ~/.haivivi/buzzerbox/config.yaml`,
}

// contextCmd represents the context subcommand
var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Manage contexts",
	Long:  `Manage buzzerbox contexts for different outputs.`,
}

// contextListCmd lists all contexts
var contextListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		names := cfg.ListContexts()
		if len(names) == 0 {
			fmt.Println("No contexts configured.")
			fmt.Println("\nCreate one with:")
			fmt.Println("  buzzerbox config context set bench --output=pcm --pcm-file=/tmp/melody.pcm")
			return nil
		}

		sort.Strings(names)

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CURRENT\tNAME\tOUTPUT\tABORT_ON_RELEASE\tLOG_LEVEL")

		for _, name := range names {
			ctx, _ := cfg.GetContext(name)

			current := ""
			if name == cfg.CurrentContext {
				current = "*"
			}

			fmt.Fprintf(w, "%s\t%s\t%s\t%t\t%s\n", current, name,
				ctx.OutputOrDefault(), ctx.AbortOnRelease, valueOrDefault(ctx.LogLevel, "info"))
		}
		return w.Flush()
	},
}

// contextUseCmd switches the current context
var contextUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Switch to a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		name := args[0]
		if err := cfg.UseContext(name); err != nil {
			return err
		}
		cli.PrintInfo("Switched to context %q", name)
		return nil
	},
}

// contextSetCmd creates or updates a context
var contextSetCmd = &cobra.Command{
	Use:   "set <name>",
	Short: "Create or update a context",
	Long: `Create or update a context with the specified settings.

Examples:
  # Play through the speaker
  buzzerbox config context set desk --output=speaker

  # Record the buzzer to a raw 16 kHz L16 file and keep a PWM trace
  buzzerbox config context set bench --output=pcm --pcm-file=/tmp/melody.pcm --trace-file=/tmp/melody.trace

  # Stop the melody as soon as the button is released
  buzzerbox config context set bench --abort-on-release`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		name := args[0]

		// Get existing context or create new one
		existing, err := cfg.GetContext(name)
		ctx := &cli.Context{Name: name}
		if err == nil {
			copied := *existing
			ctx = &copied
		}

		flags := cmd.Flags()
		if flags.Changed("output") {
			ctx.Output, _ = flags.GetString("output")
		}
		if flags.Changed("pcm-file") {
			ctx.PCMFile, _ = flags.GetString("pcm-file")
		}
		if flags.Changed("trace-file") {
			ctx.TraceFile, _ = flags.GetString("trace-file")
		}
		if flags.Changed("abort-on-release") {
			ctx.AbortOnRelease, _ = flags.GetBool("abort-on-release")
		}
		if flags.Changed("log-level") {
			ctx.LogLevel, _ = flags.GetString("log-level")
		}

		if err := cfg.AddContext(name, ctx); err != nil {
			return err
		}

		cli.PrintSuccess("Context %q saved", name)
		return nil
	},
}

// contextDeleteCmd deletes a context
var contextDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		name := args[0]
		if err := cfg.DeleteContext(name); err != nil {
			return err
		}
		cli.PrintSuccess("Context %q deleted", name)
		return nil
	},
}

// contextShowCmd shows the current context details
var contextShowCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Show context details",
	Long:  `Show details of a context. If no name is provided, shows the current context.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var ctx *cli.Context
		var name string
		if len(args) > 0 {
			name = args[0]
			ctx, err = cfg.GetContext(name)
		} else {
			if cfg.CurrentContext == "" {
				return fmt.Errorf("no current context set. Use 'buzzerbox config context use <name>' to set one")
			}
			name = cfg.CurrentContext
			ctx, err = cfg.GetCurrentContext()
		}
		if err != nil {
			return err
		}

		fmt.Printf("Context: %s", name)
		if name == cfg.CurrentContext {
			fmt.Print(" (current)")
		}
		fmt.Println()
		fmt.Println(strings.Repeat("-", 40))
		fmt.Printf("Output:            %s\n", ctx.OutputOrDefault())
		fmt.Printf("PCM File:          %s\n", valueOrDefault(ctx.PCMFile, "(not set)"))
		fmt.Printf("Trace File:        %s\n", valueOrDefault(ctx.TraceFile, "(not set)"))
		fmt.Printf("Abort On Release:  %t\n", ctx.AbortOnRelease)
		fmt.Printf("Log Level:         %s\n", valueOrDefault(ctx.LogLevel, "info"))
		fmt.Println()
		fmt.Printf("Config file: %s\n", cfg.Path())

		return nil
	},
}

// contextCurrentCmd shows the current context name
var contextCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show current context name",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.CurrentContext == "" {
			fmt.Println("No current context set")
			return nil
		}
		fmt.Println(cfg.CurrentContext)
		return nil
	},
}

func valueOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func init() {
	configCmd.AddCommand(contextCmd)

	contextCmd.AddCommand(contextListCmd)
	contextCmd.AddCommand(contextUseCmd)
	contextCmd.AddCommand(contextSetCmd)
	contextCmd.AddCommand(contextDeleteCmd)
	contextCmd.AddCommand(contextShowCmd)
	contextCmd.AddCommand(contextCurrentCmd)

	contextSetCmd.Flags().String("output", cli.OutputSpeaker, "buzzer output: speaker, pcm or none")
	contextSetCmd.Flags().String("pcm-file", "", "raw L16 file written when output is pcm")
	contextSetCmd.Flags().String("trace-file", "", "msgpack file receiving every PWM call")
	contextSetCmd.Flags().Bool("abort-on-release", false, "stop the melody when the button is released")
	contextSetCmd.Flags().String("log-level", "info", "log level: debug, info, warn or error")
}
