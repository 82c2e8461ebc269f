package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/buzzerbox/pkg/cli"
)

const appName = "buzzerbox"

var (
	cfgFile      string
	contextName  string
	globalConfig *cli.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "buzzerbox",
	Short: "Buzzer melody box simulator",
	Long: `buzzerbox simulates a push-button that plays a melody on a PWM buzzer.

The button is debounced and the melody is played exactly as on the device.
The buzzer output goes to the speaker, a raw PCM file, or nowhere.

Configuration is stored in ~/.haivivi/buzzerbox/ and supports multiple
contexts, e.g. one that plays on the speaker and one that records to a file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	// Run the interactive simulator by default
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd, args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "", "", "config file (default is ~/.haivivi/buzzerbox/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&contextName, "context", "c", "", "context to use (default is current context)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(pressCmd)
	rootCmd.AddCommand(melodyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// configErr stores the config load error for deferred reporting.
var configErr error

func initConfig() {
	globalConfig, configErr = nil, nil
	if cfgFile != "" {
		globalConfig, configErr = cli.LoadConfigWithPath(appName, cfgFile)
		return
	}
	globalConfig = cli.LoadConfigIfExists(appName)
}

// loadConfig returns the loaded config, creating it on first use.
func loadConfig() (*cli.Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}
	if configErr != nil {
		return nil, fmt.Errorf("%s config: %w", appName, configErr)
	}
	cfg, err := cli.LoadConfigWithPath(appName, cfgFile)
	if err != nil {
		return nil, fmt.Errorf("%s config: %w", appName, err)
	}
	globalConfig = cfg
	return cfg, nil
}

// getContext returns the context to use, resolving from flag or current
// context. Without either, the built-in defaults are used.
func getContext() (*cli.Context, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if contextName == "" && cfg.CurrentContext == "" {
		return cli.DefaultContext(), nil
	}
	return cfg.ResolveContext(contextName)
}
