package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/haivivi/buzzerbox/cmd/buzzerbox/internal/build"
	"github.com/haivivi/buzzerbox/pkg/cli"
)

var versionFormat string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionFormat == "" {
			fmt.Fprintln(cmd.OutOrStdout(), build.String())
			return nil
		}
		return cli.Output(build.Get(), cli.OutputOptions{
			Format: cli.OutputFormat(versionFormat),
			Writer: cmd.OutOrStdout(),
		})
	},
}

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "", "output format: yaml or json")
}
