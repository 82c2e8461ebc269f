package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/haivivi/buzzerbox/pkg/buzzer"
	"github.com/haivivi/buzzerbox/pkg/cli"
	"github.com/haivivi/buzzerbox/pkg/melody"
)

var (
	melodyFormat string
	melodyFile   string
)

// melodyCmd prints the built-in melody
var melodyCmd = &cobra.Command{
	Use:   "melody",
	Short: "Show the melody table",
	Long: `Show every step of the built-in melody with its pitch, frequency and
resolved length at the device tempo.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table := newMelodyTable(melody.Default, melody.DefaultTempo)
		opts := cli.OutputOptions{
			Format: cli.OutputFormat(melodyFormat),
			File:   melodyFile,
		}
		if melodyFile == "" {
			opts.Writer = cmd.OutOrStdout()
		}
		return cli.Output(table, opts)
	},
}

func init() {
	melodyCmd.Flags().StringVarP(&melodyFormat, "format", "o", string(cli.FormatTable), "output format: table, yaml or json")
	melodyCmd.Flags().StringVarP(&melodyFile, "file", "f", "", "write to file instead of stdout")
}

// melodyRow is one step of the melody as printed.
type melodyRow struct {
	Index  int     `json:"index" yaml:"index"`
	Pitch  string  `json:"pitch" yaml:"pitch"`
	Hz     float64 `json:"hz" yaml:"hz"`
	Length string  `json:"length" yaml:"length"`
	Beats  float64 `json:"beats" yaml:"beats"`
	Millis int64   `json:"ms" yaml:"ms"`
}

// melodyTable implements cli.Table.
type melodyTable struct {
	BPM     int         `json:"bpm" yaml:"bpm"`
	TotalMs int64       `json:"total_ms" yaml:"total_ms"`
	Steps   []melodyRow `json:"steps" yaml:"steps"`
}

func newMelodyTable(m melody.Melody, t melody.Tempo) melodyTable {
	table := melodyTable{
		BPM:     t.BPM,
		TotalMs: m.Duration(t, buzzer.DefaultGap).Milliseconds(),
		Steps:   make([]melodyRow, len(m)),
	}
	for i, s := range m {
		length := s.Length
		if s.IsRest() {
			length = melody.Eighth
		}
		table.Steps[i] = melodyRow{
			Index:  i,
			Pitch:  s.Pitch.String(),
			Hz:     s.Pitch.Hz(),
			Length: length.String(),
			Beats:  length.Beats(),
			Millis: t.Resolve(length).Milliseconds(),
		}
	}
	return table
}

func (t melodyTable) Header() []string {
	return []string{"#", "PITCH", "HZ", "LENGTH", "BEATS", "MS"}
}

func (t melodyTable) Rows() [][]string {
	rows := make([][]string, 0, len(t.Steps)+1)
	for _, s := range t.Steps {
		hz := "-"
		if s.Hz > 0 {
			hz = strconv.FormatFloat(s.Hz, 'f', 2, 64)
		}
		rows = append(rows, []string{
			strconv.Itoa(s.Index), s.Pitch, hz, s.Length,
			strconv.FormatFloat(s.Beats, 'g', -1, 64),
			strconv.FormatInt(s.Millis, 10),
		})
	}
	rows = append(rows, []string{"", "", "", fmt.Sprintf("%d bpm", t.BPM), "", strconv.FormatInt(t.TotalMs, 10)})
	return rows
}
