// Package cli provides the shared pieces of the buzzerbox command line.
//
// This package includes:
//   - Configuration management (named contexts of simulator settings)
//   - Output formatting (YAML, JSON, table)
//   - Terminal styling for status lines
//
// Configuration is stored in ~/.haivivi/<app>/ directory, supporting
// multiple contexts similar to kubectl.
//
// Example usage:
//
//	cfg, err := cli.LoadConfig("buzzerbox")
//	ctx, err := cfg.ResolveContext("")
//
//	cli.Output(table, cli.OutputOptions{Format: cli.FormatYAML})
package cli
