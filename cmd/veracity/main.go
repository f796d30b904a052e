// veracity evaluates documents against a stored set of compliance
// requirements and renders the results as reports and matrices.
//
// Usage:
//
//	veracity requirements list
//	veracity requirements add --id SEC-001 --description "..." --priority critical
//	veracity evaluate ./documents --format markdown --style symbol
//	veracity render matrix.json --format xlsx -o matrix.xlsx
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/veracitylab/veracity/internal/config"
)

var (
	version = "dev"
	verbose bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "veracity",
		Short: "Evaluate document compliance against requirements",
		Long: `veracity manages a requirement store, evaluates documents against it
using keyword or semantic analysis, and renders compliance matrices in
JSON, CSV, Markdown, HTML, and XLSX.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(requirementsCmd())
	rootCmd.AddCommand(evaluateCmd())
	rootCmd.AddCommand(renderCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// writeOutput writes rendered bytes to path, or stdout when path is empty.
func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
