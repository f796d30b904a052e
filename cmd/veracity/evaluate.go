package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/veracitylab/veracity/internal/documents"
	"github.com/veracitylab/veracity/internal/evaluation"
	"github.com/veracitylab/veracity/internal/matrix"
	"github.com/veracitylab/veracity/internal/ollama"
	"github.com/veracitylab/veracity/internal/render"
)

func evaluateCmd() *cobra.Command {
	var (
		format   string
		style    string
		output   string
		workers  int
		semantic bool

		includeDetails        bool
		includeJustifications bool
		includeConfidence     bool
		includeMetadata       bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate <file-or-directory>...",
		Short: "Evaluate documents against the requirement store",
		Long: `Evaluate one or more documents (or directories of .txt, .md, and .pdf
files) against the stored requirements and render the resulting
compliance matrix.

Examples:
  veracity evaluate ./policies
  veracity evaluate report.pdf --format markdown --style symbol
  veracity evaluate ./docs --semantic --format xlsx -o matrix.xlsx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger()

			store, err := loadStore(cfg.Store.Path)
			if err != nil {
				return err
			}
			if store.Len() == 0 {
				return fmt.Errorf("requirement store %s is empty", cfg.Store.Path)
			}

			loader := documents.NewLoader(logger, cfg.Documents.MaxFileSizeBytes())
			var docs []documents.Document
			for _, arg := range args {
				info, err := os.Stat(arg)
				if err != nil {
					return fmt.Errorf("stat %s: %w", arg, err)
				}
				if info.IsDir() {
					loaded, err := loader.LoadDir(arg)
					if err != nil {
						return fmt.Errorf("load directory %s: %w", arg, err)
					}
					docs = append(docs, loaded...)
					continue
				}
				docs = append(docs, loader.LoadFile(arg))
			}
			if len(docs) == 0 {
				return fmt.Errorf("no documents found")
			}

			opts := evaluation.Options{
				Workers:      workers,
				Thresholds:   cfg.Evaluator.Thresholds(),
				JudgeTimeout: cfg.Judge.TimeoutDuration(),
			}
			if workers == 0 {
				opts.Workers = cfg.Evaluator.Workers
			}
			if semantic || cfg.Evaluator.Semantic {
				opts.Judge = ollama.New(cfg.Judge.BaseURL, cfg.Judge.Model, cfg.Judge.TimeoutDuration(), logger)
			}

			evaluator := evaluation.New(store, opts, logger)
			batch := evaluator.EvaluateAll(ctx, docs)

			gen := matrix.NewGenerator(logger)
			m := gen.Build(batch, store.All())

			return renderAndWrite(m, cfg, renderParams{
				format: format,
				style:  style,
				output: output,
				opts: render.Options{
					IncludeDetails:        includeDetails,
					IncludeJustifications: includeJustifications,
					IncludeConfidence:     includeConfidence,
					IncludeMetadata:       includeMetadata,
				},
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: json, csv, markdown, html, xlsx")
	cmd.Flags().StringVarP(&style, "style", "s", "", "Cell style: text, symbol, color, colorblind")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Parallel evaluation workers (0 = auto)")
	cmd.Flags().BoolVar(&semantic, "semantic", false, "Use the semantic judge with keyword fallback")
	cmd.Flags().BoolVar(&includeDetails, "details", false, "Include per-category and per-requirement rollups")
	cmd.Flags().BoolVar(&includeJustifications, "justifications", false, "Include cell justifications")
	cmd.Flags().BoolVar(&includeConfidence, "confidence", false, "Include cell confidence scores")
	cmd.Flags().BoolVar(&includeMetadata, "metadata", false, "Include generation metadata")

	return cmd
}
