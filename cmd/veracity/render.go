package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veracitylab/veracity/internal/config"
	"github.com/veracitylab/veracity/internal/evaluation"
	"github.com/veracitylab/veracity/internal/matrix"
	"github.com/veracitylab/veracity/internal/render"
)

type renderParams struct {
	format string
	style  string
	output string
	opts   render.Options
}

// renderAndWrite resolves format and style against the config defaults,
// renders the matrix, and writes it out.
func renderAndWrite(m *matrix.Matrix, cfg *config.Config, p renderParams) error {
	if p.format == "" {
		p.format = cfg.Render.Format
	}
	if p.style == "" {
		p.style = cfg.Render.Style
	}

	format, err := render.ParseFormat(p.format)
	if err != nil {
		return err
	}
	style, err := render.ParseStyle(p.style)
	if err != nil {
		return err
	}
	p.opts.Style = style

	renderer := render.NewRenderer(newLogger())
	data, err := renderer.RenderMatrix(m, format, p.opts)
	if err != nil {
		return err
	}
	return writeOutput(p.output, data)
}

func renderCmd() *cobra.Command {
	var (
		format string
		style  string
		output string

		filterDocument     string
		filterDocumentType string
		filterRequirement  string
		filterCategory     string
		filterLevel        string
		minConfidence      float64

		sortField string
		sortOrder string

		includeDetails        bool
		includeJustifications bool
		includeConfidence     bool
		includeMetadata       bool
	)

	cmd := &cobra.Command{
		Use:   "render <matrix.json>",
		Short: "Re-render a saved matrix in another format",
		Long: `Load a matrix previously rendered with --format json --details and
render it again, optionally filtered and sorted.

Examples:
  veracity render matrix.json --format html -o matrix.html
  veracity render matrix.json --filter-category security --format csv
  veracity render matrix.json --sort overall_compliance --order desc`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger := newLogger()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read matrix: %w", err)
			}
			var m matrix.Matrix
			if err := json.Unmarshal(data, &m); err != nil {
				return fmt.Errorf("parse matrix: %w", err)
			}

			gen := matrix.NewGenerator(logger)
			result := &m

			predicates := matrix.Predicates{
				DocumentID:    filterDocument,
				DocumentType:  filterDocumentType,
				RequirementID: filterRequirement,
				Category:      filterCategory,
				Level:         evaluation.Level(filterLevel),
			}
			if cmd.Flags().Changed("min-confidence") {
				predicates.MinConfidence = &minConfidence
			}
			result, err = gen.Filter(result, predicates)
			if err != nil {
				return fmt.Errorf("filter matrix: %w", err)
			}

			if sortField != "" {
				result, err = gen.Sort(result, matrix.SortField(sortField), matrix.SortOrder(sortOrder))
				if err != nil {
					return fmt.Errorf("sort matrix: %w", err)
				}
			}

			return renderAndWrite(result, cfg, renderParams{
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
	cmd.Flags().StringVar(&filterDocument, "filter-document", "", "Keep documents whose ID matches this pattern")
	cmd.Flags().StringVar(&filterDocumentType, "filter-document-type", "", "Keep documents whose type matches this pattern")
	cmd.Flags().StringVar(&filterRequirement, "filter-requirement", "", "Keep requirements whose ID matches this pattern")
	cmd.Flags().StringVar(&filterCategory, "filter-category", "", "Keep requirements whose category matches this pattern")
	cmd.Flags().StringVar(&filterLevel, "filter-level", "", "Keep pairs judged at this compliance level")
	cmd.Flags().Float64Var(&minConfidence, "min-confidence", 0, "Drop cells below this confidence")
	cmd.Flags().StringVar(&sortField, "sort", "", "Sort field, e.g. document_id, overall_compliance")
	cmd.Flags().StringVar(&sortOrder, "order", "asc", "Sort order: asc, desc")
	cmd.Flags().BoolVar(&includeDetails, "details", false, "Include per-category and per-requirement rollups")
	cmd.Flags().BoolVar(&includeJustifications, "justifications", false, "Include cell justifications")
	cmd.Flags().BoolVar(&includeConfidence, "confidence", false, "Include cell confidence scores")
	cmd.Flags().BoolVar(&includeMetadata, "metadata", false, "Include generation metadata")

	return cmd
}
