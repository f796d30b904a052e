package render

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/veracitylab/veracity/internal/evaluation"
	"github.com/veracitylab/veracity/internal/matrix"
)

// Options tunes what a rendering includes. The zero value renders a bare
// matrix with text cells.
type Options struct {
	Style                 Style
	IncludeDetails        bool
	IncludeJustifications bool
	IncludeConfidence     bool
	IncludeMetadata       bool
}

func (o Options) style() Style {
	if o.Style == "" {
		return StyleText
	}
	return o.Style
}

// Renderer produces output documents from matrices. Rendering never
// mutates its input, so one matrix can be rendered to several formats
// concurrently.
type Renderer struct {
	logger *slog.Logger
}

func NewRenderer(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{logger: logger.With("system", "render")}
}

// RenderMatrix renders m in the requested format. All formats present the
// same cell universe; only presentation differs.
func (r *Renderer) RenderMatrix(m *matrix.Matrix, format Format, opts Options) ([]byte, error) {
	if _, err := ParseStyle(string(opts.style())); err != nil {
		return nil, err
	}

	var (
		out []byte
		err error
	)
	switch format {
	case FormatJSON:
		out, err = r.renderJSON(m, opts)
	case FormatCSV:
		out, err = r.renderCSV(m, opts)
	case FormatMarkdown:
		out, err = r.renderMarkdown(m, opts)
	case FormatHTML:
		out, err = r.renderHTML(m, opts)
	case FormatXLSX:
		out, err = r.renderXLSX(m, opts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}

	r.logger.Debug("matrix rendered",
		"format", format,
		"style", opts.style(),
		"bytes", len(out),
	)
	return out, nil
}

// RenderReport renders a single document report by lifting it into a
// one-document matrix, so every format gains report rendering for free.
func (r *Renderer) RenderReport(report evaluation.Report, format Format, opts Options) ([]byte, error) {
	gen := matrix.NewGenerator(r.logger)
	m := gen.Build(&evaluation.BatchResult{Reports: []evaluation.Report{report}}, nil)
	return r.RenderMatrix(m, format, opts)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// cellText formats one cell for text-oriented formats.
func cellText(c matrix.Cell, style Style, includeConfidence bool) string {
	text := style.glyph(c.Level)
	if includeConfidence {
		text += fmt.Sprintf(" (%.2f)", c.Confidence)
	}
	return text
}
