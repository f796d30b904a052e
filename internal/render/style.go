// Package render turns compliance matrices and reports into output
// documents: JSON, CSV, Markdown, HTML, and XLSX, with selectable cell
// styling.
package render

import (
	"fmt"

	"github.com/veracitylab/veracity/internal/evaluation"
)

// Style controls how compliance levels appear in rendered cells.
type Style string

const (
	// StyleText renders the level name.
	StyleText Style = "text"
	// StyleSymbol renders a glyph per level.
	StyleSymbol Style = "symbol"
	// StyleColor renders glyphs with the standard palette where the
	// format supports color.
	StyleColor Style = "color"
	// StyleColorblind renders glyphs with a colorblind-safe palette.
	StyleColorblind Style = "colorblind"
)

// ParseStyle validates a style name.
func ParseStyle(s string) (Style, error) {
	switch Style(s) {
	case StyleText, StyleSymbol, StyleColor, StyleColorblind:
		return Style(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStyle, s)
}

// Format identifies an output document format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
	FormatXLSX     Format = "xlsx"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatCSV, FormatHTML, FormatMarkdown, FormatXLSX:
		return Format(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

var symbols = map[evaluation.Level]string{
	evaluation.FullyCompliant:     "✓",
	evaluation.PartiallyCompliant: "⚠",
	evaluation.NonCompliant:       "✗",
	evaluation.NotApplicable:      "-",
	evaluation.Indeterminate:      "?",
}

var standardPalette = map[evaluation.Level]string{
	evaluation.FullyCompliant:     "#4CAF50",
	evaluation.PartiallyCompliant: "#FFC107",
	evaluation.NonCompliant:       "#F44336",
	evaluation.NotApplicable:      "#9E9E9E",
	evaluation.Indeterminate:      "#2196F3",
}

var colorblindPalette = map[evaluation.Level]string{
	evaluation.FullyCompliant:     "#018571",
	evaluation.PartiallyCompliant: "#80CDC1",
	evaluation.NonCompliant:       "#D01C8B",
	evaluation.NotApplicable:      "#DFC27D",
	evaluation.Indeterminate:      "#7570B3",
}

// Palette returns the level → hex color map for color-capable formats.
// Non-color styles fall back to the standard palette so HTML and XLSX
// output always has usable cell colors.
func (s Style) Palette() map[evaluation.Level]string {
	if s == StyleColorblind {
		return colorblindPalette
	}
	return standardPalette
}

// glyph returns the cell text for a level under this style.
func (s Style) glyph(l evaluation.Level) string {
	if s == StyleText {
		return string(l)
	}
	if g, ok := symbols[l]; ok {
		return g
	}
	return string(l)
}
