package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/veracitylab/veracity/internal/evaluation"
	"github.com/veracitylab/veracity/internal/matrix"
)

// renderMarkdown writes a pipe-table matrix followed by a summary table
// and, when details are requested, per-category and per-requirement
// rollups.
func (r *Renderer) renderMarkdown(m *matrix.Matrix, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	style := opts.style()

	buf.WriteString("# Compliance Matrix\n\n")

	header := []string{"Document"}
	for _, req := range m.Requirements {
		header = append(header, req.ID)
	}
	writeMarkdownRow(&buf, header)
	writeMarkdownRule(&buf, len(header))

	for _, doc := range m.Documents {
		row := []string{doc.ID}
		for _, req := range m.Requirements {
			cell, ok := m.Cell(doc.ID, req.ID)
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, cellText(cell, style, opts.IncludeConfidence))
		}
		writeMarkdownRow(&buf, row)
	}

	buf.WriteString("\n## Summary\n\n")
	writeMarkdownRow(&buf, []string{"Level", "Count", "Percentage"})
	writeMarkdownRule(&buf, 3)
	for _, level := range evaluation.Levels() {
		writeMarkdownRow(&buf, []string{
			string(level),
			fmt.Sprintf("%d", m.Summary.Overall.Counts[level]),
			fmt.Sprintf("%.1f%%", m.Summary.Overall.Percentages[level]),
		})
	}
	fmt.Fprintf(&buf, "\nOverall compliance: **%s**\n", m.Summary.Overall.Level)

	if opts.IncludeDetails {
		writeMarkdownRollup(&buf, "Compliance by Category", "Category", m.Summary.ByCategory)
		writeMarkdownRollup(&buf, "Compliance by Requirement", "Requirement", m.Summary.ByRequirement)
	}

	if opts.IncludeMetadata {
		buf.WriteString("\n## Metadata\n\n")
		writeMarkdownRow(&buf, []string{"Field", "Value"})
		writeMarkdownRule(&buf, 2)
		writeMarkdownRow(&buf, []string{"Generated", m.Metadata.GeneratedAt.Format("2006-01-02 15:04:05")})
		if m.Metadata.RunID != "" {
			writeMarkdownRow(&buf, []string{"Run ID", m.Metadata.RunID})
		}
		writeMarkdownRow(&buf, []string{"Documents", fmt.Sprintf("%d", m.Metadata.TotalDocuments)})
		writeMarkdownRow(&buf, []string{"Requirements", fmt.Sprintf("%d", m.Metadata.TotalRequirements)})
		writeMarkdownRow(&buf, []string{"Filtered", fmt.Sprintf("%t", m.Metadata.Filtered)})
	}

	return buf.Bytes(), nil
}

func writeMarkdownRollup(buf *bytes.Buffer, title, keyHeader string, rollup map[string]matrix.LevelCounts) {
	fmt.Fprintf(buf, "\n## %s\n\n", title)
	header := []string{keyHeader}
	for _, level := range evaluation.Levels() {
		header = append(header, string(level))
	}
	writeMarkdownRow(buf, header)
	writeMarkdownRule(buf, len(header))

	for _, key := range sortedKeys(rollup) {
		row := []string{key}
		for _, level := range evaluation.Levels() {
			row = append(row, fmt.Sprintf("%d", rollup[key][level]))
		}
		writeMarkdownRow(buf, row)
	}
}

func writeMarkdownRow(buf *bytes.Buffer, cells []string) {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = strings.ReplaceAll(c, "|", "\\|")
	}
	fmt.Fprintf(buf, "| %s |\n", strings.Join(escaped, " | "))
}

func writeMarkdownRule(buf *bytes.Buffer, columns int) {
	buf.WriteString("|")
	for i := 0; i < columns; i++ {
		buf.WriteString(" --- |")
	}
	buf.WriteString("\n")
}
