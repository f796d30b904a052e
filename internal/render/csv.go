package render

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/veracitylab/veracity/internal/evaluation"
	"github.com/veracitylab/veracity/internal/matrix"
)

// renderCSV writes the matrix grid followed by a blank row and a summary
// block: the overall level and one count row per compliance level.
func (r *Renderer) renderCSV(m *matrix.Matrix, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	style := opts.style()

	header := []string{"Document ID"}
	if opts.IncludeMetadata {
		header = append(header, "Document Type", "Document Name")
	}
	for _, req := range m.Requirements {
		header = append(header, req.ID)
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, doc := range m.Documents {
		row := []string{doc.ID}
		if opts.IncludeMetadata {
			row = append(row, doc.Type, doc.Name)
		}
		for _, req := range m.Requirements {
			cell, ok := m.Cell(doc.ID, req.ID)
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, cellText(cell, style, opts.IncludeConfidence))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	if err := w.Write([]string{}); err != nil {
		return nil, err
	}
	summary := [][]string{
		{"Overall Compliance", string(m.Summary.Overall.Level)},
	}
	for _, level := range evaluation.Levels() {
		summary = append(summary, []string{
			fmt.Sprintf("%s Count", level),
			fmt.Sprintf("%d", m.Summary.Overall.Counts[level]),
		})
	}
	if err := w.WriteAll(summary); err != nil {
		return nil, err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
