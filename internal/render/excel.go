package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/veracitylab/veracity/internal/evaluation"
	"github.com/veracitylab/veracity/internal/matrix"
)

const (
	matrixSheet  = "Compliance Matrix"
	summarySheet = "Summary"
)

// renderXLSX builds a workbook with the matrix grid and a summary sheet.
// Cells are filled with the style's palette color per level.
func (r *Renderer) renderXLSX(m *matrix.Matrix, opts Options) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	style := opts.style()
	palette := style.Palette()

	if err := f.SetSheetName("Sheet1", matrixSheet); err != nil {
		return nil, err
	}

	levelStyles := make(map[evaluation.Level]int, len(palette))
	for _, level := range evaluation.Levels() {
		id, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{
				Type:    "pattern",
				Pattern: 1,
				Color:   []string{palette[level]},
			},
			Font: &excelize.Font{Color: "FFFFFF"},
			Alignment: &excelize.Alignment{
				Horizontal: "center",
				Vertical:   "center",
			},
		})
		if err != nil {
			return nil, err
		}
		levelStyles[level] = id
	}

	header := []any{"Document ID"}
	if opts.IncludeMetadata {
		header = append(header, "Document Type", "Document Name")
	}
	for _, req := range m.Requirements {
		header = append(header, req.ID)
	}
	if err := f.SetSheetRow(matrixSheet, "A1", &header); err != nil {
		return nil, err
	}

	reqOffset := 2
	if opts.IncludeMetadata {
		reqOffset = 4
	}

	for i, doc := range m.Documents {
		rowNum := i + 2
		row := []any{doc.ID}
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
		start, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(matrixSheet, start, &row); err != nil {
			return nil, err
		}

		for j, req := range m.Requirements {
			cell, ok := m.Cell(doc.ID, req.ID)
			if !ok {
				continue
			}
			name, err := excelize.CoordinatesToCellName(reqOffset+j, rowNum)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellStyle(matrixSheet, name, name, levelStyles[cell.Level]); err != nil {
				return nil, err
			}
			if opts.IncludeJustifications && cell.Justification != "" {
				comment := excelize.Comment{
					Cell:   name,
					Author: "veracity",
					Paragraph: []excelize.RichTextRun{
						{Text: cell.Justification},
					},
				}
				if err := f.AddComment(matrixSheet, comment); err != nil {
					return nil, err
				}
			}
		}
	}

	if err := r.writeSummarySheet(f, m); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) writeSummarySheet(f *excelize.File, m *matrix.Matrix) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}

	rows := [][]any{
		{"Overall Compliance", string(m.Summary.Overall.Level)},
		{},
		{"Level", "Count", "Percentage"},
	}
	for _, level := range evaluation.Levels() {
		rows = append(rows, []any{
			string(level),
			m.Summary.Overall.Counts[level],
			fmt.Sprintf("%.1f%%", m.Summary.Overall.Percentages[level]),
		})
	}
	rows = append(rows, []any{}, []any{"Documents", m.Metadata.TotalDocuments},
		[]any{"Requirements", m.Metadata.TotalRequirements})

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		start, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, start, &row); err != nil {
			return err
		}
	}
	return nil
}
