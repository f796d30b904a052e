package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/veracitylab/veracity/internal/evaluation"
	"github.com/veracitylab/veracity/internal/matrix"
)

var htmlTemplate = template.Must(template.New("matrix").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Compliance Matrix</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 2em; }
th, td { border: 1px solid #ccc; padding: 0.4em 0.8em; text-align: center; }
th { background: #f5f5f5; }
td.doc { text-align: left; }
{{ .LevelCSS }}
</style>
</head>
<body>
<h1>Compliance Matrix</h1>
<table>
<tr><th>Document</th>{{ range .Requirements }}<th title="{{ .Description }}">{{ .ID }}</th>{{ end }}</tr>
{{- range .Rows }}
<tr><td class="doc">{{ .Document }}</td>{{ range .Cells }}{{ if .Present }}<td class="{{ .Class }}"{{ if .Tooltip }} title="{{ .Tooltip }}"{{ end }}>{{ .Text }}</td>{{ else }}<td></td>{{ end }}{{ end }}</tr>
{{- end }}
</table>
<h2>Summary</h2>
<table>
<tr><th>Level</th><th>Count</th><th>Percentage</th></tr>
{{- range .Summary }}
<tr><td>{{ .Level }}</td><td>{{ .Count }}</td><td>{{ printf "%.1f%%" .Percentage }}</td></tr>
{{- end }}
</table>
<p>Overall compliance: <strong>{{ .Overall }}</strong></p>
{{- if .Categories }}
<h2>Compliance by Category</h2>
<table>
<tr><th>Category</th>{{ range $.Levels }}<th>{{ . }}</th>{{ end }}</tr>
{{- range .Categories }}
<tr><td class="doc">{{ .Name }}</td>{{ range .Counts }}<td>{{ . }}</td>{{ end }}</tr>
{{- end }}
</table>
{{- end }}
{{- if .Metadata }}
<p><small>Generated {{ .Metadata.GeneratedAt.Format "2006-01-02 15:04:05" }}{{ if .Metadata.RunID }}, run {{ .Metadata.RunID }}{{ end }}</small></p>
{{- end }}
</body>
</html>
`))

type htmlCell struct {
	Present bool
	Class   string
	Text    string
	Tooltip string
}

type htmlRow struct {
	Document string
	Cells    []htmlCell
}

type htmlSummaryRow struct {
	Level      string
	Count      int
	Percentage float64
}

type htmlCategory struct {
	Name   string
	Counts []int
}

type htmlData struct {
	Requirements []matrix.RequirementSummary
	Rows         []htmlRow
	Summary      []htmlSummaryRow
	Overall      string
	Levels       []evaluation.Level
	Categories   []htmlCategory
	Metadata     *matrix.Metadata
	LevelCSS     template.CSS
}

func (r *Renderer) renderHTML(m *matrix.Matrix, opts Options) ([]byte, error) {
	style := opts.style()
	palette := style.Palette()

	data := htmlData{
		Requirements: m.Requirements,
		Overall:      string(m.Summary.Overall.Level),
		Levels:       evaluation.Levels(),
	}

	for _, doc := range m.Documents {
		row := htmlRow{Document: doc.ID}
		for _, req := range m.Requirements {
			cell, ok := m.Cell(doc.ID, req.ID)
			if !ok {
				row.Cells = append(row.Cells, htmlCell{})
				continue
			}
			hc := htmlCell{
				Present: true,
				Class:   levelClass(cell.Level),
				Text:    cellText(cell, style, opts.IncludeConfidence),
			}
			if opts.IncludeJustifications {
				hc.Tooltip = cell.Justification
			}
			row.Cells = append(row.Cells, hc)
		}
		data.Rows = append(data.Rows, row)
	}

	for _, level := range evaluation.Levels() {
		data.Summary = append(data.Summary, htmlSummaryRow{
			Level:      string(level),
			Count:      m.Summary.Overall.Counts[level],
			Percentage: m.Summary.Overall.Percentages[level],
		})
	}

	if opts.IncludeDetails {
		for _, name := range sortedKeys(m.Summary.ByCategory) {
			cat := htmlCategory{Name: name}
			for _, level := range evaluation.Levels() {
				cat.Counts = append(cat.Counts, m.Summary.ByCategory[name][level])
			}
			data.Categories = append(data.Categories, cat)
		}
	}
	if opts.IncludeMetadata {
		meta := m.Metadata
		data.Metadata = &meta
	}

	var rules strings.Builder
	for _, level := range evaluation.Levels() {
		fmt.Fprintf(&rules, "td.%s { background: %s; color: #fff; }\n", levelClass(level), palette[level])
	}
	data.LevelCSS = template.CSS(rules.String())

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// levelClass maps a compliance level to a CSS class name.
func levelClass(l evaluation.Level) string {
	return "level-" + string(l)
}
