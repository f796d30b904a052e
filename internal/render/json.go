package render

import (
	"encoding/json"

	"github.com/veracitylab/veracity/internal/matrix"
)

// renderJSON emits the canonical matrix structure. Options that strip
// detail produce a reduced projection; the full structure is only emitted
// when details are requested.
func (r *Renderer) renderJSON(m *matrix.Matrix, opts Options) ([]byte, error) {
	if opts.IncludeDetails {
		return json.MarshalIndent(m, "", "  ")
	}

	type jsonCell struct {
		Level         string  `json:"compliance_level"`
		Confidence    float64 `json:"confidence_score,omitempty"`
		Justification string  `json:"justification,omitempty"`
	}
	type projection struct {
		Documents []string                       `json:"documents"`
		Cells     map[string]map[string]jsonCell `json:"cells"`
		Summary   matrix.Summary                 `json:"summary"`
		Metadata  *matrix.Metadata               `json:"metadata,omitempty"`
	}

	p := projection{
		Documents: make([]string, 0, len(m.Documents)),
		Cells:     make(map[string]map[string]jsonCell, len(m.Cells)),
		Summary:   m.Summary,
	}
	for _, d := range m.Documents {
		p.Documents = append(p.Documents, d.ID)
	}
	for docID, row := range m.Cells {
		cells := make(map[string]jsonCell, len(row))
		for reqID, c := range row {
			jc := jsonCell{Level: string(c.Level)}
			if opts.IncludeConfidence {
				jc.Confidence = c.Confidence
			}
			if opts.IncludeJustifications {
				jc.Justification = c.Justification
			}
			cells[reqID] = jc
		}
		p.Cells[docID] = cells
	}
	if opts.IncludeMetadata {
		meta := m.Metadata
		p.Metadata = &meta
	}

	return json.MarshalIndent(p, "", "  ")
}
