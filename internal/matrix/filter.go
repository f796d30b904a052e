package matrix

import (
	"fmt"
	"regexp"

	"github.com/veracitylab/veracity/internal/evaluation"
)

// Predicates narrows a matrix. Zero-valued fields are ignored. Pattern
// fields are case-insensitive regular expressions.
type Predicates struct {
	DocumentID    string
	DocumentType  string
	RequirementID string
	Category      string
	// Level keeps only the (document, requirement) pairs judged at this
	// exact level, narrowing documents and requirements accordingly.
	Level evaluation.Level
	// MinConfidence drops cells below the threshold; rows and columns stay
	// as long as any cell survives.
	MinConfidence *float64
}

func (p Predicates) empty() bool {
	return p.DocumentID == "" && p.DocumentType == "" &&
		p.RequirementID == "" && p.Category == "" &&
		p.Level == "" && p.MinConfidence == nil
}

// Filter applies the predicates and returns a new matrix whose documents,
// requirements, and cells are consistent with each other, and whose
// rollups are recomputed from the filtered cell set. The input matrix is
// not modified.
func (g *Generator) Filter(m *Matrix, p Predicates) (*Matrix, error) {
	if p.empty() {
		return m.clone(), nil
	}

	out := m.clone()

	if p.DocumentID != "" {
		re, err := compile(p.DocumentID)
		if err != nil {
			return nil, fmt.Errorf("document_id pattern: %w", err)
		}
		out.keepDocuments(func(d DocumentSummary) bool { return re.MatchString(d.ID) })
	}

	if p.DocumentType != "" {
		re, err := compile(p.DocumentType)
		if err != nil {
			return nil, fmt.Errorf("document_type pattern: %w", err)
		}
		out.keepDocuments(func(d DocumentSummary) bool { return re.MatchString(d.Type) })
	}

	if p.RequirementID != "" {
		re, err := compile(p.RequirementID)
		if err != nil {
			return nil, fmt.Errorf("requirement_id pattern: %w", err)
		}
		out.keepRequirements(func(r RequirementSummary) bool { return re.MatchString(r.ID) })
	}

	if p.Category != "" {
		re, err := compile(p.Category)
		if err != nil {
			return nil, fmt.Errorf("category pattern: %w", err)
		}
		out.keepRequirements(func(r RequirementSummary) bool { return re.MatchString(r.Category) })
	}

	if p.Level != "" {
		out.keepLevel(p.Level)
	}

	if p.MinConfidence != nil {
		min := *p.MinConfidence
		for _, row := range out.Cells {
			for reqID, cell := range row {
				if cell.Confidence < min {
					delete(row, reqID)
				}
			}
		}
	}

	out.Metadata.Filtered = true
	out.Metadata.TotalDocuments = len(out.Documents)
	out.Metadata.TotalRequirements = len(out.Requirements)
	out.Summary = summarize(out)

	g.logger.Info("matrix filtered",
		"documents", len(out.Documents),
		"requirements", len(out.Requirements),
	)
	return out, nil
}

func compile(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + pattern)
}

// keepDocuments drops documents failing the predicate along with their
// cell rows.
func (m *Matrix) keepDocuments(keep func(DocumentSummary) bool) {
	var kept []DocumentSummary
	for _, d := range m.Documents {
		if keep(d) {
			kept = append(kept, d)
		} else {
			delete(m.Cells, d.ID)
		}
	}
	m.Documents = kept
}

// keepRequirements drops requirements failing the predicate along with
// every cell referencing them.
func (m *Matrix) keepRequirements(keep func(RequirementSummary) bool) {
	var kept []RequirementSummary
	removed := make(map[string]struct{})
	for _, r := range m.Requirements {
		if keep(r) {
			kept = append(kept, r)
		} else {
			removed[r.ID] = struct{}{}
		}
	}
	m.Requirements = kept

	for _, row := range m.Cells {
		for reqID := range row {
			if _, gone := removed[reqID]; gone {
				delete(row, reqID)
			}
		}
	}
}

// keepLevel restricts the matrix to the (document, requirement) pairs
// judged at exactly the given level. A level matching no cell empties the
// matrix.
func (m *Matrix) keepLevel(level evaluation.Level) {
	matchedDocs := make(map[string]struct{})
	matchedReqs := make(map[string]struct{})
	for docID, row := range m.Cells {
		for reqID, cell := range row {
			if cell.Level == level {
				matchedDocs[docID] = struct{}{}
				matchedReqs[reqID] = struct{}{}
			}
		}
	}

	m.keepDocuments(func(d DocumentSummary) bool {
		_, ok := matchedDocs[d.ID]
		return ok
	})
	m.keepRequirements(func(r RequirementSummary) bool {
		_, ok := matchedReqs[r.ID]
		return ok
	})
	for _, row := range m.Cells {
		for reqID, cell := range row {
			if cell.Level != level {
				delete(row, reqID)
			}
		}
	}
}
