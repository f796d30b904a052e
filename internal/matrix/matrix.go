// Package matrix derives the documents × requirements compliance view from
// a set of per-document reports, with filter and sort operations that keep
// rollup summaries consistent with the visible universe.
package matrix

import (
	"time"

	"github.com/veracitylab/veracity/internal/evaluation"
	"github.com/veracitylab/veracity/internal/requirements"
)

// Cell is one (document, requirement) evaluation outcome.
type Cell struct {
	Level         evaluation.Level `json:"compliance_level"`
	Confidence    float64          `json:"confidence_score"`
	Justification string           `json:"justification"`
}

// DocumentSummary is the per-document row header.
type DocumentSummary struct {
	ID         string           `json:"id"`
	Type       string           `json:"type"`
	Name       string           `json:"name"`
	Overall    evaluation.Level `json:"overall_compliance"`
	Confidence float64          `json:"confidence_score"`
	Summary    string           `json:"summary"`
}

// RequirementSummary is the per-requirement column header.
type RequirementSummary struct {
	ID          string                `json:"id"`
	Description string                `json:"description"`
	Type        requirements.Type     `json:"type"`
	Priority    requirements.Priority `json:"priority"`
	Category    string                `json:"category"`
	Subcategory string                `json:"subcategory,omitempty"`
}

// LevelCounts tallies cells per compliance level.
type LevelCounts map[evaluation.Level]int

// Overall summarizes all cells: the dominant level plus raw counts and
// percentages.
type Overall struct {
	Level       evaluation.Level             `json:"level"`
	Percentages map[evaluation.Level]float64 `json:"percentages"`
	Counts      LevelCounts                  `json:"counts"`
}

// Summary holds every rollup. Rollups are always recomputed from the cell
// set they describe, never patched incrementally.
type Summary struct {
	Overall       Overall                `json:"overall_compliance"`
	ByRequirement map[string]LevelCounts `json:"compliance_by_requirement"`
	ByDocument    map[string]LevelCounts `json:"compliance_by_document"`
	ByCategory    map[string]LevelCounts `json:"compliance_by_category"`
}

// Metadata describes how and when the matrix was produced.
type Metadata struct {
	GeneratedAt       time.Time `json:"generation_time"`
	RunID             string    `json:"run_id,omitempty"`
	TotalDocuments    int       `json:"total_documents"`
	TotalRequirements int       `json:"total_requirements"`
	Filtered          bool      `json:"filtered,omitempty"`
}

// Matrix is the canonical documents × requirements view. Cells are keyed
// by document ID then requirement ID; consumers must look cells up by ID,
// never by list position, so reordering the summaries cannot desynchronize
// rows from columns.
type Matrix struct {
	Documents    []DocumentSummary          `json:"documents"`
	Requirements []RequirementSummary       `json:"requirements"`
	Cells        map[string]map[string]Cell `json:"cells"`
	Summary      Summary                    `json:"summary"`
	Metadata     Metadata                   `json:"metadata"`
}

// Cell returns the cell for a (document, requirement) pair.
func (m *Matrix) Cell(documentID, requirementID string) (Cell, bool) {
	row, ok := m.Cells[documentID]
	if !ok {
		return Cell{}, false
	}
	c, ok := row[requirementID]
	return c, ok
}

func newLevelCounts() LevelCounts {
	counts := make(LevelCounts, len(evaluation.Levels()))
	for _, l := range evaluation.Levels() {
		counts[l] = 0
	}
	return counts
}

// clone produces a deep copy so Filter and Sort never mutate their input.
func (m *Matrix) clone() *Matrix {
	c := &Matrix{
		Documents:    make([]DocumentSummary, len(m.Documents)),
		Requirements: make([]RequirementSummary, len(m.Requirements)),
		Cells:        make(map[string]map[string]Cell, len(m.Cells)),
		Metadata:     m.Metadata,
	}
	copy(c.Documents, m.Documents)
	copy(c.Requirements, m.Requirements)
	for docID, row := range m.Cells {
		nr := make(map[string]Cell, len(row))
		for reqID, cell := range row {
			nr[reqID] = cell
		}
		c.Cells[docID] = nr
	}
	c.Summary = summarize(c)
	return c
}
