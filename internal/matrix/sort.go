package matrix

import (
	"fmt"
	"sort"

	"github.com/veracitylab/veracity/internal/evaluation"
)

// SortField selects the matrix dimension and key to order by. Document
// fields reorder the document summaries, requirement fields the
// requirement summaries; cells are unaffected because they are keyed by
// ID.
type SortField string

const (
	SortDocumentID          SortField = "document_id"
	SortDocumentType        SortField = "document_type"
	SortDocumentName        SortField = "document_name"
	SortOverallCompliance   SortField = "overall_compliance"
	SortConfidenceScore     SortField = "confidence_score"
	SortRequirementID       SortField = "requirement_id"
	SortRequirementType     SortField = "requirement_type"
	SortRequirementPriority SortField = "requirement_priority"
	SortCategory            SortField = "category"
)

// SortOrder is the direction of a sort.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// Sort returns a copy of the matrix with the relevant summary slice
// reordered. Descending order is the exact reverse of ascending, so
// sorting twice with opposite orders restores the original arrangement of
// distinct keys.
func (g *Generator) Sort(m *Matrix, field SortField, order SortOrder) (*Matrix, error) {
	if order != Ascending && order != Descending {
		return nil, fmt.Errorf("%w: sort order %q", ErrInvalidSort, order)
	}

	out := m.clone()

	switch field {
	case SortDocumentID:
		sortDocuments(out, order, func(a, b DocumentSummary) bool { return a.ID < b.ID })
	case SortDocumentType:
		sortDocuments(out, order, func(a, b DocumentSummary) bool { return a.Type < b.Type })
	case SortDocumentName:
		sortDocuments(out, order, func(a, b DocumentSummary) bool { return a.Name < b.Name })
	case SortOverallCompliance:
		sortDocuments(out, order, func(a, b DocumentSummary) bool {
			return a.Overall.Rank() < b.Overall.Rank()
		})
	case SortConfidenceScore:
		sortDocuments(out, order, func(a, b DocumentSummary) bool {
			return a.Confidence < b.Confidence
		})
	case SortRequirementID:
		sortRequirements(out, order, func(a, b RequirementSummary) bool { return a.ID < b.ID })
	case SortRequirementType:
		sortRequirements(out, order, func(a, b RequirementSummary) bool { return a.Type < b.Type })
	case SortRequirementPriority:
		sortRequirements(out, order, func(a, b RequirementSummary) bool {
			return evaluation.Weight(a.Priority) < evaluation.Weight(b.Priority)
		})
	case SortCategory:
		sortRequirements(out, order, func(a, b RequirementSummary) bool {
			return a.Category < b.Category
		})
	default:
		return nil, fmt.Errorf("%w: sort field %q", ErrInvalidSort, field)
	}

	return out, nil
}

func sortDocuments(m *Matrix, order SortOrder, less func(a, b DocumentSummary) bool) {
	sort.SliceStable(m.Documents, func(i, j int) bool {
		if order == Descending {
			return less(m.Documents[j], m.Documents[i])
		}
		return less(m.Documents[i], m.Documents[j])
	})
}

func sortRequirements(m *Matrix, order SortOrder, less func(a, b RequirementSummary) bool) {
	sort.SliceStable(m.Requirements, func(i, j int) bool {
		if order == Descending {
			return less(m.Requirements[j], m.Requirements[i])
		}
		return less(m.Requirements[i], m.Requirements[j])
	})
}
