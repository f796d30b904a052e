// Package evaluation implements compliance evaluation: relevance
// selection, per-requirement judgement via keyword matching or a delegated
// judge, weighted per-document aggregation, and bounded-parallel batch
// evaluation.
package evaluation

import "github.com/veracitylab/veracity/internal/requirements"

// Level describes how well a document satisfies a requirement.
type Level string

const (
	FullyCompliant     Level = "fully_compliant"
	PartiallyCompliant Level = "partially_compliant"
	NonCompliant       Level = "non_compliant"
	NotApplicable      Level = "not_applicable"
	Indeterminate      Level = "indeterminate"
)

// Levels returns every compliance level in rollup display order.
func Levels() []Level {
	return []Level{
		FullyCompliant,
		PartiallyCompliant,
		NonCompliant,
		NotApplicable,
		Indeterminate,
	}
}

// Valid reports whether l is a known compliance level.
func (l Level) Valid() bool {
	switch l {
	case FullyCompliant, PartiallyCompliant, NonCompliant, NotApplicable, Indeterminate:
		return true
	}
	return false
}

// Rank orders levels from worst to best for sorting. Indeterminate ranks
// lowest because it carries no signal.
func (l Level) Rank() int {
	switch l {
	case FullyCompliant:
		return 4
	case PartiallyCompliant:
		return 3
	case NonCompliant:
		return 2
	case NotApplicable:
		return 1
	default:
		return 0
	}
}

// Score returns the aggregation score for a level. Levels excluded from
// scoring (not_applicable, indeterminate) report ok == false.
func (l Level) Score() (score float64, ok bool) {
	switch l {
	case FullyCompliant:
		return 1.0, true
	case PartiallyCompliant:
		return 0.5, true
	case NonCompliant:
		return 0.0, true
	default:
		return 0, false
	}
}

// Weight returns the priority multiplier used in weighted aggregation.
func Weight(p requirements.Priority) int {
	switch p {
	case requirements.PriorityCritical:
		return 4
	case requirements.PriorityHigh:
		return 3
	case requirements.PriorityMedium:
		return 2
	default:
		return 1
	}
}
