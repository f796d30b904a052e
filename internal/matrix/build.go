package matrix

import (
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/veracitylab/veracity/internal/evaluation"
	"github.com/veracitylab/veracity/internal/requirements"
)

// Generator builds matrices from evaluation reports. It is stateless and
// pure: Build, Filter, and Sort all return new matrices computed from an
// already-materialized snapshot.
type Generator struct {
	logger *slog.Logger
}

// NewGenerator creates a matrix generator.
func NewGenerator(logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{logger: logger.With("system", "matrix")}
}

// Build derives the canonical matrix from a set of reports. The
// requirement axis is the union of requirements actually judged in any
// report, not the full store; reqs supplies descriptions and categories
// for those that are known.
func (g *Generator) Build(batch *evaluation.BatchResult, reqs []requirements.Requirement) *Matrix {
	m := &Matrix{
		Cells: make(map[string]map[string]Cell),
		Metadata: Metadata{
			GeneratedAt: time.Now(),
		},
	}
	if batch.RunID != uuid.Nil {
		m.Metadata.RunID = batch.RunID.String()
	}

	reqByID := make(map[string]requirements.Requirement, len(reqs))
	for _, r := range reqs {
		reqByID[r.ID] = r
	}

	judged := make(map[string]struct{})
	for _, report := range batch.Reports {
		m.Documents = append(m.Documents, DocumentSummary{
			ID:         report.DocumentID,
			Type:       report.DocumentType,
			Name:       report.DocumentName,
			Overall:    report.Overall,
			Confidence: report.Confidence,
			Summary:    report.Summary,
		})

		row := make(map[string]Cell, len(report.Judgements))
		for _, j := range report.Judgements {
			judged[j.RequirementID] = struct{}{}
			row[j.RequirementID] = Cell{
				Level:         j.Level,
				Confidence:    j.Confidence,
				Justification: j.Justification,
			}
		}
		m.Cells[report.DocumentID] = row
	}

	ids := make([]string, 0, len(judged))
	for id := range judged {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		req, ok := reqByID[id]
		if !ok {
			// Judged against a requirement no longer in the store; keep the
			// column so cells stay discoverable.
			m.Requirements = append(m.Requirements, RequirementSummary{ID: id})
			continue
		}
		m.Requirements = append(m.Requirements, RequirementSummary{
			ID:          req.ID,
			Description: req.Description,
			Type:        req.Type,
			Priority:    req.Priority,
			Category:    req.Category,
			Subcategory: req.Subcategory,
		})
	}

	m.Metadata.TotalDocuments = len(m.Documents)
	m.Metadata.TotalRequirements = len(m.Requirements)
	m.Summary = summarize(m)

	g.logger.Info("matrix built",
		"documents", len(m.Documents),
		"requirements", len(m.Requirements),
	)
	return m
}

// summarize recomputes every rollup from the matrix's current cell set.
func summarize(m *Matrix) Summary {
	s := Summary{
		ByRequirement: make(map[string]LevelCounts, len(m.Requirements)),
		ByDocument:    make(map[string]LevelCounts, len(m.Documents)),
		ByCategory:    make(map[string]LevelCounts),
	}

	categoryOf := make(map[string]string, len(m.Requirements))
	for _, req := range m.Requirements {
		s.ByRequirement[req.ID] = newLevelCounts()
		if req.Category != "" {
			categoryOf[req.ID] = req.Category
			if _, ok := s.ByCategory[req.Category]; !ok {
				s.ByCategory[req.Category] = newLevelCounts()
			}
		}
	}

	total := 0
	counts := newLevelCounts()

	for _, doc := range m.Documents {
		s.ByDocument[doc.ID] = newLevelCounts()
		for reqID, cell := range m.Cells[doc.ID] {
			counts[cell.Level]++
			total++
			s.ByDocument[doc.ID][cell.Level]++
			if rc, ok := s.ByRequirement[reqID]; ok {
				rc[cell.Level]++
			}
			if cat, ok := categoryOf[reqID]; ok {
				s.ByCategory[cat][cell.Level]++
			}
		}
	}

	s.Overall = overall(counts, total)
	return s
}

func overall(counts LevelCounts, total int) Overall {
	percentages := make(map[evaluation.Level]float64, len(counts))
	for _, l := range evaluation.Levels() {
		percentages[l] = 0
	}

	if total == 0 {
		return Overall{
			Level:       evaluation.Indeterminate,
			Percentages: percentages,
			Counts:      counts,
		}
	}

	for l, c := range counts {
		percentages[l] = float64(c) / float64(total) * 100
	}

	fully := percentages[evaluation.FullyCompliant]
	partially := percentages[evaluation.PartiallyCompliant]

	var level evaluation.Level
	switch {
	case fully >= 80:
		level = evaluation.FullyCompliant
	case fully+partially >= 60:
		level = evaluation.PartiallyCompliant
	default:
		level = evaluation.NonCompliant
	}

	return Overall{Level: level, Percentages: percentages, Counts: counts}
}
