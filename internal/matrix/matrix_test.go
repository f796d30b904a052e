package matrix_test

import (
	"testing"

	"github.com/google/uuid"

	"github.com/veracitylab/veracity/internal/evaluation"
	"github.com/veracitylab/veracity/internal/matrix"
	"github.com/veracitylab/veracity/internal/requirements"
)

func summaryReq(id, category string, priority requirements.Priority) requirements.Requirement {
	return requirements.Requirement{
		ID:          id,
		Description: "Requirement " + id,
		Type:        requirements.TypeMandatory,
		Priority:    priority,
		Category:    category,
		Source:      requirements.Source{DocumentSection: "policy.pdf#1"},
	}
}

func judgement(docID, reqID string, level evaluation.Level, confidence float64) evaluation.Judgement {
	return evaluation.Judgement{
		DocumentID:    docID,
		RequirementID: reqID,
		Level:         level,
		Confidence:    confidence,
		Justification: "because " + reqID,
		Method:        evaluation.MethodKeyword,
	}
}

// testBatch builds two documents against three requirements:
//
//	            SEC-001   SEC-002   OPS-001
//	policy.md   fully     partially non
//	audit.md    fully     fully     fully
func testBatch() (*evaluation.BatchResult, []requirements.Requirement) {
	reqs := []requirements.Requirement{
		summaryReq("SEC-001", "security", requirements.PriorityCritical),
		summaryReq("SEC-002", "security", requirements.PriorityHigh),
		summaryReq("OPS-001", "operations", requirements.PriorityLow),
	}
	batch := &evaluation.BatchResult{
		RunID: uuid.New(),
		Reports: []evaluation.Report{
			{
				DocumentID:   "policy.md",
				DocumentType: "policy_requirements",
				DocumentName: "policy.md",
				Overall:      evaluation.PartiallyCompliant,
				Confidence:   0.7,
				Judgements: []evaluation.Judgement{
					judgement("policy.md", "SEC-001", evaluation.FullyCompliant, 0.85),
					judgement("policy.md", "SEC-002", evaluation.PartiallyCompliant, 0.35),
					judgement("policy.md", "OPS-001", evaluation.NonCompliant, 0.6),
				},
			},
			{
				DocumentID:   "audit.md",
				DocumentType: "audit_rfi",
				DocumentName: "audit.md",
				Overall:      evaluation.FullyCompliant,
				Confidence:   0.85,
				Judgements: []evaluation.Judgement{
					judgement("audit.md", "SEC-001", evaluation.FullyCompliant, 0.85),
					judgement("audit.md", "SEC-002", evaluation.FullyCompliant, 0.85),
					judgement("audit.md", "OPS-001", evaluation.FullyCompliant, 0.85),
				},
			},
		},
	}
	return batch, reqs
}

func TestBuild(t *testing.T) {
	gen := matrix.NewGenerator(nil)
	batch, reqs := testBatch()

	m := gen.Build(batch, reqs)

	if len(m.Documents) != 2 {
		t.Fatalf("got %d documents, want 2", len(m.Documents))
	}
	if len(m.Requirements) != 3 {
		t.Fatalf("got %d requirements, want 3", len(m.Requirements))
	}
	if m.Metadata.RunID != batch.RunID.String() {
		t.Errorf("got run id %q, want %q", m.Metadata.RunID, batch.RunID.String())
	}

	cell, ok := m.Cell("policy.md", "SEC-002")
	if !ok {
		t.Fatal("missing cell policy.md/SEC-002")
	}
	if cell.Level != evaluation.PartiallyCompliant {
		t.Errorf("got level %q, want partially_compliant", cell.Level)
	}

	// 4 fully, 1 partially, 1 non of 6 cells: 66.7% fully, 83.3%
	// fully+partially, which lands on partially_compliant overall.
	if m.Summary.Overall.Level != evaluation.PartiallyCompliant {
		t.Errorf("got overall %q, want partially_compliant", m.Summary.Overall.Level)
	}
	if m.Summary.Overall.Counts[evaluation.FullyCompliant] != 4 {
		t.Errorf("got %d fully cells, want 4", m.Summary.Overall.Counts[evaluation.FullyCompliant])
	}
	if got := m.Summary.ByCategory["security"][evaluation.FullyCompliant]; got != 3 {
		t.Errorf("got %d fully security cells, want 3", got)
	}
	if got := m.Summary.ByDocument["audit.md"][evaluation.FullyCompliant]; got != 3 {
		t.Errorf("got %d fully cells for audit.md, want 3", got)
	}
}

func TestBuildUnknownRequirement(t *testing.T) {
	gen := matrix.NewGenerator(nil)
	batch, _ := testBatch()

	m := gen.Build(batch, nil)

	if len(m.Requirements) != 3 {
		t.Fatalf("got %d requirements, want 3 judged columns", len(m.Requirements))
	}
	for _, req := range m.Requirements {
		if req.Description != "" || req.Category != "" {
			t.Errorf("unknown requirement %s carries store detail: %+v", req.ID, req)
		}
	}
	if _, ok := m.Cell("policy.md", "SEC-001"); !ok {
		t.Error("cells for unknown requirements must stay reachable")
	}
}

func TestBuildEmpty(t *testing.T) {
	gen := matrix.NewGenerator(nil)

	m := gen.Build(&evaluation.BatchResult{}, nil)

	if m.Summary.Overall.Level != evaluation.Indeterminate {
		t.Errorf("got overall %q, want indeterminate for empty matrix", m.Summary.Overall.Level)
	}
	if m.Metadata.RunID != "" {
		t.Errorf("zero run id leaked into metadata: %q", m.Metadata.RunID)
	}
}

func TestFilterByCategory(t *testing.T) {
	gen := matrix.NewGenerator(nil)
	batch, reqs := testBatch()
	m := gen.Build(batch, reqs)

	filtered, err := gen.Filter(m, matrix.Predicates{Category: "^security$"})
	if err != nil {
		t.Fatalf("filter failed: %v", err)
	}

	if len(filtered.Requirements) != 2 {
		t.Fatalf("got %d requirements, want 2", len(filtered.Requirements))
	}
	if _, ok := filtered.Cell("policy.md", "OPS-001"); ok {
		t.Error("filtered-out requirement still has cells")
	}
	if _, ok := filtered.Summary.ByCategory["operations"]; ok {
		t.Error("filtered-out category still in rollup")
	}
	if !filtered.Metadata.Filtered {
		t.Error("filtered matrix not marked as filtered")
	}
	// 3 fully and 1 partially remain: 75% fully, 100% fully+partially.
	if filtered.Summary.Overall.Counts[evaluation.FullyCompliant] != 3 {
		t.Errorf("got %d fully cells, want 3", filtered.Summary.Overall.Counts[evaluation.FullyCompliant])
	}
	if filtered.Summary.Overall.Level != evaluation.PartiallyCompliant {
		t.Errorf("got overall %q, want partially_compliant", filtered.Summary.Overall.Level)
	}
}

func TestFilterByDocument(t *testing.T) {
	gen := matrix.NewGenerator(nil)
	batch, reqs := testBatch()
	m := gen.Build(batch, reqs)

	filtered, err := gen.Filter(m, matrix.Predicates{DocumentID: "audit"})
	if err != nil {
		t.Fatalf("filter failed: %v", err)
	}

	if len(filtered.Documents) != 1 || filtered.Documents[0].ID != "audit.md" {
		t.Fatalf("got documents %+v, want only audit.md", filtered.Documents)
	}
	if _, ok := filtered.Cell("policy.md", "SEC-001"); ok {
		t.Error("filtered-out document still has cells")
	}
	// All three remaining cells are fully compliant.
	if filtered.Summary.Overall.Level != evaluation.FullyCompliant {
		t.Errorf("got overall %q, want fully_compliant", filtered.Summary.Overall.Level)
	}
}

func TestFilterByLevel(t *testing.T) {
	gen := matrix.NewGenerator(nil)
	batch, reqs := testBatch()
	m := gen.Build(batch, reqs)

	filtered, err := gen.Filter(m, matrix.Predicates{Level: evaluation.NonCompliant})
	if err != nil {
		t.Fatalf("filter failed: %v", err)
	}

	if len(filtered.Documents) != 1 || filtered.Documents[0].ID != "policy.md" {
		t.Fatalf("got documents %+v, want only policy.md", filtered.Documents)
	}
	if len(filtered.Requirements) != 1 || filtered.Requirements[0].ID != "OPS-001" {
		t.Fatalf("got requirements %+v, want only OPS-001", filtered.Requirements)
	}
	if _, ok := filtered.Cell("policy.md", "SEC-001"); ok {
		t.Error("cell at a different level survived the level filter")
	}
}

func TestFilterByLevelNoMatch(t *testing.T) {
	gen := matrix.NewGenerator(nil)
	batch, reqs := testBatch()
	m := gen.Build(batch, reqs)

	filtered, err := gen.Filter(m, matrix.Predicates{Level: evaluation.NotApplicable})
	if err != nil {
		t.Fatalf("filter failed: %v", err)
	}

	if len(filtered.Documents) != 0 || len(filtered.Requirements) != 0 {
		t.Errorf("got %d documents and %d requirements, want empty matrix",
			len(filtered.Documents), len(filtered.Requirements))
	}
	if filtered.Summary.Overall.Level != evaluation.Indeterminate {
		t.Errorf("got overall %q, want indeterminate for empty matrix", filtered.Summary.Overall.Level)
	}
}

func TestFilterByMinConfidence(t *testing.T) {
	gen := matrix.NewGenerator(nil)
	batch, reqs := testBatch()
	m := gen.Build(batch, reqs)

	min := 0.8
	filtered, err := gen.Filter(m, matrix.Predicates{MinConfidence: &min})
	if err != nil {
		t.Fatalf("filter failed: %v", err)
	}

	// Only the 0.85-confidence cells survive; rows and columns remain.
	if len(filtered.Documents) != 2 || len(filtered.Requirements) != 3 {
		t.Errorf("axes changed: %d documents, %d requirements", len(filtered.Documents), len(filtered.Requirements))
	}
	if _, ok := filtered.Cell("policy.md", "SEC-002"); ok {
		t.Error("low-confidence cell survived")
	}
	if _, ok := filtered.Cell("audit.md", "SEC-002"); !ok {
		t.Error("high-confidence cell dropped")
	}
	if got := filtered.Summary.Overall.Counts[evaluation.PartiallyCompliant]; got != 0 {
		t.Errorf("got %d partial cells in rollup, want 0", got)
	}
}

func TestFilterBadPattern(t *testing.T) {
	gen := matrix.NewGenerator(nil)
	batch, reqs := testBatch()
	m := gen.Build(batch, reqs)

	if _, err := gen.Filter(m, matrix.Predicates{Category: "("}); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	gen := matrix.NewGenerator(nil)
	batch, reqs := testBatch()
	m := gen.Build(batch, reqs)

	if _, err := gen.Filter(m, matrix.Predicates{Category: "security"}); err != nil {
		t.Fatalf("filter failed: %v", err)
	}

	if len(m.Requirements) != 3 || len(m.Documents) != 2 {
		t.Error("filter mutated its input matrix")
	}
	if _, ok := m.Cell("policy.md", "OPS-001"); !ok {
		t.Error("filter removed cells from its input matrix")
	}
}

func TestSort(t *testing.T) {
	gen := matrix.NewGenerator(nil)
	batch, reqs := testBatch()
	m := gen.Build(batch, reqs)

	sorted, err := gen.Sort(m, matrix.SortOverallCompliance, matrix.Descending)
	if err != nil {
		t.Fatalf("sort failed: %v", err)
	}
	if sorted.Documents[0].ID != "audit.md" {
		t.Errorf("got first document %q, want audit.md", sorted.Documents[0].ID)
	}

	back, err := gen.Sort(sorted, matrix.SortOverallCompliance, matrix.Ascending)
	if err != nil {
		t.Fatalf("reverse sort failed: %v", err)
	}
	if back.Documents[0].ID != "policy.md" {
		t.Errorf("ascending sort not the reverse of descending: first is %q", back.Documents[0].ID)
	}

	byPriority, err := gen.Sort(m, matrix.SortRequirementPriority, matrix.Descending)
	if err != nil {
		t.Fatalf("priority sort failed: %v", err)
	}
	if byPriority.Requirements[0].ID != "SEC-001" {
		t.Errorf("got first requirement %q, want critical SEC-001", byPriority.Requirements[0].ID)
	}
	if byPriority.Requirements[2].ID != "OPS-001" {
		t.Errorf("got last requirement %q, want low OPS-001", byPriority.Requirements[2].ID)
	}

	if _, err := gen.Sort(m, "unknown_field", matrix.Ascending); err == nil {
		t.Error("expected error for unknown sort field")
	}
	if _, err := gen.Sort(m, matrix.SortDocumentID, "sideways"); err == nil {
		t.Error("expected error for unknown sort order")
	}
}

func TestSortKeepsCellsAddressable(t *testing.T) {
	gen := matrix.NewGenerator(nil)
	batch, reqs := testBatch()
	m := gen.Build(batch, reqs)

	sorted, err := gen.Sort(m, matrix.SortDocumentName, matrix.Descending)
	if err != nil {
		t.Fatalf("sort failed: %v", err)
	}

	for _, doc := range sorted.Documents {
		for _, req := range sorted.Requirements {
			if _, ok := sorted.Cell(doc.ID, req.ID); !ok {
				t.Errorf("cell %s/%s unreachable after sort", doc.ID, req.ID)
			}
		}
	}
}

func TestSortSummaryIsIndependent(t *testing.T) {
	gen := matrix.NewGenerator(nil)
	batch, reqs := testBatch()
	m := gen.Build(batch, reqs)

	sorted, err := gen.Sort(m, matrix.SortDocumentID, matrix.Descending)
	if err != nil {
		t.Fatalf("sort failed: %v", err)
	}

	before := m.Summary.ByDocument["policy.md"][evaluation.FullyCompliant]
	sorted.Summary.ByDocument["policy.md"][evaluation.FullyCompliant] = 99
	sorted.Summary.ByCategory["security"][evaluation.FullyCompliant] = 99
	sorted.Summary.Overall.Counts[evaluation.FullyCompliant] = 99

	if got := m.Summary.ByDocument["policy.md"][evaluation.FullyCompliant]; got != before {
		t.Errorf("source by-document rollup changed to %d through the sorted copy", got)
	}
	if m.Summary.ByCategory["security"][evaluation.FullyCompliant] == 99 {
		t.Error("source by-category rollup shared with the sorted copy")
	}
	if m.Summary.Overall.Counts[evaluation.FullyCompliant] == 99 {
		t.Error("source overall counts shared with the sorted copy")
	}
}
