package evaluation

import (
	"fmt"
	"time"

	"github.com/veracitylab/veracity/internal/documents"
	"github.com/veracitylab/veracity/internal/requirements"
)

// ReportMetadata carries the derived counts behind a report's overall
// fields.
type ReportMetadata struct {
	TotalRequirements  int     `json:"total_requirements"`
	FullyCompliant     int     `json:"fully_compliant"`
	PartiallyCompliant int     `json:"partially_compliant"`
	NonCompliant       int     `json:"non_compliant"`
	ComplianceScore    float64 `json:"compliance_score"`
	Error              string  `json:"error,omitempty"`
}

// Report is the aggregated compliance result for one document. Overall,
// Confidence, Summary, and Metadata are pure functions of the Judgements;
// they are computed in one place (buildReport) and never set independently.
type Report struct {
	DocumentID   string         `json:"document_id"`
	DocumentType string         `json:"document_type"`
	DocumentName string         `json:"document_name"`
	Overall      Level          `json:"overall_compliance"`
	Confidence   float64        `json:"confidence_score"`
	Summary      string         `json:"summary"`
	Judgements   []Judgement    `json:"results"`
	Timestamp    time.Time      `json:"timestamp"`
	Metadata     ReportMetadata `json:"metadata"`
}

// buildReport aggregates judgements into a document report. Weights come
// from requirement priority; not_applicable and indeterminate judgements
// are excluded from both the weighted sum and the weight total, but still
// count toward the confidence mean.
func buildReport(doc documents.Document, reqs []requirements.Requirement, judgements []Judgement, t Thresholds) Report {
	var fully, partially, non int
	for _, j := range judgements {
		switch j.Level {
		case FullyCompliant:
			fully++
		case PartiallyCompliant:
			partially++
		case NonCompliant:
			non++
		}
	}

	var weightedSum float64
	var totalWeight int
	for i, j := range judgements {
		score, ok := j.Level.Score()
		if !ok {
			continue
		}
		w := Weight(reqs[i].Priority)
		weightedSum += score * float64(w)
		totalWeight += w
	}

	var confidence float64
	if len(judgements) > 0 {
		for _, j := range judgements {
			confidence += j.Confidence
		}
		confidence /= float64(len(judgements))
	}

	var overall Level
	var complianceScore float64
	if totalWeight == 0 {
		overall = Indeterminate
	} else {
		complianceScore = weightedSum / float64(totalWeight)
		switch {
		case complianceScore >= t.FullScore:
			overall = FullyCompliant
		case complianceScore >= t.PartialScore:
			overall = PartiallyCompliant
		default:
			overall = NonCompliant
		}
	}

	summary := fmt.Sprintf("Document meets %d of %d requirements fully", fully, len(judgements))
	if partially > 0 {
		summary += fmt.Sprintf(", %d partially", partially)
	}
	if non > 0 {
		summary += fmt.Sprintf(", and fails %d", non)
	}
	summary += fmt.Sprintf(". Overall compliance score: %.2f", complianceScore)

	return Report{
		DocumentID:   doc.ID(),
		DocumentType: doc.Type,
		DocumentName: doc.Filename,
		Overall:      overall,
		Confidence:   confidence,
		Summary:      summary,
		Judgements:   judgements,
		Timestamp:    time.Now(),
		Metadata: ReportMetadata{
			TotalRequirements:  len(judgements),
			FullyCompliant:     fully,
			PartiallyCompliant: partially,
			NonCompliant:       non,
			ComplianceScore:    complianceScore,
		},
	}
}
