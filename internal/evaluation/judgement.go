package evaluation

import "time"

// Method tags how a judgement was produced. A semantic judge failure that
// fell back to keyword matching reports MethodKeyword so the degradation is
// observable downstream.
type Method string

const (
	MethodKeyword  Method = "keyword"
	MethodSemantic Method = "semantic"
)

// Evidence carries the supporting text a semantic judge cites.
type Evidence struct {
	MatchingText string `json:"matching_text,omitempty"`
	Context      string `json:"context,omitempty"`
}

// Judgement is the outcome of evaluating one document against one
// requirement. Judgements are ephemeral: produced fresh each evaluation,
// never cached.
type Judgement struct {
	DocumentID      string    `json:"document_id"`
	DocumentType    string    `json:"document_type"`
	RequirementID   string    `json:"requirement_id"`
	Level           Level     `json:"compliance_level"`
	Confidence      float64   `json:"confidence_score"`
	Justification   string    `json:"justification"`
	MatchedKeywords []string  `json:"matched_keywords,omitempty"`
	MissingKeywords []string  `json:"missing_keywords,omitempty"`
	Evidence        *Evidence `json:"evidence,omitempty"`
	Method          Method    `json:"evaluation_method"`
	Timestamp       time.Time `json:"timestamp"`
}
