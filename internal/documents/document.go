// Package documents implements the document side of Veracity: the value
// type evaluated against requirements, a filesystem loader with best-effort
// PDF text extraction, and a rule-based type classifier.
package documents

// Document is the unit of evaluation. It is supplied per call and is never
// mutated or persisted by the evaluation core.
type Document struct {
	Filename string         `json:"filename"`
	Type     string         `json:"type"`
	Content  string         `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ID returns the identifier used to key reports and matrix cells.
func (d Document) ID() string {
	return d.Filename
}
