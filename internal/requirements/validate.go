package requirements

import "fmt"

// validate checks every storage rule and collects all violations so a
// caller sees the full list in one pass.
func validate(r Requirement) error {
	var violations []string

	if r.ID == "" {
		violations = append(violations, "requirement ID is required")
	}
	if r.Description == "" {
		violations = append(violations, "requirement description is required")
	}
	if !r.Type.Valid() {
		violations = append(violations, fmt.Sprintf("invalid requirement type: %q", r.Type))
	}
	if !r.Priority.Valid() {
		violations = append(violations, fmt.Sprintf("invalid requirement priority: %q", r.Priority))
	}
	if r.Source.DocumentSection == "" {
		violations = append(violations, "requirement source information is incomplete")
	}
	if r.Category == "" {
		violations = append(violations, "requirement category is required")
	}
	if r.ConfidenceScore < 0 || r.ConfidenceScore > 1 {
		violations = append(violations, fmt.Sprintf("confidence score must be between 0 and 1, got %v", r.ConfidenceScore))
	}

	for _, rel := range r.Relationships {
		if rel.TargetID == "" {
			violations = append(violations, "relationship target ID is required")
		}
		if !rel.Type.Valid() {
			violations = append(violations, fmt.Sprintf("invalid relationship type: %q", rel.Type))
		}
	}

	if len(violations) > 0 {
		return &ValidationError{ID: r.ID, Violations: violations}
	}
	return nil
}
