// Package requirements implements the compliance requirement domain for
// Veracity. It provides the requirement model, validation, an indexed
// in-memory store, and YAML/JSON file persistence.
package requirements

// Type categorizes how a requirement binds: it must be met, should be met,
// or must not be present.
type Type string

const (
	TypeMandatory   Type = "mandatory"
	TypeRecommended Type = "recommended"
	TypeProhibited  Type = "prohibited"
)

// Valid reports whether t is a known requirement type.
func (t Type) Valid() bool {
	switch t {
	case TypeMandatory, TypeRecommended, TypeProhibited:
		return true
	}
	return false
}

// Priority ranks how important a requirement is when aggregating
// compliance scores.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// RelationType describes how one requirement relates to another.
type RelationType string

const (
	RelationDependsOn     RelationType = "depends_on"
	RelationConflictsWith RelationType = "conflicts_with"
	RelationRelatedTo     RelationType = "related_to"
)

// Valid reports whether rt is a known relation type.
func (rt RelationType) Valid() bool {
	switch rt {
	case RelationDependsOn, RelationConflictsWith, RelationRelatedTo:
		return true
	}
	return false
}

// Source records where a requirement was extracted from.
type Source struct {
	DocumentSection string `json:"document_section" yaml:"document_section"`
	PageNumber      *int   `json:"page_number,omitempty" yaml:"page_number,omitempty"`
	LineNumber      *int   `json:"line_number,omitempty" yaml:"line_number,omitempty"`
	Context         string `json:"context,omitempty" yaml:"context,omitempty"`
}

// Relationship links a requirement to another requirement by ID.
type Relationship struct {
	TargetID    string       `json:"target_id" yaml:"target_id"`
	Type        RelationType `json:"type" yaml:"type"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
}

// Requirement is a single compliance rule evaluated against documents.
type Requirement struct {
	ID              string         `json:"id" yaml:"id"`
	Description     string         `json:"description" yaml:"description"`
	Type            Type           `json:"type" yaml:"type"`
	Priority        Priority       `json:"priority" yaml:"priority"`
	Category        string         `json:"category" yaml:"category"`
	Subcategory     string         `json:"subcategory,omitempty" yaml:"subcategory,omitempty"`
	Keywords        []string       `json:"keywords" yaml:"keywords"`
	ConfidenceScore float64        `json:"confidence_score" yaml:"confidence_score"`
	Source          Source         `json:"source" yaml:"source"`
	Relationships   []Relationship `json:"relationships,omitempty" yaml:"relationships,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Clone returns a deep copy of the requirement. The store hands out and
// keeps only clones so callers can never mutate internal state.
func (r Requirement) Clone() Requirement {
	c := r

	if r.Keywords != nil {
		c.Keywords = make([]string, len(r.Keywords))
		copy(c.Keywords, r.Keywords)
	}

	if r.Relationships != nil {
		c.Relationships = make([]Relationship, len(r.Relationships))
		copy(c.Relationships, r.Relationships)
	}

	if r.Source.PageNumber != nil {
		n := *r.Source.PageNumber
		c.Source.PageNumber = &n
	}
	if r.Source.LineNumber != nil {
		n := *r.Source.LineNumber
		c.Source.LineNumber = &n
	}

	if r.Metadata != nil {
		c.Metadata = make(map[string]any, len(r.Metadata))
		for k, v := range r.Metadata {
			c.Metadata[k] = v
		}
	}

	return c
}
