package requirements_test

import (
	"errors"
	"testing"

	"github.com/veracitylab/veracity/internal/requirements"
)

func newRequirement(id string, mutate ...func(*requirements.Requirement)) requirements.Requirement {
	r := requirements.Requirement{
		ID:              id,
		Description:     "All data at rest must be encrypted with AES-256",
		Type:            requirements.TypeMandatory,
		Priority:        requirements.PriorityHigh,
		Category:        "security",
		Keywords:        []string{"encryption", "AES-256"},
		ConfidenceScore: 0.9,
		Source:          requirements.Source{DocumentSection: "policy.pdf#4.2"},
	}
	for _, m := range mutate {
		m(&r)
	}
	return r
}

func TestAddAndGet(t *testing.T) {
	store := requirements.NewStore(nil)

	if err := store.Add(newRequirement("SEC-001")); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	got, err := store.Get("SEC-001")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Category != "security" {
		t.Errorf("got category %q, want %q", got.Category, "security")
	}
	if store.Len() != 1 {
		t.Errorf("got len %d, want 1", store.Len())
	}
}

func TestAddDuplicate(t *testing.T) {
	store := requirements.NewStore(nil)

	if err := store.Add(newRequirement("SEC-001")); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	err := store.Add(newRequirement("SEC-001"))
	if !errors.Is(err, requirements.ErrDuplicate) {
		t.Errorf("got %v, want ErrDuplicate", err)
	}
}

func TestAddInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*requirements.Requirement)
	}{
		{"empty id", func(r *requirements.Requirement) { r.ID = "" }},
		{"empty description", func(r *requirements.Requirement) { r.Description = "" }},
		{"bad type", func(r *requirements.Requirement) { r.Type = "optional" }},
		{"bad priority", func(r *requirements.Requirement) { r.Priority = "urgent" }},
		{"empty category", func(r *requirements.Requirement) { r.Category = "" }},
		{"empty source section", func(r *requirements.Requirement) { r.Source.DocumentSection = "" }},
		{"confidence above one", func(r *requirements.Requirement) { r.ConfidenceScore = 1.5 }},
		{"confidence below zero", func(r *requirements.Requirement) { r.ConfidenceScore = -0.1 }},
		{"bad relationship type", func(r *requirements.Requirement) {
			r.Relationships = []requirements.Relationship{{TargetID: "SEC-002", Type: "blocks"}}
		}},
		{"empty relationship target", func(r *requirements.Requirement) {
			r.Relationships = []requirements.Relationship{{Type: requirements.RelationDependsOn}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := requirements.NewStore(nil)
			err := store.Add(newRequirement("SEC-001", tt.mutate))
			if !errors.Is(err, requirements.ErrInvalid) {
				t.Errorf("got %v, want ErrInvalid", err)
			}
		})
	}
}

func TestValidationCollectsAllViolations(t *testing.T) {
	store := requirements.NewStore(nil)
	err := store.Add(requirements.Requirement{})

	var verr *requirements.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("got %T, want *ValidationError", err)
	}
	if len(verr.Violations) < 4 {
		t.Errorf("got %d violations, want at least 4: %v", len(verr.Violations), verr.Violations)
	}
}

func TestUpdateMissing(t *testing.T) {
	store := requirements.NewStore(nil)
	err := store.Update(newRequirement("SEC-404"))
	if !errors.Is(err, requirements.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestAddOrUpdate(t *testing.T) {
	store := requirements.NewStore(nil)

	if err := store.AddOrUpdate(newRequirement("SEC-001")); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	updated := newRequirement("SEC-001", func(r *requirements.Requirement) {
		r.Category = "data-protection"
	})
	if err := store.AddOrUpdate(updated); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	got, err := store.Get("SEC-001")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Category != "data-protection" {
		t.Errorf("got category %q, want %q", got.Category, "data-protection")
	}
	if store.Len() != 1 {
		t.Errorf("got len %d, want 1", store.Len())
	}
}

func TestDelete(t *testing.T) {
	store := requirements.NewStore(nil)

	if err := store.Add(newRequirement("SEC-001")); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := store.Delete("SEC-001"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Get("SEC-001"); !errors.Is(err, requirements.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
	if err := store.Delete("SEC-001"); !errors.Is(err, requirements.ErrNotFound) {
		t.Errorf("second delete got %v, want ErrNotFound", err)
	}
}

func TestFilter(t *testing.T) {
	store := requirements.NewStore(nil)
	seed := []requirements.Requirement{
		newRequirement("SEC-001"),
		newRequirement("SEC-002", func(r *requirements.Requirement) {
			r.Priority = requirements.PriorityCritical
		}),
		newRequirement("OPS-001", func(r *requirements.Requirement) {
			r.Category = "operations"
			r.Type = requirements.TypeRecommended
		}),
	}
	for _, r := range seed {
		if err := store.Add(r); err != nil {
			t.Fatalf("add %s failed: %v", r.ID, err)
		}
	}

	tests := []struct {
		name string
		opts requirements.FilterOptions
		want int
	}{
		{"no filter", requirements.FilterOptions{}, 3},
		{"by category", requirements.FilterOptions{Category: "security"}, 2},
		{"by type", requirements.FilterOptions{Type: requirements.TypeRecommended}, 1},
		{"by priority", requirements.FilterOptions{Priority: requirements.PriorityCritical}, 1},
		{"intersected", requirements.FilterOptions{
			Category: "security",
			Priority: requirements.PriorityHigh,
		}, 1},
		{"unknown category", requirements.FilterOptions{Category: "missing"}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := store.Filter(tt.opts)
			if len(got) != tt.want {
				t.Errorf("got %d requirements, want %d", len(got), tt.want)
			}
		})
	}
}

func TestStats(t *testing.T) {
	store := requirements.NewStore(nil)
	if err := store.Add(newRequirement("SEC-001")); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := store.Add(newRequirement("SEC-002", func(r *requirements.Requirement) {
		r.Type = requirements.TypeProhibited
		r.Priority = requirements.PriorityCritical
	})); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	stats := store.Stats()
	if stats.Total != 2 {
		t.Errorf("got total %d, want 2", stats.Total)
	}
	if stats.ByType[requirements.TypeMandatory] != 1 {
		t.Errorf("got %d mandatory, want 1", stats.ByType[requirements.TypeMandatory])
	}
	if stats.ByPriority[requirements.PriorityCritical] != 1 {
		t.Errorf("got %d critical, want 1", stats.ByPriority[requirements.PriorityCritical])
	}
	if stats.ByCategory["security"] != 2 {
		t.Errorf("got %d security, want 2", stats.ByCategory["security"])
	}
}

func TestClear(t *testing.T) {
	store := requirements.NewStore(nil)
	if err := store.Add(newRequirement("SEC-001")); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	store.Clear()

	if store.Len() != 0 {
		t.Errorf("got len %d, want 0", store.Len())
	}
	if got := store.Filter(requirements.FilterOptions{Category: "security"}); len(got) != 0 {
		t.Errorf("got %d requirements after clear, want 0", len(got))
	}
}

func TestStoreReturnsClones(t *testing.T) {
	store := requirements.NewStore(nil)
	if err := store.Add(newRequirement("SEC-001")); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	got, err := store.Get("SEC-001")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	got.Keywords[0] = "mutated"

	again, err := store.Get("SEC-001")
	if err != nil {
		t.Fatalf("second get failed: %v", err)
	}
	if again.Keywords[0] != "encryption" {
		t.Errorf("store state mutated through returned copy: %q", again.Keywords[0])
	}
}
