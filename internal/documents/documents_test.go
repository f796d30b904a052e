package documents_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/veracitylab/veracity/internal/documents"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		content  string
		want     string
	}{
		{"empty content", "anything.txt", "", documents.TypeUnknown},
		{"policy filename", "security_policy.txt", "some text", documents.TypePolicyRequirements},
		{"requirement filename", "requirements_v2.md", "some text", documents.TypePolicyRequirements},
		{"invoice content", "march.txt", "Invoice for services, total due on receipt", documents.TypeInvoice},
		{"policy phrase content", "doc.txt", "This security policy governs access.", documents.TypePolicyRequirements},
		{"audit content", "rfi.txt", "Please complete this questionnaire.", documents.TypeAuditRFI},
		{"project content", "plan.txt", "The project timeline has three milestones.", documents.TypeProjectData},
		{"checklist content", "steps.txt", "Use this checklist before deploy.", documents.TypeChecklist},
		{"generic compliance content", "doc.txt", "Ensure regulation adherence throughout.", documents.TypePolicyRequirements},
		{"unmatched content", "notes.txt", "Lunch will be served at noon.", documents.TypeUnknown},
		{"filename beats content", "policy.txt", "Invoice total attached.", documents.TypePolicyRequirements},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := documents.Classify(documents.Document{
				Filename: tt.filename,
				Content:  tt.content,
			})
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "security_policy.md")
	if err := os.WriteFile(path, []byte("Password policy: rotate every 90 days."), 0644); err != nil {
		t.Fatalf("write fixture failed: %v", err)
	}

	loader := documents.NewLoader(nil, 0)
	doc := loader.LoadFile(path)

	if doc.Filename != "security_policy.md" {
		t.Errorf("got filename %q, want base name", doc.Filename)
	}
	if doc.Type != documents.TypePolicyRequirements {
		t.Errorf("got type %q, want policy_requirements", doc.Type)
	}
	if doc.Content == "" {
		t.Error("content not loaded")
	}
	if _, failed := doc.Metadata["load_error"]; failed {
		t.Errorf("unexpected load error: %v", doc.Metadata["load_error"])
	}
}

func TestLoadFileMissing(t *testing.T) {
	loader := documents.NewLoader(nil, 0)
	doc := loader.LoadFile(filepath.Join(t.TempDir(), "missing.txt"))

	if doc.Type != documents.TypeUnknown {
		t.Errorf("got type %q, want unknown", doc.Type)
	}
	if doc.Content != "" {
		t.Error("placeholder document has content")
	}
	if _, ok := doc.Metadata["load_error"]; !ok {
		t.Error("placeholder document missing load_error metadata")
	}
}

func TestLoadFileSizeLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.txt")
	if err := os.WriteFile(path, make([]byte, 2048), 0644); err != nil {
		t.Fatalf("write fixture failed: %v", err)
	}

	loader := documents.NewLoader(nil, 1024)
	doc := loader.LoadFile(path)

	if _, ok := doc.Metadata["load_error"]; !ok {
		t.Error("oversized file loaded without error")
	}
	if doc.Content != "" {
		t.Error("oversized file content was read")
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"b_policy.md":  "Security policy content.",
		"a_notes.txt":  "Meeting notes.",
		"ignored.docx": "Not supported.",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write fixture failed: %v", err)
		}
	}

	loader := documents.NewLoader(nil, 0)
	docs, err := loader.LoadDir(dir)
	if err != nil {
		t.Fatalf("load dir failed: %v", err)
	}

	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
	if docs[0].Filename != "a_notes.txt" || docs[1].Filename != "b_policy.md" {
		t.Errorf("documents not sorted by filename: %q, %q", docs[0].Filename, docs[1].Filename)
	}
}

func TestLoadDirMissing(t *testing.T) {
	loader := documents.NewLoader(nil, 0)
	if _, err := loader.LoadDir(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestDocumentID(t *testing.T) {
	doc := documents.Document{Filename: "policy.md"}
	if doc.ID() != "policy.md" {
		t.Errorf("got id %q, want filename", doc.ID())
	}
}
