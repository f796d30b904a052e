package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/veracitylab/veracity/internal/documents"
	"github.com/veracitylab/veracity/internal/evaluation"
	"github.com/veracitylab/veracity/internal/ollama"
	"github.com/veracitylab/veracity/internal/requirements"
)

func testDoc() documents.Document {
	return documents.Document{
		Filename: "policy.md",
		Type:     "policy_requirements",
		Content:  "Passwords rotate every ninety days.",
	}
}

func testReq() requirements.Requirement {
	return requirements.Requirement{
		ID:          "SEC-001",
		Description: "Passwords must be rotated every ninety days",
		Type:        requirements.TypeMandatory,
		Priority:    requirements.PriorityHigh,
		Category:    "security",
		Keywords:    []string{"password", "rotation"},
		Source:      requirements.Source{DocumentSection: "policy.pdf#2"},
	}
}

// generateHandler returns an Ollama-shaped response whose model output is
// the given string.
func generateHandler(t *testing.T, modelOutput string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("got path %q, want /api/generate", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("got method %q, want POST", r.Method)
		}

		var req struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
			Stream bool   `json:"stream"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("request body not JSON: %v", err)
		}
		if req.Stream {
			t.Error("streaming requested")
		}
		if !strings.Contains(req.Prompt, "SEC-001") {
			t.Error("prompt missing requirement ID")
		}

		json.NewEncoder(w).Encode(map[string]any{
			"response": modelOutput,
			"done":     true,
		})
	}
}

func TestEvaluate(t *testing.T) {
	output := `{
		"yes_no_determination": "YES",
		"compliance_level": "fully_compliant",
		"confidence_score": 0.92,
		"justification": "Rotation schedule is stated explicitly.",
		"matched_keywords": ["password", "rotation"],
		"missing_keywords": [],
		"evidence": {"matching_text": "Passwords rotate every ninety days.", "context": "policy body"}
	}`
	server := httptest.NewServer(generateHandler(t, output))
	defer server.Close()

	judge := ollama.New(server.URL, "testmodel", time.Second, nil)
	j, err := judge.Evaluate(context.Background(), testDoc(), testReq())
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}

	if j.Level != evaluation.FullyCompliant {
		t.Errorf("got level %q, want fully_compliant", j.Level)
	}
	if j.Confidence != 0.92 {
		t.Errorf("got confidence %v, want 0.92", j.Confidence)
	}
	if j.Method != evaluation.MethodSemantic {
		t.Errorf("got method %q, want semantic", j.Method)
	}
	if j.Evidence == nil || j.Evidence.MatchingText == "" {
		t.Error("evidence not carried through")
	}
}

func TestEvaluateFencedResponse(t *testing.T) {
	output := "Here is my assessment:\n```json\n{\"yes_no_determination\": \"NO\", \"compliance_level\": \"non_compliant\", \"confidence_score\": 0.8, \"justification\": \"No rotation policy found.\"}\n```"
	server := httptest.NewServer(generateHandler(t, output))
	defer server.Close()

	judge := ollama.New(server.URL, "testmodel", time.Second, nil)
	j, err := judge.Evaluate(context.Background(), testDoc(), testReq())
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if j.Level != evaluation.NonCompliant {
		t.Errorf("got level %q, want non_compliant", j.Level)
	}
}

func TestEvaluateRejectsBadVerdicts(t *testing.T) {
	tests := []struct {
		name   string
		output string
	}{
		{"unparseable", "The document seems compliant to me."},
		{"unknown level", `{"compliance_level": "mostly_fine", "confidence_score": 0.5}`},
		{"confidence out of range", `{"compliance_level": "fully_compliant", "confidence_score": 1.5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(generateHandler(t, tt.output))
			defer server.Close()

			judge := ollama.New(server.URL, "testmodel", time.Second, nil)
			if _, err := judge.Evaluate(context.Background(), testDoc(), testReq()); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEvaluateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	judge := ollama.New(server.URL, "testmodel", time.Second, nil)
	if _, err := judge.Evaluate(context.Background(), testDoc(), testReq()); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestEvaluateContextCancelled(t *testing.T) {
	blocked := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer server.Close()
	defer close(blocked)

	judge := ollama.New(server.URL, "testmodel", time.Minute, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := judge.Evaluate(ctx, testDoc(), testReq()); err == nil {
		t.Error("expected error after context deadline")
	}
}
