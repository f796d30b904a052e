// Package ollama implements the delegated requirement judge over the
// Ollama generate API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/veracitylab/veracity/internal/documents"
	"github.com/veracitylab/veracity/internal/evaluation"
	"github.com/veracitylab/veracity/internal/requirements"
	"github.com/veracitylab/veracity/pkg/formatting"
)

const (
	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "mistral"

	// maxContentChars bounds how much document text goes into the prompt.
	maxContentChars = 2500
)

// Judge asks an Ollama model whether a document satisfies a requirement.
// It implements evaluation.Judge; the evaluator supplies the deadline and
// handles fallback when a call fails.
type Judge struct {
	baseURL string
	model   string
	client  *http.Client
	logger  *slog.Logger
}

// New creates an Ollama-backed judge. Empty baseURL and model select the
// local defaults.
func New(baseURL, model string, timeout time.Duration, logger *slog.Logger) *Judge {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Judge{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With("system", "ollama"),
	}
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	System string `json:"system,omitempty"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// verdict is the JSON shape the model is instructed to produce.
type verdict struct {
	Determination   string               `json:"yes_no_determination"`
	ComplianceLevel string               `json:"compliance_level"`
	ConfidenceScore float64              `json:"confidence_score"`
	Justification   string               `json:"justification"`
	MatchedKeywords []string             `json:"matched_keywords"`
	MissingKeywords []string             `json:"missing_keywords"`
	Evidence        *evaluation.Evidence `json:"evidence"`
}

// Evaluate implements evaluation.Judge.
func (j *Judge) Evaluate(ctx context.Context, doc documents.Document, req requirements.Requirement) (*evaluation.Judgement, error) {
	prompt := buildPrompt(doc, req)

	body, err := json.Marshal(generateRequest{
		Model:  j.model,
		Prompt: prompt,
		System: systemPrompt,
		Stream: false,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, j.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := j.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call ollama: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var gen generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gen); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	v, err := formatting.ParseJSON[verdict](gen.Response)
	if err != nil {
		return nil, fmt.Errorf("parse verdict: %w", err)
	}

	return j.toJudgement(doc, req, v)
}

func (j *Judge) toJudgement(doc documents.Document, req requirements.Requirement, v verdict) (*evaluation.Judgement, error) {
	level := evaluation.Level(v.ComplianceLevel)
	if !level.Valid() {
		return nil, fmt.Errorf("unknown compliance level %q", v.ComplianceLevel)
	}

	confidence := v.ConfidenceScore
	if confidence < 0 || confidence > 1 {
		return nil, fmt.Errorf("confidence score %v out of range", confidence)
	}

	justification := v.Justification
	if justification == "" {
		justification = "No justification provided"
	}

	return &evaluation.Judgement{
		DocumentID:      doc.ID(),
		DocumentType:    doc.Type,
		RequirementID:   req.ID,
		Level:           level,
		Confidence:      confidence,
		Justification:   justification,
		MatchedKeywords: v.MatchedKeywords,
		MissingKeywords: v.MissingKeywords,
		Evidence:        v.Evidence,
		Method:          evaluation.MethodSemantic,
		Timestamp:       time.Now(),
	}, nil
}

const systemPrompt = `You are an expert compliance auditor specialized in evaluating if documents satisfy specific requirements.
Your primary goal is to make clear YES/NO/PARTIAL/UNCERTAIN determinations with strong supporting evidence.
Base your determination solely on the document content, not assumptions.
Provide specific textual evidence from the document to support your determination.
Format your response as valid, well-structured JSON with all required fields.`

func buildPrompt(doc documents.Document, req requirements.Requirement) string {
	content := doc.Content
	truncated := ""
	if len(content) > maxContentChars {
		content = content[:maxContentChars]
		truncated = "... [truncated]"
	}

	keywords := "No specific keywords"
	if len(req.Keywords) > 0 {
		keywords = strings.Join(req.Keywords, ", ")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "QUESTION: Does the following document satisfy this compliance requirement? Provide a definitive YES or NO answer with thorough justification.\n\n")
	fmt.Fprintf(&sb, "DOCUMENT:\nTitle/ID: %s\nType: %s\nContent: %s%s\n\n", doc.ID(), doc.Type, content, truncated)
	fmt.Fprintf(&sb, "REQUIREMENT:\nID: %s\nDescription: %s\nType: %s\nPriority: %s\nCategory: %s\nKeywords to look for: %s\n\n",
		req.ID, req.Description, req.Type, req.Priority, req.Category, keywords)
	sb.WriteString(`Respond in JSON with these exact fields:
{
  "yes_no_determination": "YES|NO|PARTIAL|UNCERTAIN",
  "compliance_level": "fully_compliant|partially_compliant|non_compliant|not_applicable|indeterminate",
  "confidence_score": 0.0,
  "justification": "Detailed explanation supporting your determination",
  "matched_keywords": [],
  "missing_keywords": [],
  "evidence": {"matching_text": "", "context": ""}
}

DECISION CRITERIA:
- "YES" (fully_compliant) if the document fully satisfies the requirement
- "NO" (non_compliant) if the document fails to satisfy the requirement
- "PARTIAL" (partially_compliant) if the document addresses the requirement with gaps
- "UNCERTAIN" (indeterminate or not_applicable) if no determination is possible
- For "prohibited" requirements, answer "YES" (fully_compliant) when the prohibited elements are NOT found and "NO" (non_compliant) when they ARE found`)

	return sb.String()
}
