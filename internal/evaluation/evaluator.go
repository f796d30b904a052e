package evaluation

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/veracitylab/veracity/internal/documents"
	"github.com/veracitylab/veracity/internal/requirements"
)

// Thresholds holds the tunable constants of the evaluation algorithm. The
// defaults reproduce the established behavior; change them only with
// intent.
type Thresholds struct {
	// PartialRatio is the minimum matched-keyword ratio for partial
	// compliance in the keyword heuristic.
	PartialRatio float64
	// FullScore is the minimum weighted compliance score for an overall
	// fully_compliant report.
	FullScore float64
	// PartialScore is the minimum weighted compliance score for an overall
	// partially_compliant report.
	PartialScore float64
}

// DefaultThresholds returns the standard evaluation constants.
func DefaultThresholds() Thresholds {
	return Thresholds{
		PartialRatio: 0.5,
		FullScore:    0.9,
		PartialScore: 0.6,
	}
}

// Evaluator evaluates documents against the requirement store. Evaluation
// is read-only with respect to the store.
type Evaluator struct {
	store        *requirements.Store
	semantic     Judge
	keyword      KeywordJudge
	thresholds   Thresholds
	judgeTimeout time.Duration
	workers      int
	logger       *slog.Logger
}

// Options configures an Evaluator.
type Options struct {
	// Judge is the delegated semantic judge; nil selects pure keyword
	// evaluation.
	Judge Judge
	// JudgeTimeout bounds each delegated judge call.
	JudgeTimeout time.Duration
	// Workers caps batch parallelism; zero derives the count from NumCPU
	// and batch size.
	Workers    int
	Thresholds Thresholds
}

// BatchResult holds the ordered reports of one evaluation run.
type BatchResult struct {
	RunID   uuid.UUID `json:"run_id"`
	Reports []Report  `json:"reports"`
}

// New creates an Evaluator over the given store.
func New(store *requirements.Store, opts Options, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	t := opts.Thresholds
	if t == (Thresholds{}) {
		t = DefaultThresholds()
	}
	return &Evaluator{
		store:        store,
		semantic:     opts.Judge,
		keyword:      KeywordJudge{PartialRatio: t.PartialRatio},
		thresholds:   t,
		judgeTimeout: opts.JudgeTimeout,
		workers:      opts.Workers,
		logger:       logger.With("system", "evaluation"),
	}
}

// relevant selects the requirements that apply to a document: any keyword
// occurring in the content, or the category/subcategory text occurring in
// the type label or content. When nothing matches, every mandatory
// requirement applies so a document is never evaluated against an empty
// set unless the store itself is empty.
func (e *Evaluator) relevant(doc documents.Document) []requirements.Requirement {
	content := strings.ToLower(doc.Content)
	docType := strings.ToLower(doc.Type)

	all := e.store.All()
	var selected []requirements.Requirement

	for _, req := range all {
		if isRelevant(req, docType, content) {
			selected = append(selected, req)
		}
	}

	if len(selected) == 0 {
		for _, req := range all {
			if req.Type == requirements.TypeMandatory {
				selected = append(selected, req)
			}
		}
	}

	return selected
}

func isRelevant(req requirements.Requirement, docType, content string) bool {
	for _, kw := range req.Keywords {
		if strings.Contains(content, strings.ToLower(kw)) {
			return true
		}
	}

	category := strings.ToLower(req.Category)
	if category != "" && (strings.Contains(docType, category) || strings.Contains(content, category)) {
		return true
	}
	if sub := strings.ToLower(req.Subcategory); sub != "" && strings.Contains(content, sub) {
		return true
	}
	return false
}

// EvaluateDocument evaluates one document against every relevant
// requirement and aggregates the judgements into a report. It returns an
// error only when the context is already cancelled.
func (e *Evaluator) EvaluateDocument(ctx context.Context, doc documents.Document) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("evaluate document %s: %w", doc.ID(), err)
	}

	reqs := e.relevant(doc)
	e.logger.Info("evaluating document",
		"document_id", doc.ID(),
		"relevant_requirements", len(reqs),
	)

	if len(reqs) == 0 {
		report := Report{
			DocumentID:   doc.ID(),
			DocumentType: doc.Type,
			DocumentName: doc.Filename,
			Overall:      NotApplicable,
			Confidence:   0.9,
			Summary:      "No relevant compliance requirements found for this document type.",
			Timestamp:    time.Now(),
		}
		return &report, nil
	}

	judgements := make([]Judgement, 0, len(reqs))
	for _, req := range reqs {
		judgements = append(judgements, *e.judge(ctx, doc, req))
	}

	report := buildReport(doc, reqs, judgements, e.thresholds)
	e.logger.Info("document evaluated",
		"document_id", doc.ID(),
		"overall", report.Overall,
		"score", report.Metadata.ComplianceScore,
	)
	return &report, nil
}

// EvaluateAll evaluates a batch of documents on a bounded worker pool.
// Reports come back in input order regardless of completion order. A
// failure in one document yields an indeterminate report carrying the
// error; the rest of the batch is unaffected. After cancellation no
// further documents are dispatched, but in-flight evaluations complete and
// their results are returned.
func (e *Evaluator) EvaluateAll(ctx context.Context, docs []documents.Document) *BatchResult {
	result := &BatchResult{
		RunID:   uuid.New(),
		Reports: make([]Report, len(docs)),
	}

	g := new(errgroup.Group)
	g.SetLimit(e.workerCount(len(docs)))

	for i := range docs {
		i := i
		g.Go(func() error {
			result.Reports[i] = e.evaluateItem(ctx, docs[i])
			return nil
		})
	}
	g.Wait()

	e.logger.Info("batch evaluation complete",
		"run_id", result.RunID,
		"documents", len(docs),
	)
	return result
}

// evaluateItem isolates one document's evaluation: cancellation and
// unexpected failures both degrade to an indeterminate report instead of
// aborting the batch.
func (e *Evaluator) evaluateItem(ctx context.Context, doc documents.Document) (report Report) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("evaluation panic",
				"document_id", doc.ID(),
				"panic", r,
			)
			report = errorReport(doc, fmt.Errorf("evaluation panic: %v", r))
		}
	}()

	rep, err := e.EvaluateDocument(ctx, doc)
	if err != nil {
		return errorReport(doc, err)
	}
	return *rep
}

func errorReport(doc documents.Document, err error) Report {
	return Report{
		DocumentID:   doc.ID(),
		DocumentType: doc.Type,
		DocumentName: doc.Filename,
		Overall:      Indeterminate,
		Confidence:   0,
		Summary:      fmt.Sprintf("Error during evaluation: %v", err),
		Timestamp:    time.Now(),
		Metadata:     ReportMetadata{Error: err.Error()},
	}
}

func (e *Evaluator) workerCount(n int) int {
	if e.workers > 0 {
		return e.workers
	}
	return max(min(runtime.NumCPU(), n), 1)
}
