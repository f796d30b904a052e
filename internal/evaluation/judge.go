package evaluation

import (
	"context"
	"time"

	"github.com/veracitylab/veracity/internal/documents"
	"github.com/veracitylab/veracity/internal/requirements"
)

// Judge decides whether a document satisfies a requirement. Implementations
// may call out to a model or service; they must return within the context
// deadline or report an error. A Judge must never mutate its inputs.
type Judge interface {
	Evaluate(ctx context.Context, doc documents.Document, req requirements.Requirement) (*Judgement, error)
}

// judge runs the delegated judge with a timeout, falling back to the
// keyword heuristic on any error. The fallback judgement keeps
// MethodKeyword so consumers can see the degradation.
func (e *Evaluator) judge(ctx context.Context, doc documents.Document, req requirements.Requirement) *Judgement {
	if e.semantic == nil {
		j, _ := e.keyword.Evaluate(ctx, doc, req)
		return j
	}

	jctx := ctx
	if e.judgeTimeout > 0 {
		var cancel context.CancelFunc
		jctx, cancel = context.WithTimeout(ctx, e.judgeTimeout)
		defer cancel()
	}

	j, err := e.semantic.Evaluate(jctx, doc, req)
	if err != nil {
		e.logger.Warn("judge failed, falling back to keyword evaluation",
			"document_id", doc.ID(),
			"requirement_id", req.ID,
			"error", err,
		)
		fallback, _ := e.keyword.Evaluate(ctx, doc, req)
		return fallback
	}

	j.Method = MethodSemantic
	if j.Timestamp.IsZero() {
		j.Timestamp = time.Now()
	}
	return j
}
