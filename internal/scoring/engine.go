// Package scoring orchestrates the primary inference scorer and the local
// heuristic fallback behind a single call that never fails.
package scoring

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/talentsift/talentsift/internal/ai"
	"github.com/talentsift/talentsift/internal/util"
)

const auditInputPreview = 400

type auditor interface {
	RecordInteraction(model, prompt, response string)
	RecordFallback(err error)
}

// Engine produces a fit assessment for every input. A primary-path failure
// is absorbed: the engine logs it, audits it, and answers with the heuristic
// assessment instead. Callers never see an inference error.
type Engine struct {
	primary ai.Scorer
	audit   auditor
	logger  *zap.Logger
	model   string
}

func NewEngine(primary ai.Scorer, auditLog auditor, logger *zap.Logger, model string) *Engine {
	return &Engine{
		primary: primary,
		audit:   auditLog,
		logger:  logger,
		model:   model,
	}
}

// Score assesses resumeText against jdText for the given position and tags
// the result with its provenance.
func (e *Engine) Score(ctx context.Context, resumeText, jdText, position string) *ai.Outcome {
	assessment, err := e.scorePrimary(ctx, resumeText, jdText, position)
	if err == nil {
		e.audit.RecordInteraction(e.model, auditPrompt(resumeText, jdText, position), assessment.Raw)
		return &ai.Outcome{
			Assessment: assessment,
			Provenance: ai.ProvenancePrimary,
		}
	}

	e.logger.Warn("primary scoring failed, using heuristic fallback",
		zap.String("position", position),
		zap.Error(err),
	)

	// A malformed response means the provider did answer; keep the raw
	// output in the trail so the bad response can be inspected later.
	var malformed *ai.MalformedResponseError
	if errors.As(err, &malformed) {
		e.audit.RecordInteraction(e.model, auditPrompt(resumeText, jdText, position), malformed.Raw)
	}
	e.audit.RecordFallback(err)

	return &ai.Outcome{
		Assessment: HeuristicAssessment(resumeText, jdText),
		Provenance: ai.ProvenanceFallback,
		Reason:     err.Error(),
	}
}

func (e *Engine) scorePrimary(ctx context.Context, resumeText, jdText, position string) (*ai.FitAssessment, error) {
	if e.primary == nil {
		return nil, fmt.Errorf("no inference scorer configured")
	}

	assessment, err := e.primary.Score(ctx, resumeText, jdText, position)
	if err != nil {
		return nil, err
	}
	if assessment == nil {
		return nil, fmt.Errorf("inference scorer returned no assessment")
	}

	return assessment, nil
}

func auditPrompt(resumeText, jdText, position string) string {
	return fmt.Sprintf("ROLE: %s | JD: %s | RESUME: %s",
		position,
		util.Truncate(jdText, auditInputPreview),
		util.Truncate(resumeText, auditInputPreview),
	)
}
