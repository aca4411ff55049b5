package scoring

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/talentsift/talentsift/internal/ai"
)

type stubScorer struct {
	assessment *ai.FitAssessment
	err        error
}

func (s *stubScorer) Score(_ context.Context, _, _, _ string) (*ai.FitAssessment, error) {
	return s.assessment, s.err
}

type stubAudit struct {
	interactions int
	fallbacks    int
	lastModel    string
	lastResponse string
	lastErr      error
}

func (s *stubAudit) RecordInteraction(model, _, response string) {
	s.interactions++
	s.lastModel = model
	s.lastResponse = response
}

func (s *stubAudit) RecordFallback(err error) {
	s.fallbacks++
	s.lastErr = err
}

func TestEnginePrimaryPath(t *testing.T) {
	assessment := &ai.FitAssessment{Summary: "fine", FitScore: 80, BestFit: ai.BestFitYes, Raw: "{}"}
	auditLog := &stubAudit{}
	engine := NewEngine(&stubScorer{assessment: assessment}, auditLog, zap.NewNop(), "gemini-2.5-flash")

	outcome := engine.Score(context.Background(), "resume", "jd", "Seller")

	if outcome.Provenance != ai.ProvenancePrimary {
		t.Fatalf("expected primary provenance, got %q", outcome.Provenance)
	}

	if outcome.Assessment != assessment {
		t.Fatalf("expected the primary assessment to pass through")
	}

	if outcome.Reason != "" {
		t.Fatalf("expected empty reason on primary path, got %q", outcome.Reason)
	}

	if auditLog.interactions != 1 || auditLog.fallbacks != 0 {
		t.Fatalf("unexpected audit counts: %+v", auditLog)
	}

	if auditLog.lastModel != "gemini-2.5-flash" {
		t.Fatalf("unexpected audited model: %q", auditLog.lastModel)
	}
}

func TestEngineFallsBackOnPrimaryError(t *testing.T) {
	auditLog := &stubAudit{}
	engine := NewEngine(&stubScorer{err: errors.New("quota exceeded")}, auditLog, zap.NewNop(), "m")

	outcome := engine.Score(context.Background(), "aws and azure sales", "aws", "Seller")

	if outcome.Provenance != ai.ProvenanceFallback {
		t.Fatalf("expected fallback provenance, got %q", outcome.Provenance)
	}

	if outcome.Reason != "quota exceeded" {
		t.Fatalf("unexpected reason: %q", outcome.Reason)
	}

	if outcome.Assessment == nil || outcome.Assessment.FitScore != 100 {
		t.Fatalf("expected heuristic assessment, got %+v", outcome.Assessment)
	}

	if auditLog.fallbacks != 1 || auditLog.interactions != 0 {
		t.Fatalf("unexpected audit counts: %+v", auditLog)
	}
}

func TestEngineAuditsMalformedResponse(t *testing.T) {
	raw := "I cannot answer in JSON."
	scoreErr := &ai.MalformedResponseError{Raw: raw, Err: errors.New("no JSON object in model response")}
	auditLog := &stubAudit{}
	engine := NewEngine(&stubScorer{err: scoreErr}, auditLog, zap.NewNop(), "gemini-2.5-flash")

	outcome := engine.Score(context.Background(), "aws sales", "aws", "Seller")

	if outcome.Provenance != ai.ProvenanceFallback {
		t.Fatalf("expected fallback provenance, got %q", outcome.Provenance)
	}

	// The provider answered, so the raw output lands in the trail alongside
	// the fallback marker.
	if auditLog.interactions != 1 || auditLog.fallbacks != 1 {
		t.Fatalf("unexpected audit counts: %+v", auditLog)
	}

	if auditLog.lastResponse != raw {
		t.Fatalf("expected raw response audited, got %q", auditLog.lastResponse)
	}
}

func TestEngineWithoutPrimaryUsesHeuristic(t *testing.T) {
	auditLog := &stubAudit{}
	engine := NewEngine(nil, auditLog, zap.NewNop(), "")

	outcome := engine.Score(context.Background(), "presales", "presales", "p")

	if outcome.Provenance != ai.ProvenanceFallback {
		t.Fatalf("expected fallback provenance, got %q", outcome.Provenance)
	}

	if outcome.Reason == "" {
		t.Fatalf("expected a reason naming the missing scorer")
	}
}

func TestEngineRejectsNilAssessment(t *testing.T) {
	engine := NewEngine(&stubScorer{}, &stubAudit{}, zap.NewNop(), "m")

	outcome := engine.Score(context.Background(), "r", "j", "p")

	if outcome.Provenance != ai.ProvenanceFallback {
		t.Fatalf("expected fallback for nil assessment, got %q", outcome.Provenance)
	}
}
