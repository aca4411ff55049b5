// Package screening assembles one candidate record per resume by running the
// extractors over the document text and attaching a scoring outcome.
package screening

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentsift/talentsift/internal/ai"
	"github.com/talentsift/talentsift/internal/extract"
)

// CandidateRecord is the merged view of a screened resume. Text holds the
// extracted document text for persistence and is never serialized in API
// responses.
type CandidateRecord struct {
	ID              string            `json:"id"`
	SourceFile      string            `json:"source_file"`
	Name            string            `json:"name"`
	Emails          []string          `json:"emails"`
	Phones          []string          `json:"phones"`
	Skills          []string          `json:"skills"`
	ExperienceYears float64           `json:"experience_years"`
	Education       string            `json:"education"`
	Category        string            `json:"category"`
	Position        string            `json:"position"`
	Assessment      *ai.FitAssessment `json:"assessment"`
	Provenance      ai.Provenance     `json:"scoring_provenance"`
	Text            string            `json:"-"`
}

type scorer interface {
	Score(ctx context.Context, resumeText, jdText, position string) *ai.Outcome
}

// Screener runs extraction and scoring for individual resumes.
type Screener struct {
	engine scorer
	logger *zap.Logger
}

func NewScreener(engine scorer, logger *zap.Logger) *Screener {
	return &Screener{engine: engine, logger: logger}
}

// Screen extracts candidate fields from the document text and scores it
// against the job description. The caller decides whether the text is long
// enough to be worth screening.
func (s *Screener) Screen(ctx context.Context, sourceFile, text, jdText, position string) *CandidateRecord {
	record := Profile(sourceFile, text)

	outcome := s.engine.Score(ctx, text, jdText, position)
	record.Position = position
	record.Assessment = outcome.Assessment
	record.Provenance = outcome.Provenance

	s.logger.Info("resume screened",
		zap.String("source_file", sourceFile),
		zap.String("candidate", record.Name),
		zap.Int("fit_score", outcome.Assessment.FitScore),
		zap.String("scoring_provenance", string(outcome.Provenance)),
	)

	return record
}

// Profile runs the pure extractors only, without scoring. It backs both
// Screen and re-screening of already stored documents.
func Profile(sourceFile, text string) *CandidateRecord {
	emails, phones := extract.Contacts(text)

	return &CandidateRecord{
		ID:              uuid.NewString(),
		SourceFile:      sourceFile,
		Name:            extract.Name(text, emails),
		Emails:          emails,
		Phones:          phones,
		Skills:          extract.Skills(text, nil),
		ExperienceYears: extract.ExperienceYears(text),
		Education:       extract.Education(text),
		Category:        extract.Category(text),
		Text:            text,
	}
}
