package ai

import (
	"context"
	"strings"
)

const (
	BestFitYes = "Yes"
	BestFitNo  = "No"

	// BestFitScoreThreshold is the fit score at and above which a candidate
	// is marked as a best fit regardless of what the provider claimed.
	BestFitScoreThreshold = 70
)

// FitAssessment is the structured verdict comparing a candidate to a role.
type FitAssessment struct {
	Summary    string   `json:"summary"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	FitScore   int      `json:"fit_score"`
	BestFit    string   `json:"best_fit"`
	Raw        string   `json:"-"`
}

// Scorer produces a fit assessment for a resume against a job description.
type Scorer interface {
	Score(ctx context.Context, resumeText, jdText, position string) (*FitAssessment, error)
}

// ResolveBestFit computes the best-fit flag as the logical OR of an explicit
// affirmative claim and the numeric threshold. An explicit "No" from a
// provider never overrides a qualifying score.
func ResolveBestFit(claimed string, score int) string {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(claimed)), "y") {
		return BestFitYes
	}
	if score >= BestFitScoreThreshold {
		return BestFitYes
	}
	return BestFitNo
}
