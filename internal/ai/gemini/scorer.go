package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/talentsift/talentsift/internal/ai"
	"github.com/talentsift/talentsift/internal/util"
)

// Input budgets bound the request size. The resume gets the larger share
// since it carries most of the signal.
const (
	jdCharBudget     = 4000
	resumeCharBudget = 8000

	defaultMaxLogLength = 200
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Scorer asks Gemini for a structured fit assessment of a resume against a
// job description and coerces the response into the FitAssessment shape.
type Scorer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewScorer(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Scorer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Scorer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

const promptTemplate = `You are an expert technical recruiter.
You must respond ONLY with a valid JSON object. Keys:
  "summary": string (2-3 sentence professional summary of candidate suitability),
  "strengths": array of short strings,
  "weaknesses": array of short strings,
  "fit_score": integer 0-100,
  "best_fit": string "Yes" or "No".

JOB ROLE/TITLE: %s

JOB DESCRIPTION:
%s

RESUME:
%s
`

func (s *Scorer) Score(ctx context.Context, resumeText, jdText, position string) (*ai.FitAssessment, error) {
	prompt := fmt.Sprintf(promptTemplate,
		position,
		util.Truncate(jdText, jdCharBudget),
		util.Truncate(resumeText, resumeCharBudget),
	)

	s.logger.Debug("gemini score request",
		zap.String("position", position),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("gemini score response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", util.TruncateForLog(raw, s.maxLogLen)),
	)

	assessment, err := parseResponse(raw)
	if err != nil {
		return nil, &ai.MalformedResponseError{Raw: raw, Err: err}
	}

	assessment.Raw = raw
	return assessment, nil
}

// parseResponse extracts the JSON object from the raw model output and
// coerces it defensively: scalar strengths/weaknesses become single-element
// lists, the score is integer-coerced and clamped to 0-100, and the best-fit
// flag is recomputed rather than trusted verbatim.
func parseResponse(raw string) (*ai.FitAssessment, error) {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("no JSON object in model response")
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	score := coerceInt(data["fit_score"])
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return &ai.FitAssessment{
		Summary:    strings.TrimSpace(coerceString(data["summary"])),
		Strengths:  coerceStringList(data["strengths"]),
		Weaknesses: coerceStringList(data["weaknesses"]),
		FitScore:   score,
		BestFit:    ai.ResolveBestFit(coerceString(data["best_fit"]), score),
	}, nil
}

// extractJSON returns the first balanced JSON object in text, tolerating
// markdown fences around it.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSpace(text)
		if idx := strings.LastIndex(text, "```"); idx != -1 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	if start == -1 {
		return ""
	}

	level := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			level++
		case '}':
			level--
			if level == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

func coerceInt(v any) int {
	switch val := v.(type) {
	case float64:
		return int(val)
	case int:
		return val
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return 0
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return 0
		}
		return int(f)
	default:
		return 0
	}
}

func coerceStringList(v any) []string {
	switch val := v.(type) {
	case nil:
		return []string{}
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			s := coerceString(item)
			if s == "" {
				continue
			}
			out = append(out, s)
		}
		return out
	default:
		s := coerceString(v)
		if s == "" {
			return []string{}
		}
		return []string{s}
	}
}
