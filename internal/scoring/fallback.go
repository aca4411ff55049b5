package scoring

import (
	"fmt"
	"math"
	"strings"

	"github.com/talentsift/talentsift/internal/ai"
	"github.com/talentsift/talentsift/internal/extract"
)

// HeuristicAssessment scores a resume against a job description from skill
// overlap alone. It is the behavior of the system under any inference outage,
// so it is deterministic and explainable: same inputs, same assessment.
func HeuristicAssessment(resumeText, jdText string) *ai.FitAssessment {
	skills := extract.Skills(resumeText, nil)
	jdSkills := extract.Skills(jdText, nil)

	jdSet := make(map[string]struct{}, len(jdSkills))
	for _, s := range jdSkills {
		jdSet[s] = struct{}{}
	}

	resumeSet := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		resumeSet[s] = struct{}{}
	}

	var overlap []string
	for _, s := range skills {
		if _, ok := jdSet[s]; ok {
			overlap = append(overlap, s)
		}
	}

	var score int
	if len(jdSkills) > 0 {
		score = int(math.Round(float64(len(overlap)) / float64(len(jdSkills)) * 100))
	} else {
		score = min(100, len(skills)*10)
	}

	summary := fmt.Sprintf("%d technical skills identified; key: %s.",
		len(skills), strings.Join(head(skills, 6), ", "))

	strengthSource := overlap
	if len(strengthSource) == 0 {
		strengthSource = skills
	}

	strengths := make([]string, 0, 3)
	for _, s := range head(strengthSource, 3) {
		strengths = append(strengths, "Experienced in "+s)
	}

	weaknesses := make([]string, 0, 3)
	for _, s := range jdSkills {
		if _, ok := resumeSet[s]; ok {
			continue
		}
		weaknesses = append(weaknesses, "Missing or weak in "+s)
		if len(weaknesses) == 3 {
			break
		}
	}

	return &ai.FitAssessment{
		Summary:    summary,
		Strengths:  strengths,
		Weaknesses: weaknesses,
		FitScore:   score,
		BestFit:    ai.ResolveBestFit("", score),
	}
}

func head(items []string, n int) []string {
	if len(items) < n {
		n = len(items)
	}
	return items[:n]
}
