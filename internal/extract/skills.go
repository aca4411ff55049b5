package extract

import (
	"sort"
	"strings"
)

// Skills matches the controlled vocabulary against text and returns the
// canonical skill tokens found, sorted and deduplicated. A nil vocabulary
// selects the built-in SkillsVocabulary. Matching is case-insensitive
// substring containment: the vocabulary is curated narrowly enough that no
// word-boundary check is applied.
func Skills(text string, vocabulary []string) []string {
	if vocabulary == nil {
		vocabulary = SkillsVocabulary
	}

	lower := strings.ToLower(text)

	found := make(map[string]struct{})
	for _, phrase := range vocabulary {
		if !strings.Contains(lower, strings.ToLower(phrase)) {
			continue
		}
		if canonical, ok := canonicalSkills[phrase]; ok {
			phrase = canonical
		}
		found[phrase] = struct{}{}
	}

	skills := make([]string, 0, len(found))
	for s := range found {
		skills = append(skills, s)
	}
	sort.Strings(skills)

	return skills
}
