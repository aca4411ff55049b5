package extract

import (
	"regexp"
	"strings"
)

const maxPositionLength = 120

var jobTitleRe = regexp.MustCompile(`(?i)job\s*title[:\-\s]+(.+)`)

// Position infers a job title from job-description text. A leading
// "Job Title:" style prefix is stripped when present; otherwise the first
// non-blank line is returned, truncated to a sane length.
func Position(jdText string) string {
	for _, line := range strings.Split(jdText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := jobTitleRe.FindStringSubmatch(line); m != nil {
			return strings.TrimSpace(m[1])
		}

		runes := []rune(line)
		if len(runes) > maxPositionLength {
			return string(runes[:maxPositionLength])
		}
		return line
	}
	return ""
}
