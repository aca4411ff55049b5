package extract

import (
	"regexp"
	"strings"
	"unicode"
)

const nameScanLines = 12

// headerPrefixes are structural resume header words. A line starting with any
// of them cannot be a name.
var headerPrefixes = []string{
	"of", "duration", "role", "address", "profile", "curriculum",
	"objective", "summary", "experience", "responsibilities", "company",
	"skills", "career", "professional", "work", "employment",
}

// noiseTokens mark address and duration lines.
var noiseTokens = []string{
	"delhi", "nagar", "india", "road", "sector", "floor",
	"street", "lane", "repute", "till date", "till", "date",
}

// contactIndicators mark lines that carry contact details rather than a name.
var contactIndicators = []string{"@", "email", "e-mail", "phone", "mobile", "contact"}

// lineRule rejects a candidate line. Rules are evaluated in order and any
// single rejection disqualifies the line.
type lineRule struct {
	name   string
	reject func(lower string) bool
}

var nameRules = []lineRule{
	{
		name: "header_prefix",
		reject: func(lower string) bool {
			for _, prefix := range headerPrefixes {
				if strings.HasPrefix(lower, prefix) {
					return true
				}
			}
			return false
		},
	},
	{
		name: "noise_token",
		reject: func(lower string) bool {
			for _, token := range noiseTokens {
				if strings.Contains(lower, token) {
					return true
				}
			}
			return false
		},
	},
	{
		name: "contact_indicator",
		reject: func(lower string) bool {
			for _, indicator := range contactIndicators {
				if strings.Contains(lower, indicator) {
					return true
				}
			}
			return false
		},
	},
}

var (
	nonNameCharsRe = regexp.MustCompile(`[^A-Za-z\s\-']`)
	multiSpaceRe   = regexp.MustCompile(`\s{2,}`)
	emailNoiseRe   = regexp.MustCompile(`[._\d]+`)
)

// Name infers a human name from the leading lines of a resume. Only the first
// few non-blank lines are considered; the first line that survives every
// rejection rule and cleans up to 1-4 title-cased words wins. When no line
// qualifies, the local part of the first email is used as a fallback. An empty
// string is returned rather than a fabricated value.
func Name(text string, emails []string) string {
	scanned := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if scanned++; scanned > nameScanLines {
			break
		}

		if rejected(line) {
			continue
		}

		cleaned := cleanNameLine(line)
		if cleaned == "" {
			continue
		}

		words := strings.Fields(cleaned)
		if len(words) < 1 || len(words) > 4 {
			continue
		}
		if !allTitleCased(words) {
			continue
		}

		return cleaned
	}

	if len(emails) > 0 {
		return nameFromEmail(emails[0])
	}

	return ""
}

func rejected(line string) bool {
	lower := strings.ToLower(line)
	for _, rule := range nameRules {
		if rule.reject(lower) {
			return true
		}
	}
	return false
}

func cleanNameLine(line string) string {
	cleaned := nonNameCharsRe.ReplaceAllString(line, " ")
	cleaned = multiSpaceRe.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

func allTitleCased(words []string) bool {
	for _, w := range words {
		first := []rune(w)[0]
		if !unicode.IsUpper(first) {
			return false
		}
	}
	return true
}

func nameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	local = strings.TrimSpace(emailNoiseRe.ReplaceAllString(local, " "))
	if local == "" {
		return ""
	}

	words := strings.Fields(strings.ToLower(local))
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
