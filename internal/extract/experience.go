package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dateRangeRe = regexp.MustCompile(
		`(?i)(?P<from>(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec|\w{3,9}|\d{4})\.?\s*\d{4}|\d{4})` +
			`\s*(?:-|to|—|–)\s*` +
			`(?P<to>present|current|now|(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec|\w{3,9}|\d{4})\.?\s*\d{4}|\d{4})`)

	presentRe    = regexp.MustCompile(`(?i)present|current|now`)
	yearOnlyRe   = regexp.MustCompile(`^\d{4}$`)
	plainYearsRe = regexp.MustCompile(`(?i)(\d+)\s+years?`)
)

var monthsByName = map[string]int{
	"jan": 1, "january": 1,
	"feb": 2, "february": 2,
	"mar": 3, "march": 3,
	"apr": 4, "april": 4,
	"may": 5,
	"jun": 6, "june": 6,
	"jul": 7, "july": 7,
	"aug": 8, "august": 8,
	"sep": 9, "sept": 9, "september": 9,
	"oct": 10, "october": 10,
	"nov": 11, "november": 11,
	"dec": 12, "december": 12,
}

// ExperienceYears sums the durations of employment date ranges found in text
// and returns a year count rounded to one decimal. Ranges on a line that
// mentions an internship are skipped entirely. Overlapping ranges are summed
// as-is without de-duplication; candidates with concurrent roles are
// over-counted, which is a documented limitation rather than a bug. When no
// range parses, an explicit "<N> years" mention is used instead.
func ExperienceYears(text string) float64 {
	return experienceYearsAt(text, time.Now())
}

func experienceYearsAt(text string, now time.Time) float64 {
	totalMonths := 0

	for _, idx := range dateRangeRe.FindAllStringSubmatchIndex(text, -1) {
		if strings.Contains(strings.ToLower(enclosingLine(text, idx[0], idx[1])), "intern") {
			continue
		}

		from := text[idx[2]:idx[3]]
		to := text[idx[4]:idx[5]]

		startYear, startMonth, _, ok := parseDateToken(from)
		if !ok {
			continue
		}

		var endYear, endMonth int
		if presentRe.MatchString(to) {
			endYear, endMonth = now.Year(), int(now.Month())
		} else {
			var explicitMonth bool
			endYear, endMonth, explicitMonth, ok = parseDateToken(to)
			if !ok {
				continue
			}
			// An explicit end month means employment through that month, so
			// it counts as worked.
			if explicitMonth {
				endMonth++
				if endMonth > 12 {
					endMonth = 1
					endYear++
				}
			}
		}

		if endYear*12+endMonth > startYear*12+startMonth {
			totalMonths += (endYear-startYear)*12 + (endMonth - startMonth)
		}
	}

	if totalMonths == 0 {
		if m := plainYearsRe.FindStringSubmatch(text); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				totalMonths = n * 12
			}
		}
	}

	return math.Round(float64(totalMonths)/12.0*10) / 10
}

// parseDateToken parses a 4-digit year or a month-name-plus-year token.
// explicitMonth reports whether the token named a calendar month; bare years
// default to January.
func parseDateToken(token string) (year, month int, explicitMonth, ok bool) {
	token = strings.ToLower(strings.TrimSpace(token))
	token = strings.ReplaceAll(token, ".", "")

	if yearOnlyRe.MatchString(token) {
		year, _ = strconv.Atoi(token)
		return year, 1, false, true
	}

	fields := strings.Fields(token)
	if len(fields) != 2 {
		return 0, 0, false, false
	}

	month, ok = monthsByName[fields[0]]
	if !ok {
		return 0, 0, false, false
	}

	year, err := strconv.Atoi(fields[1])
	if err != nil || !yearOnlyRe.MatchString(fields[1]) {
		return 0, 0, false, false
	}

	return year, month, true, true
}

// enclosingLine expands a match to the boundaries of the line containing it,
// so that context words like "Intern" next to the range are seen.
func enclosingLine(text string, start, end int) string {
	lineStart := strings.LastIndexByte(text[:start], '\n') + 1
	lineEnd := strings.IndexByte(text[end:], '\n')
	if lineEnd == -1 {
		lineEnd = len(text)
	} else {
		lineEnd += end
	}
	return text[lineStart:lineEnd]
}
