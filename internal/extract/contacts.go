package extract

import (
	"regexp"

	"github.com/nyaruka/phonenumbers"
)

var (
	emailRe    = regexp.MustCompile(`[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\.[a-zA-Z0-9-.]+`)
	phoneRe    = regexp.MustCompile(`\+?\d[\d\-\s()]{7,}\d`)
	nonDigitRe = regexp.MustCompile(`\D`)
)

// Contacts returns the email addresses and phone numbers found in text. Both
// lists are deduplicated preserving first-seen order. Phone numbers that parse
// internationally are kept in E.164 form; the rest fall back to a digits-only
// form. A match with no digits at all is discarded.
func Contacts(text string) (emails []string, phones []string) {
	emails = dedupe(emailRe.FindAllString(text, -1))

	var raw []string
	for _, match := range phoneRe.FindAllString(text, -1) {
		digits := nonDigitRe.ReplaceAllString(match, "")
		if digits == "" {
			continue
		}

		num, err := phonenumbers.Parse(match, "")
		if err != nil {
			raw = append(raw, digits)
			continue
		}
		raw = append(raw, phonenumbers.Format(num, phonenumbers.E164))
	}
	phones = dedupe(raw)

	return emails, phones
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
