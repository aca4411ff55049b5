package extract

import "strings"

// degreeKeyword pairs a lowercase search keyword with its canonical label.
// The slice is ordered highest degree first; the first keyword found wins.
type degreeKeyword struct {
	keyword string
	label   string
}

var degreePriority = []degreeKeyword{
	{"phd", "PhD"},
	{"doctorate", "Doctorate"},
	{"mba", "MBA"},
	{"m.tech", "M.Tech"},
	{"mtech", "Mtech"},
	{"msc", "M.Sc"},
	{"master", "Master"},
	{"masters", "Masters"},
	{"b.tech", "B.Tech"},
	{"btech", "Btech"},
	{"b.e", "B.E."},
	{"be", "Be"},
	{"bsc", "B.Sc"},
	{"bachelor", "Bachelor"},
	{"diploma", "Diploma"},
}

// Education returns the canonical label of the highest-priority degree keyword
// found in text as a case-insensitive substring, or an empty string when no
// degree is mentioned. At most one label is returned no matter how many
// degrees the text names.
func Education(text string) string {
	lower := strings.ToLower(text)
	for _, d := range degreePriority {
		if strings.Contains(lower, d.keyword) {
			return d.label
		}
	}
	return ""
}
