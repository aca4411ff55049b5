package extract

import "strings"

const (
	CategorySales    = "Sales"
	CategoryPreSales = "Pre-Sales"
)

var presalesKeywords = []string{
	"pre-sales",
	"presales",
	"solution consultant",
	"solution architect",
	"technical sales",
	"demo",
	"rfp",
	"poc",
	"bid",
	"tender",
	"architecture",
}

// Category sorts a resume into the Sales or Pre-Sales track based on keyword
// presence. Sales is the default.
func Category(text string) string {
	lower := strings.ToLower(text)
	for _, k := range presalesKeywords {
		if strings.Contains(lower, k) {
			return CategoryPreSales
		}
	}
	return CategorySales
}
