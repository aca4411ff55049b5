package extract

// SkillsVocabulary is the controlled list of recognized skill phrases for the
// cloud and sales hiring domain. Matching is exact substring containment, so
// the list is curated to avoid noisy single-token developer skills. Any change
// to this list changes extraction results for stored records and must be
// treated as a breaking change.
var SkillsVocabulary = []string{
	// Cloud platforms
	"aws", "amazon web services",
	"azure", "microsoft azure",
	"gcp", "google cloud",

	// Cloud and infra concepts
	"cloud consulting", "cloud sales",
	"infrastructure as a service", "iaas",
	"platform as a service", "paas",
	"software as a service", "saas",
	"virtual machines", "vm", "virtualization",
	"backup", "disaster recovery",
	"cloud security", "cybersecurity",

	// Sales and go-to-market
	"enterprise sales", "b2b sales",
	"inside sales", "channel sales",
	"account management", "key account management",
	"territory management",
	"business development",
	"demand generation", "lead generation",
	"pipeline management",
	"solution selling", "consultative selling",
	"presales",

	// Tools
	"linkedin sales navigator", "lusha",
	"salesforce", "hubspot", "crm",
}

// canonicalSkills maps long-form platform names to their canonical short form.
var canonicalSkills = map[string]string{
	"amazon web services": "aws",
	"microsoft azure":     "azure",
	"google cloud":        "gcp",
}
