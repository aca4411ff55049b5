package ai

// Provenance tags which scoring path produced an assessment.
type Provenance string

const (
	// ProvenancePrimary marks an assessment returned by the inference provider.
	ProvenancePrimary Provenance = "primary"
	// ProvenanceFallback marks an assessment computed by the local heuristic.
	ProvenanceFallback Provenance = "fallback"
)

// Outcome wraps a fit assessment with its provenance, so callers and audit
// records can distinguish a provider verdict from a heuristic one without
// inspecting side channels. Reason is set only on the fallback path and names
// the primary-path failure that triggered it.
type Outcome struct {
	Assessment *FitAssessment
	Provenance Provenance
	Reason     string
}
