package domain

import "fmt"

type Provenance string

const (
	ProvenancePrimary   Provenance = "primary"
	ProvenanceSecondary Provenance = "secondary"
	ProvenanceSynthetic Provenance = "synthetic"
)

// ProvenanceAt names the tier of the i-th configured provider.
func ProvenanceAt(i int) Provenance {
	switch i {
	case 0:
		return ProvenancePrimary
	case 1:
		return ProvenanceSecondary
	default:
		return Provenance(fmt.Sprintf("fallback_%d", i))
	}
}
