package posture

import "github.com/xkilldash9x/secreport/api/schemas"

// Compliance thresholds, inclusive lower bounds.
const (
	CompliantThreshold = 90
	WarningThreshold   = 70
)

// Classify maps an aggregate compliance score to its status.
func Classify(score int) schemas.ComplianceStatus {
	switch {
	case score >= CompliantThreshold:
		return schemas.StatusCompliant
	case score >= WarningThreshold:
		return schemas.StatusWarning
	default:
		return schemas.StatusNonCompliant
	}
}
