package advisor

import (
	"fmt"
	"strings"

	"github.com/xkilldash9x/secreport/api/schemas"
)

// Action item text. Templated items carry a live count or list.
const (
	ActionPatchVulnerabilitiesFmt = "Review and patch %d new vulnerabilities"
	ActionInvestigateSuspicious   = "Investigate suspicious activity and update access policies"
	ActionComplianceRemediation   = "Immediate compliance remediation required"
	ActionGeographicThreatsPrefix = "Review geographic threats from: "

	ActionScheduleScan   = "Schedule the next security scan within 24 hours"
	ActionReviewPolicies = "Review and update security policies"
	ActionVerifyBackups  = "Verify backup and recovery procedures"
)

const (
	suspiciousActivityCeiling = 5
	remediationFloor          = 70
)

// Baseline returns the recurring tasks appended to every report.
func Baseline() []string {
	return []string{ActionScheduleScan, ActionReviewPolicies, ActionVerifyBackups}
}

// ActionItems builds the conditional follow-ups followed by the baseline
// tasks. The result always holds at least the three baseline items.
func ActionItems(sec schemas.SecuritySummary, threats schemas.ThreatIntelligence) []string {
	items := make([]string, 0, 7)

	if threats.NewVulnerabilities > 0 {
		items = append(items, fmt.Sprintf(ActionPatchVulnerabilitiesFmt, threats.NewVulnerabilities))
	}
	if threats.SuspiciousActivities > suspiciousActivityCeiling {
		items = append(items, ActionInvestigateSuspicious)
	}
	if sec.ComplianceScoreAvg < remediationFloor {
		items = append(items, ActionComplianceRemediation)
	}
	if len(threats.GeographicThreats) > 0 {
		items = append(items, ActionGeographicThreatsPrefix+strings.Join(threats.GeographicThreats, ", "))
	}

	return append(items, Baseline()...)
}
