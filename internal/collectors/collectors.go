// Package collectors gathers the raw telemetry of a reporting window and
// reduces it to report summaries. Every collector degrades to a documented
// default summary when its data source fails, so a report can always be
// assembled.
package collectors

import (
	"github.com/xkilldash9x/secreport/api/schemas"
	"github.com/xkilldash9x/secreport/internal/posture"
)

// Collector names, used for logger names and the collector metric label.
const (
	NameSecurity    = "security"
	NameCompliance  = "compliance"
	NamePerformance = "performance"
	NameThreat      = "threat"
)

// Compliance is the score half of a SecuritySummary. It is collected on its
// own so that a failing score history does not discard audit counts.
type Compliance struct {
	ScoreAvg int
	Trend    schemas.Trend
}

// DefaultSecuritySummary is returned when audit counts cannot be collected.
func DefaultSecuritySummary() schemas.SecuritySummary {
	d := DefaultCompliance()
	return schemas.SecuritySummary{
		ComplianceScoreAvg: d.ScoreAvg,
		ComplianceTrend:    d.Trend,
	}
}

// DefaultCompliance is the neutral score used when history is unavailable.
func DefaultCompliance() Compliance {
	return Compliance{ScoreAvg: int(posture.NeutralScore), Trend: schemas.TrendStable}
}

// DefaultPerformanceSummary is returned when performance data cannot be collected.
func DefaultPerformanceSummary() schemas.PerformanceSummary {
	return schemas.PerformanceSummary{IndexUsageEfficiencyPct: 100}
}

// DefaultThreatIntelligence is returned when security events cannot be collected.
func DefaultThreatIntelligence() schemas.ThreatIntelligence {
	return schemas.ThreatIntelligence{GeographicThreats: []string{}}
}
