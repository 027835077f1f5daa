// Package advisor turns assembled summaries into the advisory text of a
// report: recommendations derived from threshold rules and the follow-up
// action items operators are expected to complete.
package advisor

import (
	"github.com/xkilldash9x/secreport/api/schemas"
)

// Recommendation messages, in rule table order.
const (
	RecImproveCompliance  = "CRITICAL: Improve compliance score, the weekly average is below 80%"
	RecTrendDeclining     = "WARNING: Compliance trend is declining, immediate review required"
	RecIssueBacklog       = "WARNING: Issue backlog growing, detected issues exceed resolved issues"
	RecQueryTimeHigh      = "Average query time is high, review slow queries"
	RecLowIndexUsage      = "Low index usage detected, review queries and indexes"
	RecHighStorageGrowth  = "High storage growth detected, consider archiving old data"
	RecMultipleSlowQuery  = "Multiple slow queries detected, optimization needed"
	RecAllClear           = "All security and performance metrics are within acceptable ranges"
	RecContinueMonitoring = "Continue regular monitoring and maintenance schedules"
)

// Rule thresholds.
const (
	complianceFloor      = 80
	queryTimeCeilingMs   = 500
	indexEfficiencyFloor = 70
	storageGrowthCeiling = 20.0
	slowQueryCeiling     = 10
)

type recommendationRule struct {
	message string
	fires   func(schemas.SecuritySummary, schemas.PerformanceSummary) bool
}

// recommendationRules is evaluated in order and every rule is independent.
var recommendationRules = []recommendationRule{
	{RecImproveCompliance, func(s schemas.SecuritySummary, _ schemas.PerformanceSummary) bool {
		return s.ComplianceScoreAvg < complianceFloor
	}},
	{RecTrendDeclining, func(s schemas.SecuritySummary, _ schemas.PerformanceSummary) bool {
		return s.ComplianceTrend == schemas.TrendDeclining
	}},
	{RecIssueBacklog, func(s schemas.SecuritySummary, _ schemas.PerformanceSummary) bool {
		return s.IssuesDetected > s.IssuesResolved
	}},
	{RecQueryTimeHigh, func(_ schemas.SecuritySummary, p schemas.PerformanceSummary) bool {
		return p.AvgQueryTimeMs > queryTimeCeilingMs
	}},
	{RecLowIndexUsage, func(_ schemas.SecuritySummary, p schemas.PerformanceSummary) bool {
		return p.IndexUsageEfficiencyPct < indexEfficiencyFloor
	}},
	{RecHighStorageGrowth, func(_ schemas.SecuritySummary, p schemas.PerformanceSummary) bool {
		return p.StorageGrowthPct > storageGrowthCeiling
	}},
	{RecMultipleSlowQuery, func(_ schemas.SecuritySummary, p schemas.PerformanceSummary) bool {
		return p.SlowQueryCount > slowQueryCeiling
	}},
}

// Recommendations returns the messages of every rule that fires, in table
// order. When nothing fires it returns the two all-clear defaults, so the
// result is never empty.
func Recommendations(sec schemas.SecuritySummary, perf schemas.PerformanceSummary) []string {
	var out []string
	for _, rule := range recommendationRules {
		if rule.fires(sec, perf) {
			out = append(out, rule.message)
		}
	}
	if len(out) == 0 {
		return []string{RecAllClear, RecContinueMonitoring}
	}
	return out
}
