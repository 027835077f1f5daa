package advisor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xkilldash9x/secreport/api/schemas"
)

func perfectSecurity() schemas.SecuritySummary {
	return schemas.SecuritySummary{ComplianceScoreAvg: 100, ComplianceTrend: schemas.TrendStable}
}

func perfectPerformance() schemas.PerformanceSummary {
	return schemas.PerformanceSummary{IndexUsageEfficiencyPct: 100}
}

func TestRecommendations_PerfectSummaryYieldsDefaults(t *testing.T) {
	got := Recommendations(perfectSecurity(), perfectPerformance())
	assert.Equal(t, []string{RecAllClear, RecContinueMonitoring}, got)
}

func TestRecommendations_BacklogRule(t *testing.T) {
	sec := perfectSecurity()
	sec.IssuesDetected = 10
	sec.IssuesResolved = 3

	got := Recommendations(sec, perfectPerformance())
	assert.Contains(t, got, RecIssueBacklog)
	assert.NotContains(t, got, RecAllClear)
}

func TestRecommendations_PerformanceRulesInOrder(t *testing.T) {
	perf := schemas.PerformanceSummary{
		AvgQueryTimeMs:          800,
		IndexUsageEfficiencyPct: 60,
		StorageGrowthPct:        25,
		SlowQueryCount:          15,
	}
	got := Recommendations(perfectSecurity(), perf)
	assert.Equal(t, []string{RecQueryTimeHigh, RecLowIndexUsage, RecHighStorageGrowth, RecMultipleSlowQuery}, got)
}

func TestRecommendations_AllRulesFireInTableOrder(t *testing.T) {
	sec := schemas.SecuritySummary{
		ComplianceScoreAvg: 50,
		ComplianceTrend:    schemas.TrendDeclining,
		IssuesDetected:     4,
		IssuesResolved:     1,
	}
	perf := schemas.PerformanceSummary{
		AvgQueryTimeMs:          501,
		IndexUsageEfficiencyPct: 69,
		StorageGrowthPct:        20.01,
		SlowQueryCount:          11,
	}
	got := Recommendations(sec, perf)
	require.Len(t, got, 7)
	assert.Equal(t, RecImproveCompliance, got[0])
	assert.Equal(t, RecTrendDeclining, got[1])
	assert.Equal(t, RecIssueBacklog, got[2])
	assert.Equal(t, RecMultipleSlowQuery, got[6])
}

func TestRecommendations_ThresholdsAreStrict(t *testing.T) {
	sec := perfectSecurity()
	sec.ComplianceScoreAvg = 80
	sec.IssuesDetected = 3
	sec.IssuesResolved = 3
	perf := schemas.PerformanceSummary{
		AvgQueryTimeMs:          500,
		IndexUsageEfficiencyPct: 70,
		StorageGrowthPct:        20,
		SlowQueryCount:          10,
	}
	assert.Equal(t, []string{RecAllClear, RecContinueMonitoring}, Recommendations(sec, perf))
}

func TestActionItems_BaselineOnly(t *testing.T) {
	got := ActionItems(perfectSecurity(), schemas.ThreatIntelligence{GeographicThreats: []string{}})
	assert.Equal(t, Baseline(), got)
	assert.GreaterOrEqual(t, len(got), 3)
}

func TestActionItems_ComplianceRemediation(t *testing.T) {
	sec := perfectSecurity()
	sec.ComplianceScoreAvg = 65

	got := ActionItems(sec, schemas.ThreatIntelligence{})
	assert.Contains(t, got, ActionComplianceRemediation)
	assert.Equal(t, Baseline(), got[len(got)-3:], "baseline always trails")
}

func TestActionItems_GeographicThreatsJoinedInOrder(t *testing.T) {
	threats := schemas.ThreatIntelligence{GeographicThreats: []string{"RegionX", "RegionY"}}

	got := ActionItems(perfectSecurity(), threats)

	var geo []string
	for _, item := range got {
		if strings.HasPrefix(item, ActionGeographicThreatsPrefix) {
			geo = append(geo, item)
		}
	}
	require.Len(t, geo, 1)
	assert.Equal(t, "Review geographic threats from: RegionX, RegionY", geo[0])
}

func TestActionItems_AllConditionals(t *testing.T) {
	sec := schemas.SecuritySummary{ComplianceScoreAvg: 10}
	threats := schemas.ThreatIntelligence{
		NewVulnerabilities:   4,
		SuspiciousActivities: 6,
		GeographicThreats:    []string{"US"},
	}

	got := ActionItems(sec, threats)
	require.Len(t, got, 7)
	assert.Equal(t, "Review and patch 4 new vulnerabilities", got[0])
	assert.Equal(t, ActionInvestigateSuspicious, got[1])
	assert.Equal(t, ActionComplianceRemediation, got[2])
	assert.Equal(t, "Review geographic threats from: US", got[3])
}

func TestActionItems_SuspiciousThresholdIsStrict(t *testing.T) {
	got := ActionItems(perfectSecurity(), schemas.ThreatIntelligence{SuspiciousActivities: 5})
	assert.NotContains(t, got, ActionInvestigateSuspicious)
}
