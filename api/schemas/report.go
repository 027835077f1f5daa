package schemas

import (
	"errors"
	"fmt"
	"time"
)

// -- Report Schemas --

// Trend describes the direction a metric moved between two adjacent windows.
type Trend string

// Constants for the trend directions.
const (
	TrendImproving Trend = "improving" // Current window is better than the previous one.
	TrendStable    Trend = "stable"    // Difference stayed inside the deadband.
	TrendDeclining Trend = "declining" // Current window is worse than the previous one.
)

// ComplianceStatus is the tri-state classification of the aggregate compliance score.
type ComplianceStatus string

// Constants for the compliance classifications.
const (
	StatusCompliant    ComplianceStatus = "compliant"
	StatusWarning      ComplianceStatus = "warning"
	StatusNonCompliant ComplianceStatus = "non-compliant"
)

// ErrInvalidWindow is returned when a window does not satisfy start < end.
var ErrInvalidWindow = errors.New("invalid report window")

// ReportWindow is the half-open time range [Start, End) a report aggregates over.
type ReportWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewTrailingWindow returns the window of the given length that ends at end.
func NewTrailingWindow(end time.Time, length time.Duration) ReportWindow {
	return ReportWindow{Start: end.Add(-length), End: end}
}

// Duration returns the length of the window.
func (w ReportWindow) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Previous returns the window of equal length that immediately precedes w.
func (w ReportWindow) Previous() ReportWindow {
	return ReportWindow{Start: w.Start.Add(-w.Duration()), End: w.Start}
}

// Validate checks the start < end invariant.
func (w ReportWindow) Validate() error {
	if !w.Start.Before(w.End) {
		return fmt.Errorf("%w: start %s is not before end %s", ErrInvalidWindow,
			w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
	}
	return nil
}

// SecuritySummary aggregates audit activity and compliance posture for a window.
type SecuritySummary struct {
	TotalScans         int   `json:"totalScans"`
	IssuesDetected     int   `json:"issuesDetected"`
	IssuesResolved     int   `json:"issuesResolved"`
	ComplianceScoreAvg int   `json:"complianceScoreAvg"` // 0-100
	ComplianceTrend    Trend `json:"complianceTrend"`
}

// PerformanceSummary aggregates database query and storage health for a window.
type PerformanceSummary struct {
	AvgQueryTimeMs          int     `json:"avgQueryTimeMs"`
	SlowQueryCount          int     `json:"slowQueryCount"`
	IndexUsageEfficiencyPct int     `json:"indexUsageEfficiencyPct"` // 0-100
	StorageGrowthPct        float64 `json:"storageGrowthPct"`
}

// ThreatIntelligence aggregates security events observed during a window.
type ThreatIntelligence struct {
	NewVulnerabilities   int `json:"newVulnerabilities"`
	BlockedAttempts      int `json:"blockedAttempts"`
	SuspiciousActivities int `json:"suspiciousActivities"`
	// GeographicThreats is deduplicated and keeps first-seen order.
	GeographicThreats []string `json:"geographicThreats"`
}

// Report is the assembled weekly security report. It is built once by the
// results pipeline and must not be modified afterwards; a new run produces a
// new Report with a new ID.
type Report struct {
	ID              string             `json:"id"`
	Window          ReportWindow       `json:"window"`
	Security        SecuritySummary    `json:"security"`
	Performance     PerformanceSummary `json:"performance"`
	Threats         ThreatIntelligence `json:"threats"`
	Recommendations []string           `json:"recommendations"`
	ActionItems     []string           `json:"actionItems"`
	Status          ComplianceStatus   `json:"status"`
	GeneratedAt     time.Time          `json:"generatedAt"`
}

// -- Notification Schemas --

// NotificationCategory is the literal category downstream UIs route report notifications by.
const NotificationCategory = "security_report"

// Notification is a single message addressed to one recipient.
type Notification struct {
	RecipientID string `json:"recipientId"`
	Title       string `json:"title"`
	Body        string `json:"body"`
	Category    string `json:"category"`
	DeepLink    string `json:"deepLink"`
}
