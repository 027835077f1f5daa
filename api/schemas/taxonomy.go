package schemas

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownTaxonomy is returned when a stored category string does not map to a known constant.
var ErrUnknownTaxonomy = errors.New("unknown taxonomy value")

// -- Audit Operations --

// AuditOperation is the operation tag of a security audit log entry.
type AuditOperation string

// Constants for the audit operations the reporting engine understands.
const (
	OpSecurityScan          AuditOperation = "security_scan"           // A security scan was executed.
	OpIssueDetected         AuditOperation = "issue_detected"          // A scan detected a new issue.
	OpIssueResolved         AuditOperation = "issue_resolved"          // A previously detected issue was resolved.
	OpWeeklyReportGenerated AuditOperation = "weekly_report_generated" // A weekly report was persisted.
)

var auditOperations = map[string]AuditOperation{
	string(OpSecurityScan):          OpSecurityScan,
	string(OpIssueDetected):         OpIssueDetected,
	string(OpIssueResolved):         OpIssueResolved,
	string(OpWeeklyReportGenerated): OpWeeklyReportGenerated,
}

// ParseAuditOperation maps a stored operation string to its constant.
func ParseAuditOperation(s string) (AuditOperation, error) {
	if op, ok := auditOperations[strings.ToLower(strings.TrimSpace(s))]; ok {
		return op, nil
	}
	return "", fmt.Errorf("%w: audit operation %q", ErrUnknownTaxonomy, s)
}

// -- Security Events --

// EventType classifies a security event.
type EventType string

// Constants for the security event types.
const (
	EventVulnerabilityDetected EventType = "vulnerability_detected"
	EventBlockedAttempt        EventType = "blocked_attempt"
	EventSuspiciousLogin       EventType = "suspicious_login"
)

var eventTypes = map[string]EventType{
	string(EventVulnerabilityDetected): EventVulnerabilityDetected,
	string(EventBlockedAttempt):        EventBlockedAttempt,
	string(EventSuspiciousLogin):       EventSuspiciousLogin,
}

// ParseEventType maps a stored event type string to its constant.
func ParseEventType(s string) (EventType, error) {
	if et, ok := eventTypes[strings.ToLower(strings.TrimSpace(s))]; ok {
		return et, nil
	}
	return "", fmt.Errorf("%w: event type %q", ErrUnknownTaxonomy, s)
}

// IsBlocked reports whether the event counts as a blocked intrusion attempt.
func (e EventType) IsBlocked() bool {
	return e == EventBlockedAttempt || e == EventSuspiciousLogin
}

// Severity is the severity level of a security event.
type Severity string

// Constants for the event severity levels, lowest first.
const (
	SeverityLow     Severity = "low"
	SeverityMedium  Severity = "medium"
	SeverityHigh    Severity = "high"
	SeverityMaximum Severity = "maximum"
)

var severities = map[string]Severity{
	string(SeverityLow):     SeverityLow,
	string(SeverityMedium):  SeverityMedium,
	string(SeverityHigh):    SeverityHigh,
	string(SeverityMaximum): SeverityMaximum,
}

// ParseSeverity maps a stored severity string to its constant.
func ParseSeverity(s string) (Severity, error) {
	if sev, ok := severities[strings.ToLower(strings.TrimSpace(s))]; ok {
		return sev, nil
	}
	return "", fmt.Errorf("%w: severity %q", ErrUnknownTaxonomy, s)
}

// Qualifies reports whether the severity is high enough to count as suspicious activity.
func (s Severity) Qualifies() bool {
	return s == SeverityHigh || s == SeverityMaximum
}

// SecurityEvent is a single row from the security event log.
type SecurityEvent struct {
	ID         string    `json:"id"`
	Type       EventType `json:"event_type"`
	Severity   Severity  `json:"severity"`
	IPAddress  string    `json:"ip_address,omitempty"` // Empty when the event carries no source address.
	OccurredAt time.Time `json:"occurred_at"`
}

// -- Performance Statistics --

// QueryStats summarizes logged query executions for a window.
type QueryStats struct {
	AvgExecutionMs float64 `json:"avg_execution_ms"`
	SlowQueries    int     `json:"slow_queries"`
}

// TableScanStats holds cumulative scan counters for one table.
type TableScanStats struct {
	Table      string `json:"table"`
	IndexScans int64  `json:"index_scans"`
	SeqScans   int64  `json:"seq_scans"`
}
