package schemas

import (
	"context"
	"errors"
	"time"
)

// ErrReportNotFound is returned by a ReportStore when no report has the requested ID.
var ErrReportNotFound = errors.New("report not found")

// -- Audit / Event Store Interfaces --

// AuditLog provides counts of security audit activity.
type AuditLog interface {
	// CountAuditOperations returns the number of audit entries per operation
	// recorded inside the window. Operations with no entries may be absent.
	CountAuditOperations(ctx context.Context, window ReportWindow) (map[AuditOperation]int, error)
}

// ScoreHistory provides the compliance score samples recorded over time.
type ScoreHistory interface {
	// ComplianceScores returns the 0-100 score samples recorded inside the window, oldest first.
	ComplianceScores(ctx context.Context, window ReportWindow) ([]float64, error)
}

// QueryStatsSource provides database query performance statistics.
type QueryStatsSource interface {
	// QueryStats returns the average execution time of logged queries inside
	// the window and the number slower than slowThreshold.
	QueryStats(ctx context.Context, window ReportWindow, slowThreshold time.Duration) (QueryStats, error)
	// IndexUsage returns scan counters for the given tables, or all tables when none are given.
	IndexUsage(ctx context.Context, tables []string) ([]TableScanStats, error)
}

// StorageSnapshots provides current and historical storage sizes.
type StorageSnapshots interface {
	// CurrentStorageSize returns the current total storage size in bytes.
	CurrentStorageSize(ctx context.Context) (int64, error)
	// StorageSnapshot returns the most recent recorded size at or before asOf,
	// or zero when no snapshot exists.
	StorageSnapshot(ctx context.Context, asOf time.Time) (int64, error)
}

// EventLog provides security events.
type EventLog interface {
	// SecurityEvents returns the events recorded inside the window, oldest first.
	SecurityEvents(ctx context.Context, window ReportWindow) ([]SecurityEvent, error)
}

// RegionResolver maps a source IP address to a geographic region label.
// Implementations return false when the address cannot be resolved.
type RegionResolver interface {
	ResolveRegion(ctx context.Context, ip string) (string, bool)
}

// -- Directory, Notification and Report Store Interfaces --

// UserDirectory looks up user identities by role.
type UserDirectory interface {
	// Administrators returns the identifiers of every user holding the administrator role.
	Administrators(ctx context.Context) ([]string, error)
}

// NotificationSink persists or delivers a single notification.
type NotificationSink interface {
	SendNotification(ctx context.Context, n Notification) error
}

// ReportStore persists finished reports and retrieves them by ID.
type ReportStore interface {
	SaveReport(ctx context.Context, report *Report) error
	// GetReport returns ErrReportNotFound when the ID is unknown.
	GetReport(ctx context.Context, id string) (*Report, error)
}
