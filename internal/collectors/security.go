package collectors

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/secreport/api/schemas"
	"github.com/xkilldash9x/secreport/internal/posture"
)

// SecurityCollector counts audit activity inside a window.
type SecurityCollector struct {
	audit  schemas.AuditLog
	logger *zap.Logger
}

// NewSecurityCollector creates a collector backed by the given audit log.
func NewSecurityCollector(audit schemas.AuditLog, logger *zap.Logger) *SecurityCollector {
	return &SecurityCollector{
		audit:  audit,
		logger: logger.Named(NameSecurity + "_collector"),
	}
}

// Collect counts scans, detected issues and resolved issues. The compliance
// fields carry the neutral default; ComplianceCollector fills them in.
func (c *SecurityCollector) Collect(ctx context.Context, window schemas.ReportWindow) (schemas.SecuritySummary, error) {
	counts, err := c.audit.CountAuditOperations(ctx, window)
	if err != nil {
		c.logger.Warn("Falling back to default security summary", zap.Error(err))
		return DefaultSecuritySummary(), fmt.Errorf("counting audit operations: %w", err)
	}

	summary := DefaultSecuritySummary()
	summary.TotalScans = counts[schemas.OpSecurityScan]
	summary.IssuesDetected = counts[schemas.OpIssueDetected]
	summary.IssuesResolved = counts[schemas.OpIssueResolved]

	c.logger.Debug("Collected audit counts",
		zap.Int("scans", summary.TotalScans),
		zap.Int("detected", summary.IssuesDetected),
		zap.Int("resolved", summary.IssuesResolved))
	return summary, nil
}

// ComplianceCollector averages compliance scores and derives their trend
// against the preceding window.
type ComplianceCollector struct {
	history  schemas.ScoreHistory
	analyzer posture.TrendAnalyzer
	logger   *zap.Logger
}

// NewComplianceCollector creates a collector backed by the given score history.
func NewComplianceCollector(history schemas.ScoreHistory, analyzer posture.TrendAnalyzer, logger *zap.Logger) *ComplianceCollector {
	return &ComplianceCollector{
		history:  history,
		analyzer: analyzer,
		logger:   logger.Named(NameCompliance + "_collector"),
	}
}

// Collect fetches both windows of score samples and classifies the trend.
func (c *ComplianceCollector) Collect(ctx context.Context, window schemas.ReportWindow) (Compliance, error) {
	current, err := c.history.ComplianceScores(ctx, window)
	if err != nil {
		return c.fail(fmt.Errorf("fetching current compliance scores: %w", err))
	}
	previous, err := c.history.ComplianceScores(ctx, window.Previous())
	if err != nil {
		return c.fail(fmt.Errorf("fetching previous compliance scores: %w", err))
	}

	return Compliance{
		ScoreAvg: posture.RoundScore(posture.Mean(current, c.analyzer.Neutral)),
		Trend:    c.analyzer.Analyze(current, previous),
	}, nil
}

func (c *ComplianceCollector) fail(err error) (Compliance, error) {
	c.logger.Warn("Falling back to neutral compliance score", zap.Error(err))
	return DefaultCompliance(), err
}
