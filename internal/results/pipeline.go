// File: internal/results/pipeline.go
package results

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/secreport/api/schemas"
	"github.com/xkilldash9x/secreport/internal/advisor"
	"github.com/xkilldash9x/secreport/internal/collectors"
	"github.com/xkilldash9x/secreport/internal/observability"
	"github.com/xkilldash9x/secreport/internal/posture"
)

// DefaultWindow is the length of the trailing reporting window.
const DefaultWindow = 7 * 24 * time.Hour

// ErrAssembly wraps failures that prevent a report from being assembled at all.
var ErrAssembly = errors.New("report assembly failed")

// SecuritySource produces audit counts for a window.
type SecuritySource interface {
	Collect(ctx context.Context, window schemas.ReportWindow) (schemas.SecuritySummary, error)
}

// ComplianceSource produces the compliance score and trend for a window.
type ComplianceSource interface {
	Collect(ctx context.Context, window schemas.ReportWindow) (collectors.Compliance, error)
}

// PerformanceSource produces the performance summary for a window.
type PerformanceSource interface {
	Collect(ctx context.Context, window schemas.ReportWindow) (schemas.PerformanceSummary, error)
}

// ThreatSource produces threat intelligence for a window.
type ThreatSource interface {
	Collect(ctx context.Context, window schemas.ReportWindow) (schemas.ThreatIntelligence, error)
}

// Sources groups the four collectors a Pipeline fans out to.
type Sources struct {
	Security    SecuritySource
	Compliance  ComplianceSource
	Performance PerformanceSource
	Threat      ThreatSource
}

// Pipeline assembles reports from the collectors, the compliance classifier
// and the advisor rule tables.
type Pipeline struct {
	sources Sources
	window  time.Duration
	metrics *observability.Metrics
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock replaces the wall clock used to place the window.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithIDGenerator replaces the report ID generator.
func WithIDGenerator(newID func() string) Option {
	return func(p *Pipeline) { p.newID = newID }
}

// WithMetrics records run metrics on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

// NewPipeline creates a report pipeline over a trailing window of the given length.
func NewPipeline(sources Sources, window time.Duration, logger *zap.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		sources: sources,
		window:  window,
		logger:  logger.Named("results_pipeline"),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Generate collects every domain concurrently and assembles a new Report for
// the window ending now. Collector failures degrade to default summaries and
// never fail the run; only an unusable window configuration does.
func (p *Pipeline) Generate(ctx context.Context) (*schemas.Report, error) {
	started := time.Now()
	end := p.now().UTC()
	window := schemas.NewTrailingWindow(end, p.window)
	if err := window.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAssembly, err)
	}

	p.logger.Info("Starting report generation",
		zap.Time("window_start", window.Start),
		zap.Time("window_end", window.End))

	var (
		sec     schemas.SecuritySummary
		comp    collectors.Compliance
		perf    schemas.PerformanceSummary
		threats schemas.ThreatIntelligence
	)

	// A plain Group has no shared context, so one failing collector never
	// cancels the others. Each closure returns nil after recording its failure.
	var g errgroup.Group
	g.Go(func() error {
		var err error
		sec, err = p.sources.Security.Collect(ctx, window)
		p.recordFailure(collectors.NameSecurity, err)
		return nil
	})
	g.Go(func() error {
		var err error
		comp, err = p.sources.Compliance.Collect(ctx, window)
		p.recordFailure(collectors.NameCompliance, err)
		return nil
	})
	g.Go(func() error {
		var err error
		perf, err = p.sources.Performance.Collect(ctx, window)
		p.recordFailure(collectors.NamePerformance, err)
		return nil
	})
	g.Go(func() error {
		var err error
		threats, err = p.sources.Threat.Collect(ctx, window)
		p.recordFailure(collectors.NameThreat, err)
		return nil
	})
	_ = g.Wait()

	sec.ComplianceScoreAvg = comp.ScoreAvg
	sec.ComplianceTrend = comp.Trend
	if threats.GeographicThreats == nil {
		threats.GeographicThreats = []string{}
	}

	report := &schemas.Report{
		ID:              p.newID(),
		Window:          window,
		Security:        sec,
		Performance:     perf,
		Threats:         threats,
		Recommendations: advisor.Recommendations(sec, perf),
		ActionItems:     advisor.ActionItems(sec, threats),
		Status:          posture.Classify(sec.ComplianceScoreAvg),
		GeneratedAt:     end,
	}

	p.metrics.ObserveReport(string(report.Status), sec.ComplianceScoreAvg, time.Since(started))
	p.logger.Info("Report generation complete",
		zap.String("report_id", report.ID),
		zap.String("status", string(report.Status)),
		zap.Int("compliance_score", sec.ComplianceScoreAvg))
	return report, nil
}

func (p *Pipeline) recordFailure(collector string, err error) {
	if err == nil {
		return
	}
	p.metrics.CollectorFailed(collector)
	p.logger.Warn("Collector degraded to defaults",
		zap.String("collector", collector),
		zap.Error(err))
}
