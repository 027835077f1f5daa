package collectors

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/secreport/api/schemas"
)

// DefaultSlowQueryThreshold marks a logged query as slow.
const DefaultSlowQueryThreshold = time.Second

// PerformanceCollector summarizes query latency, index usage and storage growth.
type PerformanceCollector struct {
	queries       schemas.QueryStatsSource
	storage       schemas.StorageSnapshots
	slowThreshold time.Duration
	tables        []string
	logger        *zap.Logger
}

// NewPerformanceCollector creates a collector. An empty tables list tracks every table.
func NewPerformanceCollector(queries schemas.QueryStatsSource, storage schemas.StorageSnapshots, slowThreshold time.Duration, tables []string, logger *zap.Logger) *PerformanceCollector {
	if slowThreshold <= 0 {
		slowThreshold = DefaultSlowQueryThreshold
	}
	return &PerformanceCollector{
		queries:       queries,
		storage:       storage,
		slowThreshold: slowThreshold,
		tables:        tables,
		logger:        logger.Named(NamePerformance + "_collector"),
	}
}

// Collect returns the default summary if any of the three sources fails.
func (c *PerformanceCollector) Collect(ctx context.Context, window schemas.ReportWindow) (schemas.PerformanceSummary, error) {
	stats, err := c.queries.QueryStats(ctx, window, c.slowThreshold)
	if err != nil {
		return c.fail(fmt.Errorf("fetching query stats: %w", err))
	}

	scans, err := c.queries.IndexUsage(ctx, c.tables)
	if err != nil {
		return c.fail(fmt.Errorf("fetching index usage: %w", err))
	}

	current, err := c.storage.CurrentStorageSize(ctx)
	if err != nil {
		return c.fail(fmt.Errorf("fetching current storage size: %w", err))
	}
	prior, err := c.storage.StorageSnapshot(ctx, window.Start)
	if err != nil {
		return c.fail(fmt.Errorf("fetching storage snapshot: %w", err))
	}

	return schemas.PerformanceSummary{
		AvgQueryTimeMs:          int(math.Round(stats.AvgExecutionMs)),
		SlowQueryCount:          stats.SlowQueries,
		IndexUsageEfficiencyPct: IndexEfficiency(scans),
		StorageGrowthPct:        StorageGrowth(current, prior),
	}, nil
}

func (c *PerformanceCollector) fail(err error) (schemas.PerformanceSummary, error) {
	c.logger.Warn("Falling back to default performance summary", zap.Error(err))
	return DefaultPerformanceSummary(), err
}

// IndexEfficiency is the share of index scans over all scans as a rounded
// percentage, or 100 when no scans were recorded.
func IndexEfficiency(scans []schemas.TableScanStats) int {
	var idx, total int64
	for _, s := range scans {
		idx += s.IndexScans
		total += s.IndexScans + s.SeqScans
	}
	if total <= 0 {
		return 100
	}
	return int(math.Round(float64(idx) / float64(total) * 100))
}

// StorageGrowth is the percentage change from prior to current rounded to
// two decimals, or 0 when there is no usable prior size.
func StorageGrowth(current, prior int64) float64 {
	if prior <= 0 {
		return 0
	}
	pct := float64(current-prior) / float64(prior) * 100
	return math.Round(pct*100) / 100
}
