package collectors

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/secreport/api/schemas"
)

// ThreatCollector summarizes the security events of a window.
type ThreatCollector struct {
	events   schemas.EventLog
	resolver schemas.RegionResolver
	logger   *zap.Logger
}

// NewThreatCollector creates a collector. resolver may be nil, in which case
// no geographic threats are reported.
func NewThreatCollector(events schemas.EventLog, resolver schemas.RegionResolver, logger *zap.Logger) *ThreatCollector {
	return &ThreatCollector{
		events:   events,
		resolver: resolver,
		logger:   logger.Named(NameThreat + "_collector"),
	}
}

// Collect counts events by type and severity and resolves the regions of
// high severity events that carry a source address.
func (c *ThreatCollector) Collect(ctx context.Context, window schemas.ReportWindow) (schemas.ThreatIntelligence, error) {
	events, err := c.events.SecurityEvents(ctx, window)
	if err != nil {
		c.logger.Warn("Falling back to default threat intelligence", zap.Error(err))
		return DefaultThreatIntelligence(), fmt.Errorf("fetching security events: %w", err)
	}

	ti := DefaultThreatIntelligence()
	seen := make(map[string]struct{})
	for _, ev := range events {
		if ev.Type == schemas.EventVulnerabilityDetected {
			ti.NewVulnerabilities++
		}
		if ev.Type.IsBlocked() {
			ti.BlockedAttempts++
		}
		if !ev.Severity.Qualifies() {
			continue
		}
		ti.SuspiciousActivities++

		if c.resolver == nil || ev.IPAddress == "" {
			continue
		}
		region, ok := c.resolver.ResolveRegion(ctx, ev.IPAddress)
		if !ok || region == "" {
			continue
		}
		if _, dup := seen[region]; dup {
			continue
		}
		seen[region] = struct{}{}
		ti.GeographicThreats = append(ti.GeographicThreats, region)
	}

	c.logger.Debug("Collected threat intelligence",
		zap.Int("events", len(events)),
		zap.Int("regions", len(ti.GeographicThreats)))
	return ti, nil
}
