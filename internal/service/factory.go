// File: internal/service/factory.go
package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/xkilldash9x/secreport/api/schemas"
	"github.com/xkilldash9x/secreport/internal/archive"
	reportcollectors "github.com/xkilldash9x/secreport/internal/collectors"
	"github.com/xkilldash9x/secreport/internal/config"
	"github.com/xkilldash9x/secreport/internal/geo"
	"github.com/xkilldash9x/secreport/internal/notify"
	"github.com/xkilldash9x/secreport/internal/observability"
	"github.com/xkilldash9x/secreport/internal/posture"
	"github.com/xkilldash9x/secreport/internal/publisher"
	"github.com/xkilldash9x/secreport/internal/results"
	"github.com/xkilldash9x/secreport/internal/store"
)

// ComponentFactory creates the components needed to serve report runs.
type ComponentFactory interface {
	Create(ctx context.Context, cfg config.Interface, logger *zap.Logger) (*Components, error)
}

// concreteFactory is the production implementation of the ComponentFactory.
type concreteFactory struct{}

// NewComponentFactory creates a new production-ready component factory.
func NewComponentFactory() ComponentFactory {
	return &concreteFactory{}
}

// Create opens the database pool and wires every component on top of it.
func (f *concreteFactory) Create(ctx context.Context, cfg config.Interface, logger *zap.Logger) (*Components, error) {
	if cfg.Database().URL == "" {
		return nil, fmt.Errorf("database URL is not configured (hint: check SECREPORT_DATABASE_URL)")
	}

	dbPool, err := pgxpool.New(ctx, cfg.Database().URL)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection pool: %w", err)
	}

	components, err := Assemble(ctx, cfg, dbPool, logger)
	if err != nil {
		dbPool.Close()
		return nil, err
	}
	components.DBPool = dbPool
	logger.Debug("Database connection pool initialized.")
	return components, nil
}

// Assemble wires the store, collectors, pipeline, publisher and service on
// an existing pool. On error every resource opened here is released.
func Assemble(ctx context.Context, cfg config.Interface, pool store.DBPool, logger *zap.Logger) (_ *Components, err error) {
	components := &Components{logger: logger}
	defer func() {
		if err != nil {
			logger.Warn("Initialization failed, shutting down partially created components.", zap.Error(err))
			components.Shutdown()
		}
	}()

	dbStore, err := store.New(ctx, pool, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database store: %w", err)
	}
	components.Store = dbStore

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	components.Registry = registry
	components.Metrics = observability.NewMetrics(registry)

	var resolver schemas.RegionResolver
	if path := cfg.GeoIP().DatabasePath; path != "" {
		r, err := geo.NewResolver(path)
		if err != nil {
			return nil, err
		}
		resolver = r
		components.addCloser("geoip", r.Close)
		logger.Info("GeoIP region resolution enabled.", zap.String("path", path))
	}

	sink, err := newSink(cfg.Notifications(), dbStore, logger)
	if err != nil {
		return nil, err
	}
	if closer, ok := sink.(interface{ Close() error }); ok {
		components.addCloser("notification_sink", closer.Close)
	}
	if breakerCfg := cfg.Notifications().Breaker; breakerCfg.FailureThreshold > 0 {
		sink = notify.NewBreakerSink(sink, breakerCfg, logger)
	}

	reportCfg := cfg.Report()
	collectorsCfg := cfg.Collectors()
	sources := results.Sources{
		Security:    reportcollectors.NewSecurityCollector(dbStore, logger),
		Compliance:  reportcollectors.NewComplianceCollector(dbStore, posture.NewTrendAnalyzer(reportCfg.TrendDeadband), logger),
		Performance: reportcollectors.NewPerformanceCollector(dbStore, dbStore, collectorsCfg.SlowQueryThreshold, collectorsCfg.TrackedTables, logger),
		Threat:      reportcollectors.NewThreatCollector(dbStore, resolver, logger),
	}
	pipeline := results.NewPipeline(sources, reportCfg.Window, logger, results.WithMetrics(components.Metrics))

	notifCfg := cfg.Notifications()
	pubOpts := publisher.Options{
		LinkBase:      reportCfg.LinkBase,
		Concurrency:   notifCfg.Concurrency,
		RatePerSecond: notifCfg.RatePerSecond,
	}
	if archiveCfg := cfg.Archive(); archiveCfg.S3Bucket != "" {
		archiver, err := archive.NewS3Archiver(ctx, archiveCfg, logger)
		if err != nil {
			return nil, err
		}
		pubOpts.Archiver = archiver
		logger.Info("Report archiving enabled.", zap.String("bucket", archiveCfg.S3Bucket))
	}
	pub := publisher.New(dbStore, dbStore, sink, pubOpts, components.Metrics, logger)

	components.Service = New(pipeline, pub, dbStore, reportCfg.Timeout, logger)
	logger.Debug("Report service initialized.")
	return components, nil
}

func newSink(cfg config.NotificationsConfig, dbStore *store.Store, logger *zap.Logger) (schemas.NotificationSink, error) {
	switch cfg.Sink {
	case "", config.SinkPostgres:
		return dbStore, nil
	case config.SinkKafka:
		logger.Info("Publishing notifications to Kafka.", zap.String("topic", cfg.Kafka.Topic))
		return notify.NewKafkaSink(cfg.Kafka, logger), nil
	default:
		return nil, fmt.Errorf("unknown notification sink %q", cfg.Sink)
	}
}
