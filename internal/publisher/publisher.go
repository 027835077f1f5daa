// Package publisher persists finished reports and notifies administrators.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/secreport/api/schemas"
	"github.com/xkilldash9x/secreport/internal/observability"
)

// DefaultLinkBase prefixes the report ID in notification deep links.
const DefaultLinkBase = "/admin/reports"

// Archiver keeps an external copy of a report and returns where it went.
type Archiver interface {
	Archive(ctx context.Context, report *schemas.Report) (string, error)
}

// Options tunes notification fan-out.
type Options struct {
	// LinkBase prefixes the report ID in deep links.
	LinkBase string
	// Concurrency caps in-flight notifications. Zero or less means 1.
	Concurrency int
	// RatePerSecond paces notifications. Zero or less disables pacing.
	RatePerSecond float64
	// Archiver is optional.
	Archiver Archiver
}

// Result summarizes a publish run.
type Result struct {
	ReportID   string `json:"reportId"`
	Persisted  bool   `json:"persisted"`
	ArchiveURI string `json:"archiveUri,omitempty"`
	Recipients int    `json:"recipients"`
	Delivered  int    `json:"delivered"`
	Failed     int    `json:"failed"`
}

// Publisher writes a report to the report store and fans out one
// notification per administrator.
type Publisher struct {
	store     schemas.ReportStore
	directory schemas.UserDirectory
	sink      schemas.NotificationSink
	opts      Options
	limiter   *rate.Limiter
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// New creates a Publisher. metrics may be nil.
func New(store schemas.ReportStore, directory schemas.UserDirectory, sink schemas.NotificationSink, opts Options, metrics *observability.Metrics, logger *zap.Logger) *Publisher {
	if opts.LinkBase == "" {
		opts.LinkBase = DefaultLinkBase
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1)
	}
	return &Publisher{
		store:     store,
		directory: directory,
		sink:      sink,
		opts:      opts,
		limiter:   limiter,
		metrics:   metrics,
		logger:    logger.Named("publisher"),
	}
}

// Publish persists and archives the report and then notifies every
// administrator. Persistence and archive failures do not stop notifications.
// Per-recipient delivery failures are logged and counted in the Result and
// are not returned. The returned error joins persistence, archive and
// directory lookup failures.
func (p *Publisher) Publish(ctx context.Context, report *schemas.Report) (Result, error) {
	res := Result{ReportID: report.ID}
	var errs []error

	if err := p.store.SaveReport(ctx, report); err != nil {
		p.metrics.PersistFailed()
		p.logger.Error("Failed to persist report", zap.String("report_id", report.ID), zap.Error(err))
		errs = append(errs, fmt.Errorf("persisting report %s: %w", report.ID, err))
	} else {
		res.Persisted = true
	}

	if p.opts.Archiver != nil {
		uri, err := p.opts.Archiver.Archive(ctx, report)
		if err != nil {
			p.metrics.ArchiveFailed()
			p.logger.Error("Failed to archive report", zap.String("report_id", report.ID), zap.Error(err))
			errs = append(errs, fmt.Errorf("archiving report %s: %w", report.ID, err))
		} else {
			res.ArchiveURI = uri
		}
	}

	admins, err := p.directory.Administrators(ctx)
	if err != nil {
		p.logger.Error("Failed to look up administrators", zap.Error(err))
		errs = append(errs, fmt.Errorf("looking up administrators: %w", err))
		return res, errors.Join(errs...)
	}
	res.Recipients = len(admins)

	base := p.notificationFor(report)
	var delivered, failed atomic.Int64

	// Each goroutine returns nil so one failed recipient never cancels the rest.
	var g errgroup.Group
	g.SetLimit(p.opts.Concurrency)
	for _, admin := range admins {
		g.Go(func() error {
			n := base
			n.RecipientID = admin
			if err := p.deliver(ctx, n); err != nil {
				failed.Add(1)
				p.metrics.NotificationResult(observability.DeliveryFailed)
				p.logger.Warn("Failed to notify administrator",
					zap.String("recipient", admin),
					zap.String("report_id", report.ID),
					zap.Error(err))
				return nil
			}
			delivered.Add(1)
			p.metrics.NotificationResult(observability.DeliveryDelivered)
			return nil
		})
	}
	_ = g.Wait()

	res.Delivered = int(delivered.Load())
	res.Failed = int(failed.Load())
	p.logger.Info("Report published",
		zap.String("report_id", report.ID),
		zap.Bool("persisted", res.Persisted),
		zap.Int("delivered", res.Delivered),
		zap.Int("failed", res.Failed))
	return res, errors.Join(errs...)
}

func (p *Publisher) deliver(ctx context.Context, n schemas.Notification) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for send slot: %w", err)
	}
	return p.sink.SendNotification(ctx, n)
}

// notificationFor builds the recipient-independent part of a notification.
func (p *Publisher) notificationFor(report *schemas.Report) schemas.Notification {
	return schemas.Notification{
		Title:    Title(report.Status),
		Body:     Body(report),
		Category: schemas.NotificationCategory,
		DeepLink: strings.TrimRight(p.opts.LinkBase, "/") + "/" + report.ID,
	}
}

// Title is the notification title for a report status.
func Title(status schemas.ComplianceStatus) string {
	return "Weekly Security Report: " + strings.ToUpper(string(status))
}

// Body carries the headline numbers of a report.
func Body(report *schemas.Report) string {
	return fmt.Sprintf("Compliance Score: %d%%, Issues: %d detected, %d resolved, Slow Queries: %d",
		report.Security.ComplianceScoreAvg,
		report.Security.IssuesDetected,
		report.Security.IssuesResolved,
		report.Performance.SlowQueryCount)
}
