// File: internal/service/service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/secreport/api/schemas"
	"github.com/xkilldash9x/secreport/internal/publisher"
	"github.com/xkilldash9x/secreport/internal/reporting"
)

// DefaultTimeout bounds a whole run: collection, persistence and notification.
const DefaultTimeout = 2 * time.Minute

// ErrInvalidRequest is returned when a request cannot be served as given.
var ErrInvalidRequest = errors.New("invalid report request")

// Generator assembles a new report.
type Generator interface {
	Generate(ctx context.Context) (*schemas.Report, error)
}

// Publisher persists a report and notifies its recipients.
type Publisher interface {
	Publish(ctx context.Context, report *schemas.Report) (publisher.Result, error)
}

// Request describes one report run.
type Request struct {
	// Format is "json" (default) or "html".
	Format string `json:"format"`
	// EmailReport is accepted for compatibility and currently only logged.
	EmailReport bool `json:"email_report"`
	// SkipPublish renders the report without persisting it or notifying anyone.
	SkipPublish bool `json:"-"`
}

// Response is the outcome of a run.
type Response struct {
	ContentType string
	Body        []byte
	Report      *schemas.Report
	Publish     publisher.Result
	// PublishError holds non-fatal persistence or directory failures.
	PublishError error
}

// Service is the single entry point that triggers a report run.
type Service struct {
	generator Generator
	publisher Publisher
	reports   schemas.ReportStore
	timeout   time.Duration
	logger    *zap.Logger
}

// New creates a Service. pub may be nil to disable publishing, and reports
// may be nil when stored reports are never looked up.
func New(gen Generator, pub Publisher, reports schemas.ReportStore, timeout time.Duration, logger *zap.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{
		generator: gen,
		publisher: pub,
		reports:   reports,
		timeout:   timeout,
		logger:    logger.Named("report_service"),
	}
}

// Run generates, publishes and renders one report under a single deadline.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	renderer, err := rendererFor(req.Format)
	if err != nil {
		return nil, err
	}
	if req.EmailReport {
		s.logger.Info("Email delivery was requested but is not supported; the flag is ignored")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	report, err := s.generator.Generate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}

	resp := &Response{Report: report, Publish: publisher.Result{ReportID: report.ID}}
	if s.publisher != nil && !req.SkipPublish {
		resp.Publish, resp.PublishError = s.publisher.Publish(ctx, report)
		if resp.PublishError != nil {
			s.logger.Warn("Report published with errors",
				zap.String("report_id", report.ID),
				zap.Error(resp.PublishError))
		}
	}

	if err := render(renderer, report, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Lookup re-renders a previously stored report.
func (s *Service) Lookup(ctx context.Context, id string, format string) (*Response, error) {
	renderer, err := rendererFor(format)
	if err != nil {
		return nil, err
	}
	if s.reports == nil {
		return nil, errors.New("no report store configured")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	report, err := s.reports.GetReport(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := &Response{Report: report, Publish: publisher.Result{ReportID: report.ID, Persisted: true}}
	if err := render(renderer, report, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func rendererFor(format string) (reporting.Renderer, error) {
	renderer, err := reporting.New(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return renderer, nil
}

func render(r reporting.Renderer, report *schemas.Report, resp *Response) error {
	body, err := r.Render(report)
	if err != nil {
		return fmt.Errorf("failed to render report %s: %w", report.ID, err)
	}
	resp.Body = body
	resp.ContentType = r.ContentType()
	return nil
}
