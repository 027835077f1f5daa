package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/xkilldash9x/secreport/api/schemas"
)

const (
	sqlSaveReport = `
        INSERT INTO security_audit_log (id, operation, details, created_at)
        VALUES ($1, $2, $3, $4);
    `
	sqlGetReport = `
        SELECT details
        FROM security_audit_log
        WHERE id = $1 AND operation = $2;
    `
	sqlAdministrators = `
        SELECT user_id
        FROM user_roles
        WHERE role = 'admin'
        ORDER BY user_id;
    `
	sqlInsertNotification = `
        INSERT INTO notifications (user_id, title, message, type, action_url)
        VALUES ($1, $2, $3, $4, $5);
    `
)

// SaveReport implements schemas.ReportStore. The report is stored as an
// audit log entry so it also counts as audit activity.
func (s *Store) SaveReport(ctx context.Context, report *schemas.Report) error {
	details, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report %s: %w", report.ID, err)
	}

	createdAt := report.GeneratedAt.UTC()
	if report.GeneratedAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	if _, err := s.pool.Exec(ctx, sqlSaveReport, report.ID, string(schemas.OpWeeklyReportGenerated), details, createdAt); err != nil {
		return fmt.Errorf("failed to insert report %s: %w", report.ID, err)
	}
	s.log.Debug("Persisted report", zap.String("report_id", report.ID))
	return nil
}

// GetReport implements schemas.ReportStore.
func (s *Store) GetReport(ctx context.Context, id string) (*schemas.Report, error) {
	var details []byte
	err := s.pool.QueryRow(ctx, sqlGetReport, id, string(schemas.OpWeeklyReportGenerated)).Scan(&details)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", schemas.ErrReportNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query report %s: %w", id, err)
	}

	var report schemas.Report
	if err := json.Unmarshal(details, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", id, err)
	}
	return &report, nil
}

// Administrators implements schemas.UserDirectory.
func (s *Store) Administrators(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, sqlAdministrators)
	if err != nil {
		return nil, fmt.Errorf("failed to query administrators: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan administrator row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}
	return ids, nil
}

// SendNotification implements schemas.NotificationSink by inserting into
// the notifications table read by the admin UI.
func (s *Store) SendNotification(ctx context.Context, n schemas.Notification) error {
	if _, err := s.pool.Exec(ctx, sqlInsertNotification, n.RecipientID, n.Title, n.Body, n.Category, n.DeepLink); err != nil {
		return fmt.Errorf("failed to insert notification for %s: %w", n.RecipientID, err)
	}
	return nil
}
