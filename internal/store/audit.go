package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/secreport/api/schemas"
)

const (
	sqlCountAuditOperations = `
        SELECT operation, COUNT(*)
        FROM security_audit_log
        WHERE created_at >= $1 AND created_at < $2
        GROUP BY operation;
    `
	sqlSecurityEvents = `
        SELECT id::text, event_type, severity, COALESCE(host(ip_address), ''), created_at
        FROM security_events
        WHERE created_at >= $1 AND created_at < $2
        ORDER BY created_at ASC;
    `
	sqlComplianceScores = `
        SELECT score
        FROM compliance_scores
        WHERE recorded_at >= $1 AND recorded_at < $2
        ORDER BY recorded_at ASC;
    `
)

// CountAuditOperations implements schemas.AuditLog. Operations outside the
// known taxonomy are skipped.
func (s *Store) CountAuditOperations(ctx context.Context, window schemas.ReportWindow) (map[schemas.AuditOperation]int, error) {
	rows, err := s.pool.Query(ctx, sqlCountAuditOperations, window.Start.UTC(), window.End.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query audit operations: %w", err)
	}
	defer rows.Close()

	counts := make(map[schemas.AuditOperation]int)
	for rows.Next() {
		var raw string
		var n int64
		if err := rows.Scan(&raw, &n); err != nil {
			return nil, fmt.Errorf("failed to scan audit operation row: %w", err)
		}
		op, err := schemas.ParseAuditOperation(raw)
		if err != nil {
			s.log.Debug("Skipping unknown audit operation", zap.String("operation", raw))
			continue
		}
		counts[op] += int(n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}
	return counts, nil
}

// SecurityEvents implements schemas.EventLog. Rows with an unknown event
// type or severity are skipped.
func (s *Store) SecurityEvents(ctx context.Context, window schemas.ReportWindow) ([]schemas.SecurityEvent, error) {
	rows, err := s.pool.Query(ctx, sqlSecurityEvents, window.Start.UTC(), window.End.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query security events: %w", err)
	}
	defer rows.Close()

	var events []schemas.SecurityEvent
	for rows.Next() {
		var ev schemas.SecurityEvent
		var rawType, rawSeverity string
		if err := rows.Scan(&ev.ID, &rawType, &rawSeverity, &ev.IPAddress, &ev.OccurredAt); err != nil {
			return nil, fmt.Errorf("failed to scan security event row: %w", err)
		}

		if ev.Type, err = schemas.ParseEventType(rawType); err != nil {
			s.log.Debug("Skipping security event", zap.String("id", ev.ID), zap.Error(err))
			continue
		}
		if ev.Severity, err = schemas.ParseSeverity(rawSeverity); err != nil {
			s.log.Debug("Skipping security event", zap.String("id", ev.ID), zap.Error(err))
			continue
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}
	return events, nil
}

// ComplianceScores implements schemas.ScoreHistory.
func (s *Store) ComplianceScores(ctx context.Context, window schemas.ReportWindow) ([]float64, error) {
	rows, err := s.pool.Query(ctx, sqlComplianceScores, window.Start.UTC(), window.End.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query compliance scores: %w", err)
	}
	defer rows.Close()

	var scores []float64
	for rows.Next() {
		var score float64
		if err := rows.Scan(&score); err != nil {
			return nil, fmt.Errorf("failed to scan compliance score row: %w", err)
		}
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}
	return scores, nil
}
