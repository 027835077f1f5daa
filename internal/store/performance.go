package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/xkilldash9x/secreport/api/schemas"
)

const (
	sqlQueryStats = `
        SELECT COALESCE(AVG(execution_time_ms), 0)::float8,
               COUNT(*) FILTER (WHERE execution_time_ms > $3)
        FROM query_performance_log
        WHERE created_at >= $1 AND created_at < $2;
    `
	sqlIndexUsage = `
        SELECT relname, COALESCE(idx_scan, 0), COALESCE(seq_scan, 0)
        FROM pg_stat_user_tables
        WHERE cardinality($1::text[]) = 0 OR relname = ANY($1::text[])
        ORDER BY relname;
    `
	sqlCurrentStorageSize = `SELECT pg_database_size(current_database());`
	sqlStorageSnapshot    = `
        SELECT size_bytes
        FROM storage_snapshots
        WHERE captured_at <= $1
        ORDER BY captured_at DESC
        LIMIT 1;
    `
	sqlRecordStorageSnapshot = `
        INSERT INTO storage_snapshots (size_bytes, captured_at)
        VALUES (pg_database_size(current_database()), $1)
        RETURNING size_bytes;
    `
)

// QueryStats implements schemas.QueryStatsSource.
func (s *Store) QueryStats(ctx context.Context, window schemas.ReportWindow, slowThreshold time.Duration) (schemas.QueryStats, error) {
	thresholdMs := float64(slowThreshold) / float64(time.Millisecond)

	var avg float64
	var slow int64
	err := s.pool.QueryRow(ctx, sqlQueryStats, window.Start.UTC(), window.End.UTC(), thresholdMs).Scan(&avg, &slow)
	if err != nil {
		return schemas.QueryStats{}, fmt.Errorf("failed to query performance log: %w", err)
	}
	return schemas.QueryStats{AvgExecutionMs: avg, SlowQueries: int(slow)}, nil
}

// IndexUsage implements schemas.QueryStatsSource using the cumulative
// counters in pg_stat_user_tables.
func (s *Store) IndexUsage(ctx context.Context, tables []string) ([]schemas.TableScanStats, error) {
	if tables == nil {
		tables = []string{}
	}
	rows, err := s.pool.Query(ctx, sqlIndexUsage, tables)
	if err != nil {
		return nil, fmt.Errorf("failed to query table statistics: %w", err)
	}
	defer rows.Close()

	var stats []schemas.TableScanStats
	for rows.Next() {
		var st schemas.TableScanStats
		if err := rows.Scan(&st.Table, &st.IndexScans, &st.SeqScans); err != nil {
			return nil, fmt.Errorf("failed to scan table statistics row: %w", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}
	return stats, nil
}

// CurrentStorageSize implements schemas.StorageSnapshots.
func (s *Store) CurrentStorageSize(ctx context.Context) (int64, error) {
	var size int64
	if err := s.pool.QueryRow(ctx, sqlCurrentStorageSize).Scan(&size); err != nil {
		return 0, fmt.Errorf("failed to query database size: %w", err)
	}
	return size, nil
}

// StorageSnapshot implements schemas.StorageSnapshots. It returns zero when
// no snapshot was captured at or before asOf.
func (s *Store) StorageSnapshot(ctx context.Context, asOf time.Time) (int64, error) {
	var size int64
	err := s.pool.QueryRow(ctx, sqlStorageSnapshot, asOf.UTC()).Scan(&size)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query storage snapshot: %w", err)
	}
	return size, nil
}

// RecordStorageSnapshot stores the current database size as a snapshot taken
// at the given time and returns the recorded size.
func (s *Store) RecordStorageSnapshot(ctx context.Context, at time.Time) (int64, error) {
	var size int64
	if err := s.pool.QueryRow(ctx, sqlRecordStorageSnapshot, at.UTC()).Scan(&size); err != nil {
		return 0, fmt.Errorf("failed to record storage snapshot: %w", err)
	}
	return size, nil
}
