// Package store implements the report collaborators on PostgreSQL: the audit
// and event logs, query statistics, storage snapshots, the administrator
// directory, the notifications table and the report store.
package store

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/secreport/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

//go:embed schema.sql
var schemaSQL string

// DBPool is an interface that abstracts the pgxpool.Pool to allow for mocking in tests.
type DBPool interface {
	Ping(ctx context.Context) error
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Store provides the PostgreSQL implementation of the report collaborators.
type Store struct {
	pool DBPool
	log  *zap.Logger
}

var (
	_ schemas.AuditLog         = (*Store)(nil)
	_ schemas.ScoreHistory     = (*Store)(nil)
	_ schemas.QueryStatsSource = (*Store)(nil)
	_ schemas.StorageSnapshots = (*Store)(nil)
	_ schemas.EventLog         = (*Store)(nil)
	_ schemas.UserDirectory    = (*Store)(nil)
	_ schemas.NotificationSink = (*Store)(nil)
	_ schemas.ReportStore      = (*Store)(nil)
)

// New creates a new store instance and verifies the connection.
func New(ctx context.Context, pool DBPool, logger *zap.Logger) (*Store, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{
		pool: pool,
		log:  logger.Named("store"),
	}, nil
}

// EnsureSchema creates the tables the store reads and writes if they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	s.log.Info("Database schema is up to date")
	return nil
}

// Schema returns the DDL applied by EnsureSchema.
func Schema() string { return schemaSQL }
