// File: cmd/cmd_test.go
package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/secreport/api/schemas"
	"github.com/xkilldash9x/secreport/internal/config"
	"github.com/xkilldash9x/secreport/internal/reporting"
	"github.com/xkilldash9x/secreport/internal/service"
)

// mockFactory assembles real components on top of a pgxmock pool.
type mockFactory struct {
	pool pgxmock.PgxPoolIface
	err  error
}

func (f *mockFactory) Create(ctx context.Context, cfg config.Interface, logger *zap.Logger) (*service.Components, error) {
	if f.err != nil {
		return nil, f.err
	}
	return service.Assemble(ctx, cfg, f.pool, logger)
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	pool.ExpectPing()
	return pool
}

func execute(t *testing.T, factory service.ComponentFactory, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd(factory)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmd_VersionFlag(t *testing.T) {
	out, err := execute(t, &mockFactory{}, "--version")
	require.NoError(t, err)
	assert.Equal(t, Version+"\n", out)
}

func TestRootCmd_ListsSubcommands(t *testing.T) {
	out, err := execute(t, &mockFactory{}, "--help")
	require.NoError(t, err)
	for _, name := range []string{"generate", "serve", "show", "snapshot", "migrate"} {
		assert.Contains(t, out, name)
	}
}

func TestGenerate_WritesReportFile(t *testing.T) {
	// Every collector query is unexpected, so each one falls back to its defaults.
	pool := newMockPool(t)
	path := filepath.Join(t.TempDir(), "weekly.json")

	_, err := execute(t, &mockFactory{pool: pool}, "generate", "--no-publish", "--output", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	report, err := reporting.DecodeJSON(data)
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, schemas.StatusCompliant, report.Status)
	assert.Equal(t, 100, report.Security.ComplianceScoreAvg)
	assert.Equal(t, 100, report.Performance.IndexUsageEfficiencyPct)
	assert.NotNil(t, report.Threats.GeographicThreats)
	assert.Len(t, report.ActionItems, 3)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestGenerate_HTMLToStdoutWithFailedPublish(t *testing.T) {
	pool := newMockPool(t)

	out, err := execute(t, &mockFactory{pool: pool}, "generate", "--format", "html")
	require.NoError(t, err, "persistence and directory failures do not fail the run")
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
}

func TestGenerate_InvalidFormat(t *testing.T) {
	pool := newMockPool(t)

	_, err := execute(t, &mockFactory{pool: pool}, "generate", "--format", "pdf")
	assert.ErrorIs(t, err, service.ErrInvalidRequest)
}

func TestGenerate_FactoryError(t *testing.T) {
	boom := errors.New("database unreachable")

	_, err := execute(t, &mockFactory{err: boom}, "generate")
	assert.ErrorIs(t, err, boom)
}

func TestShow(t *testing.T) {
	pool := newMockPool(t)
	stored := &schemas.Report{
		ID:          "r-42",
		Window:      schemas.NewTrailingWindow(time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), 7*24*time.Hour),
		Status:      schemas.StatusWarning,
		GeneratedAt: time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
	}
	details, err := (&reporting.JSONRenderer{}).Render(stored)
	require.NoError(t, err)
	pool.ExpectQuery("SELECT details").
		WithArgs("r-42", string(schemas.OpWeeklyReportGenerated)).
		WillReturnRows(pgxmock.NewRows([]string{"details"}).AddRow(details))

	out, err := execute(t, &mockFactory{pool: pool}, "show", "r-42")
	require.NoError(t, err)

	report, err := reporting.DecodeJSON([]byte(out))
	require.NoError(t, err)
	assert.Equal(t, "r-42", report.ID)
	assert.Equal(t, schemas.StatusWarning, report.Status)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestShow_RequiresID(t *testing.T) {
	_, err := execute(t, &mockFactory{}, "show")
	assert.Error(t, err)
}

func TestSnapshot(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("INSERT INTO storage_snapshots").
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"size_bytes"}).AddRow(int64(2048)))

	out, err := execute(t, &mockFactory{pool: pool}, "snapshot")
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded storage snapshot: 2048 bytes")
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestMigrate(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectExec("CREATE TABLE IF NOT EXISTS").WillReturnResult(pgxmock.NewResult("CREATE", 0))

	_, err := execute(t, &mockFactory{pool: pool}, "migrate")
	require.NoError(t, err)
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestGetConfigFromContext_Missing(t *testing.T) {
	_, err := getConfigFromContext(context.Background())
	assert.Error(t, err)
}

func TestInitializeConfig_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("report: [unterminated"), 0o600))

	_, err := execute(t, &mockFactory{}, "--config", path, "generate")
	assert.Error(t, err)
}
