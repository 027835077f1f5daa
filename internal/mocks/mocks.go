// File: internal/mocks/mocks.go
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xkilldash9x/secreport/api/schemas"
	"github.com/xkilldash9x/secreport/internal/config"
)

// -- Config Mock --

// MockConfig mocks the config.Interface.
type MockConfig struct {
	mock.Mock
}

// --- Getters ---

func (m *MockConfig) Logger() config.LoggerConfig {
	args := m.Called()
	return args.Get(0).(config.LoggerConfig)
}

func (m *MockConfig) Database() config.DatabaseConfig {
	args := m.Called()
	return args.Get(0).(config.DatabaseConfig)
}

func (m *MockConfig) Report() config.ReportConfig {
	args := m.Called()
	return args.Get(0).(config.ReportConfig)
}

func (m *MockConfig) Collectors() config.CollectorsConfig {
	args := m.Called()
	return args.Get(0).(config.CollectorsConfig)
}

func (m *MockConfig) Notifications() config.NotificationsConfig {
	args := m.Called()
	return args.Get(0).(config.NotificationsConfig)
}

func (m *MockConfig) Server() config.ServerConfig {
	args := m.Called()
	return args.Get(0).(config.ServerConfig)
}

func (m *MockConfig) GeoIP() config.GeoIPConfig {
	args := m.Called()
	return args.Get(0).(config.GeoIPConfig)
}

func (m *MockConfig) Archive() config.ArchiveConfig {
	args := m.Called()
	return args.Get(0).(config.ArchiveConfig)
}

// -- Audit Log Mock --

// MockAuditLog mocks the schemas.AuditLog interface.
type MockAuditLog struct {
	mock.Mock
}

func (m *MockAuditLog) CountAuditOperations(ctx context.Context, window schemas.ReportWindow) (map[schemas.AuditOperation]int, error) {
	args := m.Called(ctx, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[schemas.AuditOperation]int), args.Error(1)
}

// -- Score History Mock --

// MockScoreHistory mocks the schemas.ScoreHistory interface.
type MockScoreHistory struct {
	mock.Mock
}

func (m *MockScoreHistory) ComplianceScores(ctx context.Context, window schemas.ReportWindow) ([]float64, error) {
	args := m.Called(ctx, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

// -- Query Stats Mock --

// MockQueryStatsSource mocks the schemas.QueryStatsSource interface.
type MockQueryStatsSource struct {
	mock.Mock
}

func (m *MockQueryStatsSource) QueryStats(ctx context.Context, window schemas.ReportWindow, slowThreshold time.Duration) (schemas.QueryStats, error) {
	args := m.Called(ctx, window, slowThreshold)
	return args.Get(0).(schemas.QueryStats), args.Error(1)
}

func (m *MockQueryStatsSource) IndexUsage(ctx context.Context, tables []string) ([]schemas.TableScanStats, error) {
	args := m.Called(ctx, tables)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schemas.TableScanStats), args.Error(1)
}

// -- Storage Snapshot Mock --

// MockStorageSnapshots mocks the schemas.StorageSnapshots interface.
type MockStorageSnapshots struct {
	mock.Mock
}

func (m *MockStorageSnapshots) CurrentStorageSize(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStorageSnapshots) StorageSnapshot(ctx context.Context, asOf time.Time) (int64, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).(int64), args.Error(1)
}

// -- Event Log Mock --

// MockEventLog mocks the schemas.EventLog interface.
type MockEventLog struct {
	mock.Mock
}

func (m *MockEventLog) SecurityEvents(ctx context.Context, window schemas.ReportWindow) ([]schemas.SecurityEvent, error) {
	args := m.Called(ctx, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schemas.SecurityEvent), args.Error(1)
}

// -- Region Resolver Mock --

// MockRegionResolver mocks the schemas.RegionResolver interface.
type MockRegionResolver struct {
	mock.Mock
}

func (m *MockRegionResolver) ResolveRegion(ctx context.Context, ip string) (string, bool) {
	args := m.Called(ctx, ip)
	return args.String(0), args.Bool(1)
}

// -- User Directory Mock --

// MockUserDirectory mocks the schemas.UserDirectory interface.
type MockUserDirectory struct {
	mock.Mock
}

func (m *MockUserDirectory) Administrators(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// -- Notification Sink Mock --

// MockNotificationSink mocks the schemas.NotificationSink interface.
// Calls may arrive concurrently; mock.Mock is safe for that.
type MockNotificationSink struct {
	mock.Mock
}

func (m *MockNotificationSink) SendNotification(ctx context.Context, n schemas.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// -- Report Store Mock --

// MockReportStore mocks the schemas.ReportStore interface.
type MockReportStore struct {
	mock.Mock
}

func (m *MockReportStore) SaveReport(ctx context.Context, report *schemas.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportStore) GetReport(ctx context.Context, id string) (*schemas.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schemas.Report), args.Error(1)
}
