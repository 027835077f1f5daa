package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/secreport/api/schemas"
	"github.com/xkilldash9x/secreport/internal/config"
	"github.com/xkilldash9x/secreport/internal/reporting"
	"github.com/xkilldash9x/secreport/internal/service"
)

type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context, req service.Request) (*service.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Response), args.Error(1)
}

func (m *MockRunner) Lookup(ctx context.Context, id string, format string) (*service.Response, error) {
	args := m.Called(ctx, id, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Response), args.Error(1)
}

func jsonResponse(id string) *service.Response {
	return &service.Response{
		ContentType: "application/json",
		Body:        []byte(fmt.Sprintf(`{"id":%q}`, id)),
		Report:      &schemas.Report{ID: id},
	}
}

func newTestServer(runner ReportRunner, gatherer prometheus.Gatherer) *Server {
	return New(config.NewDefaultConfig().Server(), runner, gatherer, zap.NewNop())
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(new(MockRunner), nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestGenerateWeekly_JSONBody(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, service.Request{Format: "html", EmailReport: true}).
		Return(&service.Response{ContentType: "text/html; charset=utf-8", Body: []byte("<html></html>"), Report: &schemas.Report{ID: "r-9"}}, nil)

	srv := newTestServer(runner, nil)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/weekly", strings.NewReader(`{"format":"html","email_report":true}`))
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "r-9", rec.Header().Get("X-Report-Id"))
	assert.Equal(t, "<html></html>", rec.Body.String())
	runner.AssertExpectations(t)
}

func TestGenerateWeekly_QueryParamsAndEmptyBody(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Run", mock.Anything, service.Request{Format: "json"}).Return(jsonResponse("r-1"), nil)

	srv := newTestServer(runner, nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reports/weekly?format=json", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"r-1"}`, rec.Body.String())
}

func TestGenerateWeekly_MalformedBody(t *testing.T) {
	runner := new(MockRunner)
	srv := newTestServer(runner, nil)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reports/weekly", strings.NewReader(`{"format":`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var payload ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "invalid_request", payload.Error)
	runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
}

func TestGenerateWeekly_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		wantCode string
	}{
		{"unsupported format", fmt.Errorf("%w: %w", service.ErrInvalidRequest, reporting.ErrUnsupportedFormat), http.StatusBadRequest, "invalid_request"},
		{"generation failure", errors.New("report assembly failed"), http.StatusInternalServerError, "report_failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := new(MockRunner)
			runner.On("Run", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			newTestServer(runner, nil).Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reports/weekly", nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			var payload ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
			assert.Equal(t, tt.wantCode, payload.Error)
			assert.Equal(t, tt.err.Error(), payload.Message)
		})
	}
}

func TestGetReport(t *testing.T) {
	runner := new(MockRunner)
	runner.On("Lookup", mock.Anything, "r-1", "json").Return(jsonResponse("r-1"), nil)
	runner.On("Lookup", mock.Anything, "missing", "").Return(nil, schemas.ErrReportNotFound)
	srv := newTestServer(runner, nil)

	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/r-1?format=json", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "secreport_test_total", Help: "test"})
	registry.MustRegister(counter)
	counter.Inc()

	rec := httptest.NewRecorder()
	newTestServer(new(MockRunner), registry).Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "secreport_test_total 1")
}

func TestMetricsEndpointDisabledWithoutGatherer(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestServer(new(MockRunner), nil).Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServeStopsOnContextCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := newTestServer(new(MockRunner), nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.serveListener(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/healthz"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
