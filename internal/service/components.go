// File: internal/service/components.go
package service

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/xkilldash9x/secreport/internal/observability"
	"github.com/xkilldash9x/secreport/internal/store"
)

// Components holds everything a report run needs, built once per process.
type Components struct {
	Store    *store.Store
	Service  *Service
	Metrics  *observability.Metrics
	Registry *prometheus.Registry
	DBPool   *pgxpool.Pool

	// closers release optional resources (GeoIP database, Kafka writer) in reverse order.
	closers []namedCloser
	logger  *zap.Logger
}

type namedCloser struct {
	name  string
	close func() error
}

func (c *Components) addCloser(name string, fn func() error) {
	c.closers = append(c.closers, namedCloser{name: name, close: fn})
}

// Shutdown releases resources in the reverse order they were created.
func (c *Components) Shutdown() {
	logger := c.logger
	if logger == nil {
		logger = observability.GetLogger()
	}
	logger.Debug("Beginning components shutdown sequence.")

	for i := len(c.closers) - 1; i >= 0; i-- {
		cl := c.closers[i]
		if err := cl.close(); err != nil {
			logger.Warn("Error while closing component.", zap.String("component", cl.name), zap.Error(err))
			continue
		}
		logger.Debug("Component closed.", zap.String("component", cl.name))
	}
	c.closers = nil

	if c.DBPool != nil {
		c.DBPool.Close()
		c.DBPool = nil
		logger.Debug("Database connection pool closed.")
	}
}
