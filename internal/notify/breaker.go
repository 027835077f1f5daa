// File: internal/notify/breaker.go
package notify

import (
	"context"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/xkilldash9x/secreport/api/schemas"
	"github.com/xkilldash9x/secreport/internal/config"
)

// BreakerSink guards a NotificationSink with a circuit breaker. Once the
// downstream has failed FailureThreshold times in a row, the remaining
// recipients fail fast with gobreaker.ErrOpenState until OpenTimeout passes.
type BreakerSink struct {
	next schemas.NotificationSink
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerSink wraps next.
func NewBreakerSink(next schemas.NotificationSink, cfg config.BreakerConfig, logger *zap.Logger) *BreakerSink {
	log := logger.Named("notify_breaker")
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 1
	}
	return &BreakerSink{
		next: next,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "notification-sink",
			MaxRequests: 1,
			Timeout:     cfg.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				log.Warn("Circuit breaker state changed",
					zap.String("name", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()))
			},
		}),
	}
}

// SendNotification implements schemas.NotificationSink.
func (b *BreakerSink) SendNotification(ctx context.Context, n schemas.Notification) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.next.SendNotification(ctx, n)
	})
	return err
}

// State reports the breaker state.
func (b *BreakerSink) State() gobreaker.State {
	return b.cb.State()
}
