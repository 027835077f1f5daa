package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xkilldash9x/secreport/api/schemas"
	"github.com/xkilldash9x/secreport/internal/config"
)

type mockWriter struct {
	mock.Mock
}

func (m *mockWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockWriter) Close() error {
	return m.Called().Error(0)
}

func TestKafkaSink_SendNotification(t *testing.T) {
	w := new(mockWriter)
	n := schemas.Notification{
		RecipientID: "admin-7",
		Title:       "Weekly Security Report: WARNING",
		Body:        "Compliance Score: 82%",
		Category:    schemas.NotificationCategory,
		DeepLink:    "/admin/reports/r-1",
	}

	var sent []kafka.Message
	w.On("WriteMessages", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).([]kafka.Message) }).
		Return(nil)

	sink := newKafkaSink(w, "notifications", zap.NewNop())
	require.NoError(t, sink.SendNotification(context.Background(), n))

	require.Len(t, sent, 1)
	assert.Equal(t, "admin-7", string(sent[0].Key))

	var decoded schemas.Notification
	require.NoError(t, json.Unmarshal(sent[0].Value, &decoded))
	assert.Equal(t, n, decoded)
	assert.Contains(t, sent[0].Headers, kafka.Header{Key: "category", Value: []byte("security_report")})
}

func TestKafkaSink_WriteFailure(t *testing.T) {
	w := new(mockWriter)
	brokerErr := errors.New("leader not available")
	w.On("WriteMessages", mock.Anything, mock.Anything).Return(brokerErr)

	sink := newKafkaSink(w, "notifications", zap.NewNop())
	err := sink.SendNotification(context.Background(), schemas.Notification{RecipientID: "x"})
	assert.ErrorIs(t, err, brokerErr)
	assert.Contains(t, err.Error(), "notifications")
}

func TestKafkaSink_Close(t *testing.T) {
	w := new(mockWriter)
	w.On("Close").Return(nil).Once()
	require.NoError(t, newKafkaSink(w, "t", zap.NewNop()).Close())
	w.AssertExpectations(t)
}

func TestNewKafkaSink_WiresWriter(t *testing.T) {
	sink := NewKafkaSink(config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "reports"}, zap.NewNop())
	kw, ok := sink.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "reports", kw.Topic)
	assert.Equal(t, "localhost:9092", kw.Addr.String())
	assert.NoError(t, sink.Close())
}
