package producer

import (
	"context"
	"errors"
	"go-timeclock/internal/messaging/kafka"
	kafkaMock "go-timeclock/internal/messaging/kafka/mock"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeWriter struct {
	sent []kafkago.Message
	fail map[string]error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	for _, m := range msgs {
		if err := w.fail[string(m.Key)]; err != nil {
			return err
		}
		w.sent = append(w.sent, m)
	}
	return nil
}

func TestBuildMessage(t *testing.T) {
	msg := buildMessage(kafka.OutboxEvent{
		RequestID:     "req-1",
		AggregateType: "attendance",
		AggregateID:   "s-1",
		EventType:     "attendance.session.opened",
		Topic:         "timeclock.attendance.session.v1",
		Payload:       []byte(`{"a":1}`),
	})

	assert.Equal(t, "timeclock.attendance.session.v1", msg.Topic)
	assert.Equal(t, []byte("s-1"), msg.Key)
	assert.Equal(t, []kafkago.Header{
		{Key: "event_type", Value: []byte("attendance.session.opened")},
		{Key: "aggregate_type", Value: []byte("attendance")},
		{Key: "request_id", Value: []byte("req-1")},
	}, msg.Headers)

	// no request id, no header
	assert.Len(t, buildMessage(kafka.OutboxEvent{}).Headers, 2)
}

func TestProcessPendingEvents(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := kafkaMock.NewMockOutboxRepository(ctrl)
	writer := &fakeWriter{fail: map[string]error{"bad": errors.New("broker unavailable")}}

	repo.EXPECT().ListPending(ctx, batchSize).Return([]kafka.OutboxEvent{
		{ID: "o-1", AggregateID: "good", Topic: "t"},
		{ID: "o-2", AggregateID: "bad", Topic: "t"},
	}, nil)
	repo.EXPECT().MarkSent(ctx, "o-1").Return(nil)
	repo.EXPECT().MarkFailed(ctx, "o-2", "broker unavailable").Return(nil)

	require.NoError(t, ProcessPendingEvents(ctx, repo, writer, zap.NewNop()))
	require.Len(t, writer.sent, 1)
	assert.Equal(t, []byte("good"), writer.sent[0].Key)
}

func TestProcessPendingEvents_ListFailure(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	repo := kafkaMock.NewMockOutboxRepository(ctrl)

	repo.EXPECT().ListPending(ctx, batchSize).Return(nil, errors.New("db down"))

	assert.Error(t, ProcessPendingEvents(ctx, repo, &fakeWriter{}, zap.NewNop()))
}
