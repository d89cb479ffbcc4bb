package kafka

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOutboxEvent(t *testing.T) {
	e, err := NewOutboxEvent("req-1", "employee", "e-1", "employee_added", "topic", map[string]string{"name": "Jane"})
	require.NoError(t, err)
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, OutboxStatusPending, e.Status)

	var body map[string]string
	require.NoError(t, json.Unmarshal(e.Payload, &body))
	assert.Equal(t, "Jane", body["name"])
	assert.NoError(t, ValidateOutboxEvent(e))
}

func TestValidateOutboxEvent(t *testing.T) {
	valid := OutboxEvent{ID: "o-1", Topic: "t", Payload: []byte("{}"), Status: OutboxStatusPending}

	tests := []struct {
		name   string
		mutate func(*OutboxEvent)
	}{
		{"missing id", func(e *OutboxEvent) { e.ID = "" }},
		{"missing topic", func(e *OutboxEvent) { e.Topic = "" }},
		{"empty payload", func(e *OutboxEvent) { e.Payload = nil }},
		{"unknown status", func(e *OutboxEvent) { e.Status = "queued" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := valid
			tt.mutate(&e)
			assert.Error(t, ValidateOutboxEvent(e))
		})
	}
}

func TestOutboxRepository_CreateInTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	e, _ := NewOutboxEvent("req-1", "attendance", "s-1", "attendance.session.opened", "topic", struct{}{})

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO outbox_events")).
		WithArgs(e.ID, "req-1", "attendance", "s-1", "attendance.session.opened", "topic", e.Payload, OutboxStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, NewOutboxRepository(db).WithTx(tx).Create(context.Background(), e))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOutboxRepository_ListPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	next := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "request_id", "aggregate_type", "aggregate_id", "event_type", "topic", "payload", "status", "retry_count", "next_retry_at",
	}).AddRow("o-1", "req-1", "employee", "e-1", "employee_added", "topic", []byte(`{}`), OutboxStatusFailed, 2, next)

	mock.ExpectQuery("FROM outbox_events").
		WithArgs(OutboxStatusPending, OutboxStatusFailed, 10).
		WillReturnRows(rows)

	got, err := NewOutboxRepository(db).ListPending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].RetryCount)
	assert.Equal(t, "req-1", got[0].RequestID)
	assert.True(t, got[0].NextRetryAt.Equal(next))
}

func TestOutboxRepository_MarkFailed(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("UPDATE outbox_events").
		WithArgs("o-1", OutboxStatusFailed, "boom").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, NewOutboxRepository(db).MarkFailed(context.Background(), "o-1", "boom"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
