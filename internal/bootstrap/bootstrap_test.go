package bootstrap

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingAuditLogger struct {
	entries []AuditLog
}

func (r *recordingAuditLogger) Log(_ context.Context, entry AuditLog) {
	r.entries = append(r.entries, entry)
}

func TestServe_LogsLifecycleAndStopsOnSignal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	audit := &recordingAuditLogger{}
	quit := make(chan os.Signal, 1)

	done := make(chan struct{})
	go func() {
		serve(gin.New(), ServerConfig{Port: "0", ShutdownTimeout: time.Second}, audit, quit)
		close(done)
	}()

	quit <- syscall.SIGTERM
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}

	if assert.Len(t, audit.entries, 2) {
		assert.Equal(t, "SERVER_START", audit.entries[0].Action)
		assert.Equal(t, "SERVER_SHUTDOWN", audit.entries[1].Action)
		assert.Equal(t, syscall.SIGTERM.String(), audit.entries[1].Meta["reason"])
	}
}

func TestStdoutAuditLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := NewStdoutAuditLogger(zap.New(core))
	l.now = func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) }

	l.Log(context.Background(), AuditLog{Action: "SERVER_START", Message: "up", Meta: map[string]any{"port": "3000"}})

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "SERVER_START", fields["action"])
		assert.Equal(t, "2024-01-01T09:00:00Z", fields["timestamp"])
	}
}
