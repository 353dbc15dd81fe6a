package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/taskflow/office/internal/infrastructure/config"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(config.LoggerConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	l, err := New(config.LoggerConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, l.SugaredLogger)
}

func TestStructuredHelpers(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core)).WithComponent("attendance")

	l.LogUserAction("u-1", "check_in", map[string]interface{}{"date": "2024-03-04"})
	l.LogSecurityEvent("permission_denied", "u-2", "10.0.0.1", nil)

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "User action", entries[0].Message)
	assert.Equal(t, "attendance", first["component"])
	assert.Equal(t, "check_in", first["action"])
	assert.Equal(t, "2024-03-04", first["date"])

	second := entries[1].ContextMap()
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, "permission_denied", second["security_event"])
}

func TestWithErrorAndRequestID(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core)).WithRequestID("req-1")

	l.WithError(nil).Infow("no error")
	l.WithError(errors.New("disk full")).Errorw("failed")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
	assert.NotContains(t, entries[0].ContextMap(), "error")
	assert.Equal(t, "disk full", entries[1].ContextMap()["error"])
}

func TestSecurityEventOmitsUnknownActor(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	FromZap(zap.New(core)).LogSecurityEvent("invalid_token", "", "", map[string]interface{}{"endpoint": "/api/tasks"})

	fields := logs.All()[0].ContextMap()
	assert.NotContains(t, fields, "user_id")
	assert.NotContains(t, fields, "ip")
	assert.Equal(t, "/api/tasks", fields["endpoint"])
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskflow.log")
	l, err := New(config.LoggerConfig{Level: "info", Format: "json", Output: "file", Filename: path})
	require.NoError(t, err)

	l.Infow("started", "port", 8000)
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"timestamp"`)
	assert.Contains(t, string(data), `"msg":"started"`)
}
