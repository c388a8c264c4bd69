package common

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "INFO", want: slog.LevelInfo},
		{input: "", want: slog.LevelInfo},
		{input: "warn", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "verbose", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	require.NoError(t, SetupLogger(&buf, "warn", "json"))

	slog.Info("hidden")
	LogError(errors.New("disk full"), "failed to close storage", Fields{"database": "/tmp/x.db"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "failed to close storage", entry["msg"])
	assert.Equal(t, "disk full", entry["error"])
	assert.Equal(t, "/tmp/x.db", entry["database"])

	assert.ErrorIs(t, SetupLogger(&buf, "info", "xml"), ErrInvalidConfig)
}

func TestUserMessage(t *testing.T) {
	cause := errors.New("no such table: balance")
	err := NewUserError("Database error", cause)

	assert.Equal(t, "Database error", UserMessage(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Database error: no such table: balance", err.Error())
	assert.Equal(t, "plain", UserMessage(errors.New("plain")))
	assert.Equal(t, "Only message", NewUserError("Only message", nil).Error())
}
