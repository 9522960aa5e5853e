package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, parseLevel("warning"))
	require.Equal(t, slog.LevelError, parseLevel("error"))
	require.Equal(t, slog.LevelInfo, parseLevel(""))
	require.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

func TestNewTagsService(t *testing.T) {
	var buf bytes.Buffer
	log := newWithWriter(&buf, "info")
	log.Debug("hidden")
	log.Info("hello", "k", "v")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	require.Equal(t, "opsdash", entry["service"])
	require.Equal(t, "hello", entry["msg"])
	require.Equal(t, "v", entry["k"])
}
