package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	Set(slog.New(slog.NewJSONHandler(&buf, nil)))
	t.Cleanup(func() { Set(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))) })

	ctx := WithUserID(WithRequestID(context.Background(), "req-1"), "user-1")
	CtxInfo(ctx, "interest sent", "interest_id", "i-1")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "interest sent", entry["msg"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "user-1", entry["user_id"])
	assert.Equal(t, "i-1", entry["interest_id"])
}

func TestParseLevel(t *testing.T) {
	lvl, ok := parseLevel("WARN")
	assert.True(t, ok)
	assert.Equal(t, slog.LevelWarn, lvl)

	_, ok = parseLevel("verbose")
	assert.False(t, ok)
}
