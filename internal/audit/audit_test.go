package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatehouse/gatehouse/pkg/logger"
)

func TestLogRecorder(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	rec := NewLogRecorder(logger.New(logger.WithOutput(&buf)))

	rec.Record(context.Background(), EventLoginFailed, map[string]any{"login": "alice"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "audit", entry["type"])
	assert.Equal(t, "login_failed", entry["event"])
	assert.Equal(t, "alice", entry["login"])
}

func TestMemoryRecorder(t *testing.T) {
	t.Parallel()

	rec := NewMemoryRecorder()
	rec.Record(context.Background(), EventLoginSuccessful, map[string]any{"user_id": "u-1"})
	rec.Record(context.Background(), EventLogout, nil)

	assert.Equal(t, []Event{EventLoginSuccessful, EventLogout}, rec.Events())
	entries := rec.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "u-1", entries[0].Fields["user_id"])
}
