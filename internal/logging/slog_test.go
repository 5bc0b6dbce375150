package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DevelopmentWritesText(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false)

	log.Debug(context.Background(), "dbg", "a", 1)
	log.With("req_id", "r1").Warn(context.Background(), "wrn", "b", 2)

	out := buf.String()
	for _, want := range []string{"level=DEBUG", "msg=dbg", "a=1", "level=WARN", "req_id=r1", "b=2"} {
		assert.Contains(t, out, want)
	}
}

func TestNew_ProductionWritesJSONAndSkipsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, true)

	log.Debug(context.Background(), "hidden")
	log.Error(context.Background(), "boom", "path", "/api/notes")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "boom", entry["msg"])
	assert.Equal(t, "/api/notes", entry["path"])
}

func TestNop_DoesNotPanic(t *testing.T) {
	log := Nop()
	log.Info(context.TODO(), "ok")
	log.With("k", "v").Error(context.TODO(), "ok")
}
