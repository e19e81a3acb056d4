package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolatedLoggerWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat.log")
	l := NewIsolatedLogger(path)

	l.Info("Hub", "session attached", map[string]interface{}{"connection_id": "c1"})
	l.Debug("Hub", "below file level", nil)
	_ = l.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "session attached", entry["message"])
	assert.Equal(t, "Hub", entry["module"])
	assert.Equal(t, "c1", entry["details"].(map[string]interface{})["connection_id"])
}

func TestNopLoggerAcceptsNilDetails(t *testing.T) {
	l := NewNopLogger()
	l.Error("Router", "no details", nil)
	l.Warn("Router", "no details", nil)
	assert.NoError(t, l.Sync())
}
