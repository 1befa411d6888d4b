package observability

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "debug", LogFormatJSON)

	logger.WithField("run_id", "abc").Debug("stage done")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "abc", entry["run_id"])
	assert.Equal(t, "stage done", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
}

func TestNewLogger_LevelFallback(t *testing.T) {
	logger := NewLogger(&bytes.Buffer{}, "chatty", LogFormatText)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

func TestNewLogger_TextFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn", "")

	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}
