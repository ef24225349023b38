package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.InfoLevel).With(String("account", "51234567"))

	l.Info("balances fetched", Int("rows", 2), Float64("equity", 1250.5), Bool("realtime", true))
	l.Debug("dropped")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "balances fetched", entry["message"])
	assert.Equal(t, "51234567", entry["account"])
	assert.Equal(t, float64(2), entry["rows"])
	assert.Equal(t, 1250.5, entry["equity"])
	assert.Equal(t, true, entry["realtime"])
}

func TestLoggerError(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, zerolog.DebugLevel)
	l.Warn("refresh failed", Error(errors.New("token expired")))
	assert.Contains(t, buf.String(), `"error":"token expired"`)
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud", Output: "stderr"})
	assert.Error(t, err)
}

func TestNopLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNop().Error("ignored", Strings("symbols", []string{"VTI", "XIC.TO"}))
	})
}
