package logs

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"bloodlink/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(level string, pretty bool) *config.Config {
	cfg := &config.Config{}
	cfg.Env.Env = "develop"
	cfg.Env.ServiceName = "bloodlink"
	cfg.Env.Log.Level = level
	cfg.Env.Log.Pretty = pretty

	return cfg
}

func TestNewLogger_JSONWithServiceAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, testConfig("info", false))
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("Request accepted", slog.String("donor_phone", "555-0101"), slog.String("blood_type", "O-"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "Request accepted", record["msg"])
	assert.Equal(t, "bloodlink", record["service"])
	assert.Equal(t, "develop", record["env"])
	assert.Equal(t, redacted, record["donor_phone"])
	assert.Equal(t, "O-", record["blood_type"])
}

func TestNewLogger_PrettyAndLevels(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(&buf, testConfig("DEBUG", true))
	require.NoError(t, err)

	logger.Debug("device registered", slog.String("fcm_token", "abc"))
	assert.Contains(t, buf.String(), "device registered")
	assert.Contains(t, buf.String(), "fcm_token="+redacted)
	assert.NotContains(t, buf.String(), "abc")

	_, err = newLogger(&buf, testConfig("verbose", false))
	assert.Error(t, err)

	level, err := parseLogLevel("")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelInfo, level)
}
