package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, logrus.InfoLevel, cfg.LogLevel)
	assert.Equal(t, "testdata/categories", cfg.CategoryDir)
	assert.Equal(t, "text", cfg.OutputFormat)
	assert.Equal(t, 0, cfg.MaxRecords)
	assert.Equal(t, 30*time.Second, cfg.ParseTimeout)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	cfg, err := LoadYAML([]byte("log_level: debug\noutput_format: json\nmax_records: 50\n"))
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, 50, cfg.MaxRecords)
	// untouched key keeps its default
	assert.Equal(t, "testdata/categories", cfg.CategoryDir)
}

func TestNewLoggerUsesConfiguredLevel(t *testing.T) {
	cfg := &Config{LogLevel: logrus.WarnLevel}
	logger := cfg.NewLogger()

	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
	formatter, ok := logger.Formatter.(*logrus.TextFormatter)
	assert.True(t, ok)
	assert.True(t, formatter.FullTimestamp)
	assert.Equal(t, time.RFC3339, formatter.TimestampFormat)
}

func TestResolveLevelFallsBackOnBadName(t *testing.T) {
	assert.Equal(t, logrus.InfoLevel, resolveLevel("not-a-level"))
}
