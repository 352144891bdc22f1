// Package config holds process-wide configuration for the asterix module
// and its CLI: log level/format, category definition paths, and output
// defaults.
package config

import (
	"time"

	"github.com/mcuadros/go-defaults"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by pkg/asterix and cmd/asterixctl.
type Config struct {
	LogLevel      logrus.Level  `yaml:"-"`
	LogLevelName  string        `yaml:"log_level" default:"info"`
	CategoryDir   string        `yaml:"category_dir" default:"testdata/categories"`
	OutputFormat  string        `yaml:"output_format" default:"text"` // text, outline, json, json-hier, xml, xml-hier
	Verbose       bool          `yaml:"verbose" default:"false"`
	MaxRecords    int           `yaml:"max_records" default:"0"` // 0 = unlimited
	ParseTimeout  time.Duration `yaml:"parse_timeout" default:"30s"`
}

// DefaultConfig returns the struct-tag defaults applied by go-defaults,
// with LogLevel resolved from LogLevelName.
func DefaultConfig() *Config {
	cfg := &Config{}
	defaults.SetDefaults(cfg)
	cfg.LogLevel = resolveLevel(cfg.LogLevelName)
	return cfg
}

// LoadYAML reads a YAML config file over top of DefaultConfig, so omitted
// keys keep their defaults.
func LoadYAML(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.LogLevel = resolveLevel(cfg.LogLevelName)
	return cfg, nil
}

func resolveLevel(name string) logrus.Level {
	lvl, err := logrus.ParseLevel(name)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// NewLogger builds a logrus.Logger configured per c, the way every
// asterix entry point (library facade, CLI, stream reader) gets its
// default logger.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(c.LogLevel)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	return logger
}
