package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/hsiuhsiu/simfx-go/pkg/simfx"
	"github.com/hsiuhsiu/simfx-go/pkg/simfx/logging"
)

// DefaultConfigFile is read from the working directory when --config is not
// given. A missing default file is not an error.
const DefaultConfigFile = "simfx.yml"

// fileConfig is the YAML configuration file. Command-line flags override it.
type fileConfig struct {
	Library         string `yaml:"library"`
	Threads         int    `yaml:"threads"`
	RequiredVersion string `yaml:"required_version"`
	LogLevel        string `yaml:"log_level"`
	ResultsDB       string `yaml:"results_db"`
	RedactPaths     bool   `yaml:"redact_paths"`
}

func defaultConfig() fileConfig {
	return fileConfig{LogLevel: "info", ResultsDB: "results.db"}
}

// loadConfig reads path over the defaults. When explicit is false a missing
// file is ignored.
func loadConfig(path string, explicit bool) (fileConfig, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Threads < 0 {
		return cfg, fmt.Errorf("config %s: threads must not be negative", path)
	}
	return cfg, nil
}

func (c fileConfig) simfxConfig(log *zap.Logger) simfx.Config {
	return simfx.Config{
		LibraryPath:     c.Library,
		ThreadCount:     c.Threads,
		RequiredVersion: c.RequiredVersion,
		Logger:          logging.NewZap(log),
		RedactPaths:     c.RedactPaths,
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}
