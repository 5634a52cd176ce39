// Package logger builds the zap logger used by mutil.
package logger

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Destination is where log lines are written.
type Destination string

const (
	// Stderr keeps stdout free for JSON output.
	Stderr Destination = "stderr"
)

// Format selects the zap encoder.
type Format string

const (
	ConsoleFormat Format = "console"
	JSONFormat    Format = "json"
)

// Config holds the logging options of the command line.
type Config struct {
	Level  string      // debug, info, warn or error
	Format Format      // console or json
	Path   Destination // a file path or Stderr
}

// New returns a logger writing to cfg.Path. Empty fields fall back to
// info level, console format and stderr.
func New(cfg Config) (*zap.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	if cfg.Path == "" {
		cfg.Path = Stderr
	}

	var zc zap.Config
	switch cfg.Format {
	case "", ConsoleFormat:
		zc = zap.NewDevelopmentConfig()
		zc.Development = false
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	case JSONFormat:
		zc = zap.NewProductionConfig()
		zc.Sampling = nil
	default:
		return nil, errors.Errorf("unknown log format %q", cfg.Format)
	}

	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{string(cfg.Path)}
	zc.ErrorOutputPaths = []string{string(Stderr)}
	zc.DisableStacktrace = true

	l, err := zc.Build()
	if err != nil {
		return nil, errors.Wrap(err, "can't build logger")
	}
	return l, nil
}

// ParseLevel maps a level name to a zap level. The empty string means info.
func ParseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return 0, errors.Wrapf(err, "invalid log level %q", s)
	}
	return l, nil
}
