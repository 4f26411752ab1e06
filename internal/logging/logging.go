// Package logging builds the zap logger used by the CLI.
package logging

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cleared-dev/pocketbook/internal/config"
)

// New builds a logger from cfg writing to stderr, plus any extra writers.
func New(cfg config.LoggingConfig, extraWriters ...zapcore.WriteSyncer) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = func(ts time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(ts.UTC().Format(time.RFC3339))
	}

	var encoder zapcore.Encoder
	switch cfg.Encoding {
	case "json":
		encoder = zapcore.NewJSONEncoder(encCfg)
	case "console", "":
		encoder = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("log encoding %q: want console or json", cfg.Encoding)
	}

	ws := zapcore.NewMultiWriteSyncer(append(extraWriters, zapcore.Lock(os.Stderr))...)
	return zap.New(zapcore.NewCore(encoder, ws, level)), nil
}
