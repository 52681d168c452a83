// Package logging builds the zap logger used by the planner and the CLI.
package logging

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/topomap/config"
)

// New returns a production (JSON) or development (console) logger at the
// configured level.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("logging: level %q: %w", cfg.Level, err)
	}

	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = level

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build: %w", err)
	}

	return logger, nil
}
