package logging_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/topomap/config"
	"github.com/katalvlaran/topomap/logging"
)

func TestNew_Levels(t *testing.T) {
	t.Parallel()

	cases := []struct {
		cfg  config.LogConfig
		want zapcore.Level
	}{
		{config.LogConfig{Level: "info"}, zapcore.InfoLevel},
		{config.LogConfig{Level: "debug", Development: true}, zapcore.DebugLevel},
		{config.LogConfig{Level: "warn"}, zapcore.WarnLevel},
	}
	for _, tc := range cases {
		logger, err := logging.New(tc.cfg)
		require.NoError(t, err)
		require.True(t, logger.Core().Enabled(tc.want))
		require.False(t, logger.Core().Enabled(tc.want-1))
	}
}

func TestNew_BadLevel(t *testing.T) {
	t.Parallel()

	_, err := logging.New(config.LogConfig{Level: "chatty"})
	require.ErrorContains(t, err, "chatty")
}
