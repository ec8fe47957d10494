package utils

import (
	"testing"

	"massobook/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestInitializeLoggerLevels(t *testing.T) {
	prevCfg, prevLogger := config.AppConfig, Logger
	t.Cleanup(func() {
		config.AppConfig, Logger = prevCfg, prevLogger
		zap.ReplaceGlobals(prevLogger)
	})

	cases := []struct {
		name  string
		env   string
		level string
		debug bool
		info  bool
	}{
		{"development default", "development", "", true, true},
		{"production default", "production", "", false, true},
		{"explicit override", "development", "warn", false, false},
		{"unknown level keeps default", "production", "loud", false, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			config.AppConfig = config.Config{Env: tc.env, LogLevel: tc.level}
			InitializeLogger()

			assert.Equal(t, tc.debug, Logger.Core().Enabled(zap.DebugLevel))
			assert.Equal(t, tc.info, Logger.Core().Enabled(zap.InfoLevel))
		})
	}
}
