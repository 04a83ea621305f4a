package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		environment string
		level       string
		wantLevel   zapcore.Level
		wantErr     bool
	}{
		{name: "production default", environment: "", level: "", wantLevel: zapcore.InfoLevel},
		{name: "production debug", environment: "production", level: "debug", wantLevel: zapcore.DebugLevel},
		{name: "development", environment: "Development", level: "", wantLevel: zapcore.DebugLevel},
		{name: "development warn", environment: "development", level: "warn", wantLevel: zapcore.WarnLevel},
		{name: "bad environment", environment: "staging", wantErr: true},
		{name: "bad level", environment: "production", level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, err := New(tt.environment, tt.level)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, logger)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantLevel, logger.Level())
		})
	}
}
