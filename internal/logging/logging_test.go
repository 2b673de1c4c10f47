package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		verbose bool
		debug   bool
		warn    bool
	}{
		{verbose: true, debug: true, warn: true},
		{verbose: false, debug: false, warn: true},
	}
	for _, tt := range tests {
		log, err := New(tt.verbose)
		require.NoError(t, err)
		core := log.Desugar().Core()
		assert.Equal(t, tt.debug, core.Enabled(zapcore.DebugLevel), "verbose=%v", tt.verbose)
		assert.Equal(t, tt.warn, core.Enabled(zapcore.WarnLevel), "verbose=%v", tt.verbose)
	}
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() { Nop().Infow("ignored", "k", "v") })
}
