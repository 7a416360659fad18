package cmd

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "scopemv", configBaseName)
	assert.Equal(t, "scopemv.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "output", outputFlagName)
	assert.Equal(t, "search", searchFlagName)
	assert.Equal(t, "exclude", excludeFlagName)
	assert.Equal(t, "paths.search", searchConfigKey)
	assert.Equal(t, "paths.extension", extensionConfigKey)
	assert.Equal(t, "suggest.prefix", prefixConfigKey)
	assert.Equal(t, "suggest.exclude", excludeConfigKey)
	assert.Equal(t, "suggest.use_source_as_root", sourceRootConfigKey)
	assert.Equal(t, "suggest.collapse_duplicates", collapseConfigKey)
	assert.Equal(t, ".scopemv-reports", defaultReportsDir)
	assert.Equal(t, ".src", defaultExtension)
	assert.Equal(t, "SCOPEMV", envPrefix)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  slog.Level
	}{
		{"empty uses default", "", slog.LevelWarn},
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"warning", "warning", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"mixed case", "DeBuG", slog.LevelDebug},
		{"padded", "  info  ", slog.LevelInfo},
		{"numeric", "-4", slog.LevelDebug},
		{"garbage uses default", "loud", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelWarn))
		})
	}
}
