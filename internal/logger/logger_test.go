package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhyhn5012/tccb/internal/config"
)

func TestNew_WritesToFile(t *testing.T) {
	dir := t.TempDir()
	l, err := New(config.LogConfig{Level: "debug", File: "logs/tccb.log", MaxSizeMB: 1}, dir, false)
	require.NoError(t, err)

	l.Debug("roster imported")
	_ = l.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "logs", "tccb.log"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "roster imported"))
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "verbose"}, "", false)
	assert.Error(t, err)
}
