package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jsconsole.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("empty path yields defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "indent: 2\noutput: log\nlogging:\n  level: debug\n"))
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.Indent)
		assert.Equal(t, OutputLog, cfg.Output)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("partial file keeps other defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, "output: stderr\n"))
		require.NoError(t, err)
		assert.Equal(t, 4, cfg.Indent)
		assert.Equal(t, OutputStderr, cfg.Output)
	})

	t.Run("malformed yaml fails", func(t *testing.T) {
		_, err := Load(writeConfig(t, "indent: [\n"))
		require.Error(t, err)
	})

	t.Run("invalid output fails", func(t *testing.T) {
		_, err := Load(writeConfig(t, "output: printer\n"))
		require.Error(t, err)
	})

	t.Run("negative indent fails", func(t *testing.T) {
		_, err := Load(writeConfig(t, "indent: -1\n"))
		require.Error(t, err)
	})
}
