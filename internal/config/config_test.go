package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := Load()
	assert.Equal(t, "127.0.0.1:8082", cfg.Addr())
	assert.Equal(t, []string{"*"}, cfg.AllowOrigins)
	assert.Equal(t, 256, cfg.MaxUploadMB)
	assert.Equal(t, "(variant %d)", cfg.VariantSuffix)
	assert.Equal(t, "(analog %d)", cfg.AnalogSuffix)
	assert.True(t, cfg.MetricsEnabled)
	assert.Empty(t, cfg.LexiconFile)
	assert.Empty(t, cfg.ConfigFile)
}

func TestLoad_EnvAndFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kpsummary.yaml"),
		[]byte("port: 9100\nallow_origins:\n  - https://a.example\n  - https://b.example\nanalog_suffix: \"(аналог %d)\"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LEXICON_FILE=lex.yaml\n"), 0o644))
	t.Setenv("PORT", "9200")
	t.Setenv("METRICS_ENABLED", "false")
	t.Cleanup(func() { os.Unsetenv("LEXICON_FILE") })

	cfg := Load()
	assert.Equal(t, 9200, cfg.Port, "env wins over file")
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowOrigins)
	assert.Equal(t, "(аналог %d)", cfg.AnalogSuffix)
	assert.Equal(t, "lex.yaml", cfg.LexiconFile)
	assert.False(t, cfg.MetricsEnabled)
	assert.Contains(t, cfg.ConfigFile, "kpsummary.yaml")
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
	assert.Equal(t, []string{"*"}, splitList(""))
	assert.Equal(t, []string{"x"}, splitList([]any{"x"}))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("loud"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
}
