package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"a11y-bot/internal/infrastructure/env"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "a11y.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.True(t, cfg.Browser.Headless)
	assert.True(t, cfg.Audit.Axe)
	assert.Equal(t, 60*time.Second, cfg.Browser.NavigationTimeout)
	assert.Equal(t, "pdf", cfg.Report.Format)
	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.AdvisorEnabled())
}

func TestLoadFile(t *testing.T) {
	path := writeProfile(t, `
browser:
  stealth: true
  navigation_timeout: 30s
audit:
  axe_tags: [wcag2a, wcag2aa]
  screenshot: true
report:
  format: md
  out_dir: reports
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.True(t, cfg.Browser.Stealth)
	assert.True(t, cfg.Browser.Headless, "keys absent from the file keep defaults")
	assert.True(t, cfg.Audit.Axe)
	assert.Equal(t, 30*time.Second, cfg.Browser.NavigationTimeout)
	assert.Equal(t, 10*time.Second, cfg.Browser.Timeout)
	assert.Equal(t, []string{"wcag2a", "wcag2aa"}, cfg.Audit.AxeTags)
	assert.True(t, cfg.Audit.Screenshot)
	assert.Equal(t, "md", cfg.Report.Format)
	assert.Equal(t, "reports", cfg.Report.OutDir)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadFile(writeProfile(t, "browser: [not, a, map]"))
	assert.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeProfile(t, `
browser:
  headless: true
report:
  format: json
`)
	t.Setenv("A11Y_CONFIG", path)
	t.Setenv("A11Y_HEADLESS", "false")
	t.Setenv("A11Y_FORMAT", "yaml")
	t.Setenv("A11Y_AXE", "false")
	t.Setenv("OPENROUTER_API_KEY", "")

	cfg, err := Load(&env.EnvService{})
	require.NoError(t, err)

	assert.False(t, cfg.Browser.Headless)
	assert.False(t, cfg.Audit.Axe)
	assert.Equal(t, "yaml", cfg.Report.Format)
}

func TestLoad_Validation(t *testing.T) {
	t.Setenv("A11Y_CONFIG", "")
	t.Setenv("A11Y_FORMAT", "docx")

	_, err := Load(&env.EnvService{})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	t.Setenv("A11Y_FORMAT", "html")
	t.Setenv("A11Y_SUGGEST", "true")
	t.Setenv("OPENROUTER_API_KEY", "")

	_, err = Load(&env.EnvService{})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	t.Setenv("OPENROUTER_API_KEY", "sk-test")
	cfg, err := Load(&env.EnvService{})
	require.NoError(t, err)
	assert.True(t, cfg.AdvisorEnabled())
}
