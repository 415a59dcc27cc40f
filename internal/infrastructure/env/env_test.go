package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvService_TypedGetters(t *testing.T) {
	t.Setenv("A11Y_TEST_BOOL", "true")
	t.Setenv("A11Y_TEST_INT", "42")
	t.Setenv("A11Y_TEST_FLOAT", "4.5")
	t.Setenv("A11Y_TEST_DURATION", "90s")
	t.Setenv("A11Y_TEST_SECONDS", "30")
	t.Setenv("A11Y_TEST_BAD", "nope")
	t.Setenv("A11Y_TEST_SPACES", "  value  ")

	e := &EnvService{}

	assert.True(t, e.GetBool("A11Y_TEST_BOOL", false))
	assert.False(t, e.GetBool("A11Y_TEST_BAD", false))
	assert.Equal(t, 42, e.GetInt("A11Y_TEST_INT", 0))
	assert.Equal(t, 7, e.GetInt("A11Y_TEST_BAD", 7))
	assert.Equal(t, 4.5, e.GetFloat("A11Y_TEST_FLOAT", 0))
	assert.Equal(t, 3.0, e.GetFloat("A11Y_TEST_MISSING", 3.0))
	assert.Equal(t, 90*time.Second, e.GetDuration("A11Y_TEST_DURATION", 0))
	assert.Equal(t, 30*time.Second, e.GetDuration("A11Y_TEST_SECONDS", 0))
	assert.Equal(t, time.Minute, e.GetDuration("A11Y_TEST_BAD", time.Minute))
	assert.Equal(t, "value", e.Get("A11Y_TEST_SPACES"))
	assert.Equal(t, "fallback", e.GetDefault("A11Y_TEST_MISSING", "fallback"))

	_, ok := e.Lookup("A11Y_TEST_MISSING")
	assert.False(t, ok)
}

func TestNewEnvService_LoadsProfileOverBase(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("A11Y_TEST_LAYER=base\nA11Y_TEST_BASE_ONLY=yes\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.ci"), []byte("A11Y_TEST_LAYER=ci\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("APP_ENV", "ci")
	t.Setenv("A11Y_TEST_LAYER", "")
	t.Setenv("A11Y_TEST_BASE_ONLY", "")
	require.NoError(t, os.Unsetenv("A11Y_TEST_LAYER"))
	require.NoError(t, os.Unsetenv("A11Y_TEST_BASE_ONLY"))

	e := NewEnvService()
	assert.Equal(t, "ci", e.Get("A11Y_TEST_LAYER"))
	assert.Equal(t, "yes", e.Get("A11Y_TEST_BASE_ONLY"))
}
