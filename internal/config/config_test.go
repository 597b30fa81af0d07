package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("APPDATA", "")
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, k := range []string{"MANGAFOX_OUTPUT", "MANGAFOX_DELAY", "MANGAFOX_BASE_URL", "MANGAFOX_ENUMERATE"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	return dir
}

func TestLoadMergedWithoutProfile(t *testing.T) {
	isolate(t)

	cfg, used, err := LoadMerged(Options{})
	require.NoError(t, err)
	assert.Contains(t, used, "default config in memory")
	assert.Equal(t, ".", cfg.Output)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultSearchRetryDelay, cfg.SearchRetryDelay)
}

func TestLoadMergedPrecedence(t *testing.T) {
	isolate(t)

	path, err := InitDefaultConfig()
	require.NoError(t, err)

	cfg := DefaultConfig()
	cfg.Output = "from-file"
	cfg.Enumerate = true
	cfg.Delay = 2 * time.Second
	require.NoError(t, SaveYAML(cfg, path))

	got, used, err := LoadMerged(Options{})
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, "from-file", got.Output)
	assert.True(t, got.Enumerate)
	assert.Equal(t, 2*time.Second, got.Delay)

	t.Setenv("MANGAFOX_OUTPUT", "from-env")
	got, _, err = LoadMerged(Options{})
	require.NoError(t, err)
	assert.Equal(t, "from-env", got.Output)

	got, _, err = LoadMerged(Options{Output: "from-flag", BaseURL: "http://mirror.test"})
	require.NoError(t, err)
	assert.Equal(t, "from-flag", got.Output)
	assert.Equal(t, "http://mirror.test/", got.BaseURL)
}

func TestLoadMergedZeroSearchRetryDelay(t *testing.T) {
	isolate(t)

	path, err := InitDefaultConfig()
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.SearchRetryDelay = 0
	require.NoError(t, SaveYAML(cfg, path))

	got, _, err := LoadMerged(Options{})
	require.NoError(t, err)
	assert.Zero(t, got.SearchRetryDelay)
}

func TestLoadMergedIgnoreConfig(t *testing.T) {
	isolate(t)

	path, err := InitDefaultConfig()
	require.NoError(t, err)
	cfg := DefaultConfig()
	cfg.Output = "from-file"
	require.NoError(t, SaveYAML(cfg, path))
	t.Setenv("MANGAFOX_OUTPUT", "from-env")

	got, used, err := LoadMerged(Options{IgnoreConfig: true})
	require.NoError(t, err)
	assert.Equal(t, "(ignored config)", used)
	assert.Equal(t, ".", got.Output)
}

func TestLoadMergedEnvFile(t *testing.T) {
	isolate(t)

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("MANGAFOX_DELAY=750ms\nMANGAFOX_ENUMERATE=true\n"), 0644))
	t.Cleanup(func() {
		_ = os.Unsetenv("MANGAFOX_DELAY")
		_ = os.Unsetenv("MANGAFOX_ENUMERATE")
	})

	got, _, err := LoadMerged(Options{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, got.Delay)
	assert.True(t, got.Enumerate)

	_, _, err = LoadMerged(Options{EnvFile: filepath.Join(t.TempDir(), "missing.env")})
	assert.ErrorContains(t, err, "error loading env file")
}

func TestProfileLifecycle(t *testing.T) {
	root := isolate(t)

	_, err := InitDefaultConfig()
	require.NoError(t, err)

	_, err = InitDefaultConfig()
	assert.True(t, errors.Is(err, os.ErrExist))

	path, err := CreateConfig("work")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "mangafox", "configs", "work.yaml"), path)

	_, err = CreateConfig("work")
	assert.Error(t, err)

	require.NoError(t, SwitchConfig("work"))
	label, err := CurrentLabel()
	require.NoError(t, err)
	assert.Equal(t, "work", label)

	require.NoError(t, RenameConfig("work", "home"))
	label, _ = CurrentLabel()
	assert.Equal(t, "home", label)

	list, err := ListConfigs()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Default", list[0].Label)
	assert.Equal(t, "home", list[1].Label)
	assert.True(t, list[1].Active)

	require.NoError(t, RemoveConfig("home"))
	label, _ = CurrentLabel()
	assert.Equal(t, DefaultLabel, label)

	assert.Error(t, RemoveConfig(DefaultLabel))
	assert.Error(t, SwitchConfig("missing"))
}

func TestInvalidLabels(t *testing.T) {
	isolate(t)

	for _, label := range []string{"", "  ", "../escape", `a\b`, ".."} {
		_, err := CreateConfig(label)
		assert.Error(t, err, "label %q", label)
	}
}
