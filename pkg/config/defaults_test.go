package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/refac/pkg/config"
)

func writeDefaults(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults_YAML(t *testing.T) {
	path := writeDefaults(t, ".refac.yaml", `
backup: true
ignore_case: true
threads: 4
exclude:
  - "*.log"
  - "node_modules"
`)

	d, err := config.LoadDefaults(path)
	require.NoError(t, err)

	require.NotNil(t, d.Backup)
	assert.True(t, *d.Backup)
	require.NotNil(t, d.IgnoreCase)
	assert.True(t, *d.IgnoreCase)
	require.NotNil(t, d.Threads)
	assert.Equal(t, 4, *d.Threads)
	assert.Equal(t, []string{"*.log", "node_modules"}, d.Exclude)
	assert.Nil(t, d.MaxDepth, "absent keys stay nil")
}

func TestLoadDefaults_JSON(t *testing.T) {
	path := writeDefaults(t, ".refac.json", `{
  "backup": false,
  "format": "plain",
  "include": ["*.go"]
}`)

	d, err := config.LoadDefaults(path)
	require.NoError(t, err)

	require.NotNil(t, d.Backup)
	assert.False(t, *d.Backup)
	require.NotNil(t, d.Format)
	assert.Equal(t, "plain", *d.Format)
	assert.Equal(t, []string{"*.go"}, d.Include)
}

func TestLoadDefaults_HCL(t *testing.T) {
	path := writeDefaults(t, ".refac.hcl", `
backup   = true
threads  = 8
exclude  = ["target", "*.tmp"]
`)

	d, err := config.LoadDefaults(path)
	require.NoError(t, err)

	require.NotNil(t, d.Backup)
	assert.True(t, *d.Backup)
	require.NotNil(t, d.Threads)
	assert.Equal(t, 8, *d.Threads)
	assert.Equal(t, []string{"target", "*.tmp"}, d.Exclude)
}

func TestLoadDefaults_RejectsUnknownKeys(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		path := writeDefaults(t, ".refac.yaml", "backpu: true\n")
		_, err := config.LoadDefaults(path)
		assert.Error(t, err, "a typoed key must fail loudly")
	})

	t.Run("json", func(t *testing.T) {
		path := writeDefaults(t, ".refac.json", `{"backpu": true}`)
		_, err := config.LoadDefaults(path)
		assert.Error(t, err)
	})
}

func TestLoadDefaults_UnsupportedExtension(t *testing.T) {
	path := writeDefaults(t, ".refac.toml", "backup = true\n")
	_, err := config.LoadDefaults(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported defaults file extension")
}

func TestFindDefaultsFile(t *testing.T) {
	t.Run("none_present", func(t *testing.T) {
		_, found := config.FindDefaultsFile(t.TempDir())
		assert.False(t, found)
	})

	t.Run("prefers_yaml_over_json", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".refac.json"), []byte("{}"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".refac.yaml"), []byte(""), 0644))

		path, found := config.FindDefaultsFile(dir)
		require.True(t, found)
		assert.Equal(t, filepath.Join(dir, ".refac.yaml"), path)
	})
}

func TestDefaults_Apply(t *testing.T) {
	boolPtr := func(b bool) *bool { return &b }
	intPtr := func(i int) *int { return &i }
	strPtr := func(s string) *string { return &s }

	newConfig := func(t *testing.T) *config.RenameConfig {
		cfg, err := config.New(t.TempDir(), "old", "new")
		require.NoError(t, err)
		return cfg
	}

	t.Run("fills_unset_fields", func(t *testing.T) {
		cfg := newConfig(t)
		d := &config.Defaults{
			Backup:   boolPtr(true),
			Threads:  intPtr(6),
			Format:   strPtr("json"),
			Exclude:  []string{"*.log"},
		}

		require.NoError(t, d.Apply(cfg, nil))

		assert.True(t, cfg.Backup)
		assert.Equal(t, 6, cfg.Threads)
		assert.Equal(t, config.FormatJSON, cfg.Format)
		assert.Equal(t, []string{"*.log"}, cfg.ExcludePatterns)
	})

	t.Run("explicit_flags_win", func(t *testing.T) {
		cfg := newConfig(t)
		cfg.Backup = false
		cfg.Threads = 2
		d := &config.Defaults{
			Backup:  boolPtr(true),
			Threads: intPtr(6),
		}

		explicit := map[string]bool{"backup": true, "threads": true}
		require.NoError(t, d.Apply(cfg, func(name string) bool { return explicit[name] }))

		assert.False(t, cfg.Backup, "command-line backup choice must survive")
		assert.Equal(t, 2, cfg.Threads)
	})

	t.Run("bad_format_value_errors", func(t *testing.T) {
		cfg := newConfig(t)
		d := &config.Defaults{Format: strPtr("yaml")}
		assert.Error(t, d.Apply(cfg, nil))
	})
}
