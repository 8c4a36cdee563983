package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "data/dpwh_flood_control_projects.csv", cfg.Input.Path)
	assert.Equal(t, "output", cfg.Output.Dir)
	assert.Equal(t, 5, cfg.Output.PreviewRows)
	assert.True(t, cfg.Output.XLSX)
	assert.Equal(t, 2021, cfg.Filter.StartYear)
	assert.Equal(t, 2023, cfg.Filter.EndYear)
	assert.Equal(t, 2021, cfg.Reports.BaselineYear)
	assert.Equal(t, 5, cfg.Reports.MinContractorProjects)
	assert.Equal(t, 15, cfg.Reports.TopContractors)
	assert.Equal(t, "none", cfg.Store.Driver)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
input:
  path: projects.xlsx
  sheet: Projects
filter:
  start_year: 2022
  end_year: 2022
store:
  driver: sqlite
  dsn: file:runs.db
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "projects.xlsx", cfg.Input.Path)
	assert.Equal(t, "Projects", cfg.Input.Sheet)
	assert.Equal(t, 2022, cfg.Filter.StartYear)
	assert.Equal(t, 2022, cfg.Filter.EndYear)
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Defaults still apply for unset values
	assert.Equal(t, 15, cfg.Reports.TopContractors)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("output:\n  dir: from-file\n"), 0644))
	t.Setenv("FLOOD_OUTPUT_DIR", "from-env")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Output.Dir)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("FLOOD_REPORTS_TOP_CONTRACTORS=7\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("FLOOD_REPORTS_TOP_CONTRACTORS") })

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Reports.TopContractors)
}

func TestValidateRejectsBadValues(t *testing.T) {
	chdirTemp(t)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"inverted years", func(c *Config) { c.Filter.StartYear, c.Filter.EndYear = 2023, 2021 }},
		{"unknown driver", func(c *Config) { c.Store.Driver = "mysql" }},
		{"store without dsn", func(c *Config) { c.Store.Driver = "postgres"; c.Store.DSN = "" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
		{"zero top contractors", func(c *Config) { c.Reports.TopContractors = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadExplicitFile(t *testing.T) {
	dir := chdirTemp(t)

	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reports:\n  baseline_year: 2022\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2022, cfg.Reports.BaselineYear)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
