package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	return path
}

func TestInitConfiguration(t *testing.T) {
	path := writeConfigFile(t, `{
		"ApiId": 12345,
		"ApiHash": "abcdef",
		"Phone": "+49170000000",
		"WebListen": ":8080",
		"Mongo": {"uri": "mongodb://localhost:27017", "db": "fernschreiber"}
	}`)
	t.Setenv("FERNSCHREIBER_CONFIG", path)
	t.Setenv("FERNSCHREIBER_PHONE", "")
	t.Setenv("FERNSCHREIBER_LISTEN", "")

	cfg, err := InitConfiguration()
	require.NoError(t, err)

	assert.Equal(t, int32(12345), cfg.ApiId)
	assert.Equal(t, "abcdef", cfg.ApiHash)
	assert.Equal(t, "+49170000000", cfg.Phone)
	assert.Equal(t, ":8080", cfg.WebListen)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo["uri"])
	assert.Equal(t, ".tdlib", cfg.TDataDir)
}

func TestEnvironmentOverrides(t *testing.T) {
	path := writeConfigFile(t, `{"ApiId": 1, "ApiHash": "x", "Phone": "+1", "WebListen": ":8080"}`)
	t.Setenv("FERNSCHREIBER_CONFIG", path)
	t.Setenv("FERNSCHREIBER_PHONE", "+2")
	t.Setenv("FERNSCHREIBER_LISTEN", ":9090")

	cfg, err := InitConfiguration()
	require.NoError(t, err)

	assert.Equal(t, "+2", cfg.Phone)
	assert.Equal(t, ":9090", cfg.WebListen)
}

func TestMissingConfigFile(t *testing.T) {
	t.Setenv("FERNSCHREIBER_CONFIG", filepath.Join(t.TempDir(), "missing.json"))

	_, err := InitConfiguration()
	assert.Error(t, err)
}

func TestMalformedConfigFile(t *testing.T) {
	path := writeConfigFile(t, `{not json`)
	t.Setenv("FERNSCHREIBER_CONFIG", path)

	_, err := InitConfiguration()
	assert.Error(t, err)
}
