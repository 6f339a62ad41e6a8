package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Url      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func writeFile(t *testing.T, path, contents string) {
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "config.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadConfigLocalOverride(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json5"), `{
		url: "https://portal.example",
		username: "default-user",
	}`)
	writeFile(t, filepath.Join(dir, "config.local.json5"), `{
		username: "override-user",
		password: "hunter2",
	}`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.NoError(t, err)
	require.Equal(t, "https://portal.example", cfg.Url)
	require.Equal(t, "override-user", cfg.Username)
	require.Equal(t, "hunter2", cfg.Password)
}

func TestReadConfigEnvExpansion(t *testing.T) {
	t.Setenv("CONFIGUTIL_TEST_PASSWORD", "s3cret")

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json5"), `{
		username: "user",
		password: "${CONFIGUTIL_TEST_PASSWORD}",
	}`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.NoError(t, err)
	require.Equal(t, "s3cret", cfg.Password)
}

func TestReadConfigEnvExpansionUnset(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "config.json5"), `{
		password: "${CONFIGUTIL_TEST_DOES_NOT_EXIST}",
	}`)

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "config.json5"))
	require.NoError(t, err)
	require.Equal(t, "", cfg.Password)
}
