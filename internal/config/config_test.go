package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "http://localhost:8080/oauth/callback", cfg.Google.RedirectURI)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 12000, cfg.Summary.MaxChars)
	assert.Equal(t, 500, cfg.Summary.MaxTokens)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Development)
	assert.Empty(t, cfg.Google.ClientID)
	assert.Empty(t, cfg.Drive.DefaultFolder)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DRIVEBRIEF_SERVER_ADDR", ":9090")
	t.Setenv("DRIVEBRIEF_GOOGLE_CLIENT_ID", "env-client")
	t.Setenv("DRIVEBRIEF_OPENAI_API_KEY", "env-key")
	t.Setenv("DRIVEBRIEF_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "env-client", cfg.Google.ClientID)
	assert.Equal(t, "env-key", cfg.OpenAI.APIKey)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":7070"
google:
  client_id: file-client
  client_secret: file-secret
drive:
  default_folder: folder-from-file
summary:
  max_chars: 5000
`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "file-client", cfg.Google.ClientID)
	assert.Equal(t, "folder-from-file", cfg.Drive.DefaultFolder)
	assert.Equal(t, 5000, cfg.Summary.MaxChars)
	// Keys the file omits keep their defaults.
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":7070\"\n"), 0600))
	t.Setenv("DRIVEBRIEF_SERVER_ADDR", ":6060")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":6060", cfg.Server.Addr)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
