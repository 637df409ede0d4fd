package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom("")
	require.NoError(t, err)

	require.Equal(t, "http://localhost:5000/api", cfg.API.URL)
	require.Equal(t, 10*time.Second, cfg.API.Timeout)
	require.Equal(t, "warn", cfg.Logging.Level)
	require.Equal(t, "console", cfg.Logging.Format)
	require.Equal(t, "@every 5m", cfg.Session.RefreshSchedule)
	require.Equal(t, ":5000", cfg.MockAPI.Addr)
	require.Equal(t, []string{"http://localhost:5173"}, cfg.MockAPI.AllowedOrigins)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ALUMNET_API_URL", "https://alumni.example.edu/api/")
	t.Setenv("ALUMNET_TIMEOUT", "3s")
	t.Setenv("MOCKAPI_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := LoadFrom("")
	require.NoError(t, err)
	require.Equal(t, "https://alumni.example.edu/api", cfg.API.URL)
	require.Equal(t, 3*time.Second, cfg.API.Timeout)
	require.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.MockAPI.AllowedOrigins)
}

func TestUserFileAndPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_url: http://file.test/api\ntimeout: 20s\n"), 0600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	require.Equal(t, "http://file.test/api", cfg.API.URL)
	require.Equal(t, 20*time.Second, cfg.API.Timeout)
	require.Equal(t, path, cfg.UserFile)

	t.Setenv("ALUMNET_API_URL", "http://env.test/api")
	cfg, err = LoadFrom(path)
	require.NoError(t, err)
	require.Equal(t, "http://env.test/api", cfg.API.URL, "environment wins over the file")
	require.Equal(t, 20*time.Second, cfg.API.Timeout)
}

func TestInvalidValues(t *testing.T) {
	t.Run("url", func(t *testing.T) {
		t.Setenv("ALUMNET_API_URL", "localhost:5000")
		_, err := LoadFrom("")
		require.Error(t, err)
	})

	t.Run("timeout", func(t *testing.T) {
		t.Setenv("ALUMNET_TIMEOUT", "0s")
		_, err := LoadFrom("")
		require.Error(t, err)
	})

	t.Run("file timeout", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("timeout: soon\n"), 0600))
		_, err := LoadFrom(path)
		require.Error(t, err)
	})
}

func TestRememberEmail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, RememberEmail(path, "ada@example.com"))
	require.NoError(t, RememberEmail(path, "grace@example.com"))

	cfg, err := LoadUserConfig(path)
	require.NoError(t, err)
	require.Equal(t, "grace@example.com", cfg.LastEmail)
}
