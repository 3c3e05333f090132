package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, "https://api.uniyatwon.com", cfg.APIBaseURL)
	assert.Equal(t, "yatwon.db", cfg.SessionDBPath)
	assert.Empty(t, cfg.PushDeviceToken)
	assert.Equal(t, 2*time.Minute, cfg.NotiCheckInterval)
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{
		"api_base_url":        "https://staging.example/api",
		"session_db_path":     "/tmp/s.db",
		"push_device_token":   "ExponentPushToken[x]",
		"noti_check_interval": "90s",
	})

	t.Run("loads from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", path}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "https://staging.example/api", cfg.APIBaseURL)
		assert.Equal(t, "/tmp/s.db", cfg.SessionDBPath)
		assert.Equal(t, "ExponentPushToken[x]", cfg.PushDeviceToken)
		assert.Equal(t, 90*time.Second, cfg.NotiCheckInterval)
	})

	t.Run("no flags, no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{APIBaseURL: "kept", SessionDBPath: "kept.db"}
		parseJson(cfg)

		assert.Equal(t, "kept", cfg.APIBaseURL)
		assert.Equal(t, "kept.db", cfg.SessionDBPath)
	})

	t.Run("partial file overrides only named fields", func(t *testing.T) {
		partial := writeTempJSON(t, map[string]any{"api_base_url": "https://only.example"})
		os.Args = []string{"testbin", "-c", partial}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg)

		assert.Equal(t, "https://only.example", cfg.APIBaseURL)
		assert.Equal(t, "yatwon.db", cfg.SessionDBPath)
	})
}

func Test_parseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("overrides from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-a", "https://flag.example", "-d", "flag.db", "-i", "30"}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseFlags(cfg)

		assert.Equal(t, "https://flag.example", cfg.APIBaseURL)
		assert.Equal(t, "flag.db", cfg.SessionDBPath)
		assert.Equal(t, 30*time.Second, cfg.NotiCheckInterval)
	})

	t.Run("unrelated flags are ignored", func(t *testing.T) {
		os.Args = []string{"testbin", "-x", "nope", "-a", "https://flag.example"}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseFlags(cfg)

		assert.Equal(t, "https://flag.example", cfg.APIBaseURL)
		assert.Equal(t, "yatwon.db", cfg.SessionDBPath)
	})
}
