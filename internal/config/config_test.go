package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/jrsteele09/squadhub/internal/config"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://api.example.com/api"

func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SQUADHUB_API_BASE_URL", "SQUADHUB_ENV", "SQUADHUB_APP_NAME", "SQUADHUB_LOG_LEVEL",
		"SQUADHUB_CONSOLE_PORT", "SQUADHUB_SESSION_BACKEND", "SQUADHUB_SESSION_DIR",
		"SQUADHUB_REDIS_ADDR", "SQUADHUB_HTTP_TIMEOUT", "SQUADHUB_SEARCH_DEBOUNCE",
	} {
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("SQUADHUB_API_BASE_URL", testBaseURL)

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, testBaseURL, cfg.GetAPIBaseURL())
	require.Equal(t, "DEV", cfg.GetEnv())
	require.Equal(t, "SquadHub", cfg.GetAppName())
	require.Equal(t, ":5173", cfg.GetPort())
	require.Equal(t, config.SessionBackendFile, cfg.GetSessionBackend())
	require.Equal(t, 15*time.Second, cfg.GetHTTPTimeout())
	require.Equal(t, 200*time.Millisecond, cfg.GetSearchDebounce())
	require.NotEmpty(t, cfg.GetSessionDir())
}

func TestLoad_Overrides(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		assertFn func(t *testing.T, cfg config.Config)
	}{
		{
			name:    "custom port with colon",
			envVars: map[string]string{"SQUADHUB_CONSOLE_PORT": ":9000"},
			assertFn: func(t *testing.T, cfg config.Config) {
				require.Equal(t, ":9000", cfg.GetPort())
			},
		},
		{
			name:    "redis backend",
			envVars: map[string]string{"SQUADHUB_SESSION_BACKEND": "redis", "SQUADHUB_REDIS_ADDR": "redis:6379"},
			assertFn: func(t *testing.T, cfg config.Config) {
				require.Equal(t, config.SessionBackendRedis, cfg.GetSessionBackend())
				require.Equal(t, "redis:6379", cfg.GetRedisAddr())
			},
		},
		{
			name:    "explicit session dir",
			envVars: map[string]string{"SQUADHUB_SESSION_DIR": "/tmp/squad"},
			assertFn: func(t *testing.T, cfg config.Config) {
				require.Equal(t, "/tmp/squad", cfg.GetSessionDir())
			},
		},
		{
			name:    "debounce duration",
			envVars: map[string]string{"SQUADHUB_SEARCH_DEBOUNCE": "350ms"},
			assertFn: func(t *testing.T, cfg config.Config) {
				require.Equal(t, 350*time.Millisecond, cfg.GetSearchDebounce())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnvVars(t)
			t.Setenv("SQUADHUB_API_BASE_URL", testBaseURL)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}
			cfg, err := config.Load()
			require.NoError(t, err)
			tt.assertFn(t, cfg)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing base url", func(t *testing.T) {
		clearEnvVars(t)
		_, err := config.Load()
		require.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("SQUADHUB_API_BASE_URL", testBaseURL)
		t.Setenv("SQUADHUB_SESSION_BACKEND", "sqlite")
		_, err := config.Load()
		require.Error(t, err)
		require.Contains(t, err.Error(), "unknown session backend")
	})
}
