package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	SessionBackendFile  = "file"
	SessionBackendRedis = "redis"
)

// EnvVars is populated by envconfig from SQUADHUB_<NAME>.
type EnvVars struct {
	APIBaseURL     string        `envconfig:"API_BASE_URL" required:"true"`
	Env            string        `envconfig:"ENV" default:"DEV"`
	AppName        string        `envconfig:"APP_NAME" default:"SquadHub"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	ConsolePort    string        `envconfig:"CONSOLE_PORT" default:"5173"`
	SessionBackend string        `envconfig:"SESSION_BACKEND" default:"file"`
	SessionDir     string        `envconfig:"SESSION_DIR" default:""`
	RedisAddr      string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword  string        `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB        int           `envconfig:"REDIS_DB" default:"0"`
	RedisPrefix    string        `envconfig:"REDIS_PREFIX" default:"squadhub:"`
	HTTPTimeout    time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s"`
	SearchDebounce time.Duration `envconfig:"SEARCH_DEBOUNCE" default:"200ms"`
	PollInterval   time.Duration `envconfig:"POLL_INTERVAL" default:"10s"`
}

var _ EnvConfig = EnvVars{}
var _ SessionConfig = EnvVars{}
var _ ClientConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := e.ConsolePort
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return "DEV"
	}
	return e.Env
}

func (e EnvVars) GetLogLevel() string {
	return e.LogLevel
}

func (e EnvVars) GetSessionBackend() string {
	return e.SessionBackend
}

// GetSessionDir defaults to ~/.config/squadhub when unset.
func (e EnvVars) GetSessionDir() string {
	if e.SessionDir != "" {
		return e.SessionDir
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "./.squadhub"
	}
	return filepath.Join(dir, "squadhub")
}

func (e EnvVars) GetRedisAddr() string {
	return e.RedisAddr
}

func (e EnvVars) GetRedisPassword() string {
	return e.RedisPassword
}

func (e EnvVars) GetRedisDB() int {
	return e.RedisDB
}

func (e EnvVars) GetRedisPrefix() string {
	return e.RedisPrefix
}

func (e EnvVars) GetAPIBaseURL() string {
	return e.APIBaseURL
}

func (e EnvVars) GetHTTPTimeout() time.Duration {
	return e.HTTPTimeout
}

func (e EnvVars) GetSearchDebounce() time.Duration {
	return e.SearchDebounce
}

func (e EnvVars) GetPollInterval() time.Duration {
	return e.PollInterval
}
