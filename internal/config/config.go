package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const envPrefix = "SQUADHUB"

type Config interface {
	EnvConfig
	SessionConfig
	ClientConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type SessionConfig interface {
	GetSessionBackend() string
	GetSessionDir() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetRedisPrefix() string
}

type ClientConfig interface {
	GetAPIBaseURL() string
	GetHTTPTimeout() time.Duration
	GetSearchDebounce() time.Duration
	GetPollInterval() time.Duration
}

type mainConfig struct {
	EnvVars
}

// Load reads the SQUADHUB_* environment variables.
func Load() (Config, error) {
	var vars EnvVars
	if err := envconfig.Process(envPrefix, &vars); err != nil {
		return nil, fmt.Errorf("[config Load] %w", err)
	}
	if vars.SessionBackend != SessionBackendFile && vars.SessionBackend != SessionBackendRedis {
		return nil, fmt.Errorf("[config Load] unknown session backend %q", vars.SessionBackend)
	}
	return mainConfig{EnvVars: vars}, nil
}
