package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors Config for the environment layer. Pointer fields stay nil
// when the variable is unset so the layer only overrides what is present.
type envConfig struct {
	HTTPAddr        *string        `env:"LF_HTTP_ADDR"`
	HealthAddrGRPC  *string        `env:"LF_HEALTH_ADDR_GRPC"`
	DatabaseDSN     *string        `env:"LF_DATABASE_DSN"`
	AuthMode        *string        `env:"LF_AUTH_MODE"`
	SessionBackend  *string        `env:"LF_SESSION_BACKEND"`
	SessionSecret   *string        `env:"LF_SESSION_SECRET"`
	SessionTTL      *time.Duration `env:"LF_SESSION_TTL"`
	CookieSecure    *bool          `env:"LF_COOKIE_SECURE"`
	TrustedProxies  []string       `env:"LF_TRUSTED_PROXIES" envSeparator:","`
	RedisAddr       *string        `env:"LF_REDIS_ADDR"`
	RedisPassword   *string        `env:"LF_REDIS_PASSWORD"`
	S3RootUser      *string        `env:"LF_S3_ROOT_USER"`
	S3RootPassword  *string        `env:"LF_S3_ROOT_PASSWORD"`
	S3Bucket        *string        `env:"LF_S3_BUCKET"`
	S3Region        *string        `env:"LF_S3_REGION"`
	S3BaseEndpoint  *string        `env:"LF_S3_BASE_ENDPOINT"`
	ItemRetention   *time.Duration `env:"LF_ITEM_RETENTION"`
	CleanupInterval *time.Duration `env:"LF_CLEANUP_INTERVAL"`
	LogLevel        *string        `env:"LF_LOG_LEVEL"`
}

// parseEnv overlays LF_* environment variables onto config.
func parseEnv(config *Config) error {
	var e envConfig
	if err := env.Parse(&e); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	setString(&config.HTTPAddr, e.HTTPAddr)
	setString(&config.HealthAddrGRPC, e.HealthAddrGRPC)
	setString(&config.DatabaseDSN, e.DatabaseDSN)
	setString(&config.AuthMode, e.AuthMode)
	setString(&config.SessionBackend, e.SessionBackend)
	setString(&config.SessionSecret, e.SessionSecret)
	setDuration(&config.SessionTTL, e.SessionTTL)
	if e.CookieSecure != nil {
		config.CookieSecure = *e.CookieSecure
	}
	if len(e.TrustedProxies) > 0 {
		config.TrustedProxies = e.TrustedProxies
	}
	setString(&config.RedisAddr, e.RedisAddr)
	setString(&config.RedisPassword, e.RedisPassword)
	setString(&config.S3RootUser, e.S3RootUser)
	setString(&config.S3RootPassword, e.S3RootPassword)
	setString(&config.S3Bucket, e.S3Bucket)
	setString(&config.S3Region, e.S3Region)
	setString(&config.S3BaseEndpoint, e.S3BaseEndpoint)
	setDuration(&config.ItemRetention, e.ItemRetention)
	setDuration(&config.CleanupInterval, e.CleanupInterval)
	setString(&config.LogLevel, e.LogLevel)
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *time.Duration) {
	if v != nil {
		*dst = *v
	}
}
