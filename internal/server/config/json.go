package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/lostfound/internal/flagx"
	"github.com/dmitrijs2005/lostfound/internal/timex"
)

// JsonConfig is the on-disk shape of the optional JSON config file.
// Duration fields accept strings such as "24h" or integer nanoseconds.
// Fields left out of the file (zero values) keep whatever the previous
// layer set.
type JsonConfig struct {
	HTTPAddr        string         `json:"http_addr"`
	HealthAddrGRPC  string         `json:"health_addr_grpc"`
	DatabaseDSN     string         `json:"database_dsn"`
	AuthMode        string         `json:"auth_mode"`
	SessionBackend  string         `json:"session_backend"`
	SessionSecret   string         `json:"session_secret"`
	SessionTTL      timex.Duration `json:"session_ttl"`
	CookieSecure    *bool          `json:"cookie_secure"`
	TrustedProxies  []string       `json:"trusted_proxies"`
	RedisAddr       string         `json:"redis_addr"`
	RedisPassword   string         `json:"redis_password"`
	S3RootUser      string         `json:"s3_root_user"`
	S3RootPassword  string         `json:"s3_root_password"`
	S3Bucket        string         `json:"s3_bucket"`
	S3Region        string         `json:"s3_region"`
	S3BaseEndpoint  string         `json:"s3_base_endpoint"`
	ItemRetention   timex.Duration `json:"item_retention"`
	CleanupInterval timex.Duration `json:"cleanup_interval"`
	LogLevel        string         `json:"log_level"`
}

// parseJson loads configuration values from the JSON file named by -c/-config
// (or $LF_CONFIG) into config. Without a path nothing is loaded. An unreadable
// file or invalid JSON panics, same as a bad flag.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	overlay(&config.HTTPAddr, c.HTTPAddr)
	overlay(&config.HealthAddrGRPC, c.HealthAddrGRPC)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.AuthMode, c.AuthMode)
	overlay(&config.SessionBackend, c.SessionBackend)
	overlay(&config.SessionSecret, c.SessionSecret)
	overlay(&config.SessionTTL, c.SessionTTL.Duration)
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
	if len(c.TrustedProxies) > 0 {
		config.TrustedProxies = c.TrustedProxies
	}
	overlay(&config.RedisAddr, c.RedisAddr)
	overlay(&config.RedisPassword, c.RedisPassword)
	overlay(&config.S3RootUser, c.S3RootUser)
	overlay(&config.S3RootPassword, c.S3RootPassword)
	overlay(&config.S3Bucket, c.S3Bucket)
	overlay(&config.S3Region, c.S3Region)
	overlay(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	overlay(&config.ItemRetention, c.ItemRetention.Duration)
	overlay(&config.CleanupInterval, c.CleanupInterval.Duration)
	overlay(&config.LogLevel, c.LogLevel)
}

func overlay[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}
