// Package config loads application settings from configs/config.yml,
// with environment variables taking precedence (e.g. SESSION_SECRET,
// DB_PATH).
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultPort       = "8080"
	defaultDBPath     = "market.db"
	defaultSessionTTL = 24 * time.Hour
	defaultUploadDir  = "web/uploads"
	defaultMaxBody    = 3 << 20 // 3 MiB request body cap
)

// Config is the full application configuration.
type Config struct {
	Port     string `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`

	DB struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"db"`

	Session struct {
		Secret     string        `mapstructure:"secret"`
		TTL        time.Duration `mapstructure:"ttl"`
		CookieName string        `mapstructure:"cookie_name"`
	} `mapstructure:"session"`

	Upload struct {
		Dir      string `mapstructure:"dir"`
		MaxBytes int64  `mapstructure:"max_bytes"`
	} `mapstructure:"upload"`

	Sentiment struct {
		Enabled  bool   `mapstructure:"enabled"`
		Endpoint string `mapstructure:"endpoint"`
		Token    string `mapstructure:"token"`
	} `mapstructure:"sentiment"`

	RateLimit struct {
		RPS   float64 `mapstructure:"rps"`
		Burst int     `mapstructure:"burst"`
	} `mapstructure:"ratelimit"`
}

// Load reads configs/config.yml and environment overrides.
func Load() (*Config, error) {
	v := viper.New()
	v.AddConfigPath("configs")
	v.SetConfigName("config")

	v.SetDefault("port", defaultPort)
	v.SetDefault("log_level", "info")
	v.SetDefault("db.path", defaultDBPath)
	v.SetDefault("session.ttl", defaultSessionTTL)
	v.SetDefault("session.cookie_name", "market_session")
	v.SetDefault("upload.dir", defaultUploadDir)
	v.SetDefault("upload.max_bytes", defaultMaxBody)
	v.SetDefault("ratelimit.rps", 5.0)
	v.SetDefault("ratelimit.burst", 10)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		// missing file is fine, defaults plus env apply
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.Session.Secret == "" {
		return nil, errors.New("session.secret must be set (config or SESSION_SECRET)")
	}
	return &cfg, nil
}
