package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every knob the service reads. It is built once in main and
// injected into the components that need it; nothing reads viper after Load.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	Business BusinessConfig `mapstructure:"business"`
	Sentry   SentryConfig   `mapstructure:"sentry"`
	Tracing  TracingConfig  `mapstructure:"tracing"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	Mode            string        `mapstructure:"mode"` // gin mode: debug, release, test
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	RateLimitRPS    float64       `mapstructure:"rate_limit_rps"`
	RateLimitBurst  int           `mapstructure:"rate_limit_burst"`
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	// Channel carrying chat session change events.
	FeedChannel string `mapstructure:"feed_channel"`
	// TTL for cached analytics snapshots.
	AnalyticsTTL time.Duration `mapstructure:"analytics_ttl"`
}

type AuthConfig struct {
	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`
}

// GatewayConfig points at the serverless collaborators. They are opaque
// request/response endpoints; only the base URL and key are configurable.
type GatewayConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// BusinessConfig carries the quote arithmetic constants (MXN).
type BusinessConfig struct {
	AlignmentPrice    int64 `mapstructure:"alignment_price"`
	FreeShippingMin   int64 `mapstructure:"free_shipping_min"`
	ShippingPerPair   int64 `mapstructure:"shipping_per_pair"`
	LowStockThreshold int64 `mapstructure:"low_stock_threshold"`
}

type SentryConfig struct {
	DSN         string `mapstructure:"dsn"`
	Environment string `mapstructure:"environment"`
}

type TracingConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
	Service  string `mapstructure:"service"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads config.yaml from the working directory (or CONFIG_PATH) and
// applies RELUVSA_* environment overrides.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if p := v.GetString("config_path"); p != "" {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix("RELUVSA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Missing file is fine, env + defaults carry the service.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("server.rate_limit_rps", 50.0)
	v.SetDefault("server.rate_limit_burst", 100)

	v.SetDefault("database.dsn", "host=localhost user=postgres password=postgres dbname=reluvsa port=5432 sslmode=disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.feed_channel", "chat_sessions:changes")
	v.SetDefault("redis.analytics_ttl", 5*time.Minute)

	v.SetDefault("auth.token_ttl", 12*time.Hour)

	v.SetDefault("gateway.timeout", 15*time.Second)

	v.SetDefault("business.alignment_price", 250)
	v.SetDefault("business.free_shipping_min", 2499)
	v.SetDefault("business.shipping_per_pair", 299)
	v.SetDefault("business.low_stock_threshold", 4)

	v.SetDefault("tracing.service", "reluvsa-admin-api")

	v.SetDefault("log.level", "info")
}
