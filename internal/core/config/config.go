package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	coreins "github.com/pulso-lab/pulso/internal/core/insights"
)

// Config represents the top-level application config plus the resolved
// retention bucket table.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	Insights InsightsConfig `koanf:"insights"`

	// RetentionBuckets is populated by Load after parsing the optional
	// bucket override file.
	RetentionBuckets []coreins.RetentionBucket `koanf:"-"`
}

type ServerConfig struct {
	Port          int    `koanf:"port"`
	Host          string `koanf:"host"`
	MaxBodySizeMB int    `koanf:"max_body_size_mb"`
	Mode          string `koanf:"mode"` // debug | release
}

type DatabaseConfig struct {
	Type         string `koanf:"type"`
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	QueryTimeout string `koanf:"query_timeout"` // parsed and validated on startup
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

type AuthConfig struct {
	JWTSecret  string `koanf:"jwt_secret"`
	TokenTTL   string `koanf:"token_ttl"` // parsed and validated on startup
	BcryptCost int    `koanf:"bcrypt_cost"`
}

type InsightsConfig struct {
	// BucketsFile optionally overrides the built-in retention bucket table.
	BucketsFile string `koanf:"buckets_file"`
}

func (c DatabaseConfig) EffectiveQueryTimeout() time.Duration {
	d, err := time.ParseDuration(c.QueryTimeout)
	if err != nil || d <= 0 {
		return 5 * time.Second
	}
	return d
}

func (c AuthConfig) EffectiveTokenTTL() time.Duration {
	d, err := time.ParseDuration(c.TokenTTL)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.MaxBodySizeMB <= 0 {
		return fmt.Errorf("server.max_body_size_mb must be > 0")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("database.max_open_conns must be > 0")
	}
	if c.Database.MaxIdleConns <= 0 {
		return fmt.Errorf("database.max_idle_conns must be > 0")
	}
	if c.Database.Type != "" && c.Database.Type != "postgres" {
		return fmt.Errorf("unsupported database.type %q", c.Database.Type)
	}
	if c.Database.QueryTimeout != "" {
		if d, err := time.ParseDuration(c.Database.QueryTimeout); err != nil || d <= 0 {
			return fmt.Errorf("invalid database.query_timeout %q", c.Database.QueryTimeout)
		}
	}

	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters")
	}
	if c.Auth.TokenTTL != "" {
		if d, err := time.ParseDuration(c.Auth.TokenTTL); err != nil || d <= 0 {
			return fmt.Errorf("invalid auth.token_ttl %q", c.Auth.TokenTTL)
		}
	}

	return nil
}

// Load parses config from file + env, validates it, then resolves the
// retention bucket table.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":             8080,
		"server.host":             "0.0.0.0",
		"server.max_body_size_mb": 1,
		"server.mode":             "release",
		"database.type":           "postgres",
		"database.dsn":            "",
		"database.max_open_conns": 25,
		"database.max_idle_conns": 25,
		"database.query_timeout":  "5s",
		"database.auto_migrate":   true,
		"auth.jwt_secret":         "",
		"auth.token_ttl":          "24h",
		"auth.bcrypt_cost":        10,
		"insights.buckets_file":   "",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("PULSO_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "PULSO_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	buckets, err := coreins.LoadBucketsFile(cfg.Insights.BucketsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load retention buckets: %w", err)
	}
	cfg.RetentionBuckets = buckets

	return &cfg, nil
}
