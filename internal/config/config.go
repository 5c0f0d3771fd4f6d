package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Storage     StorageConfig     `yaml:"storage"`
	Redis       RedisConfig       `yaml:"redis"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
	Cache       CacheConfig       `yaml:"cache"`
	Compression CompressionConfig `yaml:"compression"`
	Scoring     ScoringConfig     `yaml:"scoring"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type ServerConfig struct {
	Port           string   `yaml:"port"`
	Mode           string   `yaml:"mode"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RequestTimeout string   `yaml:"request_timeout"`
	MaxBodyBytes   int64    `yaml:"max_body_bytes"`
}

type StorageConfig struct {
	DataDir          string `yaml:"data_dir"`
	StoreAssessments bool   `yaml:"store_assessments"`
	// RetentionDays bounds how long assessments are kept; zero keeps them forever
	RetentionDays int    `yaml:"retention_days"`
	IPHashSalt    string `yaml:"ip_hash_salt"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type RateLimitConfig struct {
	PerMinute       int `yaml:"per_minute"`
	BurstMultiplier int `yaml:"burst_multiplier"`
}

type CacheConfig struct {
	// TTL of cached /predict responses; empty or zero disables caching
	TTL string `yaml:"ttl"`
}

type CompressionConfig struct {
	Enabled bool `yaml:"enabled"`
	// MinSize is the smallest body in bytes that gets gzipped
	MinSize int `yaml:"min_size"`
	Level   int `yaml:"level"`
}

type ScoringConfig struct {
	// RandomSeed seeds the weighted random classifier; zero picks a time based seed
	RandomSeed int64 `yaml:"random_seed"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.RequestTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

func (c *Config) CacheTTL() time.Duration {
	if c.Cache.TTL == "" {
		return 0
	}
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Logging.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Seed returns the configured seed or one derived from the clock
func (c *Config) Seed() int64 {
	if c.Scoring.RandomSeed != 0 {
		return c.Scoring.RandomSeed
	}
	return time.Now().UnixNano()
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "5001",
			Mode:           "release",
			AllowedOrigins: []string{"*"},
			RequestTimeout: "30s",
			MaxBodyBytes:   16 * 1024,
		},
		Storage: StorageConfig{
			DataDir:          "./data",
			StoreAssessments: true,
			RetentionDays:    365,
		},
		RateLimit: RateLimitConfig{
			PerMinute:       60,
			BurstMultiplier: 2,
		},
		Compression: CompressionConfig{
			Enabled: true,
			MinSize: 1024,
			Level:   6,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if cfg.RateLimit.PerMinute < 0 {
		return nil, fmt.Errorf("rate_limit.per_minute must not be negative, got %d", cfg.RateLimit.PerMinute)
	}
	if cfg.Storage.RetentionDays < 0 {
		return nil, fmt.Errorf("storage.retention_days must not be negative, got %d", cfg.Storage.RetentionDays)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("GIN_MODE"); v != "" {
		cfg.Server.Mode = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		origins := []string{}
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.Server.AllowedOrigins = origins
	}
	if v := os.Getenv("REQUEST_TIMEOUT"); v != "" {
		cfg.Server.RequestTimeout = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
	}
	if v := os.Getenv("STORE_ASSESSMENTS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Storage.StoreAssessments = b
		}
	}
	if v := os.Getenv("RETENTION_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Storage.RetentionDays = n
		}
	}
	if v := os.Getenv("IP_HASH_SALT"); v != "" {
		cfg.Storage.IPHashSalt = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = n
		}
	}
	if v := os.Getenv("RATE_LIMIT_PER_MIN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimit.PerMinute = n
		}
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		cfg.Cache.TTL = v
	}
	if v := os.Getenv("COMPRESSION_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Compression.Enabled = b
		}
	}
	if v := os.Getenv("RANDOM_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Scoring.RandomSeed = n
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
