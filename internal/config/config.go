package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config represents the complete service configuration
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Redis    RedisConfig    `toml:"redis"`
	Storage  StorageConfig  `toml:"storage"`
	Log      LogConfig      `toml:"log"`
	Jobs     JobsConfig     `toml:"jobs"`
}

// ServerConfig contains HTTP listener settings
type ServerConfig struct {
	Port            int    `toml:"port"`
	PublicURL       string `toml:"public_url"` // prefix for absolute image URLs in responses
	BodyLimit       string `toml:"body_limit"`
	ShutdownTimeout int    `toml:"shutdown_timeout_seconds"`
	ShopName        string `toml:"shop_name"` // printed on rental slips
}

// DatabaseConfig contains PostgreSQL settings
type DatabaseConfig struct {
	URL          string `toml:"url"`
	EnsureSchema bool   `toml:"ensure_schema"`
}

// RedisConfig contains cache settings. An empty Addr disables caching.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TTLMinutes int    `toml:"ttl_minutes"`
}

// StorageConfig contains media storage settings
type StorageConfig struct {
	Backend        string `toml:"backend"` // "local" or "minio"
	UploadDir      string `toml:"upload_dir"`
	MaxFileSizeMB  int64  `toml:"max_file_size_mb"`
	MinioEndpoint  string `toml:"minio_endpoint"`
	MinioAccessKey string `toml:"minio_access_key"`
	MinioSecretKey string `toml:"minio_secret_key"`
	MinioUseSSL    bool   `toml:"minio_use_ssl"`
	MinioBucket    string `toml:"minio_bucket"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "text"
}

// JobsConfig contains background job settings
type JobsConfig struct {
	OverdueCheckMinutes int `toml:"overdue_check_minutes"` // 0 disables the job
	CacheFlushMinutes   int `toml:"cache_flush_minutes"`   // 0 disables the job
}

// Default returns the configuration used when no file or env override is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            5001,
			PublicURL:       "http://localhost:5001",
			BodyLimit:       "12M",
			ShutdownTimeout: 10,
			ShopName:        "CLOSETRENT",
		},
		Database: DatabaseConfig{
			EnsureSchema: true,
		},
		Redis: RedisConfig{
			TTLMinutes: 15,
		},
		Storage: StorageConfig{
			Backend:       "local",
			UploadDir:     "uploads",
			MaxFileSizeMB: 5,
			MinioBucket:   "closetrent-uploads",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Jobs: JobsConfig{
			OverdueCheckMinutes: 60,
			CacheFlushMinutes:   360,
		},
	}
}

// Load builds the configuration from defaults, an optional TOML file, a
// .env file if present, and finally the process environment.
func Load(filename string) (*Config, error) {
	cfg := Default()

	if filename != "" {
		if _, err := toml.DecodeFile(filename, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// .env is optional
	_ = godotenv.Load()

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) overrideWithEnv() {
	if val := os.Getenv("PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.Server.Port = port
		}
	}
	if val := os.Getenv("PUBLIC_URL"); val != "" {
		c.Server.PublicURL = val
	}
	if val := os.Getenv("DATABASE_URL"); val != "" {
		c.Database.URL = val
	}

	if val := os.Getenv("REDIS_ADDR"); val != "" {
		c.Redis.Addr = val
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		c.Redis.Password = val
	}
	if val := os.Getenv("REDIS_DB"); val != "" {
		if db, err := strconv.Atoi(val); err == nil {
			c.Redis.DB = db
		}
	}

	if val := os.Getenv("STORAGE_BACKEND"); val != "" {
		c.Storage.Backend = val
	}
	if val := os.Getenv("UPLOAD_DIR"); val != "" {
		c.Storage.UploadDir = val
	}
	if val := os.Getenv("MINIO_ENDPOINT"); val != "" {
		c.Storage.MinioEndpoint = val
	}
	if val := os.Getenv("MINIO_ACCESS_KEY"); val != "" {
		c.Storage.MinioAccessKey = val
	}
	if val := os.Getenv("MINIO_SECRET_KEY"); val != "" {
		c.Storage.MinioSecretKey = val
	}
	if val := os.Getenv("MINIO_USE_SSL"); val != "" {
		c.Storage.MinioUseSSL = val == "true"
	}
	if val := os.Getenv("MINIO_BUCKET"); val != "" {
		c.Storage.MinioBucket = val
	}

	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}
}

// Validate checks the configuration for values the service cannot start with.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("database url is required (DATABASE_URL)")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d is out of range", c.Server.Port)
	}
	if c.Jobs.OverdueCheckMinutes < 0 || c.Jobs.CacheFlushMinutes < 0 {
		return errors.New("job intervals must not be negative")
	}
	if c.Storage.MaxFileSizeMB <= 0 {
		return errors.New("storage max_file_size_mb must be positive")
	}

	switch strings.ToLower(c.Storage.Backend) {
	case "local":
		if c.Storage.UploadDir == "" {
			return errors.New("storage upload_dir is required for the local backend")
		}
	case "minio":
		if c.Storage.MinioEndpoint == "" || c.Storage.MinioBucket == "" {
			return errors.New("minio endpoint and bucket are required for the minio backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	return nil
}

// CacheTTL returns the cache entry lifetime.
func (c *Config) CacheTTL() time.Duration {
	if c.Redis.TTLMinutes <= 0 {
		return 15 * time.Minute
	}
	return time.Duration(c.Redis.TTLMinutes) * time.Minute
}

// MaxFileSize returns the upload size limit in bytes.
func (c *Config) MaxFileSize() int64 {
	return c.Storage.MaxFileSizeMB * 1024 * 1024
}
