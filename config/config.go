package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	CatalogFixtures = "fixtures"
	CatalogCMS      = "cms"
	CatalogPostgres = "postgres"

	CartRedis  = "redis"
	CartSqlite = "sqlite"
	CartBolt   = "bolt"
)

type Config struct {
	HttpAddr string `yaml:"http_addr"`
	LogMode  string `yaml:"log_mode"`
	// LogFile enables a rotated JSON log file next to console output.
	LogFile string `yaml:"log_file"`

	Catalog struct {
		Source  string        `yaml:"source"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"catalog"`

	CMS struct {
		ProjectId  string `yaml:"project_id"`
		Dataset    string `yaml:"dataset"`
		ApiVersion string `yaml:"api_version"`
		UseCdn     bool   `yaml:"use_cdn"`
		BaseUrl    string `yaml:"base_url"`
	} `yaml:"cms"`

	Database struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
	} `yaml:"database"`

	Redis struct {
		Host     string `yaml:"host"`
		Port     string `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Cache struct {
		Enabled bool          `yaml:"enabled"`
		Prefix  string        `yaml:"prefix"`
		TTL     time.Duration `yaml:"ttl"`
	} `yaml:"cache"`

	Cart struct {
		Storage       string        `yaml:"storage"`
		Namespace     string        `yaml:"namespace"`
		TTL           time.Duration `yaml:"ttl"`
		SqlitePath    string        `yaml:"sqlite_path"`
		BoltPath      string        `yaml:"bolt_path"`
		PurgeSchedule string        `yaml:"purge_schedule"`
	} `yaml:"cart"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

func Default() *Config {
	c := &Config{
		HttpAddr:        ":8080",
		LogMode:         "development",
		ShutdownTimeout: 30 * time.Second,
	}
	c.Catalog.Source = CatalogFixtures
	c.Catalog.Timeout = 5 * time.Second
	c.CMS.Dataset = "production"
	c.CMS.ApiVersion = "2024-01-01"
	c.CMS.UseCdn = true
	c.Database.Port = "5432"
	c.Redis.Host = "localhost"
	c.Redis.Port = "6379"
	c.Cache.Prefix = "catalog:"
	c.Cache.TTL = 5 * time.Minute
	c.Cart.Storage = CartSqlite
	c.Cart.Namespace = "jnj-cart"
	c.Cart.TTL = 24 * time.Hour
	c.Cart.SqlitePath = "./cart.db"
	c.Cart.BoltPath = "./cart.bolt"
	c.Cart.PurgeSchedule = "@every 1h"
	return c
}

// Load builds the configuration from defaults, an optional YAML file named by
// CONFIG_FILE, and environment variables (a .env file is read first when present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	c := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}
	if err := c.applyEnv(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyEnv() (err error) {
	c.HttpAddr = getEnv("HTTP_ADDR", c.HttpAddr)
	c.LogMode = getEnv("LOG_MODE", c.LogMode)
	c.LogFile = getEnv("LOG_FILE", c.LogFile)

	c.Catalog.Source = getEnv("CATALOG_SOURCE", c.Catalog.Source)
	if c.Catalog.Timeout, err = getEnvDuration("CATALOG_TIMEOUT", c.Catalog.Timeout); err != nil {
		return
	}

	c.CMS.ProjectId = getEnv("SANITY_PROJECT_ID", c.CMS.ProjectId)
	c.CMS.Dataset = getEnv("SANITY_DATASET", c.CMS.Dataset)
	c.CMS.ApiVersion = getEnv("SANITY_API_VERSION", c.CMS.ApiVersion)
	c.CMS.BaseUrl = getEnv("SANITY_BASE_URL", c.CMS.BaseUrl)
	if c.CMS.UseCdn, err = getEnvBool("SANITY_USE_CDN", c.CMS.UseCdn); err != nil {
		return
	}

	c.Database.Host = getEnv("DATABASE_HOST", c.Database.Host)
	c.Database.Port = getEnv("DATABASE_PORT", c.Database.Port)
	c.Database.User = getEnv("DATABASE_USER", c.Database.User)
	c.Database.Password = getEnv("DATABASE_PASSWORD", c.Database.Password)
	c.Database.Name = getEnv("DATABASE_NAME", c.Database.Name)

	c.Redis.Host = getEnv("REDIS_HOST", c.Redis.Host)
	c.Redis.Port = getEnv("REDIS_PORT", c.Redis.Port)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	if c.Redis.DB, err = getEnvInt("REDIS_DB", c.Redis.DB); err != nil {
		return
	}

	if c.Cache.Enabled, err = getEnvBool("CACHE_ENABLED", c.Cache.Enabled); err != nil {
		return
	}
	c.Cache.Prefix = getEnv("CACHE_PREFIX", c.Cache.Prefix)
	if c.Cache.TTL, err = getEnvDuration("CACHE_TTL", c.Cache.TTL); err != nil {
		return
	}

	c.Cart.Storage = getEnv("CART_STORAGE", c.Cart.Storage)
	c.Cart.Namespace = getEnv("CART_NAMESPACE", c.Cart.Namespace)
	c.Cart.SqlitePath = getEnv("CART_SQLITE_PATH", c.Cart.SqlitePath)
	c.Cart.BoltPath = getEnv("CART_BOLT_PATH", c.Cart.BoltPath)
	c.Cart.PurgeSchedule = getEnv("CART_PURGE_SCHEDULE", c.Cart.PurgeSchedule)
	if c.Cart.TTL, err = getEnvDuration("CART_TTL", c.Cart.TTL); err != nil {
		return
	}

	c.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout)
	return
}

func (c *Config) Validate() error {
	switch c.Catalog.Source {
	case CatalogFixtures, CatalogCMS, CatalogPostgres:
	default:
		return fmt.Errorf("unknown catalog source %q", c.Catalog.Source)
	}
	switch c.Cart.Storage {
	case CartRedis, CartSqlite, CartBolt:
	default:
		return fmt.Errorf("unknown cart storage %q", c.Cart.Storage)
	}
	if c.Cart.Namespace == "" {
		return fmt.Errorf("cart namespace must be set")
	}
	return nil
}

// RedisNeeded reports whether any configured component talks to Redis.
func (c *Config) RedisNeeded() bool {
	return c.Cart.Storage == CartRedis || (c.Cache.Enabled && c.Catalog.Source != CatalogFixtures)
}

func (c *Config) RedisAddr() string {
	return c.Redis.Host + ":" + c.Redis.Port
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Name)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid int value for %s: %q", key, value)
	}
	return v, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid bool value for %s: %q", key, value)
	}
	return v, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration value for %s: %q", key, value)
	}
	return v, nil
}
