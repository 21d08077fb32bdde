package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Name    string `mapstructure:"name"`
		Version string `mapstructure:"version"`
		Debug   bool   `mapstructure:"debug"`
	} `mapstructure:"app"`

	Server struct {
		Port               int      `mapstructure:"port"`
		CorsAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string `mapstructure:"cors_allowed_headers"`
		LoginRateLimit     string   `mapstructure:"login_rate_limit"`
		TrustProxy         bool     `mapstructure:"trust_proxy"` // key rate limits on X-Forwarded-For
	} `mapstructure:"server"`

	Database struct {
		Host              string `mapstructure:"host"`
		Port              int    `mapstructure:"port"`
		User              string `mapstructure:"user"`
		Password          string `mapstructure:"password"`
		Name              string `mapstructure:"name"`
		SSLMode           string `mapstructure:"sslmode"`
		PoolSize          int    `mapstructure:"pool_size"`
		ConnectionTimeout int    `mapstructure:"connection_timeout"` // seconds
		QueryTimeout      int    `mapstructure:"query_timeout"`      // seconds
	} `mapstructure:"database"`

	JWT struct {
		Secret          string `mapstructure:"secret"`
		ExpirationHours int    `mapstructure:"expiration_hours"`
		Issuer          string `mapstructure:"issuer"`
	} `mapstructure:"jwt"`

	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	Reports struct {
		Schedule string `mapstructure:"schedule"`
		Archive  struct {
			Enabled   bool   `mapstructure:"enabled"`
			Endpoint  string `mapstructure:"endpoint"`
			Region    string `mapstructure:"region"`
			Bucket    string `mapstructure:"bucket"`
			AccessKey string `mapstructure:"access_key"`
			SecretKey string `mapstructure:"secret_key"`
		} `mapstructure:"archive"`
	} `mapstructure:"reports"`
}

// ConnectTimeout returns the pool connection-acquisition timeout.
func (c *Config) ConnectTimeout() time.Duration {
	return time.Duration(c.Database.ConnectionTimeout) * time.Second
}

// QueryTimeout returns the per-statement timeout applied to every pooled connection.
func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.Database.QueryTimeout) * time.Second
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("jwt secret is required (set JWT_SECRET)")
	}
	if c.Database.PoolSize <= 0 {
		return errors.New("database pool_size must be positive")
	}
	if c.Database.Port <= 0 {
		return errors.New("database port must be positive")
	}
	return nil
}

func Load() *Config {
	return LoadFrom("configs/config.yaml")
}

// LoadFrom reads the given YAML file (optional) and applies defaults and environment overrides.
func LoadFrom(path string) *Config {
	// Load .env file if exists (ignore error in production)
	godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)

	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Printf("[Config] No config file found at %s, using defaults", path)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("config unmarshal error: %v", err)
	}

	applyEnvOverrides(&cfg)

	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "Auto Garage Management")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.debug", false)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.cors_allowed_origins", []string{"*"})
	v.SetDefault("server.cors_allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("server.cors_allowed_headers", []string{"Authorization", "Content-Type"})
	v.SetDefault("server.login_rate_limit", "10-M")
	v.SetDefault("server.trust_proxy", false)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "garage_management")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.pool_size", 5)
	v.SetDefault("database.connection_timeout", 10)
	v.SetDefault("database.query_timeout", 30)

	v.SetDefault("jwt.expiration_hours", 12)
	v.SetDefault("jwt.issuer", "garage-backend")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)

	// 00:10 on the first day of every month
	v.SetDefault("reports.schedule", "10 0 1 * *")
	v.SetDefault("reports.archive.enabled", false)
	v.SetDefault("reports.archive.region", "auto")
}

func applyEnvOverrides(cfg *Config) {
	if host := os.Getenv("DB_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if port := os.Getenv("DB_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Database.Port = n
		}
	}
	if user := os.Getenv("DB_USER"); user != "" {
		cfg.Database.User = user
	}
	if pass := os.Getenv("DB_PASSWORD"); pass != "" {
		cfg.Database.Password = pass
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		cfg.Database.Name = name
	}
	if size := os.Getenv("DB_POOL_SIZE"); size != "" {
		if n, err := strconv.Atoi(size); err == nil && n > 0 {
			cfg.Database.PoolSize = n
		}
	}
	if timeout := os.Getenv("DB_CONNECTION_TIMEOUT"); timeout != "" {
		if n, err := strconv.Atoi(timeout); err == nil && n > 0 {
			cfg.Database.ConnectionTimeout = n
		}
	}

	if cfg.JWT.Secret == "" || cfg.JWT.Secret == "${JWT_SECRET}" {
		cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
	if pass := os.Getenv("REDIS_PASSWORD"); pass != "" {
		cfg.Redis.Password = pass
	}

	if endpoint := os.Getenv("S3_ENDPOINT"); endpoint != "" {
		cfg.Reports.Archive.Endpoint = endpoint
	}
	if bucket := os.Getenv("S3_BUCKET"); bucket != "" {
		cfg.Reports.Archive.Bucket = bucket
	}
	if key := os.Getenv("S3_ACCESS_KEY"); key != "" {
		cfg.Reports.Archive.AccessKey = key
	}
	if secret := os.Getenv("S3_SECRET_KEY"); secret != "" {
		cfg.Reports.Archive.SecretKey = secret
	}
}
