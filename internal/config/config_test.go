package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))

	if cfg.Database.PoolSize != 5 {
		t.Errorf("PoolSize = %d, want 5", cfg.Database.PoolSize)
	}
	if cfg.ConnectTimeout() != 10*time.Second {
		t.Errorf("ConnectTimeout() = %v, want 10s", cfg.ConnectTimeout())
	}
	if cfg.QueryTimeout() != 30*time.Second {
		t.Errorf("QueryTimeout() = %v, want 30s", cfg.QueryTimeout())
	}
	if cfg.Server.TrustProxy {
		t.Error("Server.TrustProxy should default to false")
	}
	if cfg.Reports.Schedule != "10 0 1 * *" {
		t.Errorf("Reports.Schedule = %q", cfg.Reports.Schedule)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := []byte("server:\n  port: 9090\ndatabase:\n  host: filehost\n  pool_size: 3\njwt:\n  secret: from-file\n")
	if err := os.WriteFile(path, yaml, 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("DB_HOST", "envhost")
	t.Setenv("DB_POOL_SIZE", "9")
	t.Setenv("DB_CONNECTION_TIMEOUT", "not-a-number")

	cfg := LoadFrom(path)

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Host != "envhost" {
		t.Errorf("Database.Host = %q, want envhost", cfg.Database.Host)
	}
	if cfg.Database.PoolSize != 9 {
		t.Errorf("PoolSize = %d, want 9", cfg.Database.PoolSize)
	}
	if cfg.Database.ConnectionTimeout != 10 {
		t.Errorf("ConnectionTimeout = %d, want default 10", cfg.Database.ConnectionTimeout)
	}
	if cfg.JWT.Secret != "from-file" {
		t.Errorf("JWT.Secret = %q, want from-file", cfg.JWT.Secret)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing secret", func(c *Config) { c.JWT.Secret = "" }, true},
		{"zero pool", func(c *Config) { c.Database.PoolSize = 0 }, true},
		{"bad port", func(c *Config) { c.Database.Port = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.JWT.Secret = "s"
			cfg.Database.PoolSize = 5
			cfg.Database.Port = 5432
			tt.mutate(cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
