package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadServerDefaults(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/fantasy?sslmode=disable")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.ClaimTTL != 30*time.Second {
		t.Fatalf("ClaimTTL = %s, want 30s", cfg.ClaimTTL)
	}
	if cfg.SweepInterval != time.Minute {
		t.Fatalf("SweepInterval = %s, want 1m", cfg.SweepInterval)
	}
	if cfg.RateLimitRPS != 20 || cfg.RateLimitBurst != 40 {
		t.Fatalf("rate limit = %v/%d, want 20/40", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if !cfg.MCPEnabled {
		t.Fatal("MCPEnabled = false, want true")
	}
	if cfg.InitialBalance != "100" {
		t.Fatalf("InitialBalance = %q, want 100", cfg.InitialBalance)
	}
}

func TestLoadServerRequiresPostgresDSN(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "")

	_, err := LoadServer()
	if err == nil {
		t.Fatal("LoadServer() expected error, got nil")
	}
}

func TestLoadServerParseTypes(t *testing.T) {
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/fantasy?sslmode=disable")
	t.Setenv("CLAIM_TTL", "5s")
	t.Setenv("SWEEP_INTERVAL", "0s")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("MCP_ENABLED", "false")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.ClaimTTL != 5*time.Second {
		t.Fatalf("ClaimTTL = %s, want 5s", cfg.ClaimTTL)
	}
	if cfg.SweepInterval != 0 {
		t.Fatalf("SweepInterval = %s, want 0", cfg.SweepInterval)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Fatalf("RateLimitRPS = %v, want 2.5", cfg.RateLimitRPS)
	}
	if cfg.MCPEnabled {
		t.Fatal("MCPEnabled = true, want false")
	}
	if cfg.RedisURL != "redis://localhost:6379/0" {
		t.Fatalf("RedisURL = %q", cfg.RedisURL)
	}
}

func TestLoadDotEnvDoesNotOverrideProcessEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("HTTP_ADDR=:9999\nADMIN_API_KEY=from-file\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("POSTGRES_DSN", "postgres://localhost:5432/fantasy?sslmode=disable")
	t.Setenv("HTTP_ADDR", ":7070")
	t.Setenv("ADMIN_API_KEY", "")
	os.Unsetenv("ADMIN_API_KEY")

	LoadDotEnv(path)
	cfg, err := LoadServer()
	if err != nil {
		t.Fatalf("LoadServer() error = %v", err)
	}
	if cfg.HTTPAddr != ":7070" {
		t.Fatalf("HTTPAddr = %q, want :7070", cfg.HTTPAddr)
	}
	if cfg.AdminAPIKey != "from-file" {
		t.Fatalf("AdminAPIKey = %q, want from-file", cfg.AdminAPIKey)
	}
}
