package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type ServerConfig struct {
	PostgresDSN string `env:"POSTGRES_DSN,required,notEmpty"`
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`

	AdminAPIKey string `env:"ADMIN_API_KEY"`

	RedisURL string        `env:"REDIS_URL"`
	ClaimTTL time.Duration `env:"CLAIM_TTL" envDefault:"30s"`

	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1m"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"40"`

	MCPEnabled     bool   `env:"MCP_ENABLED" envDefault:"true"`
	InitialBalance string `env:"INITIAL_BALANCE" envDefault:"100"`
}

func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	err := env.Parse(&cfg)
	return cfg, err
}
