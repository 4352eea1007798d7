package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

// Secrets are never put in the TOML file, they come from the environment only.
type Secrets struct {
	RecognitionAPIKey string `env:"FITPULSE_RECOGNITION_API_KEY"`
	PostgresPassword  string `env:"FITPULSE_POSTGRES_PASS"`
	RedisPassword     string `env:"FITPULSE_REDIS_PASS"`
	IpInfoToken       string `env:"IP_INFO_API_KEY"`
	MCPSecret         string `env:"FITPULSE_MCP_SECRET"`
	S3AccessKey       string `env:"FITPULSE_S3_ACCESS_KEY"`
	S3SecretKey       string `env:"FITPULSE_S3_SECRET_KEY"`
	SentryDSN         string `env:"SENTRY_DSN"`
	HoneycombEnabled  bool   `env:"HONEYCOMB_ENABLED, default=false"`
	HoneycombAPIKey   string `env:"HONEYCOMB_API_KEY"`
	OtelServiceName   string `env:"OTEL_SERVICE_NAME, default=fitpulse-backend"`
}

func LoadSecrets(ctx context.Context) (*Secrets, error) {
	return loadSecrets(ctx, envconfig.OsLookuper())
}

func loadSecrets(ctx context.Context, lookuper envconfig.Lookuper) (*Secrets, error) {
	var s Secrets
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &s,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	return &s, nil
}

// Missing lists the names of unset secrets the service degrades without.
func (s *Secrets) Missing() []string {
	var missing []string
	if s.RecognitionAPIKey == "" {
		missing = append(missing, "FITPULSE_RECOGNITION_API_KEY")
	}
	if s.RedisPassword == "" {
		missing = append(missing, "FITPULSE_REDIS_PASS")
	}
	if s.IpInfoToken == "" {
		missing = append(missing, "IP_INFO_API_KEY")
	}
	if s.MCPSecret == "" {
		missing = append(missing, "FITPULSE_MCP_SECRET")
	}
	if s.HoneycombEnabled && s.HoneycombAPIKey == "" {
		missing = append(missing, "HONEYCOMB_API_KEY")
	}
	return missing
}
