package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ENV", "PORT", "NATS_ENABLED", "RATE_LIMIT_REQUESTS", "RATE_LIMIT_WINDOW", "CORS_ALLOWED_ORIGINS", "SEED_ENABLED", "JWT_SECRET", "DEV_ACTOR"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Server.Port != "8080" || cfg.IsDevelopment() {
		t.Fatalf("unexpected server defaults: %+v env=%q", cfg.Server, cfg.Environment)
	}
	if !cfg.NATS.Enabled || cfg.NATS.Consumer != "cfb-bridge" || !cfg.SeedEnabled {
		t.Fatalf("expected NATS and seed enabled by default: %+v", cfg.NATS)
	}
	if cfg.RateLimit.Requests != 60 || cfg.RateLimit.Window != time.Minute {
		t.Fatalf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("unexpected CORS defaults: %v", cfg.CORSAllowedOrigins)
	}
	if cfg.Auth.JWTSecret != DevelopmentSecret || cfg.Auth.DevActor != "jane" {
		t.Fatalf("unexpected auth defaults: %+v", cfg.Auth)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "development")
	t.Setenv("PORT", "9090")
	t.Setenv("NATS_ENABLED", "false")
	t.Setenv("RATE_LIMIT_REQUESTS", "5")
	t.Setenv("RATE_LIMIT_WINDOW", "10s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.cofounderbay.com, ,http://localhost:5173")
	t.Setenv("JWT_EXPIRATION", "not-a-duration")

	cfg := Load()
	if cfg.Server.Port != "9090" || cfg.NATS.Enabled || !cfg.IsDevelopment() {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.RateLimit.Requests != 5 || cfg.RateLimit.Window != 10*time.Second {
		t.Fatalf("unexpected rate limit: %+v", cfg.RateLimit)
	}
	want := []string{"https://app.cofounderbay.com", "http://localhost:5173"}
	if !reflect.DeepEqual(cfg.CORSAllowedOrigins, want) {
		t.Fatalf("expected %v, got %v", want, cfg.CORSAllowedOrigins)
	}
	if cfg.Auth.TokenTTL != 15*time.Minute {
		t.Fatalf("invalid duration should fall back to default, got %s", cfg.Auth.TokenTTL)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Environment: "development",
			Server:      Server{Port: "8080"},
			NATS:        NATS{Enabled: true, Consumer: "cfb-bridge"},
			Auth:        Auth{JWTSecret: DevelopmentSecret},
			RateLimit:   RateLimit{Requests: 60, Window: time.Minute},
		}
	}

	if err := base().Validate(); err != nil {
		t.Fatalf("development config: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"development secret in production", func(c *Config) { c.Environment = "production" }, "JWT_SECRET"},
		{"empty port", func(c *Config) { c.Server.Port = "" }, "PORT"},
		{"zero rate limit", func(c *Config) { c.RateLimit.Requests = 0 }, "rate limit"},
		{"empty consumer", func(c *Config) { c.NATS.Consumer = "" }, "NATS_CONSUMER"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}

	prod := base()
	prod.Environment = "production"
	prod.Auth.JWTSecret = "rotated"
	if err := prod.Validate(); err != nil {
		t.Fatalf("production config with a real secret: %v", err)
	}
}
