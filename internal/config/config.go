// Package config reads the bridge server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DevelopmentSecret signs tokens when JWT_SECRET is unset. It is refused
// outside the development environment.
const DevelopmentSecret = "cofounderbay-development-secret"

// Config is the bridge server configuration.
type Config struct {
	// Environment is "development" or anything else for production.
	Environment string

	Server    Server
	NATS      NATS
	Auth      Auth
	RateLimit RateLimit
	Tracing   Tracing

	// CORSAllowedOrigins lists the browser origins of the presentation layer.
	CORSAllowedOrigins []string
	// SeedEnabled loads the demo directory into every new workspace.
	SeedEnabled bool
	LogLevel    string
}

// Server holds the HTTP listener settings.
type Server struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NATS holds the event log connection and the inbound consumer.
type NATS struct {
	Enabled  bool
	URL      string
	CAFile   string
	CertFile string
	KeyFile  string
	Token    string
	Consumer string
}

// Auth holds bearer token settings. DevActor is the subject of the token
// logged at startup in development.
type Auth struct {
	JWTSecret string
	TokenTTL  time.Duration
	DevActor  string
}

// RateLimit is the per-actor request budget.
type RateLimit struct {
	Requests int
	Window   time.Duration
}

// Tracing holds the OTLP exporter settings.
type Tracing struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

// Load reads the configuration. Unset or unparsable variables keep their
// defaults.
func Load() *Config {
	var e env
	return &Config{
		Environment: e.str("ENV", "production"),
		Server: Server{
			Port:         e.str("PORT", "8080"),
			ReadTimeout:  e.duration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: e.duration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		},
		NATS: NATS{
			Enabled:  e.bool("NATS_ENABLED", true),
			URL:      e.str("NATS_URL", "nats://localhost:4222"),
			CAFile:   e.str("NATS_CA_FILE", ""),
			CertFile: e.str("NATS_CERT_FILE", ""),
			KeyFile:  e.str("NATS_KEY_FILE", ""),
			Token:    e.str("NATS_TOKEN", ""),
			Consumer: e.str("NATS_CONSUMER", "cfb-bridge"),
		},
		Auth: Auth{
			JWTSecret: e.str("JWT_SECRET", DevelopmentSecret),
			TokenTTL:  e.duration("JWT_EXPIRATION", 15*time.Minute),
			DevActor:  e.str("DEV_ACTOR", "jane"),
		},
		RateLimit: RateLimit{
			Requests: e.int("RATE_LIMIT_REQUESTS", 60),
			Window:   e.duration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Tracing: Tracing{
			Enabled:     e.bool("TRACING_ENABLED", false),
			Endpoint:    e.str("TRACING_ENDPOINT", "localhost:4318"),
			ServiceName: e.str("TRACING_SERVICE_NAME", "cofounderbay-networking-core"),
		},
		CORSAllowedOrigins: e.list("CORS_ALLOWED_ORIGINS", []string{"https://*", "http://*"}),
		SeedEnabled:        e.bool("SEED_ENABLED", true),
		LogLevel:           e.str("LOG_LEVEL", "info"),
	}
}

// IsDevelopment reports whether the server runs in the development
// environment.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Validate rejects settings the server cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("PORT is empty"))
	}
	if c.Auth.JWTSecret == DevelopmentSecret && !c.IsDevelopment() {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be set in the %s environment", c.Environment))
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		errs = append(errs, fmt.Errorf("rate limit %d/%s must be positive", c.RateLimit.Requests, c.RateLimit.Window))
	}
	if c.NATS.Enabled && c.NATS.Consumer == "" {
		errs = append(errs, errors.New("NATS_CONSUMER is empty"))
	}
	return errors.Join(errs...)
}

// env reads typed values from the process environment.
type env struct{}

func (env) str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (e env) list(key string, def []string) []string {
	var out []string
	for _, v := range strings.Split(e.str(key, ""), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

func (e env) int(key string, def int) int {
	if i, err := strconv.Atoi(e.str(key, "")); err == nil {
		return i
	}
	return def
}

func (e env) bool(key string, def bool) bool {
	if b, err := strconv.ParseBool(e.str(key, "")); err == nil {
		return b
	}
	return def
}

func (e env) duration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(e.str(key, "")); err == nil {
		return d
	}
	return def
}
