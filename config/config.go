package config

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system,
// such as server settings and the upstream API the proxy forwards to.
//
// Example ENV equivalent:
//
//	SERVER_PORT=3000
//	UPSTREAM_BASE_URL=https://apipubaws.tcbs.com.vn
//	UPSTREAM_TIMEOUT=15s
//	UPSTREAM_ACCEPT_LANGUAGE=vi
//	CORS_ALLOWED_ORIGINS=*
//	DOCS_HOST=localhost:3000
//	LOG_LEVEL=info
//	LOG_PRETTY=false
type Config struct {
	Server   ServerConfig   // HTTP server configuration
	Upstream UpstreamConfig // Upstream financial-data API settings
	Docs     DocsConfig     // API documentation settings
	Log      LogConfig      // Logger settings
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string   // The TCP port the HTTP server will listen on (e.g., "3000")
	AllowedOrigins []string // CORS allowed origins; "*" allows any origin
}

// UpstreamConfig defines how the proxy talks to the upstream API.
//
// Fields:
//   - BaseURL: scheme and host of the upstream API, without trailing slash.
//   - Timeout: bound for a single upstream call; 0 means no timeout.
//   - AcceptLanguage: value of the accept-language header sent upstream.
type UpstreamConfig struct {
	BaseURL        string
	Timeout        time.Duration
	AcceptLanguage string
}

// DocsConfig customizes the generated API documentation.
type DocsConfig struct {
	Host string // host[:port] advertised in the docs; empty means "same as the page"
}

// LogConfig controls the global logger.
type LogConfig struct {
	Level  string
	Pretty bool
}

// LoadConfig builds a Config by reading from .env file or directly from
// environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing or malformed, the app terminates
//     with a descriptive log message.
func LoadConfig() Config {
	v := viper.New()
	setDefaults(v)

	// Optionally read from .env if present (common in local dev)
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore error if no .env

	v.AutomaticEnv()

	cfg := fromViper(v)
	if err := Validate(cfg); err != nil {
		log.Fatalf("invalid configuration: %v\n", err)
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "3000")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	v.SetDefault("UPSTREAM_BASE_URL", "https://apipubaws.tcbs.com.vn")
	v.SetDefault("UPSTREAM_TIMEOUT", "15s")
	v.SetDefault("UPSTREAM_ACCEPT_LANGUAGE", "vi")

	v.SetDefault("DOCS_HOST", "")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)
}

func fromViper(v *viper.Viper) Config {
	return Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Upstream: UpstreamConfig{
			BaseURL:        strings.TrimRight(v.GetString("UPSTREAM_BASE_URL"), "/"),
			Timeout:        v.GetDuration("UPSTREAM_TIMEOUT"),
			AcceptLanguage: v.GetString("UPSTREAM_ACCEPT_LANGUAGE"),
		},
		Docs: DocsConfig{
			Host: v.GetString("DOCS_HOST"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Pretty: v.GetBool("LOG_PRETTY"),
		},
	}
}

// Validate reports every missing or malformed field of cfg in a single error.
func Validate(cfg Config) error {
	var problems []string

	if cfg.Server.Port == "" {
		problems = append(problems, "SERVER_PORT is required")
	}
	if cfg.Upstream.BaseURL == "" {
		problems = append(problems, "UPSTREAM_BASE_URL is required")
	} else if u, err := url.Parse(cfg.Upstream.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		problems = append(problems, fmt.Sprintf("UPSTREAM_BASE_URL %q is not an absolute URL", cfg.Upstream.BaseURL))
	}
	if cfg.Upstream.Timeout < 0 {
		problems = append(problems, "UPSTREAM_TIMEOUT must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
