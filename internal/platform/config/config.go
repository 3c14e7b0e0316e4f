// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, upload registry) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Cadenza API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Token signing and verification. The verifier only ever uses the public
	// key and the algorithms listed here.
	JWTPrivKeyPath string        `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string        `env:"JWT_PUBLIC_KEY_PATH,required"`
	JWTAlgorithms  []string      `env:"JWT_ALGORITHMS"   envDefault:"RS256" envSeparator:","`
	JWTIssuer      string        `env:"JWT_ISSUER"       envDefault:"cadenza.app"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`

	// Uploads
	UploadDir            string `env:"UPLOAD_DIR"              envDefault:"./data/uploads"`
	UploadTempDir        string `env:"UPLOAD_TMP_DIR"`
	MediaBaseURL         string `env:"MEDIA_BASE_URL"          envDefault:"/media"`
	UploadMaxFileBytes   int64  `env:"UPLOAD_MAX_FILE_BYTES"   envDefault:"52428800"`
	UploadMaxFiles       int    `env:"UPLOAD_MAX_FILES"        envDefault:"5"`
	UploadAudioMaxBytes  int64  `env:"UPLOAD_AUDIO_MAX_BYTES"  envDefault:"26214400"`
	UploadLyricsMaxBytes int64  `env:"UPLOAD_LYRICS_MAX_BYTES" envDefault:"1048576"`

	// Cross-Origin Resource Sharing
	ExtraOrigins []string `env:"EXTRA_ORIGINS" envSeparator:","`

	// Reverse proxies (IPs or CIDRs) whose X-Real-IP / X-Forwarded-For are believed.
	TrustedProxyCIDRs []string `env:"TRUSTED_PROXIES" envSeparator:","`

	trustedProxies []netip.Prefix
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.derive(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse builds a [Config] from an explicit variable map instead of the process environment.
func Parse(environment map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environment}); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	if err := cfg.derive(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// derive computes the values that need more than a struct tag.
func (c *Config) derive() error {
	for _, entry := range c.TrustedProxyCIDRs {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		if prefix, err := netip.ParsePrefix(entry); err == nil {
			c.trustedProxies = append(c.trustedProxies, prefix.Masked())
			continue
		}

		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return fmt.Errorf("config: TRUSTED_PROXIES entry %q is neither an IP nor a CIDR", entry)
		}
		c.trustedProxies = append(c.trustedProxies, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
	}
	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the CORS origins accepted outside development.
func (c *Config) AllowedOrigins() []string {
	origins := []string{"https://cadenza.app", "https://*.cadenza.app"}
	return append(origins, c.ExtraOrigins...)
}

// TrustedProxies returns the parsed TRUSTED_PROXIES prefixes.
func (c *Config) TrustedProxies() []netip.Prefix {
	return c.trustedProxies
}

// Port returns the TCP port the HTTP server listens on.
func (c *Config) Port() string {
	return c.ServerPort
}
