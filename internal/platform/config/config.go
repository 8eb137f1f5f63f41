// Copyright (c) 2026 Laureate. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct. In development an optional .env file is loaded first with
'joho/godotenv'; variables already present in the environment always win.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, storage) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the Laureate API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Primary document store (PostgreSQL JSONB)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Status cache (Redis)
	RedisURL       string        `env:"REDIS_URL,required"`
	StatusCacheTTL time.Duration `env:"STATUS_CACHE_TTL" envDefault:"5m"`

	// Reviewer token verification. The private key is only needed by awardctl.
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH"`

	// BackupDir receives one JSON snapshot per submission.
	BackupDir string `env:"BACKUP_DIR" envDefault:"./data/backups"`

	// UploadDir is used for nomination files when no S3 bucket is configured.
	UploadDir string `env:"UPLOAD_DIR" envDefault:"./data/uploads"`

	// Object Storage (Cloudflare R2 / S3-compatible)
	S3Bucket   string `env:"S3_BUCKET"`
	S3Region   string `env:"S3_REGION"   envDefault:"auto"`
	S3Endpoint string `env:"S3_ENDPOINT"`

	// Submission events (Kafka). Empty brokers disables publishing.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC"   envDefault:"nominations.submitted"`

	// AwardTimezone is the IANA zone in which nominee ages are computed.
	AwardTimezone string `env:"AWARD_TIMEZONE" envDefault:"Africa/Nairobi"`

	// Cross-Origin Resource Sharing
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX" envDefault:"youthawards.org"`
}

// # Configuration Loading

// Load reads an optional .env file and parses environment variables into a [Config].
func Load() (*Config, error) {
	return LoadFiles(".env")
}

// LoadFiles is [Load] with explicit dotenv file names. Missing files are ignored.
func LoadFiles(dotenvFiles ...string) (*Config, error) {
	for _, name := range dotenvFiles {
		// godotenv.Load never overrides variables that are already set.
		if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: failed to read %s: %w", name, err)
		}
	}

	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowsOrigin reports whether a browser origin may call the API.
func (c *Config) AllowsOrigin(origin string) bool {
	if c.IsDevelopment() {
		return true
	}
	return c.AllowedOriginSuffix != "" && strings.HasSuffix(origin, c.AllowedOriginSuffix)
}

// AwardLocation resolves AwardTimezone.
func (c *Config) AwardLocation() (*time.Location, error) {
	location, err := time.LoadLocation(c.AwardTimezone)
	if err != nil {
		return nil, fmt.Errorf("config: invalid AWARD_TIMEZONE %q: %w", c.AwardTimezone, err)
	}
	return location, nil
}

// UsesObjectStorage reports whether nomination files go to S3 instead of local disk.
func (c *Config) UsesObjectStorage() bool {
	return c.S3Bucket != ""
}

// PublishesEvents reports whether submission events are sent to Kafka.
func (c *Config) PublishesEvents() bool {
	return len(c.KafkaBrokers) > 0
}
