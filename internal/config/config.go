// Package config reads server settings from the environment, optionally
// seeded from .env files.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Port        string
	StoreDriver string
	MongoURL    string
	MongoDB     string
	JWTSecret   string
	CORSOrigins []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	Braintree Braintree
}

type Braintree struct {
	Environment string
	MerchantID  string
	PublicKey   string
	PrivateKey  string
}

// Configured reports whether gateway credentials are present.
func (b Braintree) Configured() bool {
	return b.MerchantID != "" && b.PublicKey != "" && b.PrivateKey != ""
}

// LoadEnvFiles loads the first .env files found; values already in the
// environment win.
func LoadEnvFiles(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env", "../.env", "../../.env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			log.Printf("config: could not load %s: %v", p, err)
		}
	}
}

// FromEnv builds a Config from environment variables.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:          getenv("PORT", "8080"),
		StoreDriver:   strings.ToLower(getenv("STORE_DRIVER", DriverMongo)),
		MongoURL:      getenv("MONGO_URL", "mongodb://localhost:27017"),
		MongoDB:       getenv("MONGO_DB", "ecommerce"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		CORSOrigins:   splitList(getenv("CORS_ORIGINS", "*")),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		Braintree: Braintree{
			Environment: getenv("BRAINTREE_ENVIRONMENT", "sandbox"),
			MerchantID:  os.Getenv("BRAINTREE_MERCHANT_ID"),
			PublicKey:   os.Getenv("BRAINTREE_PUBLIC_KEY"),
			PrivateKey:  os.Getenv("BRAINTREE_PRIVATE_KEY"),
		},
	}

	var err error
	if cfg.RedisDB, err = strconv.Atoi(getenv("REDIS_DB", "0")); err != nil {
		return nil, fmt.Errorf("REDIS_DB: %w", err)
	}
	if cfg.CacheTTL, err = time.ParseDuration(getenv("CACHE_TTL", "5m")); err != nil {
		return nil, fmt.Errorf("CACHE_TTL: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if c.StoreDriver != DriverMongo && c.StoreDriver != DriverMemory {
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.StoreDriver == DriverMongo && c.MongoURL == "" {
		return errors.New("MONGO_URL is not set")
	}
	if c.CacheTTL <= 0 {
		return errors.New("CACHE_TTL must be positive")
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
