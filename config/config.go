// Package config holds the resolver daemon configuration.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/pilacorp/go-did-eosio/chainrpc"
	"github.com/pilacorp/go-did-eosio/registry"
	"github.com/pilacorp/go-did-eosio/resolver"
)

// Environment variables read by Load.
const (
	EnvAddr        = "EOSIO_RESOLVER_ADDR"
	EnvRegistry    = "EOSIO_RESOLVER_REGISTRY"
	EnvRPCTimeout  = "EOSIO_RESOLVER_RPC_TIMEOUT_SECONDS"
	EnvLogLevel    = "EOSIO_RESOLVER_LOG_LEVEL"
	EnvConcurrency = "EOSIO_RESOLVER_CONCURRENCY"
)

// Default values
const (
	DefaultAddr        = ":8080"
	DefaultRPCTimeout  = 10 * time.Second
	DefaultLogLevel    = "info"
	DefaultConcurrency = resolver.DefaultConcurrency
)

// Config holds the daemon configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string
	// RegistryFile is an optional chain registry file merged over the
	// built-in chains.
	RegistryFile string
	// RPCTimeout bounds every chain RPC call.
	RPCTimeout time.Duration
	// LogLevel is the minimum level logged, e.g. "debug" or "warn".
	LogLevel string
	// Concurrency bounds batch resolution.
	Concurrency int
}

// New creates a new Config instance with the provided values.
// If a value is empty/zero, it will use the default value.
// Pass an empty Config{} to use all defaults.
func New(cfg Config) *Config {
	result := &Config{
		Addr:         DefaultAddr,
		RegistryFile: cfg.RegistryFile,
		RPCTimeout:   DefaultRPCTimeout,
		LogLevel:     DefaultLogLevel,
		Concurrency:  DefaultConcurrency,
	}

	if cfg.Addr != "" {
		result.Addr = cfg.Addr
	}
	if cfg.RPCTimeout > 0 {
		result.RPCTimeout = cfg.RPCTimeout
	}
	if cfg.LogLevel != "" {
		result.LogLevel = strings.ToLower(cfg.LogLevel)
	}
	if cfg.Concurrency > 0 {
		result.Concurrency = cfg.Concurrency
	}

	return result
}

// LoadDotEnv loads .env and .env.local from the working directory when
// present. Variables already set in the environment are kept.
func LoadDotEnv() error {
	var errs []error
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			errs = append(errs, fmt.Errorf("failed to load %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config

	cfg.Addr = os.Getenv(EnvAddr)
	cfg.RegistryFile = os.Getenv(EnvRegistry)

	if raw, ok := os.LookupEnv(EnvRPCTimeout); ok && raw != "" {
		d, err := parseSeconds(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvRPCTimeout, err)
		}
		cfg.RPCTimeout = d
	}

	if raw, ok := os.LookupEnv(EnvLogLevel); ok && raw != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(raw)); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = raw
	}

	if raw, ok := os.LookupEnv(EnvConcurrency); ok && raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvConcurrency, err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("invalid %s: value must be > 0", EnvConcurrency)
		}
		cfg.Concurrency = n
	}

	return New(cfg), nil
}

// Logger returns a timestamped JSON logger writing to w at the configured
// level. An unparsable level logs at info.
func (c *Config) Logger(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// ResolverOptions returns the resolver options described by c.
func (c *Config) ResolverOptions(logger zerolog.Logger) ([]resolver.Option, error) {
	opts := []resolver.Option{
		resolver.WithLogger(logger),
		resolver.WithConcurrency(c.Concurrency),
		resolver.WithAccountFetcher(chainrpc.NewClient(chainrpc.WithTimeout(c.RPCTimeout))),
	}

	if c.RegistryFile != "" {
		reg, err := registry.LoadFile(c.RegistryFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, resolver.WithRegistry(reg))
	}

	return opts, nil
}

func parseSeconds(raw string) (time.Duration, error) {
	seconds, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	if seconds <= 0 {
		return 0, errors.New("value must be > 0")
	}
	return time.Duration(seconds) * time.Second, nil
}
