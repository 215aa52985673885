package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
)

// Config of example server, defaults are provided via struct tags.
type Config struct {
	// Listen is a server address. ENV: FBIND_LISTEN
	Listen string `env:"FBIND_LISTEN,default=localhost:8011"`
	// SimpleTypes enables binding of fields without param tag. ENV: FBIND_SIMPLE_TYPES
	SimpleTypes bool `env:"FBIND_SIMPLE_TYPES,default=true"`
	// TrimEmpty trims string values and turns empty ones into absent. ENV: FBIND_TRIM_EMPTY
	TrimEmpty bool `env:"FBIND_TRIM_EMPTY,default=false"`
	// LogLevel is one of debug, info, warn, error. ENV: FBIND_LOG_LEVEL
	LogLevel string `env:"FBIND_LOG_LEVEL,default=info"`
	// RequestTimeout limits request processing time. ENV: FBIND_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"FBIND_REQUEST_TIMEOUT,default=5s"`
}

func loadConfig() (Config, error) {
	var cfg Config

	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return cfg, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}
