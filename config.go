package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/chazu/rct/pkg/engine"
)

// Config is read from the environment; flags may override it.
type Config struct {
	DBPath      string
	Seed        *int64
	EvalTimeout time.Duration
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// LoadConfig reads RCT_DB_PATH, RCT_SEED and RCT_EVAL_TIMEOUT.
func LoadConfig() (Config, error) {
	cfg := Config{DBPath: getEnv("RCT_DB_PATH", "rct.db")}

	if s := getEnv("RCT_SEED", ""); s != "" {
		seed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RCT_SEED %q: %w", s, err)
		}
		cfg.Seed = &seed
	}

	timeout, err := time.ParseDuration(getEnv("RCT_EVAL_TIMEOUT", engine.EvalTimeout.String()))
	if err != nil {
		return Config{}, fmt.Errorf("invalid RCT_EVAL_TIMEOUT: %w", err)
	}
	cfg.EvalTimeout = timeout
	return cfg, nil
}
