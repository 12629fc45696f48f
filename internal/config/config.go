// Package config loads server configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Addr                string   `env:"ADDR" envDefault:":8080"`
	HostPIN             string   `env:"HOST_PIN" envDefault:"host123"`
	PlayerPINs          []string `env:"PLAYER_PINS" envDefault:"p1,p2,p3,p4,p5" envSeparator:","`
	MaxRounds           int      `env:"MAX_ROUNDS" envDefault:"8"`
	AllowMidGameShuffle bool     `env:"ALLOW_MIDGAME_SHUFFLE" envDefault:"false"`
	// Seed pins the RNG for reproducible sessions; 0 means draw a fresh one.
	Seed int64 `env:"RNG_SEED" envDefault:"0"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if len(cfg.PlayerPINs) != 5 {
		return Config{}, fmt.Errorf("PLAYER_PINS must list exactly 5 pins, got %d", len(cfg.PlayerPINs))
	}
	if cfg.MaxRounds < 1 {
		return Config{}, fmt.Errorf("MAX_ROUNDS must be at least 1, got %d", cfg.MaxRounds)
	}
	return cfg, nil
}

// PlayerPINMap keys the configured PINs by player id (1-based).
func (c Config) PlayerPINMap() map[int]string {
	pins := make(map[int]string, len(c.PlayerPINs))
	for i, pin := range c.PlayerPINs {
		pins[i+1] = pin
	}
	return pins
}
