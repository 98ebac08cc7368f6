package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Addr             string
	DefaultBoardSize int
	MaxBoardSize     int
	LogLevel         zerolog.Level
	// RandomSeed seeds the random strategy; 0 picks one from the clock.
	RandomSeed uint64
	Heartbeat  time.Duration
}

// Load reads the configuration from the environment, after loading a .env
// file if one exists. Invalid values fall back to their defaults.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:             ":8080",
		DefaultBoardSize: 11,
		MaxBoardSize:     32,
		LogLevel:         zerolog.InfoLevel,
		Heartbeat:        15 * time.Second,
	}

	if v := os.Getenv("GAMEY_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("GAMEY_MAX_BOARD_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxBoardSize = n
		} else {
			log.Warn().Str("value", v).Msg("ignoring invalid GAMEY_MAX_BOARD_SIZE")
		}
	}
	if v := os.Getenv("GAMEY_BOARD_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.DefaultBoardSize = n
		} else {
			log.Warn().Str("value", v).Msg("ignoring invalid GAMEY_BOARD_SIZE")
		}
	}
	if cfg.DefaultBoardSize > cfg.MaxBoardSize {
		cfg.DefaultBoardSize = cfg.MaxBoardSize
	}
	if v := os.Getenv("GAMEY_LOG_LEVEL"); v != "" {
		if lvl, err := zerolog.ParseLevel(v); err == nil {
			cfg.LogLevel = lvl
		} else {
			log.Warn().Str("value", v).Msg("ignoring invalid GAMEY_LOG_LEVEL")
		}
	}
	if v := os.Getenv("GAMEY_RANDOM_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.RandomSeed = n
		} else {
			log.Warn().Str("value", v).Msg("ignoring invalid GAMEY_RANDOM_SEED")
		}
	}
	if v := os.Getenv("GAMEY_HEARTBEAT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Heartbeat = d
		} else {
			log.Warn().Str("value", v).Msg("ignoring invalid GAMEY_HEARTBEAT")
		}
	}
	if cfg.RandomSeed == 0 {
		cfg.RandomSeed = uint64(time.Now().UnixNano())
	}
	return cfg
}
