// Package config reads runtime settings from the environment. Binaries call
// godotenv.Load first so a local .env file can provide them.
package config

import (
    "errors"
    "fmt"
    "os"
    "strconv"
    "time"

    "github.com/rs/zerolog"

    "github.com/jaminalder/nxn-tic-tac-toe/internal/ai"
    "github.com/jaminalder/nxn-tic-tac-toe/internal/app"
    "github.com/jaminalder/nxn-tic-tac-toe/internal/domain"
)

var ErrInvalid = errors.New("invalid configuration")

// Config holds everything the binaries need.
type Config struct {
    Port              string
    LogLevel          zerolog.Level
    ThinkDelay        time.Duration
    DefaultSize       int
    DefaultDifficulty ai.Difficulty
    EasyChance        float64
    MediumChance      float64
}

// Load reads the environment, falling back to defaults for unset keys.
func Load() (Config, error) {
    return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
    get := func(k, def string) string {
        if v := getenv(k); v != "" {
            return v
        }
        return def
    }
    var cfg Config
    var err error

    cfg.Port = get("PORT", "8080")
    if cfg.LogLevel, err = zerolog.ParseLevel(get("LOG_LEVEL", "info")); err != nil {
        return cfg, fmt.Errorf("%w: LOG_LEVEL: %v", ErrInvalid, err)
    }
    if cfg.ThinkDelay, err = time.ParseDuration(get("THINK_DELAY", app.DefaultThinkDelay.String())); err != nil || cfg.ThinkDelay < 0 {
        return cfg, fmt.Errorf("%w: THINK_DELAY %q", ErrInvalid, getenv("THINK_DELAY"))
    }
    if cfg.DefaultSize, err = strconv.Atoi(get("DEFAULT_SIZE", "3")); err != nil ||
        cfg.DefaultSize < domain.MinSize || cfg.DefaultSize > domain.MaxSize {
        return cfg, fmt.Errorf("%w: DEFAULT_SIZE %q", ErrInvalid, getenv("DEFAULT_SIZE"))
    }
    if cfg.DefaultDifficulty, err = ai.ParseDifficulty(get("DEFAULT_DIFFICULTY", string(ai.Medium))); err != nil {
        return cfg, fmt.Errorf("%w: %v", ErrInvalid, err)
    }
    if cfg.EasyChance, err = chance(get("EASY_SMART_CHANCE", "0.3")); err != nil {
        return cfg, fmt.Errorf("%w: EASY_SMART_CHANCE: %v", ErrInvalid, err)
    }
    if cfg.MediumChance, err = chance(get("MEDIUM_SMART_CHANCE", "0.8")); err != nil {
        return cfg, fmt.Errorf("%w: MEDIUM_SMART_CHANCE: %v", ErrInvalid, err)
    }
    return cfg, nil
}

func chance(s string) (float64, error) {
    v, err := strconv.ParseFloat(s, 64)
    if err != nil {
        return 0, err
    }
    if v < 0 || v > 1 {
        return 0, fmt.Errorf("%v not in [0,1]", v)
    }
    return v, nil
}

// Strategies is the default difficulty table with the configured chances.
func (c Config) Strategies() ai.Table {
    return ai.DefaultTable().
        WithChance(ai.Easy, c.EasyChance).
        WithChance(ai.Medium, c.MediumChance)
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string { return ":" + c.Port }
