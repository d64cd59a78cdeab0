package config

import (
    "testing"
    "time"

    "github.com/rs/zerolog"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/jaminalder/nxn-tic-tac-toe/internal/ai"
)

func env(m map[string]string) func(string) string {
    return func(k string) string { return m[k] }
}

func TestLoadDefaults(t *testing.T) {
    cfg, err := load(env(nil))
    require.NoError(t, err)
    assert.Equal(t, "8080", cfg.Port)
    assert.Equal(t, ":8080", cfg.Addr())
    assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
    assert.Equal(t, 800*time.Millisecond, cfg.ThinkDelay)
    assert.Equal(t, 3, cfg.DefaultSize)
    assert.Equal(t, ai.Medium, cfg.DefaultDifficulty)
    assert.InDelta(t, 0.3, cfg.EasyChance, 1e-9)
    assert.InDelta(t, 0.8, cfg.MediumChance, 1e-9)
}

func TestLoadOverrides(t *testing.T) {
    cfg, err := load(env(map[string]string{
        "PORT":                "9000",
        "LOG_LEVEL":           "debug",
        "THINK_DELAY":         "250ms",
        "DEFAULT_SIZE":        "5",
        "DEFAULT_DIFFICULTY":  "Expert",
        "EASY_SMART_CHANCE":   "0",
        "MEDIUM_SMART_CHANCE": "1",
    }))
    require.NoError(t, err)
    assert.Equal(t, "9000", cfg.Port)
    assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
    assert.Equal(t, 250*time.Millisecond, cfg.ThinkDelay)
    assert.Equal(t, 5, cfg.DefaultSize)
    assert.Equal(t, ai.Expert, cfg.DefaultDifficulty)

    table := cfg.Strategies()
    assert.Equal(t, 0.0, table[ai.Easy].Chance)
    assert.Equal(t, 1.0, table[ai.Medium].Chance)
    assert.Equal(t, 1.0, table[ai.Hard].Chance)
}

func TestLoadRejectsInvalid(t *testing.T) {
    cases := map[string]map[string]string{
        "log level":   {"LOG_LEVEL": "loud"},
        "delay":       {"THINK_DELAY": "soon"},
        "neg delay":   {"THINK_DELAY": "-1s"},
        "size":        {"DEFAULT_SIZE": "9"},
        "size nan":    {"DEFAULT_SIZE": "big"},
        "difficulty":  {"DEFAULT_DIFFICULTY": "godlike"},
        "easy chance": {"EASY_SMART_CHANCE": "1.5"},
        "medium":      {"MEDIUM_SMART_CHANCE": "x"},
    }
    for name, m := range cases {
        t.Run(name, func(t *testing.T) {
            _, err := load(env(m))
            assert.ErrorIs(t, err, ErrInvalid)
        })
    }
}

func TestLoadReadsProcessEnv(t *testing.T) {
    t.Setenv("PORT", "7001")
    cfg, err := Load()
    require.NoError(t, err)
    assert.Equal(t, "7001", cfg.Port)
}
