package ai

import (
    "errors"
    "fmt"
    "strings"
)

// Difficulty selects the computer opponent's strategy.
type Difficulty string

const (
    Easy   Difficulty = "easy"
    Medium Difficulty = "medium"
    Hard   Difficulty = "hard"
    Expert Difficulty = "expert"
)

// Difficulties lists the tiers from weakest to strongest.
var Difficulties = []Difficulty{Easy, Medium, Hard, Expert}

var ErrUnknownDifficulty = errors.New("unknown difficulty")

// ParseDifficulty is case-insensitive.
func ParseDifficulty(s string) (Difficulty, error) {
    d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
    for _, v := range Difficulties {
        if d == v {
            return d, nil
        }
    }
    return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

// Points is the reward for beating the computer at this tier.
func (d Difficulty) Points() int {
    switch d {
    case Easy:
        return 1
    case Medium:
        return 3
    case Hard:
        return 5
    case Expert:
        return 7
    default:
        return 1
    }
}
