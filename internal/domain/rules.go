package domain

import "fmt"

// Supported grid sizes.
const (
    MinSize = 3
    MaxSize = 5
)

// Rules fixes the geometry of one game: grid size and win length.
type Rules struct {
    Size      int
    WinLength int
    lines     *LineSet
}

// NewRules validates a game geometry. A winLength of 0 selects the
// default for the size.
func NewRules(size, winLength int) (Rules, error) {
    if size < MinSize || size > MaxSize {
        return Rules{}, fmt.Errorf("%w: %d (want %d..%d)", ErrUnsupportedSize, size, MinSize, MaxSize)
    }
    if winLength == 0 {
        winLength = WinLength(size)
    }
    if winLength < 1 || winLength > size {
        return Rules{}, fmt.Errorf("%w: %d on a %dx%d grid", ErrInvalidWinLength, winLength, size, size)
    }
    return Rules{Size: size, WinLength: winLength, lines: NewLineSet(size, winLength)}, nil
}

// Lines returns the cached line set, building it for zero-value Rules.
func (r Rules) Lines() *LineSet {
    if r.lines == nil {
        return NewLineSet(r.Size, r.WinLength)
    }
    return r.lines
}

// NewBoard returns an empty board of the rules' size.
func (r Rules) NewBoard() Board { return NewBoard(r.Size) }

// Evaluate classifies b with the configured win length.
func (r Rules) Evaluate(b Board) Outcome {
    return evaluate(b, r.Lines().All())
}

// Center returns the centre cell, or -1 when the size is even.
func (r Rules) Center() int {
    if r.Size%2 == 0 {
        return -1
    }
    return r.Size * r.Size / 2
}

// Corners returns the corner cells in a fixed order: top-left, top-right,
// bottom-left, bottom-right.
func (r Rules) Corners() []int {
    n := r.Size
    return []int{0, n - 1, (n - 1) * n, n*n - 1}
}
