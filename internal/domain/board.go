package domain

import "errors"

// Cell represents a board cell state.
type Cell uint8

const (
    Empty Cell = iota
    X
    O
)

// Opponent returns the other mark; Empty has no opponent.
func (c Cell) Opponent() Cell {
    switch c {
    case X:
        return O
    case O:
        return X
    default:
        return Empty
    }
}

func (c Cell) String() string {
    switch c {
    case X:
        return "X"
    case O:
        return "O"
    default:
        return ""
    }
}

// ParseCell accepts "X" or "O" (either case).
func ParseCell(s string) (Cell, error) {
    switch s {
    case "X", "x":
        return X, nil
    case "O", "o":
        return O, nil
    }
    return Empty, ErrUnknownMark
}

// Board is a size*size grid stored row-major (index = row*size + col).
// Boards are treated as values: With returns a copy instead of mutating,
// so snapshots handed out earlier stay valid.
type Board []Cell

// Errors returned by domain operations.
var (
    ErrOutOfBounds      = errors.New("out of bounds")
    ErrOccupied         = errors.New("cell occupied")
    ErrGameOver         = errors.New("game over")
    ErrUnsupportedSize  = errors.New("unsupported grid size")
    ErrInvalidWinLength = errors.New("invalid win length")
    ErrUnknownMark      = errors.New("unknown mark")
)

// NewBoard returns an empty board with size*size cells.
func NewBoard(size int) Board {
    if size < 1 {
        return Board{}
    }
    return make(Board, size*size)
}

// AvailableMoves lists the empty cells in ascending index order.
func (b Board) AvailableMoves() []int {
    out := make([]int, 0, len(b))
    for i, c := range b {
        if c == Empty {
            out = append(out, i)
        }
    }
    return out
}

// IsFull reports whether no cell is empty.
func (b Board) IsFull() bool {
    for _, c := range b {
        if c == Empty {
            return false
        }
    }
    return true
}

// Count returns how many cells hold c.
func (b Board) Count(c Cell) int {
    n := 0
    for _, v := range b {
        if v == c {
            n++
        }
    }
    return n
}

// Clone returns an independent copy of the board.
func (b Board) Clone() Board {
    cp := make(Board, len(b))
    copy(cp, b)
    return cp
}

// With returns a copy of the board with cell i set to c.
func (b Board) With(i int, c Cell) Board {
    cp := b.Clone()
    cp[i] = c
    return cp
}

// InBounds reports whether i addresses a cell of the board.
func (b Board) InBounds(i int) bool {
    return i >= 0 && i < len(b)
}
