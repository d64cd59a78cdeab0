package ai

import (
    "errors"
    "math/rand"
    "time"

    "github.com/jaminalder/nxn-tic-tac-toe/internal/domain"
)

var ErrNoMoves = errors.New("no available moves")

// Selector picks the computer's move for one game geometry.
// It is not safe for concurrent use: the rng is shared.
type Selector struct {
    rules domain.Rules
    table Table
    rng   *rand.Rand
}

// NewSelector builds a selector. A nil table selects DefaultTable and a nil
// rng is seeded from the clock.
func NewSelector(rules domain.Rules, table Table, rng *rand.Rand) *Selector {
    if table == nil {
        table = DefaultTable()
    }
    if rng == nil {
        rng = rand.New(rand.NewSource(time.Now().UnixNano()))
    }
    return &Selector{rules: rules, table: table, rng: rng}
}

// Choose returns the index the computer playing me should take on b.
// Difficulties missing from the table play randomly.
func (s *Selector) Choose(b domain.Board, d Difficulty, me domain.Cell) (int, error) {
    moves := b.AvailableMoves()
    if len(moves) == 0 {
        return -1, ErrNoMoves
    }
    st, ok := s.table[d]
    if ok && s.roll(st.Chance) {
        for _, l := range st.Layers {
            if i, found := s.apply(l, b, moves, me); found {
                return i, nil
            }
        }
    }
    return moves[s.rng.Intn(len(moves))], nil
}

// Explain reports which layer (if any) would pick a move, skipping the
// chance roll. Sessions use it for player hints.
func (s *Selector) Explain(b domain.Board, d Difficulty, me domain.Cell) (Layer, int, bool) {
    moves := b.AvailableMoves()
    for _, l := range s.table[d].Layers {
        if i, found := s.apply(l, b, moves, me); found {
            return l, i, true
        }
    }
    return 0, -1, false
}

func (s *Selector) roll(chance float64) bool {
    if chance >= 1 {
        return true
    }
    if chance <= 0 {
        return false
    }
    return s.rng.Float64() < chance
}

func (s *Selector) apply(l Layer, b domain.Board, moves []int, me domain.Cell) (int, bool) {
    switch l {
    case WinNow:
        return s.completing(b, moves, me)
    case BlockNow:
        return s.completing(b, moves, me.Opponent())
    case Positional:
        return s.positional(b)
    case LinePotential:
        return s.potential(b, moves, me)
    }
    return -1, false
}

// completing finds the first move that wins the game for mark.
func (s *Selector) completing(b domain.Board, moves []int, mark domain.Cell) (int, bool) {
    for _, i := range moves {
        if s.rules.Evaluate(b.With(i, mark)).Winner == mark {
            return i, true
        }
    }
    return -1, false
}

func (s *Selector) positional(b domain.Board) (int, bool) {
    if c := s.rules.Center(); c >= 0 && b[c] == domain.Empty {
        return c, true
    }
    for _, c := range s.rules.Corners() {
        if b[c] == domain.Empty {
            return c, true
        }
    }
    return -1, false
}

// potential scores a move as the sum, over lines through it that hold no
// opponent mark, of the squared count of own marks once the move is made.
// The highest strictly-greater score wins so ties go to the lowest index.
func (s *Selector) potential(b domain.Board, moves []int, me domain.Cell) (int, bool) {
    lines := s.rules.Lines()
    opp := me.Opponent()
    best, bestScore := -1, 0
    for _, i := range moves {
        nb := b.With(i, me)
        score := 0
        for _, ln := range lines.Through(i) {
            own, blocked := 0, false
            for _, j := range ln {
                switch nb[j] {
                case me:
                    own++
                case opp:
                    blocked = true
                }
            }
            if !blocked {
                score += own * own
            }
        }
        if score > bestScore {
            best, bestScore = i, score
        }
    }
    return best, best >= 0
}
