package app

import "github.com/jaminalder/nxn-tic-tac-toe/internal/domain"

// Scores accumulate across games of one session.
type Scores struct {
    X      int
    O      int
    Draws  int
    // Points are earned by beating the computer, weighted by difficulty.
    Points int
}

func (sc *Scores) record(o domain.Outcome, st Settings) {
    switch {
    case o.Draw:
        sc.Draws++
    case o.Winner == domain.X:
        sc.X++
    case o.Winner == domain.O:
        sc.O++
    default:
        return
    }
    if st.Mode == VsComputer && o.Winner != domain.Empty && o.Winner != st.Computer {
        sc.Points += st.Difficulty.Points()
    }
}

// Games is the number of finished games.
func (sc Scores) Games() int { return sc.X + sc.O + sc.Draws }

// WinRate is the percentage of finished games won by c.
func (sc Scores) WinRate(c domain.Cell) float64 {
    n := sc.Games()
    if n == 0 {
        return 0
    }
    wins := sc.X
    if c == domain.O {
        wins = sc.O
    }
    return float64(wins) * 100 / float64(n)
}
