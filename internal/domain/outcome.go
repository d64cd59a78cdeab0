package domain

// Outcome classifies a board. Exactly one of these holds: in progress
// (no winner, no draw), X wins, O wins, draw.
type Outcome struct {
    Winner Cell
    Line   Line
    Draw   bool
}

// Over reports whether the outcome is terminal.
func (o Outcome) Over() bool { return o.Winner != Empty || o.Draw }

// InProgress reports whether play can continue.
func (o Outcome) InProgress() bool { return !o.Over() }

// Evaluate classifies a board of the given size using the default win
// length for that size.
func Evaluate(b Board, size int) Outcome {
    return evaluate(b, AllLines(size, WinLength(size)))
}

func evaluate(b Board, lines []Line) Outcome {
    for _, ln := range lines {
        first := b[ln[0]]
        if first == Empty {
            continue
        }
        won := true
        for _, i := range ln[1:] {
            if b[i] != first {
                won = false
                break
            }
        }
        if won {
            return Outcome{Winner: first, Line: append(Line(nil), ln...)}
        }
    }
    if b.IsFull() {
        return Outcome{Draw: true, Line: Line{}}
    }
    return Outcome{}
}
