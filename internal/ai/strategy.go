package ai

// Layer is one step of the move-selection chain.
type Layer int

const (
    // WinNow completes a line for the computer.
    WinNow Layer = iota
    // BlockNow occupies the cell the opponent needs to win.
    BlockNow
    // Positional takes the centre (odd sizes) or the first free corner.
    Positional
    // LinePotential scores each move by the open lines it extends.
    LinePotential
)

func (l Layer) String() string {
    switch l {
    case WinNow:
        return "win-now"
    case BlockNow:
        return "block-now"
    case Positional:
        return "positional"
    case LinePotential:
        return "line-potential"
    default:
        return "unknown"
    }
}

// Strategy is an ordered list of layers consulted with probability Chance.
// When the roll fails, or no layer yields a move, a random free cell is played.
type Strategy struct {
    Layers []Layer
    Chance float64
}

// Table maps each difficulty to its strategy.
type Table map[Difficulty]Strategy

// DefaultTable is the stock difficulty ladder.
func DefaultTable() Table {
    full := []Layer{WinNow, BlockNow, LinePotential, Positional}
    return Table{
        Easy:   {Layers: []Layer{WinNow, BlockNow}, Chance: 0.3},
        Medium: {Layers: []Layer{WinNow, BlockNow, Positional}, Chance: 0.8},
        Hard:   {Layers: full, Chance: 1},
        Expert: {Layers: append([]Layer(nil), full...), Chance: 1},
    }
}

// WithChance returns a copy of t with the chance for d replaced.
func (t Table) WithChance(d Difficulty, chance float64) Table {
    out := make(Table, len(t))
    for k, v := range t {
        out[k] = v
    }
    st := out[d]
    st.Chance = chance
    out[d] = st
    return out
}
