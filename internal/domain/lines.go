package domain

// Line is a run of collinear, contiguous cell indices.
type Line []int

// Contains reports whether the line passes through cell i.
func (l Line) Contains(i int) bool {
    for _, v := range l {
        if v == i {
            return true
        }
    }
    return false
}

// WinLength is the number of marks in a row needed to win on a board of
// the given size: 3 on 3x3 and 4x4, 4 on 5x5, the full width otherwise.
func WinLength(size int) int {
    switch size {
    case 3, 4:
        return 3
    case 5:
        return 4
    default:
        return size
    }
}

// AllLines enumerates every winning line of length winLength on a
// size x size board. Order is stable: rows, columns, down-right diagonals,
// down-left diagonals, each family walked by starting cell in row-major
// order. Returns nil if no line fits.
func AllLines(size, winLength int) []Line {
    if winLength < 1 || winLength > size {
        return nil
    }
    span := size - winLength + 1
    lines := make([]Line, 0, 2*size*span+2*span*span)

    // rows
    for r := 0; r < size; r++ {
        for c := 0; c < span; c++ {
            ln := make(Line, winLength)
            for i := range ln {
                ln[i] = r*size + c + i
            }
            lines = append(lines, ln)
        }
    }
    // columns
    for c := 0; c < size; c++ {
        for r := 0; r < span; r++ {
            ln := make(Line, winLength)
            for i := range ln {
                ln[i] = (r+i)*size + c
            }
            lines = append(lines, ln)
        }
    }
    // down-right diagonals
    for r := 0; r < span; r++ {
        for c := 0; c < span; c++ {
            ln := make(Line, winLength)
            for i := range ln {
                ln[i] = (r+i)*size + c + i
            }
            lines = append(lines, ln)
        }
    }
    // down-left diagonals
    for r := 0; r < span; r++ {
        for c := winLength - 1; c < size; c++ {
            ln := make(Line, winLength)
            for i := range ln {
                ln[i] = (r+i)*size + c - i
            }
            lines = append(lines, ln)
        }
    }
    return lines
}

// LineSet caches the lines of one board geometry together with the lines
// passing through each cell.
type LineSet struct {
    size    int
    lines   []Line
    through [][]Line
}

// NewLineSet builds the lines for a size x size board and indexes them by cell.
func NewLineSet(size, winLength int) *LineSet {
    ls := &LineSet{size: size, lines: AllLines(size, winLength)}
    if size > 0 {
        ls.through = make([][]Line, size*size)
    }
    for _, ln := range ls.lines {
        for _, i := range ln {
            ls.through[i] = append(ls.through[i], ln)
        }
    }
    return ls
}

// All returns every line in generator order.
func (ls *LineSet) All() []Line { return ls.lines }

// Through returns the lines containing cell i, in generator order.
func (ls *LineSet) Through(i int) []Line {
    if i < 0 || i >= len(ls.through) {
        return nil
    }
    return ls.through[i]
}
