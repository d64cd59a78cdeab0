// Package console plays a session in a terminal. Empty cells show their
// 1-based number so a move is typed as that number.
package console

import (
    "bufio"
    "context"
    "errors"
    "fmt"
    "io"
    "strconv"
    "strings"
    "time"

    "github.com/muesli/termenv"

    "github.com/jaminalder/nxn-tic-tac-toe/internal/app"
    "github.com/jaminalder/nxn-tic-tac-toe/internal/domain"
)

// Renderer draws sessions with terminal styling.
type Renderer struct {
    out *termenv.Output
}

// NewRenderer styles for the terminal behind w; pass
// termenv.WithProfile(termenv.Ascii) for plain text.
func NewRenderer(w io.Writer, opts ...termenv.OutputOption) *Renderer {
    return &Renderer{out: termenv.NewOutput(w, opts...)}
}

func (r *Renderer) mark(c domain.Cell, win bool) string {
    st := r.out.String(c.String()).Bold()
    switch c {
    case domain.X:
        st = st.Foreground(r.out.Color("4"))
    case domain.O:
        st = st.Foreground(r.out.Color("1"))
    }
    if win {
        st = st.Reverse()
    }
    return st.String()
}

// Board renders the grid, the status line and the score table.
func (r *Renderer) Board(s *app.Session) string {
    size := s.Rules().Size
    b := s.Board()
    line := s.WinningLine()
    width := len(strconv.Itoa(size * size))

    var sb strings.Builder
    sep := strings.Repeat("-", size*(width+3)-1)
    for row := 0; row < size; row++ {
        if row > 0 {
            sb.WriteString(sep + "\n")
        }
        for col := 0; col < size; col++ {
            i := row*size + col
            if col > 0 {
                sb.WriteString("|")
            }
            var cell string
            if b[i] == domain.Empty {
                cell = r.out.String(fmt.Sprintf("%*d", width, i+1)).Faint().String()
            } else {
                cell = strings.Repeat(" ", width-1) + r.mark(b[i], line.Contains(i))
            }
            sb.WriteString(" " + cell + " ")
        }
        sb.WriteString("\n")
    }
    sb.WriteString("\n" + r.out.String(s.Status()).Bold().String() + "\n")
    sc := s.Scores()
    st := s.Settings()
    fmt.Fprintf(&sb, "%s (X) %d  draws %d  %s (O) %d", st.NameX, sc.X, sc.Draws, st.NameO, sc.O)
    if sc.Points > 0 {
        fmt.Fprintf(&sb, "  points %d", sc.Points)
    }
    sb.WriteString("\n")
    return sb.String()
}

// ErrQuit is returned by Run when the player quits.
var ErrQuit = errors.New("quit")

// Game drives one session from line-oriented input.
type Game struct {
    Session *app.Session
    // Delay is how long the computer "thinks" before replying.
    Delay    time.Duration
    renderer *Renderer
    in       *bufio.Scanner
    out      io.Writer
}

// NewGame reads commands from in and writes frames to out.
func NewGame(s *app.Session, in io.Reader, out io.Writer, r *Renderer) *Game {
    if r == nil {
        r = NewRenderer(out)
    }
    return &Game{Session: s, renderer: r, in: bufio.NewScanner(in), out: out}
}

func (g *Game) printf(format string, args ...any) {
    _, _ = fmt.Fprintf(g.out, format, args...)
}

// Run loops until the player quits, input ends or ctx is cancelled.
// Quitting and end of input return nil. Reading input blocks, so a
// cancellation while waiting at the prompt is only noticed after the next
// line arrives; the computer's thinking delay is interrupted at once.
func (g *Game) Run(ctx context.Context) error {
    for {
        if err := ctx.Err(); err != nil {
            return err
        }
        g.printf("\n%s", g.renderer.Board(g.Session))

        if g.Session.ComputerToMove() {
            if err := g.think(ctx); err != nil {
                return err
            }
            continue
        }

        if g.Session.State() == app.Finished {
            g.printf("[r] play again  [n] new game  [q] quit > ")
        } else {
            g.printf("move 1-%d  [h] hint  [u] undo  [r] play again  [n] new game  [q] quit > ", g.Session.Rules().Size*g.Session.Rules().Size)
        }
        if !g.in.Scan() {
            g.printf("\n")
            return g.in.Err()
        }
        err := g.Command(g.in.Text())
        if errors.Is(err, ErrQuit) {
            return nil
        }
        if err != nil {
            g.printf("%s\n", describe(err))
        }
    }
}

func (g *Game) think(ctx context.Context) error {
    if g.Delay > 0 {
        t := time.NewTimer(g.Delay)
        defer t.Stop()
        select {
        case <-ctx.Done():
            return ctx.Err()
        case <-t.C:
        }
    }
    _, err := g.Session.ComputerMove()
    return err
}

// Command applies one line of input.
func (g *Game) Command(line string) error {
    cmd := strings.ToLower(strings.TrimSpace(line))
    switch cmd {
    case "":
        return nil
    case "q", "quit":
        return ErrQuit
    case "u", "undo":
        return g.Session.Undo()
    case "r", "reset":
        g.Session.Reset()
        return nil
    case "n", "new":
        g.Session.NewGame()
        return nil
    case "h", "hint":
        i, layer, ok, err := g.Session.Hint()
        if err != nil {
            return err
        }
        if !ok {
            g.printf("No hint.\n")
            return nil
        }
        g.printf("Hint: %d (%s)\n", i+1, layer)
        return nil
    }
    n, err := strconv.Atoi(cmd)
    if err != nil {
        return fmt.Errorf("unknown command %q", cmd)
    }
    return g.Session.Play(n - 1)
}

func describe(err error) string {
    switch {
    case errors.Is(err, domain.ErrOccupied):
        return "That cell is taken."
    case errors.Is(err, domain.ErrOutOfBounds):
        return "No such cell."
    case errors.Is(err, domain.ErrGameOver):
        return "The game is over."
    case errors.Is(err, app.ErrNotYourTurn):
        return "Wait for the computer."
    default:
        return err.Error()
    }
}
