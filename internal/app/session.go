package app

import (
    "errors"
    "fmt"
    "math/rand"
    "strings"
    "time"

    "github.com/rs/zerolog"

    "github.com/jaminalder/nxn-tic-tac-toe/internal/ai"
    "github.com/jaminalder/nxn-tic-tac-toe/internal/domain"
)

// Mode selects who plays the second mark.
type Mode string

const (
    TwoPlayer  Mode = "pvp"
    VsComputer Mode = "pvc"
)

// ParseMode accepts "pvp"/"two-player" and "pvc"/"computer".
func ParseMode(s string) (Mode, error) {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "pvp", "two-player", "2p":
        return TwoPlayer, nil
    case "pvc", "computer", "ai":
        return VsComputer, nil
    }
    return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

// State of a session.
type State int

const (
    Playing State = iota
    Finished
)

func (s State) String() string {
    if s == Finished {
        return "finished"
    }
    return "playing"
}

// Errors exposed by sessions.
var (
    ErrNotYourTurn = errors.New("not your turn")
    ErrStale       = errors.New("computer move no longer matches the board")
    ErrUnknownMode = errors.New("unknown game mode")
)

// Settings configure a session for its whole lifetime.
type Settings struct {
    Size int
    // WinLength overrides the default for Size when non-zero.
    WinLength  int
    Mode       Mode
    Difficulty ai.Difficulty
    // Computer is the mark the computer plays in VsComputer mode (O when unset).
    Computer domain.Cell
    NameX    string
    NameO    string
}

func (st Settings) normalize() (Settings, domain.Rules, error) {
    rules, err := domain.NewRules(st.Size, st.WinLength)
    if err != nil {
        return st, rules, err
    }
    st.WinLength = rules.WinLength
    switch st.Mode {
    case "":
        st.Mode = TwoPlayer
    case TwoPlayer, VsComputer:
    default:
        return st, rules, fmt.Errorf("%w: %q", ErrUnknownMode, st.Mode)
    }
    if st.Mode == VsComputer {
        if st.Difficulty == "" {
            st.Difficulty = ai.Medium
        }
        if _, err := ai.ParseDifficulty(string(st.Difficulty)); err != nil {
            return st, rules, err
        }
        if st.Computer == domain.Empty {
            st.Computer = domain.O
        }
    } else {
        st.Computer = domain.Empty
    }
    if st.NameX == "" {
        st.NameX = "Player 1"
    }
    if st.NameO == "" {
        st.NameO = "Player 2"
    }
    switch st.Computer {
    case domain.X:
        st.NameX = "Computer"
    case domain.O:
        st.NameO = "Computer"
    }
    return st, rules, nil
}

// MoveRecord is one entry of the undo log.
type MoveRecord struct {
    Index  int
    Mark   domain.Cell
    Before domain.Board
}

// Ticket binds a pending computer move to the board it was requested for.
type Ticket struct {
    epoch uint64
}

type sessionOptions struct {
    log   zerolog.Logger
    table ai.Table
    rng   *rand.Rand
    now   func() time.Time
}

// Option customises a Session.
type Option func(*sessionOptions)

// WithLogger attaches a logger; sessions are silent by default.
func WithLogger(l zerolog.Logger) Option { return func(o *sessionOptions) { o.log = l } }

// WithTable replaces the difficulty strategy table.
func WithTable(t ai.Table) Option { return func(o *sessionOptions) { o.table = t } }

// WithRand fixes the computer's random source.
func WithRand(r *rand.Rand) Option { return func(o *sessionOptions) { o.rng = r } }

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option { return func(o *sessionOptions) { o.now = now } }

// Session is one sequence of games between the same two sides. It is not
// safe for concurrent use; Service serialises access.
type Session struct {
    settings Settings
    rules    domain.Rules
    selector *ai.Selector
    log      zerolog.Logger
    now      func() time.Time

    board    domain.Board
    turn     domain.Cell
    state    State
    outcome  domain.Outcome
    history  []MoveRecord
    scores   Scores
    thinking bool
    // epoch changes on every board change, invalidating outstanding tickets.
    epoch   uint64
    started time.Time
    ended   time.Time
}

// NewSession validates st and starts the first game.
func NewSession(st Settings, opts ...Option) (*Session, error) {
    st, rules, err := st.normalize()
    if err != nil {
        return nil, err
    }
    o := sessionOptions{log: zerolog.Nop(), now: time.Now}
    for _, opt := range opts {
        opt(&o)
    }
    s := &Session{
        settings: st,
        rules:    rules,
        selector: ai.NewSelector(rules, o.table, o.rng),
        log:      o.log,
        now:      o.now,
    }
    s.Reset()
    return s, nil
}

// Play places the mark of the side to move at index i for a human player.
func (s *Session) Play(i int) error {
    if s.settings.Mode == VsComputer && (s.thinking || s.turn == s.settings.Computer) {
        return ErrNotYourTurn
    }
    return s.apply(i, s.turn)
}

func (s *Session) apply(i int, mark domain.Cell) error {
    if s.state == Finished {
        return domain.ErrGameOver
    }
    if mark != s.turn {
        return ErrNotYourTurn
    }
    if !s.board.InBounds(i) {
        return domain.ErrOutOfBounds
    }
    if s.board[i] != domain.Empty {
        return domain.ErrOccupied
    }

    s.history = append(s.history, MoveRecord{Index: i, Mark: mark, Before: s.board})
    s.board = s.board.With(i, mark)
    s.turn = mark.Opponent()
    s.epoch++
    s.log.Debug().Int("index", i).Stringer("mark", mark).Int("moves", len(s.history)).Msg("move")

    s.outcome = s.rules.Evaluate(s.board)
    if s.outcome.Over() {
        s.finish()
    }
    return nil
}

func (s *Session) finish() {
    s.state = Finished
    s.ended = s.now()
    s.thinking = false
    s.scores.record(s.outcome, s.settings)
    ev := s.log.Info().Int("moves", len(s.history)).Dur("elapsed", s.Elapsed())
    if s.outcome.Draw {
        ev.Msg("draw")
        return
    }
    ev.Stringer("winner", s.outcome.Winner).Ints("line", s.outcome.Line).Msg("game won")
}

// ComputerToMove reports whether the computer should move now.
func (s *Session) ComputerToMove() bool {
    return s.settings.Mode == VsComputer && s.state == Playing && s.turn == s.settings.Computer
}

// RequestComputerMove marks the computer as thinking and returns a ticket
// for CompleteComputerMove. ok is false when it is not the computer's turn.
func (s *Session) RequestComputerMove() (t Ticket, ok bool) {
    if !s.ComputerToMove() {
        return Ticket{}, false
    }
    s.thinking = true
    return Ticket{epoch: s.epoch}, true
}

// CompleteComputerMove picks and plays the computer's move. It returns
// ErrStale if the board changed (move, undo, reset) since the ticket was
// issued; nothing is applied in that case.
func (s *Session) CompleteComputerMove(t Ticket) (int, error) {
    if t.epoch != s.epoch || !s.thinking {
        return -1, ErrStale
    }
    s.thinking = false
    if !s.ComputerToMove() {
        return -1, ErrNotYourTurn
    }
    i, err := s.selector.Choose(s.board, s.settings.Difficulty, s.settings.Computer)
    if err != nil {
        s.log.Error().Err(err).Msg("computer move")
        return -1, err
    }
    if err := s.apply(i, s.settings.Computer); err != nil {
        return -1, err
    }
    return i, nil
}

// ComputerMove plays the computer's move immediately.
func (s *Session) ComputerMove() (int, error) {
    t, ok := s.RequestComputerMove()
    if !ok {
        return -1, ErrNotYourTurn
    }
    return s.CompleteComputerMove(t)
}

// Hint suggests a move for the human to play, using the strongest layer
// chain. ok is false when no layer has a preference.
func (s *Session) Hint() (i int, layer ai.Layer, ok bool, err error) {
    if s.state != Playing {
        return -1, 0, false, domain.ErrGameOver
    }
    if s.settings.Mode == VsComputer && (s.thinking || s.turn == s.settings.Computer) {
        return -1, 0, false, ErrNotYourTurn
    }
    layer, i, ok = s.selector.Explain(s.board, ai.Hard, s.turn)
    return i, layer, ok, nil
}

// Undo takes back the last move, or in VsComputer mode the last human move
// and the computer's reply, so the human is to move again. It only works
// while playing and is a no-op on an empty log.
func (s *Session) Undo() error {
    if s.state != Playing {
        return domain.ErrGameOver
    }
    if len(s.history) == 0 {
        return nil
    }
    n := 1
    if s.settings.Mode == VsComputer && s.turn != s.settings.Computer {
        n = 2
    }
    target := len(s.history) - n
    if target < 0 {
        target = 0
    }
    rec := s.history[target]
    s.board = rec.Before
    s.turn = rec.Mark
    s.history = s.history[:target]
    s.outcome = domain.Outcome{}
    s.thinking = false
    s.epoch++
    s.log.Debug().Int("undone", n).Int("moves", len(s.history)).Msg("undo")
    return nil
}

// Reset starts the next game ("play again"); scores are kept.
func (s *Session) Reset() {
    s.board = s.rules.NewBoard()
    s.turn = domain.X
    s.state = Playing
    s.outcome = domain.Outcome{}
    s.history = nil
    s.thinking = false
    s.epoch++
    s.started = s.now()
    s.ended = time.Time{}
}

// NewGame starts over with zeroed scores.
func (s *Session) NewGame() {
    s.Reset()
    s.scores = Scores{}
}

// Board returns a copy of the grid.
func (s *Session) Board() domain.Board { return s.board.Clone() }

func (s *Session) Turn() domain.Cell        { return s.turn }
func (s *Session) State() State             { return s.state }
func (s *Session) WinningLine() domain.Line { return append(domain.Line(nil), s.outcome.Line...) }
func (s *Session) Moves() int               { return len(s.history) }
func (s *Session) Scores() Scores           { return s.scores }
func (s *Session) Thinking() bool           { return s.thinking }
func (s *Session) Settings() Settings       { return s.settings }
func (s *Session) Rules() domain.Rules      { return s.rules }

// Outcome returns the result so far; the winning line is a copy.
func (s *Session) Outcome() domain.Outcome {
    o := s.outcome
    o.Line = append(domain.Line(nil), o.Line...)
    return o
}

// History returns a copy of the move log, snapshots included.
func (s *Session) History() []MoveRecord {
    out := make([]MoveRecord, len(s.history))
    for i, rec := range s.history {
        rec.Before = rec.Before.Clone()
        out[i] = rec
    }
    return out
}

// Elapsed is the duration of the current game, frozen once it finishes.
func (s *Session) Elapsed() time.Duration {
    if s.ended.IsZero() {
        return s.now().Sub(s.started)
    }
    return s.ended.Sub(s.started)
}

// Name returns the display name of the side playing c.
func (s *Session) Name(c domain.Cell) string {
    if c == domain.O {
        return s.settings.NameO
    }
    return s.settings.NameX
}

// Status is a one-line description of the game for display.
func (s *Session) Status() string {
    if s.state == Finished {
        if s.outcome.Draw {
            return "It's a draw!"
        }
        return s.Name(s.outcome.Winner) + " wins!"
    }
    if s.ComputerToMove() && s.thinking {
        return "Computer is thinking..."
    }
    return fmt.Sprintf("%s's turn (%s)", s.Name(s.turn), s.turn)
}
