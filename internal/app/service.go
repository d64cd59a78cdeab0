package app

import (
    "context"
    "errors"
    "sync"
    "time"

    "github.com/google/uuid"
    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"

    "github.com/jaminalder/nxn-tic-tac-toe/internal/ai"
    "github.com/jaminalder/nxn-tic-tac-toe/internal/domain"
)

// DefaultThinkDelay is how long the computer "thinks" before moving.
const DefaultThinkDelay = 800 * time.Millisecond

// ErrNotFound is returned for unknown game ids.
var ErrNotFound = errors.New("game not found")

// GameState is a read-only snapshot of one game.
type GameState struct {
    ID       string
    Settings Settings
    Board    domain.Board
    Turn     domain.Cell
    State    State
    Outcome  domain.Outcome
    Moves    int
    Scores   Scores
    Thinking bool
    Status   string
    Elapsed  time.Duration
    Created  time.Time
    Updated  time.Time
}

// Over reports whether the game has finished.
func (gs GameState) Over() bool { return gs.State == Finished }

// OnLine reports whether cell i is part of the winning line.
func (gs GameState) OnLine(i int) bool { return gs.Outcome.Line.Contains(i) }

// Human is the mark the human plays; X when two humans play.
func (gs GameState) Human() domain.Cell {
    if gs.Settings.Mode == VsComputer {
        return gs.Settings.Computer.Opponent()
    }
    return domain.X
}

// Playable reports whether a human may take cell i right now.
func (gs GameState) Playable(i int) bool {
    if gs.State != Playing || gs.Thinking || !gs.Board.InBounds(i) || gs.Board[i] != domain.Empty {
        return false
    }
    return gs.Settings.Mode != VsComputer || gs.Turn != gs.Settings.Computer
}

type subscriber struct {
    ch        chan []byte
    closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

type game struct {
    id      string
    sess    *Session
    timer   *time.Timer
    // seq identifies the armed timer; callbacks from older timers are ignored.
    seq     uint64
    created time.Time
    updated time.Time
}

func (g *game) snapshot() GameState {
    s := g.sess
    return GameState{
        ID:       g.id,
        Settings: s.Settings(),
        Board:    s.Board(),
        Turn:     s.Turn(),
        State:    s.State(),
        Outcome:  s.Outcome(),
        Moves:    s.Moves(),
        Scores:   s.Scores(),
        Thinking: s.Thinking(),
        Status:   s.Status(),
        Elapsed:  s.Elapsed(),
        Created:  g.created,
        Updated:  g.updated,
    }
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithThinkDelay sets the computer's delay before moving.
func WithThinkDelay(d time.Duration) ServiceOption { return func(s *Service) { s.delay = d } }

// WithStrategies sets the difficulty table used by new games.
func WithStrategies(t ai.Table) ServiceOption { return func(s *Service) { s.table = t } }

// WithServiceLogger replaces the global zerolog logger.
func WithServiceLogger(l zerolog.Logger) ServiceOption { return func(s *Service) { s.log = l } }

// Service manages games and subscribers. All session access goes through
// its mutex, including the deferred computer moves, and broadcasts happen
// under it too so a subscriber is never sent to after being closed.
type Service struct {
    mu     sync.Mutex
    games  map[string]*game
    subs   map[string]map[*subscriber]struct{}
    render func(GameState) []byte
    delay  time.Duration
    table  ai.Table
    log    zerolog.Logger
}

// NewService creates a service with a default renderer (encodes nothing useful).
func NewService(opts ...ServiceOption) *Service {
    return NewServiceWithRenderer(func(gs GameState) []byte { return nil }, opts...)
}

// NewServiceWithRenderer allows injecting a renderer for broadcast payloads.
func NewServiceWithRenderer(renderer func(GameState) []byte, opts ...ServiceOption) *Service {
    if renderer == nil {
        renderer = func(gs GameState) []byte { return nil }
    }
    s := &Service{
        games:  make(map[string]*game),
        subs:   make(map[string]map[*subscriber]struct{}),
        render: renderer,
        delay:  DefaultThinkDelay,
        table:  ai.DefaultTable(),
        log:    log.Logger,
    }
    for _, opt := range opts {
        opt(s)
    }
    return s
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(renderer func(GameState) []byte) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if renderer == nil {
        s.render = func(gs GameState) []byte { return nil }
        return
    }
    s.render = renderer
}

// CreateGame validates the settings and registers a new game. If the
// computer opens, its first move is scheduled right away.
func (s *Service) CreateGame(st Settings) (*GameState, error) {
    id := uuid.NewString()
    sess, err := NewSession(st,
        WithTable(s.table),
        WithLogger(s.log.With().Str("game", id).Logger()),
    )
    if err != nil {
        return nil, err
    }
    s.mu.Lock()
    defer s.mu.Unlock()
    now := time.Now()
    g := &game{id: id, sess: sess, created: now, updated: now}
    s.games[id] = g
    s.scheduleLocked(g)
    cfg := sess.Settings()
    s.log.Info().Str("game", id).Int("size", cfg.Size).Int("win_length", cfg.WinLength).
        Str("mode", string(cfg.Mode)).Str("difficulty", string(cfg.Difficulty)).Msg("game created")
    cp := g.snapshot()
    return &cp, nil
}

// Get returns a snapshot of the game if present.
func (s *Service) Get(id string) (*GameState, bool) {
    s.mu.Lock()
    defer s.mu.Unlock()
    g, ok := s.games[id]
    if !ok {
        return nil, false
    }
    cp := g.snapshot()
    return &cp, true
}

// Play applies a human move at index i and broadcasts the new state.
func (s *Service) Play(id string, i int) (*GameState, error) {
    return s.update(id, false, func(sess *Session) error { return sess.Play(i) })
}

// Undo takes back the last move (or move pair against the computer).
func (s *Service) Undo(id string) (*GameState, error) {
    return s.update(id, true, func(sess *Session) error { return sess.Undo() })
}

// Reset starts the next game keeping scores.
func (s *Service) Reset(id string) (*GameState, error) {
    return s.update(id, true, func(sess *Session) error { sess.Reset(); return nil })
}

// NewGame starts over with zeroed scores.
func (s *Service) NewGame(id string) (*GameState, error) {
    return s.update(id, true, func(sess *Session) error { sess.NewGame(); return nil })
}

// update runs op under the lock, optionally cancelling a pending computer
// move first, then reschedules the computer and broadcasts.
func (s *Service) update(id string, cancel bool, op func(*Session) error) (*GameState, error) {
    s.mu.Lock()
    g, ok := s.games[id]
    if !ok {
        s.mu.Unlock()
        return nil, ErrNotFound
    }
    if cancel {
        s.cancelLocked(g)
    }
    if err := op(g.sess); err != nil {
        s.scheduleLocked(g)
        s.mu.Unlock()
        return nil, err
    }
    g.updated = time.Now()
    s.scheduleLocked(g)

    cp := g.snapshot()
    s.publishLocked(cp)
    s.mu.Unlock()
    return &cp, nil
}

// scheduleLocked arms the thinking timer when the computer is to move.
func (s *Service) scheduleLocked(g *game) {
    if g.timer != nil {
        return
    }
    t, ok := g.sess.RequestComputerMove()
    if !ok {
        return
    }
    g.seq++
    id, seq := g.id, g.seq
    g.timer = time.AfterFunc(s.delay, func() { s.completeComputerMove(id, seq, t) })
}

func (s *Service) cancelLocked(g *game) {
    if g.timer != nil {
        g.timer.Stop()
        g.timer = nil
    }
    g.seq++
}

func (s *Service) completeComputerMove(id string, seq uint64, t Ticket) {
    s.mu.Lock()
    defer s.mu.Unlock()
    g, ok := s.games[id]
    if !ok {
        return
    }
    if seq != g.seq {
        // fired after being cancelled; a newer timer may be armed
        s.log.Debug().Str("game", id).Msg("dropped cancelled computer move")
        return
    }
    g.timer = nil
    i, err := g.sess.CompleteComputerMove(t)
    if errors.Is(err, ErrStale) {
        s.log.Debug().Str("game", id).Msg("dropped stale computer move")
        return
    }
    if err != nil {
        s.log.Error().Err(err).Str("game", id).Msg("computer move failed")
        return
    }
    g.updated = time.Now()
    s.log.Debug().Str("game", id).Int("index", i).Msg("computer moved")
    s.publishLocked(g.snapshot())
}

// publishLocked renders gs and delivers it to every subscriber without
// blocking; slow subscribers are closed and dropped.
func (s *Service) publishLocked(gs GameState) {
    set := s.subs[gs.ID]
    if len(set) == 0 {
        return
    }
    payload := s.render(gs)
    for sub := range set {
        select {
        case sub.ch <- payload:
        default:
            sub.close()
            delete(set, sub)
        }
    }
}

// Subscribe registers a subscriber for a game. Returns a channel and an
// unsubscribe func. Unknown games yield an already closed channel.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func()) {
    s.mu.Lock()
    defer s.mu.Unlock()
    sub := &subscriber{ch: make(chan []byte, 1)}
    if _, ok := s.games[id]; !ok {
        sub.close()
        return sub.ch, func() {}
    }
    set := s.subs[id]
    if set == nil {
        set = make(map[*subscriber]struct{})
        s.subs[id] = set
    }
    set[sub] = struct{}{}

    unsubOnce := &sync.Once{}
    unsub := func() {
        unsubOnce.Do(func() {
            s.mu.Lock()
            defer s.mu.Unlock()
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
            }
            sub.close()
        })
    }
    go func() {
        <-ctx.Done()
        unsub()
    }()
    return sub.ch, unsub
}

// Close stops pending computer moves and closes all subscribers.
func (s *Service) Close() {
    s.mu.Lock()
    defer s.mu.Unlock()
    for _, g := range s.games {
        s.cancelLocked(g)
    }
    for id, set := range s.subs {
        for sub := range set {
            sub.close()
        }
        delete(s.subs, id)
    }
}
