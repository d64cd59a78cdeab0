package web

import (
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "net/http"
    "strconv"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/rs/zerolog/log"

    "github.com/jaminalder/nxn-tic-tac-toe/internal/ai"
    "github.com/jaminalder/nxn-tic-tac-toe/internal/app"
    "github.com/jaminalder/nxn-tic-tac-toe/internal/domain"
)

type handlers struct {
    svc      *app.Service
    tpl      *templates
    defaults indexData
}

type boardData struct {
    ID    string
    Game  app.GameState
    Error string
}

func (h *handlers) renderBoard(gs app.GameState, errMsg string) []byte {
    return renderTemplate(h.tpl.board, "", boardData{ID: gs.ID, Game: gs, Error: errMsg})
}

// broadcast is installed as the service renderer for SSE payloads.
func (h *handlers) broadcast(gs app.GameState) []byte { return h.renderBoard(gs, "") }

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(renderTemplate(h.tpl.index, "", h.defaults))
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
    w.Header().Set("Content-Type", "application/json; charset=utf-8")
    _, _ = w.Write([]byte(`{"ok":true}`))
}

// settingsFromForm reads the create form; missing fields fall back to defaults.
func (h *handlers) settingsFromForm(r *http.Request) (app.Settings, error) {
    _ = r.ParseForm()
    st := app.Settings{
        Size:       h.defaults.DefaultSize,
        Mode:       app.VsComputer,
        Difficulty: h.defaults.Default,
        NameX:      r.Form.Get("name_x"),
        NameO:      r.Form.Get("name_o"),
    }
    if v := r.Form.Get("size"); v != "" {
        n, err := strconv.Atoi(v)
        if err != nil {
            return st, fmt.Errorf("%w: %q", domain.ErrUnsupportedSize, v)
        }
        st.Size = n
    }
    if v := r.Form.Get("win"); v != "" {
        n, err := strconv.Atoi(v)
        if err != nil {
            return st, fmt.Errorf("%w: %q", domain.ErrInvalidWinLength, v)
        }
        st.WinLength = n
    }
    if v := r.Form.Get("mode"); v != "" {
        m, err := app.ParseMode(v)
        if err != nil {
            return st, err
        }
        st.Mode = m
    }
    if v := r.Form.Get("difficulty"); v != "" {
        d, err := ai.ParseDifficulty(v)
        if err != nil {
            return st, err
        }
        st.Difficulty = d
    }
    if v := r.Form.Get("computer"); v != "" {
        c, err := domain.ParseCell(v)
        if err != nil {
            return st, err
        }
        st.Computer = c
    }
    return st, nil
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
    st, err := h.settingsFromForm(r)
    if err == nil {
        var gs *app.GameState
        if gs, err = h.svc.CreateGame(st); err == nil {
            http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
            return
        }
    }
    log.Warn().Err(err).Msg("create game")
    http.Error(w, "invalid settings: "+err.Error(), http.StatusBadRequest)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    gs, ok := h.svc.Get(id)
    if !ok {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    // Render page with embedded board container
    _, _ = w.Write(renderTemplate(h.tpl.game, "", boardData{ID: gs.ID, Game: *gs}))
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
    _ = r.ParseForm()
    i, err := strconv.Atoi(r.Form.Get("i"))
    if err != nil {
        i = -1
    }
    h.respond(w, r, func(id string) (*app.GameState, error) { return h.svc.Play(id, i) })
}

func (h *handlers) undo(w http.ResponseWriter, r *http.Request) {
    h.respond(w, r, h.svc.Undo)
}

func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
    h.respond(w, r, h.svc.Reset)
}

func (h *handlers) newGame(w http.ResponseWriter, r *http.Request) {
    h.respond(w, r, h.svc.NewGame)
}

// respond runs op and writes the board fragment. Rejected actions are not
// HTTP errors: the current board is rendered with a short message.
func (h *handlers) respond(w http.ResponseWriter, r *http.Request, op func(id string) (*app.GameState, error)) {
    id := chi.URLParam(r, "id")
    gs, err := op(id)
    var errMsg string
    if err != nil {
        if gs == nil {
            if g, ok := h.svc.Get(id); ok {
                gs = g
            }
        }
        errMsg = message(err)
        log.Debug().Err(err).Str("game", id).Msg("rejected")
    }
    if gs == nil {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    _, _ = w.Write(h.renderBoard(*gs, errMsg))
}

func message(err error) string {
    switch {
    case errors.Is(err, app.ErrNotYourTurn):
        return "Not your turn"
    case errors.Is(err, domain.ErrOccupied):
        return "Cell is occupied"
    case errors.Is(err, domain.ErrOutOfBounds):
        return "Out of bounds"
    case errors.Is(err, domain.ErrGameOver):
        return "Game is over"
    default:
        return "Invalid move"
    }
}

type scoresJSON struct {
    X      int `json:"x"`
    O      int `json:"o"`
    Draws  int `json:"draws"`
    Points int `json:"points"`
}

type stateJSON struct {
    ID         string     `json:"id"`
    Size       int        `json:"size"`
    WinLength  int        `json:"winLength"`
    Mode       string     `json:"mode"`
    Difficulty string     `json:"difficulty,omitempty"`
    Board      []string   `json:"board"`
    Turn       string     `json:"turn"`
    State      string     `json:"state"`
    Winner     string     `json:"winner,omitempty"`
    Draw       bool       `json:"draw"`
    Line       []int      `json:"line"`
    Moves      int        `json:"moves"`
    Thinking   bool       `json:"thinking"`
    Status     string     `json:"status"`
    ElapsedMs  int64      `json:"elapsedMs"`
    Scores     scoresJSON `json:"scores"`
}

func toJSON(gs app.GameState) stateJSON {
    cells := make([]string, len(gs.Board))
    for i, c := range gs.Board {
        cells[i] = c.String()
    }
    line := []int(gs.Outcome.Line)
    if line == nil {
        line = []int{}
    }
    out := stateJSON{
        ID:        gs.ID,
        Size:      gs.Settings.Size,
        WinLength: gs.Settings.WinLength,
        Mode:      string(gs.Settings.Mode),
        Board:     cells,
        Turn:      gs.Turn.String(),
        State:     gs.State.String(),
        Winner:    gs.Outcome.Winner.String(),
        Draw:      gs.Outcome.Draw,
        Line:      line,
        Moves:     gs.Moves,
        Thinking:  gs.Thinking,
        Status:    gs.Status,
        ElapsedMs: gs.Elapsed.Milliseconds(),
        Scores:    scoresJSON{X: gs.Scores.X, O: gs.Scores.O, Draws: gs.Scores.Draws, Points: gs.Scores.Points},
    }
    if gs.Settings.Mode == app.VsComputer {
        out.Difficulty = string(gs.Settings.Difficulty)
    }
    return out
}

func (h *handlers) state(w http.ResponseWriter, r *http.Request) {
    gs, ok := h.svc.Get(chi.URLParam(r, "id"))
    if !ok {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "application/json; charset=utf-8")
    _ = json.NewEncoder(w).Encode(toJSON(*gs))
}

var heartbeatInterval = 15 * time.Second

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("X-Accel-Buffering", "no")
    // In tests or non-EventSource requests, just acknowledge headers and return
    if r.Header.Get("Accept") != "text/event-stream" {
        w.WriteHeader(http.StatusOK)
        return
    }
    flusher, ok := w.(http.Flusher)
    if !ok {
        w.WriteHeader(http.StatusOK)
        return
    }
    ctx := r.Context()
    ch, unsub := h.svc.Subscribe(ctx, id)
    defer unsub()
    ticker := time.NewTicker(heartbeatInterval)
    defer ticker.Stop()
    // Initial flush of headers
    flusher.Flush()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            _, _ = io.WriteString(w, ": ping\n\n")
            flusher.Flush()
        case b, ok := <-ch:
            if !ok {
                return
            }
            _, _ = fmt.Fprintf(w, "event: board\n")
            _, _ = fmt.Fprintf(w, "data: %s\n\n", sseData(b))
            flusher.Flush()
        }
    }
}

// sseData folds a multi-line payload onto one data field.
func sseData(b []byte) []byte {
    out := make([]byte, 0, len(b))
    for _, c := range b {
        if c == '\n' || c == '\r' {
            continue
        }
        out = append(out, c)
    }
    return out
}
