package web

import (
    "net/http"

    "github.com/go-chi/chi/v5"
    chimw "github.com/go-chi/chi/v5/middleware"

    "github.com/jaminalder/nxn-tic-tac-toe/internal/ai"
    "github.com/jaminalder/nxn-tic-tac-toe/internal/app"
    "github.com/jaminalder/nxn-tic-tac-toe/internal/domain"
)

// Option customises the server.
type Option func(*handlers)

// WithDefaults preselects grid size and difficulty on the create form.
func WithDefaults(size int, d ai.Difficulty) Option {
    return func(h *handlers) {
        h.defaults.DefaultSize = size
        h.defaults.Default = d
    }
}

// NewServer wires routes and returns an http.Handler. It also installs the
// board fragment as the service's broadcast renderer.
func NewServer(s *app.Service, opts ...Option) http.Handler {
    h := &handlers{svc: s, tpl: loadTemplates(), defaults: indexData{
        DefaultSize:  domain.MinSize,
        Default:      ai.Medium,
        Difficulties: ai.Difficulties,
    }}
    for size := domain.MinSize; size <= domain.MaxSize; size++ {
        h.defaults.Sizes = append(h.defaults.Sizes, size)
    }
    for _, opt := range opts {
        opt(h)
    }
    s.SetRenderer(h.broadcast)

    r := chi.NewRouter()
    r.Use(chimw.RequestID)
    r.Use(chimw.RealIP)
    r.Use(requestLogger)
    r.Use(chimw.Recoverer)

    r.Get("/", h.index)
    r.Get("/health", h.health)
    r.Post("/game", h.create)
    r.Route("/game/{id}", func(r chi.Router) {
        r.Get("/", h.view)
        r.Post("/play", h.play)
        r.Post("/undo", h.undo)
        r.Post("/reset", h.reset)
        r.Post("/new", h.newGame)
        r.Get("/state", h.state)
        r.Get("/events", h.events)
    })
    return r
}
