package main

import (
    "context"
    "errors"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/joho/godotenv"
    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"

    "github.com/jaminalder/nxn-tic-tac-toe/internal/app"
    "github.com/jaminalder/nxn-tic-tac-toe/internal/config"
    "github.com/jaminalder/nxn-tic-tac-toe/internal/web"
)

func main() {
    _ = godotenv.Load()
    cfg, err := config.Load()
    if err != nil {
        log.Fatal().Err(err).Msg("bad configuration")
    }
    zerolog.SetGlobalLevel(cfg.LogLevel)

    svc := app.NewService(
        app.WithThinkDelay(cfg.ThinkDelay),
        app.WithStrategies(cfg.Strategies()),
        app.WithServiceLogger(log.Logger),
    )
    defer svc.Close()

    srv := &http.Server{
        Addr:              cfg.Addr(),
        Handler:           web.NewServer(svc, web.WithDefaults(cfg.DefaultSize, cfg.DefaultDifficulty)),
        ReadHeaderTimeout: 5 * time.Second,
    }

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()
    go func() {
        <-ctx.Done()
        shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()
        _ = srv.Shutdown(shutdown)
    }()

    log.Info().Str("addr", srv.Addr).Dur("think_delay", cfg.ThinkDelay).Msg("starting server")
    if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
        log.Fatal().Err(err).Msg("server exited")
    }
    log.Info().Msg("server stopped")
}
