// Command ttt plays Tic-Tac-Toe in the terminal.
package main

import (
    "context"
    "flag"
    "fmt"
    "os"
    "os/signal"

    "github.com/joho/godotenv"
    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"

    "github.com/jaminalder/nxn-tic-tac-toe/internal/ai"
    "github.com/jaminalder/nxn-tic-tac-toe/internal/app"
    "github.com/jaminalder/nxn-tic-tac-toe/internal/config"
    "github.com/jaminalder/nxn-tic-tac-toe/internal/console"
    "github.com/jaminalder/nxn-tic-tac-toe/internal/domain"
)

func main() {
    _ = godotenv.Load()
    cfg, err := config.Load()
    if err != nil {
        fmt.Fprintln(os.Stderr, err)
        os.Exit(2)
    }
    log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
    zerolog.SetGlobalLevel(cfg.LogLevel)

    size := flag.Int("size", cfg.DefaultSize, "grid size (3-5)")
    win := flag.Int("win", 0, "marks in a row to win (0 = default for the size)")
    mode := flag.String("mode", string(app.VsComputer), "pvc or pvp")
    difficulty := flag.String("difficulty", string(cfg.DefaultDifficulty), "easy, medium, hard or expert")
    computer := flag.String("computer", "O", "mark the computer plays")
    flag.Parse()

    st := app.Settings{Size: *size, WinLength: *win}
    if st.Mode, err = app.ParseMode(*mode); err != nil {
        log.Fatal().Err(err).Msg("mode")
    }
    if st.Difficulty, err = ai.ParseDifficulty(*difficulty); err != nil {
        log.Fatal().Err(err).Msg("difficulty")
    }
    if st.Computer, err = domain.ParseCell(*computer); err != nil {
        log.Fatal().Err(err).Msg("computer")
    }

    s, err := app.NewSession(st, app.WithTable(cfg.Strategies()), app.WithLogger(log.Logger))
    if err != nil {
        log.Fatal().Err(err).Msg("settings")
    }

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
    defer stop()
    g := console.NewGame(s, os.Stdin, os.Stdout, console.NewRenderer(os.Stdout))
    g.Delay = cfg.ThinkDelay
    if err := g.Run(ctx); err != nil && ctx.Err() == nil {
        log.Error().Err(err).Msg("game ended")
    }
}
