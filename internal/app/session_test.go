package app

import (
    "math/rand"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/jaminalder/nxn-tic-tac-toe/internal/ai"
    "github.com/jaminalder/nxn-tic-tac-toe/internal/domain"
)

func newTwoPlayer(t *testing.T, size int) *Session {
    t.Helper()
    s, err := NewSession(Settings{Size: size, Mode: TwoPlayer})
    require.NoError(t, err)
    return s
}

func newVsComputer(t *testing.T, st Settings) *Session {
    t.Helper()
    st.Mode = VsComputer
    s, err := NewSession(st, WithRand(rand.New(rand.NewSource(1))))
    require.NoError(t, err)
    return s
}

// helper to apply a sequence of human moves
func playMoves(t *testing.T, s *Session, moves ...int) {
    t.Helper()
    for n, i := range moves {
        require.NoError(t, s.Play(i), "move %d (%d)", n, i)
    }
}

func TestNewSessionInitialState(t *testing.T) {
    s := newTwoPlayer(t, 4)
    assert.Equal(t, domain.X, s.Turn())
    assert.Equal(t, 0, s.Moves())
    assert.Equal(t, Playing, s.State())
    assert.Equal(t, domain.NewBoard(4), s.Board())
    assert.Equal(t, 3, s.Settings().WinLength, "derived win length")
}

func TestNewSessionRejectsBadSettings(t *testing.T) {
    cases := []struct {
        name string
        st   Settings
        want error
    }{
        {"size too small", Settings{Size: 2}, domain.ErrUnsupportedSize},
        {"size too large", Settings{Size: 6}, domain.ErrUnsupportedSize},
        {"win length too long", Settings{Size: 3, WinLength: 4}, domain.ErrInvalidWinLength},
        {"unknown mode", Settings{Size: 3, Mode: "online"}, ErrUnknownMode},
        {"unknown difficulty", Settings{Size: 3, Mode: VsComputer, Difficulty: "insane"}, ai.ErrUnknownDifficulty},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            _, err := NewSession(tc.st)
            assert.ErrorIs(t, err, tc.want)
        })
    }
}

func TestPlayRejectsInvalidMoves(t *testing.T) {
    s := newTwoPlayer(t, 3)
    for _, i := range []int{-1, 9, 100} {
        assert.ErrorIs(t, s.Play(i), domain.ErrOutOfBounds, "index %d", i)
    }
    playMoves(t, s, 4)
    assert.ErrorIs(t, s.Play(4), domain.ErrOccupied)
    assert.Equal(t, 1, s.Moves(), "rejected moves must not change state")
    assert.Equal(t, domain.O, s.Turn())
}

func TestTurnAlternates(t *testing.T) {
    s := newTwoPlayer(t, 3)
    playMoves(t, s, 0)
    assert.Equal(t, domain.O, s.Turn())
    playMoves(t, s, 1)
    assert.Equal(t, domain.X, s.Turn())
    b := s.Board()
    assert.Equal(t, domain.X, b[0])
    assert.Equal(t, domain.O, b[1])
}

func TestWinFinishesAndScores(t *testing.T) {
    s := newTwoPlayer(t, 3)
    // X wins quickly on top row
    playMoves(t, s, 0, 3, 1, 4, 2)
    assert.Equal(t, Finished, s.State())
    assert.Equal(t, domain.X, s.Outcome().Winner)
    assert.Equal(t, domain.Line{0, 1, 2}, s.WinningLine())
    assert.Equal(t, Scores{X: 1}, s.Scores())
    assert.ErrorIs(t, s.Play(8), domain.ErrGameOver)
    assert.ErrorIs(t, s.Undo(), domain.ErrGameOver, "undo after finish")
    assert.Equal(t, "Player 1 wins!", s.Status())
}

func TestDrawFinishesAndScores(t *testing.T) {
    s := newTwoPlayer(t, 3)
    // X O X / X O O / O X X
    playMoves(t, s, 0, 1, 2, 4, 3, 5, 7, 6, 8)
    assert.Equal(t, Finished, s.State())
    assert.True(t, s.Outcome().Draw)
    assert.Equal(t, 1, s.Scores().Draws)
    assert.Equal(t, 1, s.Scores().Games())
    assert.Equal(t, "It's a draw!", s.Status())
}

func TestResetKeepsScoresNewGameClears(t *testing.T) {
    s := newTwoPlayer(t, 3)
    playMoves(t, s, 0, 3, 1, 4, 2)
    s.Reset()
    assert.Equal(t, Playing, s.State())
    assert.Equal(t, domain.X, s.Turn())
    assert.Equal(t, 0, s.Moves())
    assert.Equal(t, domain.NewBoard(3), s.Board())
    assert.Empty(t, s.WinningLine())
    assert.Equal(t, 1, s.Scores().X, "reset keeps scores")

    s.NewGame()
    assert.Equal(t, Scores{}, s.Scores(), "new game zeroes scores")
}

func TestResetWithoutMoves(t *testing.T) {
    s := newTwoPlayer(t, 5)
    s.Reset()
    assert.Equal(t, domain.NewBoard(5), s.Board())
    assert.Equal(t, domain.X, s.Turn())
    assert.Equal(t, Playing, s.State())
}

func TestUndoRoundTrip(t *testing.T) {
    s := newTwoPlayer(t, 4)
    playMoves(t, s, 5, 6)
    before, turn := s.Board(), s.Turn()
    playMoves(t, s, 10)
    require.NoError(t, s.Undo())
    assert.Equal(t, before, s.Board())
    assert.Equal(t, turn, s.Turn())
    assert.Equal(t, 2, s.Moves())
}

func TestUndoEmptyIsNoop(t *testing.T) {
    s := newTwoPlayer(t, 3)
    require.NoError(t, s.Undo())
    assert.Equal(t, 0, s.Moves())
    assert.Equal(t, domain.X, s.Turn())
}

func TestHistoryReplaysBoard(t *testing.T) {
    s := newTwoPlayer(t, 3)
    playMoves(t, s, 4, 0, 8, 2)
    b := domain.NewBoard(3)
    for n, rec := range s.History() {
        require.Equal(t, b, rec.Before, "record %d snapshot", n)
        b = b.With(rec.Index, rec.Mark)
    }
    assert.Equal(t, s.Board(), b)
}

func TestHistorySnapshotsAreCopies(t *testing.T) {
    s := newTwoPlayer(t, 3)
    playMoves(t, s, 0, 4)
    h := s.History()
    h[1].Before[8] = domain.O
    h[0].Before[2] = domain.X

    require.NoError(t, s.Undo())
    b := s.Board()
    assert.Equal(t, domain.Empty, b[8], "undo must restore the session's own snapshot")
    assert.Equal(t, domain.X, b[0])
    assert.Equal(t, domain.Empty, s.History()[0].Before[2])
}

func TestOutcomeLineIsACopy(t *testing.T) {
    s := newTwoPlayer(t, 3)
    playMoves(t, s, 0, 3, 1, 4, 2)
    o := s.Outcome()
    o.Line[0] = 8
    assert.Equal(t, domain.Line{0, 1, 2}, s.WinningLine())
    assert.Equal(t, domain.Line{0, 1, 2}, s.Outcome().Line)
}

func TestComputerBlocksThreat(t *testing.T) {
    s := newVsComputer(t, Settings{Size: 3, Difficulty: ai.Hard})
    playMoves(t, s, 0)
    require.True(t, s.ComputerToMove())
    assert.ErrorIs(t, s.Play(1), ErrNotYourTurn, "human must wait for the computer")

    i, err := s.ComputerMove()
    require.NoError(t, err)
    assert.Equal(t, 4, i, "computer takes the centre")

    playMoves(t, s, 1)
    i, err = s.ComputerMove()
    require.NoError(t, err)
    assert.Equal(t, 2, i, "computer blocks the top row")
    assert.Equal(t, domain.X, s.Turn())
}

func TestComputerOpensWhenPlayingX(t *testing.T) {
    s := newVsComputer(t, Settings{Size: 3, Difficulty: ai.Expert, Computer: domain.X})
    require.True(t, s.ComputerToMove(), "computer playing X should open")
    assert.ErrorIs(t, s.Play(0), ErrNotYourTurn)

    _, err := s.ComputerMove()
    require.NoError(t, err)
    assert.Equal(t, 1, s.Board().Count(domain.X))
    assert.Equal(t, domain.O, s.Turn())
    assert.Equal(t, "Computer", s.Name(domain.X))
}

func TestHint(t *testing.T) {
    s := newTwoPlayer(t, 3)
    playMoves(t, s, 0, 3, 1)
    i, layer, ok, err := s.Hint()
    require.NoError(t, err)
    require.True(t, ok)
    assert.Equal(t, 2, i)
    assert.Equal(t, ai.BlockNow, layer)
    assert.Equal(t, 3, s.Moves(), "a hint does not play")

    playMoves(t, s, 6, 2)
    _, _, _, err = s.Hint()
    assert.ErrorIs(t, err, domain.ErrGameOver)
}

func TestHintWaitsForComputer(t *testing.T) {
    s := newVsComputer(t, Settings{Size: 3, Difficulty: ai.Hard, Computer: domain.X})
    _, _, _, err := s.Hint()
    assert.ErrorIs(t, err, ErrNotYourTurn)
}

func TestUndoVsComputerTakesBackPair(t *testing.T) {
    s := newVsComputer(t, Settings{Size: 3, Difficulty: ai.Hard})
    playMoves(t, s, 0)
    _, err := s.ComputerMove()
    require.NoError(t, err)
    afterFirstPair := s.Board()
    playMoves(t, s, 8)
    _, err = s.ComputerMove()
    require.NoError(t, err)

    require.NoError(t, s.Undo())
    assert.Equal(t, 2, s.Moves())
    assert.Equal(t, afterFirstPair, s.Board())
    assert.Equal(t, domain.X, s.Turn())

    require.NoError(t, s.Undo())
    assert.Equal(t, 0, s.Moves())
    assert.Equal(t, domain.NewBoard(3), s.Board())
    assert.Equal(t, domain.X, s.Turn())
}

func TestUndoWithComputerOpeningRestoresEmptyBoard(t *testing.T) {
    s := newVsComputer(t, Settings{Size: 3, Difficulty: ai.Hard, Computer: domain.X})
    _, err := s.ComputerMove()
    require.NoError(t, err)
    require.NoError(t, s.Undo())
    assert.Equal(t, 0, s.Moves())
    assert.Equal(t, domain.X, s.Turn())
    assert.True(t, s.ComputerToMove(), "computer opens again")
}

func TestStaleTicketIsDropped(t *testing.T) {
    s := newVsComputer(t, Settings{Size: 3, Difficulty: ai.Hard})
    playMoves(t, s, 0)
    ticket, ok := s.RequestComputerMove()
    require.True(t, ok)
    require.True(t, s.Thinking())
    assert.Equal(t, "Computer is thinking...", s.Status())
    assert.ErrorIs(t, s.Play(1), ErrNotYourTurn, "human cannot move while the computer thinks")

    // undo while thinking takes back the human move only
    require.NoError(t, s.Undo())
    assert.Equal(t, 0, s.Moves())
    assert.Equal(t, domain.X, s.Turn())
    assert.False(t, s.Thinking())

    _, err := s.CompleteComputerMove(ticket)
    assert.ErrorIs(t, err, ErrStale)
    assert.Equal(t, domain.NewBoard(3), s.Board(), "stale move must not be applied")

    playMoves(t, s, 0)
    ticket, _ = s.RequestComputerMove()
    s.Reset()
    _, err = s.CompleteComputerMove(ticket)
    assert.ErrorIs(t, err, ErrStale)
    assert.Equal(t, 0, s.Moves())
}

func TestWinLengthOverride(t *testing.T) {
    s, err := NewSession(Settings{Size: 5, WinLength: 3})
    require.NoError(t, err)
    playMoves(t, s, 0, 5, 1, 6, 2)
    assert.Equal(t, domain.X, s.Outcome().Winner)
}

func TestElapsedFreezesWhenFinished(t *testing.T) {
    now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
    clock := func() time.Time { return now }
    s, err := NewSession(Settings{Size: 3}, WithClock(clock))
    require.NoError(t, err)
    now = now.Add(10 * time.Second)
    playMoves(t, s, 0, 3, 1, 4, 2)
    now = now.Add(time.Minute)
    assert.Equal(t, 10*time.Second, s.Elapsed())
}

func TestScoresRecordPoints(t *testing.T) {
    st := Settings{Mode: VsComputer, Difficulty: ai.Hard, Computer: domain.O}
    var sc Scores
    sc.record(domain.Outcome{Winner: domain.X}, st)
    sc.record(domain.Outcome{Winner: domain.O}, st)
    sc.record(domain.Outcome{Draw: true}, st)
    sc.record(domain.Outcome{}, st)
    assert.Equal(t, Scores{X: 1, O: 1, Draws: 1, Points: 5}, sc)
    assert.InDelta(t, 33.33, sc.WinRate(domain.X), 0.01)
    assert.Zero(t, Scores{}.WinRate(domain.X), "win rate of no games")
}

func TestParseMode(t *testing.T) {
    m, err := ParseMode("PVC")
    require.NoError(t, err)
    assert.Equal(t, VsComputer, m)
    _, err = ParseMode("online")
    assert.ErrorIs(t, err, ErrUnknownMode)
}
