package match

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/park285/jumpchess/internal/game"
)

type layout map[string]game.Piece

func gridOf(t *testing.T, l layout) *game.Grid {
	t.Helper()
	var g game.Grid
	for sq, p := range l {
		if err := g.Place(game.MustCoord(sq), p); err != nil {
			t.Fatalf("place %s: %v", sq, err)
		}
	}
	return &g
}

func scripted(t *testing.T, name, script string) Player {
	t.Helper()
	src, err := NewScriptSource(name, strings.NewReader(script))
	if err != nil {
		t.Fatalf("NewScriptSource: %v", err)
	}
	return Player{Name: name, Kind: PlayerScript, Source: src}
}

// chainLayout gives white a two-jump chain b6xd4xf2; black keeps h1 afterwards.
func chainLayout(t *testing.T) *game.Grid {
	return gridOf(t, layout{
		"b6": game.NewPawn(game.White),
		"c5": game.NewPawn(game.Black),
		"e3": game.NewPawn(game.Black),
		"h1": game.NewPawn(game.Black),
	})
}

func newTestManager(t *testing.T, grid *game.Grid, white, black string) *Manager {
	t.Helper()
	m, err := NewManager(Options{
		White:     scripted(t, "alice", white),
		Black:     scripted(t, "bob", black),
		Grid:      grid,
		FirstTurn: game.White,
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	return m
}

func TestNewManagerValidates(t *testing.T) {
	src, _ := NewScriptSource("x", strings.NewReader(""))
	_, err := NewManager(Options{White: Player{Name: " ", Source: src}, Black: Player{Name: "bob", Source: src}})
	assert.Error(t, err)
	_, err = NewManager(Options{White: Player{Name: "alice", Source: src}, Black: Player{Name: "bob"}})
	assert.Error(t, err)
	_, err = NewManager(Options{White: Player{Name: "alice", Source: src}, Black: Player{Name: "bob", Source: src}, MaxRejections: -1})
	assert.Error(t, err)
}

func TestManagerStandardOpening(t *testing.T) {
	src, _ := NewScriptSource("x", strings.NewReader(""))
	m, err := NewManager(Options{White: Player{Name: "alice", Source: src}, Black: Player{Name: "bob", Source: src}})
	require.NoError(t, err)
	require.NoError(t, m.Start())

	st := m.State()
	assert.NotEmpty(t, st.MatchID)
	assert.Equal(t, "ACTIVE", st.Status)
	assert.Equal(t, "white", st.Turn)
	assert.Equal(t, "alice", st.TurnName)
	assert.Equal(t, 0, st.RequiredCaptures)
	assert.Nil(t, st.Chain)
	assert.Contains(t, st.Board, "6 |w| |w| |w| |w| | 6\n")

	if err := m.Start(); err == nil {
		t.Fatalf("second Start should fail")
	}
}

func TestManagerQuietMoveAndClock(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	src, _ := NewScriptSource("x", strings.NewReader(""))
	m, err := NewManager(Options{
		White: Player{Name: "alice", Source: src},
		Black: Player{Name: "bob", Source: src},
		Clock: func() time.Time { return now },
	})
	require.NoError(t, err)
	require.NoError(t, m.Start())

	now = now.Add(3 * time.Second)
	prog, err := m.Move(game.White, game.MustCoord("a6"), game.MustCoord("b5"))
	require.NoError(t, err)
	require.NotNil(t, prog.Summary)
	assert.Equal(t, 3*time.Second, prog.Summary.Duration)
	assert.Equal(t, []string{"a6", "b5"}, prog.Summary.Path)
	assert.Empty(t, prog.Summary.Captured)
	assert.Equal(t, "a6-b5", prog.Summary.State.LastMove)
	assert.Equal(t, 3*time.Second, prog.Summary.State.WhiteElapsed)
	assert.Equal(t, "black", prog.Summary.State.Turn)

	now = now.Add(time.Second)
	_, err = m.Move(game.Black, game.MustCoord("b3"), game.MustCoord("a4"))
	require.NoError(t, err)
	assert.Equal(t, time.Second, m.Match().Elapsed[game.Black])
	assert.Equal(t, []string{"a6-b5", "b3-a4"}, m.Match().Moves)
}

func TestManagerRejectsWrongSide(t *testing.T) {
	m := newTestManager(t, chainLayout(t), "", "")
	require.NoError(t, m.Start())
	_, err := m.Move(game.Black, game.MustCoord("h1"), game.MustCoord("g2"))
	if !errors.Is(err, game.ErrWrongTurnColor) {
		t.Fatalf("err = %v, want ErrWrongTurnColor", err)
	}
}

func TestManagerCaptureChain(t *testing.T) {
	m := newTestManager(t, chainLayout(t), "", "")
	require.NoError(t, m.Start())

	st := m.State()
	assert.Equal(t, 2, st.RequiredCaptures)
	assert.Equal(t, []string{"b6"}, st.Candidates)

	prog, err := m.Move(game.White, game.MustCoord("b6"), game.MustCoord("d4"))
	require.NoError(t, err)
	assert.Nil(t, prog.Summary)
	assert.True(t, prog.Result.Chain.InProgress)

	st = m.State()
	require.NotNil(t, st.Chain)
	assert.Equal(t, "b6", st.Chain.Origin)
	assert.Equal(t, "d4", st.Chain.Current)
	assert.Equal(t, 1, st.Chain.Completed)
	assert.Equal(t, 2, st.Chain.Required)
	assert.Equal(t, []string{"c5"}, st.Chain.Captured)
	// committed board still shows the pre-chain position
	assert.Contains(t, st.Board, "5 | | |b| | | | | | 5\n")
	assert.Contains(t, st.Chain.Board, "4 | | | |w| | | | | 4\n")

	prog, err = m.CaptureStep(game.White, game.MustCoord("f2"))
	require.NoError(t, err)
	require.NotNil(t, prog.Summary)
	assert.Equal(t, []string{"b6", "d4", "f2"}, prog.Summary.Path)
	assert.Equal(t, []string{"c5", "e3"}, prog.Summary.Captured)
	assert.False(t, prog.Summary.Finished)
	assert.Equal(t, "b6xd4xf2", prog.Summary.State.LastMove)
	assert.Equal(t, "black", prog.Summary.State.Turn)
	assert.Nil(t, prog.Summary.State.Chain)
}

func TestManagerChainRollback(t *testing.T) {
	m := newTestManager(t, chainLayout(t), "", "")
	require.NoError(t, m.Start())
	before := m.State().Board

	_, err := m.Move(game.White, game.MustCoord("b6"), game.MustCoord("d4"))
	require.NoError(t, err)
	_, err = m.CaptureStep(game.White, game.MustCoord("b6"))
	if !errors.Is(err, game.ErrInvalidCaptureStep) {
		t.Fatalf("err = %v, want ErrInvalidCaptureStep", err)
	}

	st := m.State()
	assert.Nil(t, st.Chain)
	assert.Equal(t, before, st.Board)
	assert.Equal(t, "white", st.Turn)
	assert.Equal(t, 0, st.HalfMoves)

	// the half-move can be replayed from scratch
	_, err = m.Move(game.White, game.MustCoord("b6"), game.MustCoord("d4"))
	require.NoError(t, err)
	require.NoError(t, m.AbortChain(game.White))
	assert.Equal(t, before, m.State().Board)
}

func TestManagerResignDuringChain(t *testing.T) {
	m := newTestManager(t, chainLayout(t), "", "")
	require.NoError(t, m.Start())
	before := m.State().Board

	_, err := m.Move(game.White, game.MustCoord("b6"), game.MustCoord("d4"))
	require.NoError(t, err)
	summary, err := m.Resign(game.White)
	require.NoError(t, err)
	assert.True(t, summary.Resigned)
	assert.True(t, summary.Finished)
	assert.Equal(t, before, summary.State.Board)
	assert.Equal(t, "RESIGNED", summary.State.Status)
	assert.Equal(t, "bob", summary.State.WinnerName)
	assert.Equal(t, "resignation", summary.State.Method)

	match := m.Match()
	assert.Equal(t, StatusResigned, match.Status)
	assert.Equal(t, "bob", match.Winner)

	_, err = m.Move(game.Black, game.MustCoord("h1"), game.MustCoord("g2"))
	if !errors.Is(err, ErrMatchNotActive) {
		t.Fatalf("err = %v, want ErrMatchNotActive", err)
	}
}

func TestManagerAbort(t *testing.T) {
	m := newTestManager(t, chainLayout(t), "", "")
	require.NoError(t, m.Start())
	m.Abort(errors.New("operator stop"))
	assert.Equal(t, StatusAborted, m.Status())
	_, err := m.Resign(game.White)
	if !errors.Is(err, ErrMatchNotActive) {
		t.Fatalf("err = %v, want ErrMatchNotActive", err)
	}
}

func TestManagerStartOnFinishedPosition(t *testing.T) {
	grid := gridOf(t, layout{"d5": game.NewPawn(game.White)})
	m := newTestManager(t, grid, "", "")
	require.NoError(t, m.Start())
	assert.Equal(t, StatusFinished, m.Status())
	assert.Equal(t, "alice", m.Match().Winner)
}

func TestManagerAbortRollsBackOpenChain(t *testing.T) {
	start := chainLayout(t)
	m := newTestManager(t, start, "", "")
	require.NoError(t, m.Start())

	_, err := m.Move(game.White, game.MustCoord("b6"), game.MustCoord("d4"))
	require.NoError(t, err)
	require.True(t, m.game.Chain().InProgress)

	m.Abort(errors.New("operator stop"))
	assert.False(t, m.game.Chain().InProgress)
	if m.game.PendingBoard() != *start {
		t.Fatalf("pending board still holds the partial chain")
	}
	assert.Equal(t, "operator stop", m.Match().Reason)
	assert.Equal(t, "ABORTED", m.State().Status)
}

func TestManagerChainLengthsInState(t *testing.T) {
	grid := chainLayout(t)
	require.NoError(t, grid.Place(game.MustCoord("e8"), game.NewPawn(game.White)))
	require.NoError(t, grid.Place(game.MustCoord("f7"), game.NewPawn(game.Black)))
	m := newTestManager(t, grid, "", "")
	require.NoError(t, m.Start())

	st := m.State()
	assert.Equal(t, 2, st.RequiredCaptures)
	assert.Equal(t, []string{"b6"}, st.Candidates)
	assert.Equal(t, map[string]int{"b6": 2, "e8": 1}, st.ChainLengths)

	_, err := m.Move(game.White, game.MustCoord("e8"), game.MustCoord("g6"))
	if !errors.Is(err, game.ErrNotMaximalCapture) {
		t.Fatalf("err = %v, want ErrNotMaximalCapture", err)
	}
}
