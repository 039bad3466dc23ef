package match

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/park285/jumpchess/internal/game"
	"github.com/park285/jumpchess/pkg/matchdto"
)

type stubPrompter struct{}

func (stubPrompter) MovePrompt(s *matchdto.MatchState) string { return s.TurnName + "> " }

func (stubPrompter) CaptureStepPrompt(*matchdto.MatchState) string { return "jump> " }

func (stubPrompter) Rejection(err matchdto.DomainError) string { return "no: " + err.Code }

func TestScriptSourceSkipsCommentsAndQueuesChain(t *testing.T) {
	ctx := context.Background()
	src, err := NewScriptSource("white", strings.NewReader("# opening\n\nb6 d4 f2\n  \nresign\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, src.Remaining())

	req, err := src.NextMove(ctx, &matchdto.MatchState{})
	require.NoError(t, err)
	assert.Equal(t, Request{Kind: RequestMove, From: game.MustCoord("b6"), To: game.MustCoord("d4")}, req)

	step, err := src.NextCaptureStep(ctx, &matchdto.MatchState{})
	require.NoError(t, err)
	assert.Equal(t, game.MustCoord("f2"), step)

	req, err = src.NextMove(ctx, &matchdto.MatchState{})
	require.NoError(t, err)
	assert.Equal(t, RequestResign, req.Kind)

	_, err = src.NextMove(ctx, &matchdto.MatchState{})
	if !errors.Is(err, ErrScriptExhausted) {
		t.Fatalf("err = %v, want ErrScriptExhausted", err)
	}
}

func TestScriptSourceRejectedDropsQueuedSteps(t *testing.T) {
	ctx := context.Background()
	src, err := NewScriptSource("white", strings.NewReader("b6 d4 f2\nh3\n"))
	require.NoError(t, err)

	_, err = src.NextMove(ctx, &matchdto.MatchState{})
	require.NoError(t, err)
	src.Rejected(ctx, matchdto.DomainError{Code: matchdto.CodeInvalidCaptureStep})

	step, err := src.NextCaptureStep(ctx, &matchdto.MatchState{})
	require.NoError(t, err)
	assert.Equal(t, game.MustCoord("h3"), step)
}

func TestScriptSourceSingleSquareIsNotAMove(t *testing.T) {
	src, err := NewScriptSource("white", strings.NewReader("b6\n"))
	require.NoError(t, err)
	_, err = src.NextMove(context.Background(), &matchdto.MatchState{})
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("err = %v, want ErrBadRequest", err)
	}
}

func TestConsoleSource(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	src := NewConsoleSource(NewLineReader(strings.NewReader("b6 d4\nf2\n")), &out, stubPrompter{})

	req, err := src.NextMove(ctx, &matchdto.MatchState{TurnName: "alice"})
	require.NoError(t, err)
	assert.Equal(t, game.MustCoord("b6"), req.From)
	assert.Equal(t, game.MustCoord("d4"), req.To)

	step, err := src.NextCaptureStep(ctx, &matchdto.MatchState{})
	require.NoError(t, err)
	assert.Equal(t, game.MustCoord("f2"), step)

	src.Rejected(ctx, matchdto.DomainError{Code: matchdto.CodeWrongTurn})
	assert.Equal(t, "alice> jump> no: wrong_turn\n", out.String())

	_, err = src.NextMove(ctx, &matchdto.MatchState{TurnName: "alice"})
	if !errors.Is(err, ErrInputClosed) {
		t.Fatalf("err = %v, want ErrInputClosed", err)
	}
}

func TestLineReaderHonoursContext(t *testing.T) {
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewLineReader(pr).ReadLine(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestScriptSourceCancel(t *testing.T) {
	ctx := context.Background()
	src, err := NewScriptSource("white", strings.NewReader("cancel\ncancel\n"))
	require.NoError(t, err)

	_, err = src.NextMove(ctx, &matchdto.MatchState{})
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("cancel outside a chain: err = %v, want ErrBadRequest", err)
	}
	_, err = src.NextCaptureStep(ctx, &matchdto.MatchState{})
	if !errors.Is(err, ErrChainCancelled) {
		t.Fatalf("err = %v, want ErrChainCancelled", err)
	}
}

func TestLineReaderCloseReleasesReader(t *testing.T) {
	pr, pw := io.Pipe()
	r := NewLineReader(pr)

	done := make(chan error, 1)
	go func() {
		_, err := r.ReadLine(context.Background())
		done <- err
	}()
	require.NoError(t, r.Close())
	if err := <-done; !errors.Is(err, ErrInputClosed) {
		t.Fatalf("err = %v, want ErrInputClosed", err)
	}

	// a line written after Close is not delivered and the pump goroutine exits
	go func() { _, _ = io.WriteString(pw, "a6 b5\n") }()
	_, err := r.ReadLine(context.Background())
	assert.ErrorIs(t, err, ErrInputClosed)
	_ = pw.Close()
}
