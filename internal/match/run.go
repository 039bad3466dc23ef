package match

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/park285/jumpchess/internal/game"
	"github.com/park285/jumpchess/internal/obslog"
	"github.com/park285/jumpchess/pkg/matchdto"
)

// Run plays the match to the end, alternating between the two move sources.
// It returns nil when the game finishes or a side resigns. Any source error
// that is not a retryable rejection aborts the match and is returned.
func (m *Manager) Run(ctx context.Context, obs Observer) error {
	if obs == nil {
		obs = nopObserver{}
	}
	if m.phase() == game.PhaseSetup {
		if err := m.Start(); err != nil {
			return err
		}
	}
	obs.MatchStarted(m.view(ctx))

	r := runner{m: m, obs: obs}
	for m.Status() == StatusActive {
		if err := ctx.Err(); err != nil {
			return r.abort(ctx, err)
		}
		if err := r.halfMove(ctx); err != nil {
			return r.abort(ctx, err)
		}
	}
	obs.MatchFinished(m.view(ctx))
	return nil
}

type runner struct {
	m          *Manager
	obs        Observer
	rejections int
}

func (r *runner) halfMove(ctx context.Context) error {
	side := r.m.Turn()
	src := r.m.players[side].Source

	req, err := src.NextMove(ctx, r.m.State())
	if err != nil {
		return r.reject(ctx, side, err)
	}
	if req.Kind == RequestResign {
		summary, err := r.m.Resign(side)
		if err != nil {
			return err
		}
		r.played(ctx, summary)
		return nil
	}

	prog, err := r.m.Move(side, req.From, req.To)
	if err != nil {
		return r.reject(ctx, side, err)
	}
	for prog.Summary == nil {
		to, err := src.NextCaptureStep(ctx, r.m.State())
		if errors.Is(err, ErrChainCancelled) {
			// the player takes the chain back and starts the half-move over
			return r.m.AbortChain(side)
		}
		if err != nil {
			// unreadable input keeps the chain open and asks again
			if rerr := r.reject(ctx, side, err); rerr != nil {
				return rerr
			}
			continue
		}
		prog, err = r.m.CaptureStep(side, to)
		if err != nil {
			// the engine rolled the chain back; the half-move starts over
			return r.reject(ctx, side, err)
		}
	}
	r.played(ctx, prog.Summary)
	return nil
}

func (r *runner) played(ctx context.Context, summary *matchdto.HalfMoveSummary) {
	r.rejections = 0
	if state := r.m.view(ctx); state != nil {
		summary.State = state
	}
	r.obs.HalfMovePlayed(summary)
}

// reject reports a retryable error back to the source, or returns err when
// the match cannot continue.
func (r *runner) reject(ctx context.Context, side game.Color, err error) error {
	de := ToDomainError(err)
	if !de.Retryable {
		return err
	}
	r.rejections++
	if limit := r.m.maxRejections; limit > 0 && r.rejections > limit {
		return fmt.Errorf("%w: %s after %d attempts", ErrTooManyRejections, r.m.players[side].Name, r.rejections)
	}
	r.m.players[side].Source.Rejected(ctx, de)
	return nil
}

func (r *runner) abort(ctx context.Context, err error) error {
	r.m.Abort(err)
	// the final view is still worth showing after a cancelled context
	state := r.m.view(context.WithoutCancel(ctx))
	r.obs.MatchFinished(state)
	if errors.Is(err, context.Canceled) {
		obslog.L().Info("match_cancelled", zap.String("match_id", r.m.ID()))
	}
	return err
}

// view is ToDTO with the board image; a render failure falls back to text.
func (m *Manager) view(ctx context.Context) *matchdto.MatchState {
	state, err := m.ToDTO(ctx, true)
	if err != nil {
		obslog.L().Warn("board_render_failed", zap.String("match_id", m.ID()), zap.Error(err))
	}
	return state
}

func (m *Manager) phase() game.Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.game.Phase()
}

type nopObserver struct{}

func (nopObserver) MatchStarted(*matchdto.MatchState) {}

func (nopObserver) HalfMovePlayed(*matchdto.HalfMoveSummary) {}

func (nopObserver) MatchFinished(*matchdto.MatchState) {}
