package consolepresenter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/park285/jumpchess/internal/msgcat"
	"github.com/park285/jumpchess/internal/obslog"
	"github.com/park285/jumpchess/pkg/matchdto"
)

// Formatter renders match DTOs into console text using the message catalog.
type Formatter struct {
	catalog     *msgcat.Catalog
	showTimings bool
}

func NewFormatter(catalog *msgcat.Catalog, showTimings bool) *Formatter {
	return &Formatter{catalog: catalog, showTimings: showTimings}
}

func (f *Formatter) render(key string, data map[string]any) string {
	if f == nil || f.catalog == nil {
		return key
	}
	out, err := f.catalog.Render(key, data)
	if err != nil {
		obslog.L().Warn("message_render_failed", zap.String("key", key), zap.Error(err))
		return key
	}
	return out
}

func (f *Formatter) MovePrompt(state *matchdto.MatchState) string {
	if state == nil {
		return ""
	}
	var sb strings.Builder
	if state.RequiredCaptures > 0 {
		sb.WriteString(f.render("info.capture_required", map[string]any{
			"Required":   state.RequiredCaptures,
			"Candidates": strings.Join(state.Candidates, ", "),
		}))
		sb.WriteString("\n")
		if others := shorterCaptures(state); others != "" {
			sb.WriteString(f.render("info.capture_shorter", map[string]any{"Others": others}))
			sb.WriteString("\n")
		}
	}
	sb.WriteString(f.render("prompt.move", map[string]any{
		"Name":  state.TurnName,
		"Color": state.Turn,
	}))
	return sb.String()
}

func (f *Formatter) CaptureStepPrompt(state *matchdto.MatchState) string {
	if state == nil || state.Chain == nil {
		return f.MovePrompt(state)
	}
	ch := state.Chain
	var sb strings.Builder
	sb.WriteString(ch.Board)
	sb.WriteString(f.render("prompt.capture_step", map[string]any{
		"Name":     state.TurnName,
		"Color":    state.Turn,
		"Next":     ch.Completed + 1,
		"Required": ch.Required,
		"Current":  ch.Current,
	}))
	return sb.String()
}

func (f *Formatter) Rejection(err matchdto.DomainError) string {
	key := "error." + err.Code
	if f == nil || f.catalog == nil || !f.catalog.Has(key) {
		return err.Error()
	}
	return f.render(key, map[string]any{"Detail": err.Detail})
}

func (f *Formatter) Start(state *matchdto.MatchState) string {
	if state == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(f.render("info.match_start", map[string]any{
		"MatchID": state.MatchID,
		"White":   state.WhiteName,
		"Black":   state.BlackName,
	}))
	sb.WriteString("\n")
	sb.WriteString(state.Board)
	return sb.String()
}

// HalfMove describes a committed half-move followed by the new board. A
// resignation only produces the result line, which MatchFinished prints.
func (f *Formatter) HalfMove(summary *matchdto.HalfMoveSummary) string {
	if summary == nil || summary.Resigned {
		return ""
	}
	var sb strings.Builder
	if len(summary.Captured) > 0 {
		to := summary.To
		if len(summary.Path) > 1 {
			to = strings.Join(summary.Path[1:], " -> ")
		}
		sb.WriteString(f.render("info.capture_played", map[string]any{
			"Name":     summary.Name,
			"From":     summary.From,
			"To":       to,
			"Captured": strings.Join(summary.Captured, ", "),
		}))
	} else {
		sb.WriteString(f.render("info.move_played", map[string]any{
			"Name": summary.Name,
			"From": summary.From,
			"To":   summary.To,
		}))
	}
	sb.WriteString("\n")
	if summary.Promoted {
		sb.WriteString(f.render("info.promoted", map[string]any{"Name": summary.Name, "Square": summary.To}))
		sb.WriteString("\n")
	}
	if f.showTimings && summary.State != nil {
		sb.WriteString(f.Timing(summary.Name, summary.Duration, elapsedFor(summary.State, summary.Side)))
		sb.WriteString("\n")
	}
	if summary.State != nil && !summary.Finished {
		sb.WriteString(summary.State.Board)
	}
	return sb.String()
}

func (f *Formatter) Timing(name string, took, total time.Duration) string {
	return f.render("info.timing", map[string]any{
		"Name":     name,
		"Duration": took.Round(time.Millisecond).String(),
		"Total":    total.Round(time.Millisecond).String(),
	})
}

// Result is the closing text: final board plus winner, draw or abort line.
func (f *Formatter) Result(state *matchdto.MatchState) string {
	if state == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(state.Board)
	switch {
	case state.Status == "ABORTED":
		reason := state.Reason
		if reason == "" {
			reason = "aborted"
		}
		sb.WriteString(f.render("result.aborted", map[string]any{"Reason": reason}))
	case state.WinnerName != "":
		sb.WriteString(f.render("result.winner", map[string]any{
			"Name":      state.WinnerName,
			"Color":     state.Winner,
			"Method":    state.Method,
			"HalfMoves": state.HalfMoves,
		}))
	default:
		sb.WriteString(f.render("result.draw", map[string]any{"HalfMoves": state.HalfMoves}))
	}
	sb.WriteString("\n")
	if f.showTimings {
		for _, c := range []struct {
			name  string
			total time.Duration
		}{{state.WhiteName, state.WhiteElapsed}, {state.BlackName, state.BlackElapsed}} {
			sb.WriteString(f.render("info.clock", map[string]any{
				"Name":  c.name,
				"Total": c.total.Round(time.Millisecond).String(),
			}))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func elapsedFor(state *matchdto.MatchState, side string) time.Duration {
	if side == "black" {
		return state.BlackElapsed
	}
	return state.WhiteElapsed
}

// shorterCaptures lists pieces that can capture but not far enough, e.g.
// "a3 (1), g3 (1)".
func shorterCaptures(state *matchdto.MatchState) string {
	var squares []string
	for sq, n := range state.ChainLengths {
		if n < state.RequiredCaptures {
			squares = append(squares, sq)
		}
	}
	sort.Strings(squares)
	parts := make([]string, len(squares))
	for i, sq := range squares {
		parts[i] = fmt.Sprintf("%s (%d)", sq, state.ChainLengths[sq])
	}
	return strings.Join(parts, ", ")
}
