package consolepresenter

import (
	"strings"

	"go.uber.org/zap"

	"github.com/park285/jumpchess/internal/obslog"
	"github.com/park285/jumpchess/pkg/matchdto"
)

// Presenter delivers formatted messages and board images without coupling to the match loop.
type Presenter struct {
	formatter   *Formatter
	sendMessage func(message string) error
	sendImage   func(png []byte) error
}

func NewPresenter(formatter *Formatter, sendMessage func(message string) error, sendImage func(png []byte) error) *Presenter {
	return &Presenter{
		formatter:   formatter,
		sendMessage: sendMessage,
		sendImage:   sendImage,
	}
}

func (p *Presenter) MatchStarted(state *matchdto.MatchState) {
	p.deliver("match_started", p.formatter.Start(state), state)
}

func (p *Presenter) HalfMovePlayed(summary *matchdto.HalfMoveSummary) {
	if summary == nil {
		return
	}
	p.deliver("half_move", p.formatter.HalfMove(summary), summary.State)
}

func (p *Presenter) MatchFinished(state *matchdto.MatchState) {
	p.deliver("match_finished", p.formatter.Result(state), state)
}

// Board sends message and, when the state carries one, the board image.
func (p *Presenter) Board(message string, state *matchdto.MatchState) error {
	if p == nil {
		return nil
	}

	if text := strings.TrimSpace(message); text != "" && p.sendMessage != nil {
		if err := p.sendMessage(message); err != nil {
			return err
		}
	}

	if state != nil && len(state.BoardImage) > 0 && p.sendImage != nil {
		if err := p.sendImage(state.BoardImage); err != nil {
			return err
		}
	}

	return nil
}

func (p *Presenter) deliver(event, message string, state *matchdto.MatchState) {
	if err := p.Board(message, state); err != nil {
		obslog.L().Warn("present_failed", zap.String("event", event), zap.Error(err))
	}
}
