package match

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/park285/jumpchess/internal/game"
	"github.com/park285/jumpchess/internal/obslog"
	"github.com/park285/jumpchess/pkg/matchdto"
)

// Prompter supplies the text a console source writes before reading.
type Prompter interface {
	MovePrompt(state *matchdto.MatchState) string
	CaptureStepPrompt(state *matchdto.MatchState) string
	Rejection(err matchdto.DomainError) string
}

// lineSource turns input lines into requests. Extra landing squares typed on
// a move line are queued and served to NextCaptureStep before reading again.
type lineSource struct {
	read    func(ctx context.Context, prompt string) (string, error)
	prompts Prompter
	pending []game.Coord
}

func (s *lineSource) prompt(state *matchdto.MatchState, capture bool) string {
	if s.prompts == nil {
		return ""
	}
	if capture {
		return s.prompts.CaptureStepPrompt(state)
	}
	return s.prompts.MovePrompt(state)
}

func (s *lineSource) NextMove(ctx context.Context, state *matchdto.MatchState) (Request, error) {
	s.pending = nil
	raw, err := s.read(ctx, s.prompt(state, false))
	if err != nil {
		return Request{}, err
	}
	line, err := ParseLine(raw)
	if err != nil {
		return Request{}, err
	}
	if line.Resign {
		return Request{Kind: RequestResign}, nil
	}
	if line.Cancel {
		return Request{}, fmt.Errorf("%w: no capture to cancel", ErrBadRequest)
	}
	if len(line.Squares) < 2 {
		return Request{}, fmt.Errorf("%w: a move needs a from and a to square", ErrBadRequest)
	}
	s.pending = append(s.pending, line.Squares[2:]...)
	return Request{Kind: RequestMove, From: line.Squares[0], To: line.Squares[1]}, nil
}

func (s *lineSource) NextCaptureStep(ctx context.Context, state *matchdto.MatchState) (game.Coord, error) {
	if len(s.pending) > 0 {
		next := s.pending[0]
		s.pending = s.pending[1:]
		return next, nil
	}
	raw, err := s.read(ctx, s.prompt(state, true))
	if err != nil {
		return game.Coord{}, err
	}
	line, err := ParseLine(raw)
	if err != nil {
		return game.Coord{}, err
	}
	if line.Cancel {
		return game.Coord{}, ErrChainCancelled
	}
	if line.Resign || len(line.Squares) == 0 {
		return game.Coord{}, fmt.Errorf("%w: expected a landing square", ErrBadRequest)
	}
	s.pending = append(s.pending, line.Squares[1:]...)
	return line.Squares[0], nil
}

// ScriptSource replays a fixed list of moves; it is the automated player.
// Blank lines and lines starting with '#' are skipped.
type ScriptSource struct {
	lineSource
	name  string
	lines []string
	next  int
}

func NewScriptSource(name string, r io.Reader) (*ScriptSource, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		lines = append(lines, text)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script %s: %w", name, err)
	}
	s := &ScriptSource{name: name, lines: lines}
	s.read = s.readLine
	return s, nil
}

// LoadScript opens path and reads it with NewScriptSource.
func LoadScript(path string) (*ScriptSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script: %w", err)
	}
	defer f.Close()
	return NewScriptSource(path, f)
}

func (s *ScriptSource) readLine(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.next >= len(s.lines) {
		return "", fmt.Errorf("%w: %s", ErrScriptExhausted, s.name)
	}
	line := s.lines[s.next]
	s.next++
	return line, nil
}

// Remaining is the number of unread script lines.
func (s *ScriptSource) Remaining() int { return len(s.lines) - s.next }

func (s *ScriptSource) Rejected(_ context.Context, err matchdto.DomainError) {
	s.pending = nil
	obslog.L().Warn("script_move_rejected",
		zap.String("script", s.name),
		zap.Int("line", s.next),
		zap.String("code", err.Code),
		zap.String("detail", err.Detail),
	)
}

// LineReader serialises reads from one input stream so several console
// sources can share stdin. Close stops the reading goroutine.
type LineReader struct {
	once      sync.Once
	closeOnce sync.Once
	src       io.Reader
	lines     chan string
	done      chan struct{}
	err       error
}

func NewLineReader(r io.Reader) *LineReader {
	return &LineReader{src: r, lines: make(chan string), done: make(chan struct{})}
}

func (l *LineReader) start() {
	go func() {
		defer close(l.lines)
		sc := bufio.NewScanner(l.src)
		for sc.Scan() {
			select {
			case l.lines <- sc.Text():
			case <-l.done:
				return
			}
		}
		l.err = sc.Err()
	}()
}

// ReadLine blocks until a line arrives, the input ends, the reader is closed
// or ctx is done.
func (l *LineReader) ReadLine(ctx context.Context) (string, error) {
	select {
	case <-l.done:
		return "", ErrInputClosed
	default:
	}
	l.once.Do(l.start)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-l.done:
		return "", ErrInputClosed
	case line, ok := <-l.lines:
		if !ok {
			if l.err != nil {
				return "", fmt.Errorf("read input: %w", l.err)
			}
			return "", ErrInputClosed
		}
		return line, nil
	}
}

// Close releases the reading goroutine once its pending read returns. Later
// ReadLine calls report ErrInputClosed.
func (l *LineReader) Close() error {
	l.closeOnce.Do(func() { close(l.done) })
	return nil
}

// ConsoleSource prompts on out and reads moves typed by a person.
type ConsoleSource struct {
	lineSource
	in  *LineReader
	out io.Writer
}

func NewConsoleSource(in *LineReader, out io.Writer, prompts Prompter) *ConsoleSource {
	s := &ConsoleSource{in: in, out: out}
	s.prompts = prompts
	s.read = s.readLine
	return s
}

func (s *ConsoleSource) readLine(ctx context.Context, prompt string) (string, error) {
	if prompt != "" {
		if _, err := io.WriteString(s.out, prompt); err != nil {
			return "", err
		}
	}
	return s.in.ReadLine(ctx)
}

func (s *ConsoleSource) Rejected(_ context.Context, err matchdto.DomainError) {
	s.pending = nil
	msg := err.Error()
	if s.prompts != nil {
		msg = s.prompts.Rejection(err)
	}
	fmt.Fprintln(s.out, msg)
}
