package matchbuilder

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/park285/jumpchess/internal/adapter/consolepresenter"
	"github.com/park285/jumpchess/internal/config"
	"github.com/park285/jumpchess/internal/match"
	"github.com/park285/jumpchess/internal/msgcat"
	"github.com/park285/jumpchess/internal/service/render"
)

// Deps is everything a front end needs to play one match.
type Deps struct {
	Manager   *match.Manager
	Catalog   *msgcat.Catalog
	Formatter *consolepresenter.Formatter
	Renderer  render.BoardRenderer

	input *match.LineReader
}

// Close stops the shared console reader, if one was built.
func (d *Deps) Close() error {
	if d == nil || d.input == nil {
		return nil
	}
	return d.input.Close()
}

// New wires a match from cfg. Human players share in for their input and
// are prompted on out. A PNG renderer is only built when cfg.BoardPNG is set.
func New(cfg *config.AppConfig, in io.Reader, out io.Writer, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	catalog, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		return nil, fmt.Errorf("load messages: %w", err)
	}
	formatter := consolepresenter.NewFormatter(catalog, cfg.ShowTimings)

	var renderer render.BoardRenderer
	if strings.TrimSpace(cfg.BoardPNG) != "" {
		renderer = render.NewPNGRenderer()
	}

	var reader *match.LineReader
	player := func(pc config.PlayerConfig) (match.Player, error) {
		kind, err := match.ParsePlayerKind(pc.Kind)
		if err != nil {
			return match.Player{}, err
		}
		p := match.Player{Name: pc.Name, Kind: kind}
		switch kind {
		case match.PlayerScript:
			src, err := match.LoadScript(pc.Script)
			if err != nil {
				return match.Player{}, err
			}
			logger.Info("script_loaded", zap.String("player", pc.Name), zap.String("path", pc.Script), zap.Int("lines", src.Remaining()))
			p.Source = src
		default:
			if in == nil {
				return match.Player{}, fmt.Errorf("human player %s needs an input stream", pc.Name)
			}
			if reader == nil {
				reader = match.NewLineReader(in)
			}
			p.Source = match.NewConsoleSource(reader, out, formatter)
		}
		return p, nil
	}

	white, err := player(cfg.White)
	if err != nil {
		return nil, fmt.Errorf("white player: %w", err)
	}
	black, err := player(cfg.Black)
	if err != nil {
		return nil, fmt.Errorf("black player: %w", err)
	}

	mgr, err := match.NewManager(match.Options{
		White:         white,
		Black:         black,
		Renderer:      renderer,
		MaxRejections: cfg.MaxRejections,
	})
	if err != nil {
		return nil, err
	}
	return &Deps{Manager: mgr, Catalog: catalog, Formatter: formatter, Renderer: renderer, input: reader}, nil
}
