package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/park285/jumpchess/internal/adapter/consolepresenter"
	appcfg "github.com/park285/jumpchess/internal/config"
	"github.com/park285/jumpchess/internal/match"
	"github.com/park285/jumpchess/internal/matchbuilder"
	"github.com/park285/jumpchess/internal/obslog"
)

func main() {
	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config error: %v", err)
	}

	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer obslog.Sync()

	deps, err := matchbuilder.New(cfg, os.Stdin, os.Stdout, obslog.L())
	if err != nil {
		log.Fatalf("match init error: %v", err)
	}
	defer deps.Close()

	presenter := consolepresenter.NewPresenter(deps.Formatter,
		func(message string) error {
			if !strings.HasSuffix(message, "\n") {
				message += "\n"
			}
			_, err := fmt.Fprint(os.Stdout, message)
			return err
		},
		func(png []byte) error { return writeSnapshot(cfg.BoardPNG, png) },
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = deps.Manager.Run(ctx, presenter)
	if deps.Renderer != nil {
		if note, rerr := deps.Catalog.Render("info.snapshot", map[string]any{"Path": cfg.BoardPNG}); rerr == nil {
			fmt.Fprintln(os.Stdout, note)
		}
	}
	if err != nil {
		obslog.L().Warn("match_ended_early", zap.Error(err))
		if !errors.Is(err, context.Canceled) && !errors.Is(err, match.ErrInputClosed) {
			_ = deps.Close()
			obslog.Sync()
			os.Exit(1)
		}
	}
}

// applyFlags lets the command line override the loaded configuration.
func applyFlags(cfg *appcfg.AppConfig) {
	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	whiteName := fs.String("white", cfg.White.Name, "white player's name")
	blackName := fs.String("black", cfg.Black.Name, "black player's name")
	whiteScript := fs.String("white-script", cfg.White.Script, "move file for an automated white player")
	blackScript := fs.String("black-script", cfg.Black.Script, "move file for an automated black player")
	png := fs.String("png", cfg.BoardPNG, "write the board as PNG to this path after every half-move")
	timings := fs.Bool("timings", cfg.ShowTimings, "print time taken per half-move")
	maxRejections := fs.Int("max-rejections", cfg.MaxRejections, "abort after this many consecutive rejected inputs (0 = unlimited)")
	_ = fs.Parse(os.Args[1:])

	cfg.White.Name = *whiteName
	cfg.Black.Name = *blackName
	if *whiteScript != cfg.White.Script {
		cfg.White.Script = *whiteScript
		cfg.White.Kind = appcfg.PlayerScript
	}
	if *blackScript != cfg.Black.Script {
		cfg.Black.Script = *blackScript
		cfg.Black.Kind = appcfg.PlayerScript
	}
	cfg.BoardPNG = *png
	cfg.ShowTimings = *timings
	cfg.MaxRejections = *maxRejections
}

func writeSnapshot(path string, png []byte) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, png, 0o644); err != nil {
		return fmt.Errorf("write board image: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write board image: %w", err)
	}
	obslog.L().Debug("board_snapshot", zap.String("path", path), zap.Int("bytes", len(png)))
	return nil
}
