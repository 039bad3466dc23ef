// Package config loads match settings from defaults, an optional YAML file
// and environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

const (
	PlayerHuman  = "human"
	PlayerScript = "script"
)

type PlayerConfig struct {
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"`
	Script string `yaml:"script"`
}

type AppConfig struct {
	White PlayerConfig `yaml:"white"`
	Black PlayerConfig `yaml:"black"`

	BoardPNG    string `yaml:"board_png"`
	MessagesDir string `yaml:"messages_dir"`
	ShowTimings bool   `yaml:"show_timings"`

	// MaxRejections ends the match when one side has this many consecutive
	// rejected requests. 0 means unlimited.
	MaxRejections int `yaml:"max_rejections"`
}

func defaults() *AppConfig {
	return &AppConfig{
		White:       PlayerConfig{Name: "White", Kind: PlayerHuman},
		Black:       PlayerConfig{Name: "Black", Kind: PlayerHuman},
		ShowTimings: true,
	}
}

// Load reads JUMPCHESS_CONFIG (if set) and then the environment overrides.
func Load() (*AppConfig, error) {
	cfg := defaults()
	if path := strings.TrimSpace(os.Getenv("JUMPCHESS_CONFIG")); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) mergeFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *AppConfig) applyEnv() {
	overridePlayer(&c.White, "WHITE")
	overridePlayer(&c.Black, "BLACK")

	if v := strings.TrimSpace(os.Getenv("BOARD_PNG")); v != "" {
		c.BoardPNG = v
	}
	if v := strings.TrimSpace(os.Getenv("MESSAGES_DIR")); v != "" {
		c.MessagesDir = v
	}
	if v := strings.TrimSpace(os.Getenv("SHOW_TIMINGS")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.ShowTimings = b
		}
	}
	if v := strings.TrimSpace(os.Getenv("MAX_REJECTIONS")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.MaxRejections = n
		}
	}
}

func overridePlayer(p *PlayerConfig, prefix string) {
	if v := strings.TrimSpace(os.Getenv(prefix + "_NAME")); v != "" {
		p.Name = v
	}
	if v := strings.TrimSpace(os.Getenv(prefix + "_PLAYER")); v != "" {
		p.Kind = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(prefix + "_SCRIPT")); v != "" {
		p.Script = v
	}
}

// Validate checks player kinds and that scripted players have a move list.
func (c *AppConfig) Validate() error {
	var errs []error
	for _, side := range []struct {
		label string
		p     *PlayerConfig
	}{{"white", &c.White}, {"black", &c.Black}} {
		side.p.Name = strings.TrimSpace(side.p.Name)
		if side.p.Name == "" {
			errs = append(errs, fmt.Errorf("%s: name is required", side.label))
		}
		switch strings.ToLower(strings.TrimSpace(side.p.Kind)) {
		case PlayerHuman:
			side.p.Kind = PlayerHuman
		case PlayerScript:
			side.p.Kind = PlayerScript
			if strings.TrimSpace(side.p.Script) == "" {
				errs = append(errs, fmt.Errorf("%s: script player needs a script file", side.label))
			}
		default:
			errs = append(errs, fmt.Errorf("%s: unknown player kind %q", side.label, side.p.Kind))
		}
	}
	if c.MaxRejections < 0 {
		errs = append(errs, errors.New("max_rejections must not be negative"))
	}
	return errors.Join(errs...)
}
