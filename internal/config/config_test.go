package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"JUMPCHESS_CONFIG", "WHITE_NAME", "BLACK_NAME", "WHITE_PLAYER", "BLACK_PLAYER",
		"WHITE_SCRIPT", "BLACK_SCRIPT", "BOARD_PNG", "MESSAGES_DIR", "SHOW_TIMINGS", "MAX_REJECTIONS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, PlayerConfig{Name: "White", Kind: PlayerHuman}, cfg.White)
	assert.Equal(t, PlayerConfig{Name: "Black", Kind: PlayerHuman}, cfg.Black)
	assert.True(t, cfg.ShowTimings)
	assert.Zero(t, cfg.MaxRejections)
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "match.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
white:
  name: Alice
black:
  name: Bot
  kind: script
  script: moves.txt
board_png: out/board.png
show_timings: false
max_rejections: 3
`), 0o644))
	t.Setenv("JUMPCHESS_CONFIG", path)
	t.Setenv("WHITE_NAME", "  Carol ")
	t.Setenv("MAX_REJECTIONS", "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Carol", cfg.White.Name)
	assert.Equal(t, PlayerHuman, cfg.White.Kind)
	assert.Equal(t, PlayerConfig{Name: "Bot", Kind: PlayerScript, Script: "moves.txt"}, cfg.Black)
	assert.Equal(t, "out/board.png", cfg.BoardPNG)
	assert.False(t, cfg.ShowTimings)
	assert.Equal(t, 5, cfg.MaxRejections)
}

func TestLoadRejectsBadPlayers(t *testing.T) {
	clearEnv(t)
	t.Setenv("WHITE_PLAYER", "robot")
	t.Setenv("BLACK_PLAYER", "SCRIPT")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `white: unknown player kind "robot"`)
	assert.Contains(t, err.Error(), "black: script player needs a script file")
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("JUMPCHESS_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := Load()
	require.Error(t, err)
}
