package obslog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitWritesJSONFile(t *testing.T) {
	prev := globalLogger
	t.Cleanup(func() { globalLogger = prev })

	path := filepath.Join(t.TempDir(), "nested", "game.log")
	if err := Init(Options{Level: "debug", ToFile: true, File: path, Format: "json"}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	L().Info("half_move", zap.String("side", "white"))
	L().Debug("chain_dump", Dump("captured", []int{1, 2}))
	Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	for _, want := range []string{`"msg":"half_move"`, `"side":"white"`, `"msg":"chain_dump"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log missing %s:\n%s", want, out)
		}
	}
}

func TestInitWithoutOutputsIsNop(t *testing.T) {
	prev := globalLogger
	t.Cleanup(func() { globalLogger = prev })

	if err := Init(Options{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if L().Core().Enabled(zapcore.ErrorLevel) {
		t.Fatalf("expected a no-op logger")
	}
}

func TestOptionsFromEnv(t *testing.T) {
	t.Setenv("LOG_TO_CONSOLE", "TRUE")
	t.Setenv("LOG_FILE", " /tmp/x.log ")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_TO_FILE", "")
	opts := OptionsFromEnv()
	if !opts.Console || !opts.ToFile {
		t.Fatalf("unexpected outputs: %+v", opts)
	}
	if opts.File != "/tmp/x.log" || opts.Level != "info" {
		t.Fatalf("unexpected opts: %+v", opts)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDumpIsStable(t *testing.T) {
	f := Dump("v", map[string]int{"b": 2, "a": 1})
	if !strings.Contains(f.String, `"a": (int) 1`) {
		t.Fatalf("unexpected dump: %s", f.String)
	}
	if strings.Index(f.String, `"a"`) > strings.Index(f.String, `"b"`) {
		t.Fatalf("keys not sorted: %s", f.String)
	}
}
