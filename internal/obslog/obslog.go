// Package obslog holds the process-wide zap logger.
package obslog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	globalLogger *zap.Logger = zap.NewNop()
)

// L returns the global logger. It is a no-op logger until Init runs.
func L() *zap.Logger { return globalLogger }

// Options selects the logger outputs. OptionsFromEnv fills it from LOG_* vars.
type Options struct {
	Level   string
	Console bool
	ToFile  bool
	File    string
	Format  string
	Caller  bool
}

// OptionsFromEnv reads LOG_LEVEL, LOG_TO_CONSOLE, LOG_TO_FILE, LOG_FILE,
// LOG_FORMAT and LOG_CALLER. Console output is off by default so log lines do
// not interleave with the board on stdout.
func OptionsFromEnv() Options {
	return Options{
		Level:   getenvDefault("LOG_LEVEL", "info"),
		Console: strings.EqualFold(getenvDefault("LOG_TO_CONSOLE", "false"), "true"),
		ToFile:  strings.EqualFold(getenvDefault("LOG_TO_FILE", "true"), "true"),
		File:    strings.TrimSpace(getenvDefault("LOG_FILE", filepath.Join("logs", "jumpchess.log"))),
		Format:  getenvDefault("LOG_FORMAT", "legacy"),
		Caller:  strings.EqualFold(getenvDefault("LOG_CALLER", "false"), "true"),
	}
}

// InitFromEnv is Init(OptionsFromEnv()).
func InitFromEnv() error {
	return Init(OptionsFromEnv())
}

// Init replaces the global logger. Console output goes to stderr.
func Init(opts Options) error {
	level := parseLevel(opts.Level)
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format != "legacy" && format != "json" && format != "console" {
		format = "legacy"
	}

	var cores []zapcore.Core
	if opts.Console {
		cores = append(cores, zapcore.NewCore(newEncoder(format), zapcore.AddSync(os.Stderr), level))
	}
	if opts.ToFile {
		if err := ensureDir(filepath.Dir(opts.File)); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		cores = append(cores, zapcore.NewCore(newEncoder(format), zapcore.AddSync(f), level))
	}
	if len(cores) == 0 {
		globalLogger = zap.NewNop()
		return nil
	}

	logger := zap.New(zapcore.NewTee(cores...))
	if opts.Caller || format == "legacy" {
		logger = logger.WithOptions(zap.AddCaller())
	}
	globalLogger = logger.WithOptions(zap.AddStacktrace(zapcore.ErrorLevel))
	return nil
}

// Sync flushes the global logger. Errors from syncing a terminal are ignored.
func Sync() {
	_ = globalLogger.Sync()
}

var dumpConfig = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Dump renders v with spew for debug-level fields.
func Dump(key string, v any) zap.Field {
	return zap.String(key, dumpConfig.Sdump(v))
}

func newEncoder(format string) zapcore.Encoder {
	switch format {
	case "json":
		return zapcore.NewJSONEncoder(jsonEncoderConfig())
	case "console":
		return zapcore.NewConsoleEncoder(consoleEncoderConfig())
	default:
		return zapcore.NewConsoleEncoder(legacyEncoderConfig())
	}
}

func ensureDir(dir string) error {
	if strings.TrimSpace(dir) == "" || dir == "." {
		return nil
	}
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func getenvDefault(k, def string) string {
	v := os.Getenv(k)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func legacyEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.ConsoleSeparator = " | "
	return cfg
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

func jsonEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	return cfg
}
