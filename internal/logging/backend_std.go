package logging

import (
	"log/slog"
	"os"
)

func newStdHandler(cfg Config) slog.Handler {
	level := cfg.Level
	if cfg.Debug && level == 0 {
		level = slog.LevelDebug
	}
	return slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: cfg.AddSource,
	})
}
