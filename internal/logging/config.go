package logging

import "log/slog"

type Backend string

const (
	BackendStd Backend = "std" // text in dev, nothing fancier
	BackendZap Backend = "zap" // slog-zap, JSON, sampled
)

type Config struct {
	Service    string
	Version    string
	InstanceID string

	Level   slog.Level
	Env     Env
	Backend Backend
	Debug   bool

	SampleInitial    int
	SampleThereafter int

	AddSource bool
}
