package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type HTTP struct {
	Addr string `yaml:"addr"`
}

type Transport struct {
	MaxMessageBytes int `yaml:"maxMessageBytes"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

type SFU struct {
	AnnouncedIP string `yaml:"announcedIp"` // opaque to this engine, forwarded to media workers only
}

type Capacity struct {
	MaxTotalParticipants   int `yaml:"maxTotalParticipants"`
	MaxParticipantsPerRoom int `yaml:"maxParticipantsPerRoom"`
}

type Health struct {
	DefaultInterval time.Duration `yaml:"defaultInterval"`
	MinInterval     time.Duration `yaml:"minInterval"`
	MaxInterval     time.Duration `yaml:"maxInterval"`
	PongTimeout     time.Duration `yaml:"pongTimeout"`
}

type Archive struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"dsn"`
}

type Logging struct {
	Env       string `yaml:"env"`       // dev|stage|prod
	Service   string `yaml:"service"`   // signal-hub
	Version   string `yaml:"version"`   // v2.0.0
	Backend   string `yaml:"backend"`   // std|zap
	AddSource bool   `yaml:"addSource"`
	Debug     bool   `yaml:"debug"`
}

type Config struct {
	HTTP      HTTP      `yaml:"http"`
	Transport Transport `yaml:"transport"`
	CORS      CORS      `yaml:"cors"`
	SFU       SFU       `yaml:"sfu"`
	Capacity  Capacity  `yaml:"capacity"`
	Health    Health    `yaml:"health"`
	Archive   Archive   `yaml:"archive"`
	Logging   Logging   `yaml:"logging"`
}

// LoadConfig reads ./config/config.yaml (or $CONFIG_PATH), then overlays a
// handful of environment variables over it. A missing file is not fatal —
// unlike room meeting metadata, this engine carries no mandatory external
// store, so it is expected to boot from defaults and env vars alone.
func LoadConfig() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PORT"); v != "" {
		c.HTTP.Addr = ":" + strings.TrimPrefix(v, ":")
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		parts := strings.Split(v, ",")
		origins := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				origins = append(origins, p)
			}
		}
		c.CORS.AllowedOrigins = origins
	}
	if v := os.Getenv("SFU_ANNOUNCED_IP"); v != "" {
		c.SFU.AnnouncedIP = v
	}
	if v := os.Getenv("ARCHIVE_DSN"); v != "" {
		c.Archive.DSN = v
		c.Archive.Enabled = true
	}
	if v := os.Getenv("APP_ENV"); v != "" {
		c.Logging.Env = v
	}
}

func (c *Config) applyDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":4000"
	}
	if c.Transport.MaxMessageBytes <= 0 {
		c.Transport.MaxMessageBytes = 1 << 20
	}
	if c.Capacity.MaxTotalParticipants <= 0 {
		c.Capacity.MaxTotalParticipants = 1000
	}
	if c.Capacity.MaxParticipantsPerRoom <= 0 {
		c.Capacity.MaxParticipantsPerRoom = 50
	}
	if c.Health.DefaultInterval <= 0 {
		c.Health.DefaultInterval = 30 * time.Second
	}
	if c.Health.MinInterval <= 0 {
		c.Health.MinInterval = 15 * time.Second
	}
	if c.Health.MaxInterval <= 0 {
		c.Health.MaxInterval = 60 * time.Second
	}
	if c.Health.PongTimeout <= 0 {
		c.Health.PongTimeout = 15 * time.Second
	}
	if c.Logging.Service == "" {
		c.Logging.Service = "signal-hub"
	}
	if c.Logging.Env == "" {
		c.Logging.Env = "dev"
	}
	if c.Logging.Version == "" {
		c.Logging.Version = "v2.0.0"
	}
	if c.Logging.Backend == "" {
		c.Logging.Backend = "std"
	}
}

func (c *Config) validate() error {
	if c.Health.MinInterval > c.Health.MaxInterval {
		return errors.New("health.minInterval must be <= health.maxInterval")
	}
	if c.Archive.Enabled && c.Archive.DSN == "" {
		return errors.New("archive.dsn is required when archive.enabled is true")
	}
	return nil
}

// parsePort converts a ":port" address into its port number; only
// TestParsePort calls it.
func parsePort(addr string) (int, error) {
	return strconv.Atoi(strings.TrimPrefix(addr, ":"))
}
