package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	var c Config
	c.applyDefaults()

	assert.Equal(t, ":4000", c.HTTP.Addr)
	assert.Equal(t, 1<<20, c.Transport.MaxMessageBytes)
	assert.Equal(t, 1000, c.Capacity.MaxTotalParticipants)
	assert.Equal(t, 50, c.Capacity.MaxParticipantsPerRoom)
	assert.Equal(t, "signal-hub", c.Logging.Service)
}

func TestValidate_RejectsInvertedHealthInterval(t *testing.T) {
	c := Config{}
	c.applyDefaults()
	c.Health.MinInterval, c.Health.MaxInterval = c.Health.MaxInterval, c.Health.MinInterval

	err := c.validate()
	assert.Error(t, err)
}

func TestValidate_ArchiveRequiresDSN(t *testing.T) {
	c := Config{Archive: Archive{Enabled: true}}
	c.applyDefaults()

	err := c.validate()
	assert.Error(t, err)
}

func TestParsePort(t *testing.T) {
	port, err := parsePort(":4000")
	require.NoError(t, err)
	assert.Equal(t, 4000, port)
}

func TestApplyEnv_PortOverride(t *testing.T) {
	t.Setenv("PORT", "8080")
	var c Config
	c.applyEnv()
	assert.Equal(t, ":8080", c.HTTP.Addr)
}

func TestApplyEnv_CORSOrigins(t *testing.T) {
	t.Setenv("CORS_ORIGINS", "https://a.test, https://b.test")
	var c Config
	c.applyEnv()
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, c.CORS.AllowedOrigins)
}
