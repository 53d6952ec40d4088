package main

import (
	"bytes"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tomlord1122/todo-server/internal/config"
)

func TestParseFlags(t *testing.T) {
	o, err := parseFlags([]string{"--port", "9001", "--static-dir=/srv/www", "--log-level", "debug"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, config.Overrides{Port: "9001", StaticDir: "/srv/www", LogLevel: "debug"}, o)
}

func TestParseFlagsLeavesEnvValues(t *testing.T) {
	o, err := parseFlags(nil, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, config.Overrides{}, o)
}

func TestParseFlagsHelp(t *testing.T) {
	var out bytes.Buffer
	_, err := parseFlags([]string{"--help"}, &out)
	assert.ErrorIs(t, err, pflag.ErrHelp)
	assert.Contains(t, out.String(), "--static-dir")
}

func TestParseFlagsRejectsUnknownFlag(t *testing.T) {
	_, err := parseFlags([]string{"--no-such-flag"}, &bytes.Buffer{})
	assert.Error(t, err)
	assert.NotErrorIs(t, err, pflag.ErrHelp)
}

func TestFlagPortReplacesBadEnvPort(t *testing.T) {
	t.Setenv("DATABASE_URL", "sqlite://todos.db")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("PORT", "eighty")

	o, err := parseFlags([]string{"--port", "9002"}, &bytes.Buffer{})
	require.NoError(t, err)

	cfg, err := config.LoadWith(o)
	require.NoError(t, err)
	assert.Equal(t, 9002, cfg.Port)
	assert.Equal(t, config.DriverSQLite, cfg.Database.Driver)
}
