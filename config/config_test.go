package config

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadFromViper(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
log_level: debug
console:
  frames: 30
  scale: 3
store:
  backend: leveldb
  dir: /tmp/pmem
`)))

	cfg, err := Load(v)
	require.NoError(t, err)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, 30, cfg.Console.Frames)
	require.Equal(t, 3, cfg.Console.Scale)
	require.Equal(t, 60, cfg.Console.FPS)
	require.Equal(t, "leveldb", cfg.Store.Backend)
	require.Equal(t, "/tmp/pmem", cfg.Store.Dir)
	require.Equal(t, "localhost:8480", cfg.Server.Addr)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("TIC_CONSOLE_SCALE", "4")
	v := viper.New()
	SetDefaults(v)
	cfg, err := Load(v)
	require.NoError(t, err)
	require.Equal(t, 4, cfg.Console.Scale)
}

func TestValidationErrorsAreAggregated(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "loud"
	cfg.Console.Scale = 0
	cfg.Store = Store{Backend: "postgres"}

	err := cfg.Validate()
	require.Error(t, err)
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	require.Len(t, merr.Errors, 3)
	require.Contains(t, err.Error(), `log_level must be one of`)
	require.Contains(t, err.Error(), "console.scale failed gte=1 validation")
	require.Contains(t, err.Error(), "store.url is required")
}

func TestSchema(t *testing.T) {
	raw, err := Schema()
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Equal(t, schemaURL, doc["$id"])
	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	require.Contains(t, props, "log_level")
	require.Contains(t, props, "store")
}

func TestCheckDocument(t *testing.T) {
	require.NoError(t, CheckDocument([]byte("")))
	require.NoError(t, CheckDocument([]byte("log_level: warn\nstore:\n  backend: s3\n  bucket: carts\n")))
	require.Error(t, CheckDocument([]byte("log_level: loud\n")))
	require.Error(t, CheckDocument([]byte("unknown_key: 1\n")))
}

func TestMarshal(t *testing.T) {
	out, err := Marshal(Default())
	require.NoError(t, err)
	require.Contains(t, string(out), "log_level: info")
	require.Contains(t, string(out), "  backend: file")
}
