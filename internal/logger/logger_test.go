package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWritesJSONToRotatingFile(t *testing.T) {
	prev := log.Logger
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prev
		zerolog.SetGlobalLevel(prevLevel)
	})

	path := filepath.Join(t.TempDir(), "run.log")
	closer := Setup(Config{Level: "debug", File: path, JSONFormat: true, MaxSizeMB: 1})
	log.Info().Str("url", "https://sofifa.com/team/11").Msg("listing loaded")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"listing loaded"`)
	assert.Contains(t, string(data), `"url":"https://sofifa.com/team/11"`)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
}

func TestSetLevelFallsBackToInfo(t *testing.T) {
	prevLevel := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prevLevel) })

	SetLevel("loud")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	SetLevel("")
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	SetLevel("warn")
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}
