package options

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestParseDefaults(t *testing.T) {
	o, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), o)
	require.NotNil(t, o.Presentation)
	assert.Equal(t, 1280, o.Presentation.Width)
}

func TestParseFlags(t *testing.T) {
	o, err := Parse([]string{"-width", "800", "-height", "600", "-pwidth", "1024", "-pheight", "768", "-swap", "0"})
	require.NoError(t, err)
	assert.Equal(t, 800, o.Host.Width)
	assert.Equal(t, 600, o.Host.Height)
	assert.Equal(t, 1024, o.Presentation.Width)
	assert.Equal(t, 768, o.Presentation.Height)
	assert.Equal(t, 0, o.SwapInterval)
}

func TestParseSingleWindow(t *testing.T) {
	o, err := Parse([]string{"-presentation=false", "-pwidth", "0"})
	require.NoError(t, err)
	assert.Nil(t, o.Presentation)
}

func TestPresentationFlagRestoresWindow(t *testing.T) {
	path := writeConfig(t, "presentation: null\n")
	o, err := Parse([]string{"-config", path})
	require.NoError(t, err)
	assert.Nil(t, o.Presentation)

	o, err = Parse([]string{"-config", path, "-presentation", "-pwidth", "640"})
	require.NoError(t, err)
	require.NotNil(t, o.Presentation)
	assert.Equal(t, 640, o.Presentation.Width)
	assert.Equal(t, Default().Presentation.Height, o.Presentation.Height)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
host:
  width: 640
  height: 480
presentation:
  title: Projector
clear_color: [0, 0.5, 1, 1]
`)
	o, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Window{Title: "Host", Width: 640, Height: 480, X: 100, Y: 100}, o.Host)
	assert.Equal(t, "Projector", o.Presentation.Title)
	assert.Equal(t, 1280, o.Presentation.Width)
	assert.Equal(t, [4]float32{0, 0.5, 1, 1}, o.ClearColor)
}

func TestFlagsOverrideConfig(t *testing.T) {
	path := writeConfig(t, "host:\n  width: 640\n  height: 480\npresentation: null\n")
	o, err := Parse([]string{"-config", path, "-width", "320"})
	require.NoError(t, err)
	assert.Equal(t, 320, o.Host.Width)
	assert.Equal(t, 480, o.Host.Height)
	assert.Nil(t, o.Presentation)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]string{"-width", "0"})
	assert.ErrorContains(t, err, "host window size")

	_, err = Parse([]string{"-config", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.ErrorContains(t, err, "failed to read config")

	_, err = Parse([]string{"-config", writeConfig(t, "host: [1, 2")})
	assert.ErrorContains(t, err, "failed to parse config")

	_, err = Parse([]string{"-h"})
	assert.ErrorIs(t, err, flag.ErrHelp)
}

func TestValidateClearColor(t *testing.T) {
	o := Default()
	o.ClearColor = [4]float32{0, 2, 0, -1}
	err := o.Validate()
	assert.ErrorContains(t, err, "clear_color[1]")
	assert.ErrorContains(t, err, "clear_color[3]")
}
