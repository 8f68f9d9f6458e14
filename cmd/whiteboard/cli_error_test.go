package main

import (
	"bytes"
	"errors"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/whiteboard/internal/board"
	"github.com/example/whiteboard/internal/config"
	"github.com/example/whiteboard/internal/export"
	"github.com/example/whiteboard/internal/theme"
)

func testRoot(t *testing.T) (*root, *bytes.Buffer) {
	t.Helper()
	cfg := config.New()
	cfg.Board.Width = 60
	cfg.Board.Height = 40
	cfg.Board.Antialias = false
	cfg.Export.Dir = t.TempDir()
	var out bytes.Buffer
	return &root{
		program:     "whiteboard",
		config:      cfg,
		activeTheme: theme.Default(),
		stdout:      &out,
		stdin:       strings.NewReader(""),
	}, &out
}

func TestParseDrawRequiresInput(t *testing.T) {
	_, err := parseDrawCmd(nil, nil)
	var uerr *UsageError
	require.True(t, errors.As(err, &uerr))
	assert.Contains(t, err.Error(), "Usage: whiteboard draw")
	assert.Contains(t, err.Error(), "rect X0 Y0 X1 Y1")
}

func TestParseDrawRejectsUnknownOutput(t *testing.T) {
	_, err := parseDrawCmd([]string{"-e", "state", "-o", "board.gif"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, export.ErrUnknownFormat))

	_, err = parseDrawCmd([]string{"-e", "state", "-o", "board"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "needs a .png or .pdf extension")
}

func TestDrawRunsCommandsAndWritesOutput(t *testing.T) {
	r, out := testRoot(t)
	target := filepath.Join(t.TempDir(), "out.png")
	cmd, err := parseDrawCmd([]string{"-e", "rect 5 5 30 30", "-e", "state", "-o", target}, r)
	require.NoError(t, err)
	require.NoError(t, cmd.Run())

	assert.Contains(t, out.String(), "60x40 tool=pen")
	assert.Contains(t, out.String(), "history=2")
	assert.Contains(t, out.String(), "wrote "+target)

	f, err := os.Open(target)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 60, img.Bounds().Dx())
}

func TestDrawScriptErrorNamesLine(t *testing.T) {
	r, _ := testRoot(t)
	path := filepath.Join(t.TempDir(), "board.txt")
	require.NoError(t, os.WriteFile(path, []byte("# warm up\npen 1 1 5 5\nwidth 99\n"), 0o644))
	cmd, err := parseDrawCmd([]string{path}, r)
	require.NoError(t, err)
	err = cmd.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestDrawSaveUsesExportDir(t *testing.T) {
	r, out := testRoot(t)
	dir := t.TempDir()
	r.stdin = strings.NewReader("pen 1 1 20 20\nsave\n")
	cmd, err := parseDrawCmd([]string{"-dir", dir, "-"}, r)
	require.NoError(t, err)
	require.NoError(t, cmd.Run())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "whiteboard-"))
	assert.Contains(t, out.String(), "saved ")
}

func TestInteractiveKeepsGoingAfterErrors(t *testing.T) {
	r, out := testRoot(t)
	r.stdin = strings.NewReader("bogus\npen 1 1 9 9\nstate\nexit\nstate\n")
	cmd, err := parseInteractiveCmd(nil, r)
	require.NoError(t, err)
	require.NoError(t, cmd.Run())
	assert.Equal(t, 1, strings.Count(out.String(), "history=2"))
}

func TestConfigRequiresSubcommand(t *testing.T) {
	_, err := parseConfigCmd(nil, nil)
	var uerr *UsageError
	require.True(t, errors.As(err, &uerr))

	r, out := testRoot(t)
	cmd, err := parseConfigCmd([]string{"print"}, r)
	require.NoError(t, err)
	require.NoError(t, cmd.Run())
	assert.Contains(t, out.String(), "[board]")

	cmd, err = parseConfigCmd([]string{"bogus"}, r)
	require.NoError(t, err)
	assert.EqualError(t, cmd.Run(), "unknown config command: bogus")
}

func TestListCommands(t *testing.T) {
	r, out := testRoot(t)
	for _, parse := range []func([]string, *root) (*listCmd, error){
		parseColorsCmd, parseWidthsCmd, parseToolsCmd, parseThemesCmd,
	} {
		cmd, err := parse(nil, r)
		require.NoError(t, err)
		require.NoError(t, cmd.Run())
	}
	text := out.String()
	assert.Contains(t, text, "*  0: Black")
	assert.Contains(t, text, "*   5px")
	assert.Contains(t, text, "* pen")
	assert.Contains(t, text, "* light")
	assert.Contains(t, text, "chalkboard")

	_, err := parseToolsCmd([]string{"extra"}, r)
	var uerr *UsageError
	assert.True(t, errors.As(err, &uerr))
}

func TestRootUsage(t *testing.T) {
	err := (&UsageError{of: newRoot()}).Error()
	assert.Contains(t, err, "Usage: whiteboard")
	assert.Contains(t, err, "-renderer")
	assert.Contains(t, err, "interactive")
}

func TestVersion(t *testing.T) {
	r, out := testRoot(t)
	require.NoError(t, (&versionCmd{r: r}).Run())
	assert.Equal(t, "whiteboard version dev\n", out.String())
}

func TestNewSessionWithoutSizeIsNotReady(t *testing.T) {
	r, _ := testRoot(t)
	r.config.Board.Width = 0
	sess, err := r.newSession(sessionOptions{})
	require.NoError(t, err)
	assert.False(t, sess.Board().Ready())

	sess, err = r.newSession(sessionOptions{width: 10, height: 8})
	require.NoError(t, err)
	assert.True(t, sess.Board().Ready())
}

func TestConfiguredInkJoinsPalette(t *testing.T) {
	r, out := testRoot(t)
	light, err := (&theme.Loader{}).Load("light")
	require.NoError(t, err)
	r.activeTheme = light
	r.config.Board.Color = "#336699"
	for i := 0; i < 2; i++ {
		_, err = r.newSession(sessionOptions{})
		require.NoError(t, err)
	}
	palette := board.PaletteColors()
	require.Len(t, palette, len(light.Palette)+1)
	last := palette[len(palette)-1]
	assert.Equal(t, "#336699", last.Name)
	assert.Equal(t, color.RGBA{0x33, 0x66, 0x99, 0xff}, last.Color)

	cmd, err := parseColorsCmd(nil, r)
	require.NoError(t, err)
	require.NoError(t, cmd.Run())
	assert.Contains(t, out.String(), "*  9: #336699")

	r.config.Board.Color = "red"
	_, err = r.newSession(sessionOptions{})
	require.NoError(t, err)
	assert.Len(t, board.PaletteColors(), len(light.Palette))
}

func TestNewSessionRejectsUnknownRenderer(t *testing.T) {
	r, _ := testRoot(t)
	r.renderer = "vulkan"
	_, err := r.newSession(sessionOptions{})
	assert.Error(t, err)
}
