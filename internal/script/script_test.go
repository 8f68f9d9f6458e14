package script

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/whiteboard/internal/board"
	"github.com/example/whiteboard/internal/export"
	"github.com/example/whiteboard/internal/notify"
	"github.com/example/whiteboard/internal/session"
	"github.com/example/whiteboard/internal/surface"
)

func newInterpreter(t *testing.T) (*Interpreter, *session.Session, *bytes.Buffer, string) {
	t.Helper()
	dir := t.TempDir()
	b := board.New(board.WithSurface(surface.NewRaster(100, 80, false)))
	s := session.New(b,
		session.WithSink(notify.Discard),
		session.WithSaveDelivery(export.Dir{Path: dir}),
		session.WithClock(func() time.Time { return time.UnixMilli(42) }),
	)
	var out bytes.Buffer
	return New(s, &out), s, &out, dir
}

func TestRunScript(t *testing.T) {
	in, s, out, dir := newInterpreter(t)
	src := `
# a small drawing
color red
width 3
rect 10 10 60 40
ellipse 50 40 60 40
ruler 5 70 95 70
pen 1 1 20 5 30 30
save
state
`
	require.NoError(t, in.Run(strings.NewReader(src)))
	st := s.State()
	assert.Equal(t, "pen", st.Tool)
	assert.Equal(t, "#FF0000", st.Color)
	assert.Equal(t, 3, st.BrushWidth)
	assert.Equal(t, 5, st.History)

	path := filepath.Join(dir, "whiteboard-42.png")
	_, err := os.Stat(path)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "saved "+path)
	assert.Contains(t, out.String(), "100x80 tool=pen color=#FF0000 width=3")
}

func TestPointerCommands(t *testing.T) {
	in, s, _, _ := newInterpreter(t)
	require.NoError(t, in.Exec("tool rect"))
	require.NoError(t, in.Exec("down 10 10"))
	require.NoError(t, in.Exec("move 40 40"))
	assert.True(t, s.Board().Gesturing())
	require.NoError(t, in.Exec("leave"))
	assert.False(t, s.Board().Gesturing())
	assert.Equal(t, 2, s.Board().HistoryLen())

	require.NoError(t, in.Exec("undo"))
	require.NoError(t, in.Exec("undo"))
	assert.Equal(t, 1, s.Board().HistoryLen())
}

func TestRunCommitsOpenGesture(t *testing.T) {
	in, s, _, _ := newInterpreter(t)
	require.NoError(t, in.Run(strings.NewReader("down 1 1\nmove 50 50\n")))
	assert.False(t, s.Board().Gesturing())
	assert.Equal(t, 2, s.Board().HistoryLen())
}

func TestShorthandsCommitOpenGestureAndKeepTool(t *testing.T) {
	in, s, _, _ := newInterpreter(t)
	b := s.Board()
	require.NoError(t, in.Exec("tool ruler"))
	require.NoError(t, in.Exec("down 5 5"))
	require.NoError(t, in.Exec("move 60 5"))

	require.NoError(t, in.Exec("rect 10 20 40 50"))
	assert.False(t, b.Gesturing())
	assert.Equal(t, 3, b.HistoryLen(), "the open ruler and the rectangle are separate steps")
	assert.Equal(t, board.ToolRuler, b.Tool())

	frame := b.Frame()
	ink := board.DefaultColor()
	assert.Equal(t, ink, frame.RGBAAt(30, 5), "ruler committed where the pointer left it")
	assert.Equal(t, ink, frame.RGBAAt(25, 20), "rectangle drawn with its own anchor")

	require.NoError(t, in.Exec("pen 70 70 90 70"))
	assert.Equal(t, board.ToolRuler, b.Tool())
	assert.Equal(t, 4, b.HistoryLen())

	require.NoError(t, in.Exec("undo"))
	require.NoError(t, in.Exec("undo"))
	assert.Equal(t, ink, b.Frame().RGBAAt(30, 5))
	assert.NotEqual(t, ink, b.Frame().RGBAAt(25, 20))
}

func TestResizeAndClear(t *testing.T) {
	in, s, _, _ := newInterpreter(t)
	require.NoError(t, in.Exec("rect 1 1 20 20"))
	require.NoError(t, in.Exec("clear"))
	assert.Equal(t, 3, s.Board().HistoryLen())
	require.NoError(t, in.Exec("resize 30 20"))
	assert.Equal(t, 1, s.Board().HistoryLen())
	assert.Equal(t, 30, s.State().Width)
}

func TestErrors(t *testing.T) {
	in, _, _, _ := newInterpreter(t)
	cases := map[string]string{
		"bogus":           "unknown command",
		"down 1":          "expected 2 numbers",
		"move a b":        "invalid number",
		"width 40":        "outside",
		"tool spray":      "unknown tool",
		"color notacolor": "invalid color",
		"rect 1 2 3":      "expected 4 numbers",
		"pen 1 2":         "at least two",
		"undo now":        "takes no arguments",
		"resize -1 5":     "invalid width",
	}
	for line, want := range cases {
		err := in.Exec(line)
		require.Error(t, err, line)
		assert.Contains(t, err.Error(), want, line)
	}
}

func TestRunReportsLineNumber(t *testing.T) {
	in, _, _, _ := newInterpreter(t)
	err := in.Run(strings.NewReader("undo\n\nfrobnicate\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}

func TestQuitStopsRun(t *testing.T) {
	in, s, _, _ := newInterpreter(t)
	require.NoError(t, in.Run(strings.NewReader("rect 1 1 5 5\nquit\nrect 1 1 9 9\n")))
	assert.Equal(t, 2, s.Board().HistoryLen())
}

func TestHelpListsCommands(t *testing.T) {
	in, _, out, _ := newInterpreter(t)
	require.NoError(t, in.Exec("help"))
	for _, u := range Usage() {
		assert.Contains(t, out.String(), u)
	}
}
