package history

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frame(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// matches reports whether frame holds exactly the pixels captured in s.
func matches(s *Snapshot, frame *image.RGBA) bool {
	if frame == nil || frame.Bounds().Size() != s.Bounds().Size() {
		return false
	}
	return bytes.Equal(capture(frame).img.Pix, s.img.Pix)
}

var (
	white = color.RGBA{255, 255, 255, 255}
	red   = color.RGBA{255, 0, 0, 255}
	blue  = color.RGBA{0, 0, 255, 255}
)

func TestNewSeedsOneSnapshot(t *testing.T) {
	s := New(frame(4, 3, white), 0)
	require.Equal(t, 1, s.Len())
	assert.False(t, s.CanUndo())
	assert.Equal(t, image.Rect(0, 0, 4, 3), s.Top().Bounds())
}

func TestPushCopiesFrame(t *testing.T) {
	f := frame(2, 2, white)
	s := New(f, 0)
	f.Set(0, 0, red)
	snap := s.Push(f)
	require.Equal(t, 2, s.Len())
	assert.True(t, matches(snap, f))

	f.Set(1, 1, blue)
	assert.False(t, matches(snap, f), "snapshot must not follow later frame edits")
	assert.Equal(t, red, snap.Image().RGBAAt(0, 0))
	assert.Equal(t, white, snap.Image().RGBAAt(1, 1))
}

func TestSnapshotImageIsACopy(t *testing.T) {
	s := New(frame(2, 2, white), 0)
	img := s.Top().Image()
	img.Set(0, 0, red)
	assert.Equal(t, white, s.Top().Image().RGBAAt(0, 0))
}

func TestUndoReturnsPrevious(t *testing.T) {
	base := frame(2, 2, white)
	s := New(base, 0)
	s.Push(frame(2, 2, red))
	s.Push(frame(2, 2, blue))

	snap, ok := s.Undo()
	require.True(t, ok)
	assert.Equal(t, 2, s.Len())
	assert.True(t, matches(snap, frame(2, 2, red)))

	snap, ok = s.Undo()
	require.True(t, ok)
	assert.Equal(t, 1, s.Len())
	assert.True(t, matches(snap, base))
}

func TestUndoAtFloorIsIdempotent(t *testing.T) {
	s := New(frame(3, 3, white), 0)
	first, ok := s.Undo()
	assert.False(t, ok)
	second, ok := s.Undo()
	assert.False(t, ok)
	assert.Same(t, first, second)
	assert.Same(t, first, s.Top())
	assert.Equal(t, 1, s.Len())
}

func TestLimitDropsOldest(t *testing.T) {
	s := New(frame(1, 1, white), 2)
	s.Push(frame(1, 1, red))
	s.Push(frame(1, 1, blue))
	require.Equal(t, 2, s.Len())

	snap, ok := s.Undo()
	require.True(t, ok)
	assert.True(t, matches(snap, frame(1, 1, red)))
	_, ok = s.Undo()
	assert.False(t, ok)
}

func TestLimitOfOneKeepsTop(t *testing.T) {
	s := New(frame(1, 1, white), 1)
	s.Push(frame(1, 1, red))
	require.Equal(t, 1, s.Len())
	assert.True(t, matches(s.Top(), frame(1, 1, red)))
}

func TestResetDiscardsHistory(t *testing.T) {
	s := New(frame(2, 2, white), 0)
	old := s.Push(frame(2, 2, red))
	s.Reset(frame(5, 4, white))
	require.Equal(t, 1, s.Len())
	assert.NotSame(t, old, s.Top())
	assert.Equal(t, image.Rect(0, 0, 5, 4), s.Top().Bounds())
	_, ok := s.Undo()
	assert.False(t, ok)
}

func TestImageIsPrivateCopy(t *testing.T) {
	s := New(frame(2, 2, red), 0)
	img := s.Top().Image()
	img.SetRGBA(0, 0, blue)
	assert.True(t, matches(s.Top(), frame(2, 2, red)))
}

func TestZeroSizedFrame(t *testing.T) {
	s := New(image.NewRGBA(image.Rect(0, 0, 0, 0)), 0)
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Top().Bounds().Empty())
}
