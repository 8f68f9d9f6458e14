package board

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/whiteboard/internal/surface"
)

type pngEncoder struct{}

func (pngEncoder) Encode(w io.Writer, img image.Image) error { return png.Encode(w, img) }

type failingEncoder struct{ err error }

func (f failingEncoder) Encode(io.Writer, image.Image) error { return f.err }

var (
	white = color.RGBA{255, 255, 255, 255}
	black = color.RGBA{0, 0, 0, 255}
	red   = color.RGBA{255, 0, 0, 255}
)

type backend struct {
	name string
	new  func(w, h int) surface.Surface
}

// backends lists every surface a board can draw on. The hard-edged raster
// comes first and is the one pixel-exact tests use.
var backends = []backend{
	{"raster", func(w, h int) surface.Surface { return surface.NewRaster(w, h, false) }},
	{"raster-aa", func(w, h int) surface.Surface { return surface.NewRaster(w, h, true) }},
	{"gg", func(w, h int) surface.Surface { return surface.NewGG(w, h) }},
}

func newBoard(t *testing.T, w, h int, opts ...Option) *Board {
	t.Helper()
	return newBoardOn(t, backends[0], w, h, opts...)
}

func newBoardOn(t *testing.T, be backend, w, h int, opts ...Option) *Board {
	t.Helper()
	opts = append([]Option{WithSurface(be.new(w, h)), WithWidth(1)}, opts...)
	b := New(opts...)
	require.True(t, b.Ready())
	return b
}

// eachBackend runs fn once per surface backend.
func eachBackend(t *testing.T, fn func(t *testing.T, be backend)) {
	for _, be := range backends {
		t.Run(be.name, func(t *testing.T) { fn(t, be) })
	}
}

func blank(img *image.RGBA) bool {
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 255 || img.Pix[i+1] != 255 || img.Pix[i+2] != 255 || img.Pix[i+3] != 255 {
			return false
		}
	}
	return true
}

func drag(b *Board, from, to image.Point) {
	b.PointerDown(float64(from.X), float64(from.Y))
	b.PointerMove(float64(to.X), float64(to.Y))
	b.PointerUp()
}

func TestUninitializedBoardIgnoresEverything(t *testing.T) {
	b := New()
	require.False(t, b.Ready())
	assert.NotPanics(t, func() {
		b.PointerDown(1, 1)
		b.PointerMove(5, 5)
		b.PointerUp()
		b.PointerLeave()
		b.Clear()
		b.Resize(10, 10)
	})
	assert.False(t, b.Undo())
	assert.False(t, b.CanUndo())
	assert.False(t, b.Gesturing())
	assert.Nil(t, b.Frame())
	assert.Equal(t, image.Point{}, b.Size())
	assert.Equal(t, 0, b.HistoryLen())

	_, err := b.Export(pngEncoder{})
	assert.ErrorIs(t, err, ErrNotReady)
}

func TestDetachMakesBoardInert(t *testing.T) {
	b := newBoard(t, 20, 20)
	b.PointerDown(1, 1)
	b.Detach()
	assert.False(t, b.Ready())
	assert.False(t, b.Gesturing())
	assert.NotPanics(t, func() { b.PointerMove(3, 3) })
}

func TestAttachSeedsBlankHistory(t *testing.T) {
	b := newBoard(t, 8, 6)
	assert.Equal(t, image.Pt(8, 6), b.Size())
	assert.Equal(t, 1, b.HistoryLen())
	assert.True(t, blank(b.Frame()))
	assert.False(t, b.CanUndo())
}

func TestHistoryGrowsByOnePerCommit(t *testing.T) {
	eachBackend(t, func(t *testing.T, be backend) {
		for _, tool := range Tools() {
			t.Run(tool.String(), func(t *testing.T) {
				b := newBoardOn(t, be, 60, 60, WithTool(tool))
				before := b.HistoryLen()
				drag(b, image.Pt(10, 10), image.Pt(40, 30))
				require.Equal(t, before+1, b.HistoryLen())
				assert.Equal(t, b.hist.Top().Image().Pix, b.Frame().Pix)
				assert.False(t, blank(b.Frame()))

				require.True(t, b.Undo())
				assert.True(t, blank(b.Frame()))
			})
		}
	})
}

func TestClearCommitsBlankFrame(t *testing.T) {
	b := newBoard(t, 30, 30)
	drag(b, image.Pt(2, 2), image.Pt(20, 20))
	b.Clear()
	assert.Equal(t, 3, b.HistoryLen())
	assert.True(t, blank(b.Frame()))
	assert.Equal(t, b.hist.Top().Image().Pix, b.Frame().Pix)

	require.True(t, b.Undo())
	assert.False(t, blank(b.Frame()), "undo after clear brings the stroke back")
}

func TestUndoAtFloorIsNoop(t *testing.T) {
	b := newBoard(t, 10, 10)
	top := b.hist.Top()
	assert.False(t, b.Undo())
	assert.False(t, b.Undo())
	assert.Equal(t, 1, b.HistoryLen())
	assert.Same(t, top, b.hist.Top())
	assert.True(t, blank(b.Frame()))
}

func TestUndoRestoresPreviousFrame(t *testing.T) {
	b := newBoard(t, 40, 40)
	drag(b, image.Pt(5, 5), image.Pt(35, 5))
	afterFirst := b.Frame()
	drag(b, image.Pt(5, 20), image.Pt(35, 20))

	require.True(t, b.Undo())
	assert.Equal(t, afterFirst.Pix, b.Frame().Pix)
	require.True(t, b.Undo())
	assert.True(t, blank(b.Frame()))
	assert.False(t, b.Undo())
}

func TestUndoCommitsActiveGestureFirst(t *testing.T) {
	b := newBoard(t, 40, 40)
	b.PointerDown(5, 5)
	b.PointerMove(30, 5)
	assert.True(t, b.CanUndo())
	require.True(t, b.Undo())
	assert.False(t, b.Gesturing())
	assert.True(t, blank(b.Frame()))
	assert.Equal(t, 1, b.HistoryLen())
}

func TestPenCommitsIncrementally(t *testing.T) {
	b := newBoard(t, 40, 40, WithColor(black))
	b.PointerDown(5, 10)
	b.PointerMove(20, 10)
	frame := b.Frame()
	assert.Equal(t, black, frame.RGBAAt(12, 10), "pen pixels appear before pointer-up")
	assert.Equal(t, 1, b.HistoryLen())
	b.PointerMove(20, 30)
	frame = b.Frame()
	assert.Equal(t, black, frame.RGBAAt(12, 10), "earlier pen segments survive later moves")
	assert.Equal(t, black, frame.RGBAAt(20, 25))
	b.PointerUp()
	assert.Equal(t, 2, b.HistoryLen())
}

func TestPreviewDoesNotAccumulate(t *testing.T) {
	eachBackend(t, func(t *testing.T, be backend) {
		for _, tool := range []Tool{ToolRectangle, ToolEllipse, ToolRuler} {
			t.Run(tool.String(), func(t *testing.T) {
				b := newBoardOn(t, be, 100, 100, WithTool(tool))
				b.PointerDown(20, 20)
				b.PointerMove(50, 60)
				b.PointerMove(70, 30)

				want := newBoardOn(t, be, 100, 100, WithTool(tool))
				want.PointerDown(20, 20)
				want.PointerMove(70, 30)

				assert.Equal(t, want.Frame().Pix, b.Frame().Pix)
				assert.Equal(t, 1, b.HistoryLen(), "previews are not committed")
			})
		}
	})
}

func TestPreviewRestoresFromLastCommit(t *testing.T) {
	b := newBoard(t, 80, 80, WithColor(black))
	drag(b, image.Pt(5, 70), image.Pt(75, 70))
	b.SetTool(ToolRectangle)
	b.SetColor(red)
	b.PointerDown(10, 10)
	b.PointerMove(40, 40)
	b.PointerMove(30, 30)
	frame := b.Frame()
	assert.Equal(t, black, frame.RGBAAt(40, 70), "committed pen stroke is background for the preview")
	assert.Equal(t, red, frame.RGBAAt(30, 20))
	assert.Equal(t, white, frame.RGBAAt(40, 25), "the first preview is gone")
}

func TestEllipseRadiusFollowsDistance(t *testing.T) {
	b := newBoard(t, 100, 100, WithTool(ToolEllipse), WithColor(black))
	drag(b, image.Pt(50, 50), image.Pt(80, 50))
	frame := b.Frame()
	assert.Equal(t, black, frame.RGBAAt(80, 50))
	assert.Equal(t, black, frame.RGBAAt(20, 50))
	assert.Equal(t, black, frame.RGBAAt(50, 20))
	assert.Equal(t, black, frame.RGBAAt(50, 80))
	assert.Equal(t, white, frame.RGBAAt(50, 50))

	inked := 0
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if frame.RGBAAt(x, y) != black {
				continue
			}
			inked++
			r := math.Hypot(float64(x-50), float64(y-50))
			assert.InDelta(t, 30, r, 1, "pixel (%d,%d)", x, y)
		}
	}
	assert.Positive(t, inked)
}

func TestEllipseRadiusOnEveryBackend(t *testing.T) {
	eachBackend(t, func(t *testing.T, be backend) {
		b := newBoardOn(t, be, 100, 100, WithTool(ToolEllipse), WithColor(black))
		drag(b, image.Pt(50, 50), image.Pt(80, 50))
		frame := b.Frame()
		for _, p := range []image.Point{{80, 50}, {50, 80}} {
			assert.NotEqual(t, white, frame.RGBAAt(p.X, p.Y), "ring passes %v", p)
		}
		assert.Equal(t, white, frame.RGBAAt(50, 50))

		inked := 0
		for y := 0; y < 100; y++ {
			for x := 0; x < 100; x++ {
				if frame.RGBAAt(x, y) == white {
					continue
				}
				inked++
				r := math.Hypot(float64(x-50), float64(y-50))
				assert.InDelta(t, 30, r, 2, "pixel (%d,%d)", x, y)
			}
		}
		assert.Positive(t, inked)
	})
}

func TestRectangleNormalisesNegativeSpan(t *testing.T) {
	b := newBoard(t, 60, 60, WithTool(ToolRectangle), WithColor(black))
	drag(b, image.Pt(50, 40), image.Pt(10, 5))
	frame := b.Frame()
	assert.Equal(t, black, frame.RGBAAt(10, 5))
	assert.Equal(t, black, frame.RGBAAt(50, 40))
	assert.Equal(t, black, frame.RGBAAt(30, 5))
	assert.Equal(t, black, frame.RGBAAt(50, 20))
	assert.Equal(t, white, frame.RGBAAt(30, 20))
}

func TestRulerPlacesTicks(t *testing.T) {
	b := newBoard(t, 120, 30, WithTool(ToolRuler), WithColor(red), WithRulerTicks(10))
	b.SetOffset(image.Pt(5, 5))
	b.PointerDown(5, 15)
	b.PointerMove(105, 15)
	b.PointerUp()
	frame := b.Frame()
	for k := 0; k <= 10; k++ {
		x := 10 * k
		assert.Equal(t, red, frame.RGBAAt(x, 10), "segment at x=%d", x)
		assert.Equal(t, red, frame.RGBAAt(x, 12), "tick dot below the line at x=%d", x)
		assert.Equal(t, red, frame.RGBAAt(x, 8), "tick dot above the line at x=%d", x)
	}
	for k := 0; k < 10; k++ {
		x := 10*k + 5
		assert.Equal(t, white, frame.RGBAAt(x, 12), "no tick between marks at x=%d", x)
	}
}

func TestPointerDownIgnoredWhileGesturing(t *testing.T) {
	b := newBoard(t, 80, 80, WithTool(ToolRectangle), WithColor(black))
	b.PointerDown(10, 10)
	b.PointerDown(60, 60)
	b.PointerMove(30, 30)
	b.PointerUp()
	frame := b.Frame()
	assert.Equal(t, black, frame.RGBAAt(10, 10), "anchor stays at the first pointer-down")
	assert.Equal(t, white, frame.RGBAAt(60, 60))
	assert.Equal(t, 2, b.HistoryLen())
}

func TestToolChangeDoesNotAffectActiveGesture(t *testing.T) {
	b := newBoard(t, 60, 60, WithColor(black))
	b.PointerDown(5, 30)
	b.SetTool(ToolEllipse)
	b.PointerMove(50, 30)
	b.PointerUp()
	frame := b.Frame()
	assert.Equal(t, black, frame.RGBAAt(30, 30), "pen segment drawn")
	assert.Equal(t, ToolEllipse, b.Tool())
}

func TestLeaveCommitsLikeUp(t *testing.T) {
	up := newBoard(t, 50, 50, WithTool(ToolRectangle))
	drag(up, image.Pt(5, 5), image.Pt(40, 40))

	leave := newBoard(t, 50, 50, WithTool(ToolRectangle))
	leave.PointerDown(5, 5)
	leave.PointerMove(40, 40)
	leave.PointerLeave()

	assert.False(t, leave.Gesturing())
	assert.Equal(t, up.HistoryLen(), leave.HistoryLen())
	assert.Equal(t, up.Frame().Pix, leave.Frame().Pix)
}

func TestUpWithoutGestureIsNoop(t *testing.T) {
	b := newBoard(t, 10, 10)
	b.PointerUp()
	b.PointerLeave()
	b.PointerMove(3, 3)
	assert.Equal(t, 1, b.HistoryLen())
}

func TestResizeDiscardsHistory(t *testing.T) {
	b := newBoard(t, 40, 40)
	drag(b, image.Pt(1, 1), image.Pt(30, 30))
	drag(b, image.Pt(1, 30), image.Pt(30, 1))
	old := b.hist.Top()

	b.Resize(70, 20)
	assert.Equal(t, image.Pt(70, 20), b.Size())
	assert.Equal(t, 1, b.HistoryLen())
	assert.NotSame(t, old, b.hist.Top())
	assert.True(t, blank(b.Frame()))
	assert.False(t, b.Undo())
}

func TestResizeMidGestureDropsIt(t *testing.T) {
	b := newBoard(t, 40, 40)
	b.PointerDown(5, 5)
	b.PointerMove(30, 30)
	b.Resize(40, 40)
	assert.False(t, b.Gesturing())
	b.PointerMove(10, 30)
	b.PointerUp()
	assert.Equal(t, 1, b.HistoryLen())
	assert.True(t, blank(b.Frame()))
}

func TestWidthClampedAndScaled(t *testing.T) {
	b := New()
	b.SetWidth(0)
	assert.Equal(t, MinWidth, b.Width())
	b.SetWidth(99)
	assert.Equal(t, MaxWidth, b.Width())
	b.SetWidth(3)
	b.SetScale(2)
	assert.InDelta(t, 6, b.style().Width, 1e-9)
	b.SetScale(-1)
	assert.InDelta(t, 1, b.Scale(), 1e-9)
}

func TestScaleWidensStroke(t *testing.T) {
	b := newBoard(t, 40, 40, WithColor(black), WithWidth(3), WithScale(2))
	drag(b, image.Pt(5, 20), image.Pt(35, 20))
	frame := b.Frame()
	assert.Equal(t, black, frame.RGBAAt(20, 23), "width 3 at scale 2 renders 6px")
	assert.Equal(t, white, frame.RGBAAt(20, 25))
}

func TestExportIsPure(t *testing.T) {
	eachBackend(t, func(t *testing.T, be backend) {
		b := newBoardOn(t, be, 30, 30)
		drag(b, image.Pt(2, 2), image.Pt(25, 25))
		before := b.Frame()
		first, err := b.Export(pngEncoder{})
		require.NoError(t, err)
		second, err := b.Export(pngEncoder{})
		require.NoError(t, err)
		assert.Equal(t, first, second)
		assert.Equal(t, 2, b.HistoryLen())
		assert.Equal(t, before.Pix, b.Frame().Pix)
	})
}

func TestExportEmptyFrameFails(t *testing.T) {
	b := newBoard(t, 10, 10)
	b.Resize(0, 0)
	_, err := b.Export(pngEncoder{})
	assert.ErrorIs(t, err, ErrEmptyFrame)
	assert.Equal(t, 1, b.HistoryLen())
}

func TestExportWrapsEncoderError(t *testing.T) {
	b := newBoard(t, 10, 10)
	sentinel := errors.New("disk on fire")
	_, err := b.Export(failingEncoder{err: sentinel})
	require.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "encode frame")
}

func TestHistoryLimitOption(t *testing.T) {
	b := newBoard(t, 20, 20, WithHistoryLimit(2))
	for i := 0; i < 5; i++ {
		drag(b, image.Pt(i, 0), image.Pt(i, 10))
	}
	assert.Equal(t, 2, b.HistoryLen())
	assert.True(t, b.Undo())
	assert.False(t, b.Undo())
}

func TestTranslucentInkBlendsOverCanvas(t *testing.T) {
	ink, err := ParseColor("#FF000080")
	require.NoError(t, err)
	b := newBoard(t, 40, 40, WithColor(ink), WithWidth(5))
	drag(b, image.Pt(5, 20), image.Pt(35, 20))
	got := b.Frame().RGBAAt(20, 20)
	assert.Equal(t, uint8(0xff), got.R)
	assert.InDelta(t, 0x80, got.G, 1)
	assert.InDelta(t, 0x80, got.B, 1)
	assert.Equal(t, uint8(0xff), got.A)

	drag(b, image.Pt(5, 20), image.Pt(35, 20))
	again := b.Frame().RGBAAt(20, 20)
	assert.Less(t, again.G, got.G, "a second pass darkens the first")
}

func TestParseTool(t *testing.T) {
	for in, want := range map[string]Tool{"pen": ToolPen, "Rect": ToolRectangle, "circle": ToolEllipse, "ruler": ToolRuler} {
		got, err := ParseTool(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseTool("lasso")
	assert.Error(t, err)
	assert.Equal(t, "Tool(9)", Tool(9).String())
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("orange")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0xff, 0xa5, 0x00, 0xff}, c)

	// hex alpha is straight and comes back premultiplied
	c, err = ParseColor("#00800080")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0x00, 0x40, 0x00, 0x80}, c)
	assert.Equal(t, "#007F0080", HexColor(c))

	c, err = ParseColor("teal")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0x00, 0x80, 0x80, 0xff}, c)

	_, err = ParseColor("#12")
	assert.Error(t, err)
	_, err = ParseColor("")
	assert.Error(t, err)

	assert.Equal(t, "#FF69B4", HexColor(color.RGBA{0xff, 0x69, 0xb4, 0xff}))
}
