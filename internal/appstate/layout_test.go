package appstate

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/whiteboard/internal/board"
)

func center(r image.Rectangle) image.Point {
	return image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}

func TestLayoutCanvasFillsRemainder(t *testing.T) {
	l := newLayout(800, 600, 9, board.Widths())
	tw := toolbarWidth()
	assert.Equal(t, image.Rect(tw, topHeight, 800, 600-bottomHeight), l.canvas)
	assert.Len(t, l.tools, len(board.Tools()))
	assert.Len(t, l.swatches, 9)
	assert.Len(t, l.widths, len(board.Widths()))
	assert.Len(t, l.actions, len(actionButtons))
}

func TestLayoutWindowSizeRoundTrip(t *testing.T) {
	win := windowSize(image.Pt(320, 200))
	l := newLayout(win.X, win.Y, 9, board.Widths())
	assert.Equal(t, image.Pt(320, 200), l.canvas.Size())
}

func TestLayoutTooSmallHasEmptyCanvas(t *testing.T) {
	l := newLayout(10, 10, 9, board.Widths())
	assert.True(t, l.canvas.Empty())
}

func TestLayoutHitTesting(t *testing.T) {
	l := newLayout(800, 600, 9, board.Widths())

	for i, h := range l.tools {
		got := l.at(center(h.rect))
		require.Equal(t, regionTool, got.region)
		assert.Equal(t, i, got.index)
	}
	for i, h := range l.swatches {
		got := l.at(center(h.rect))
		require.Equal(t, regionSwatch, got.region)
		assert.Equal(t, i, got.index)
	}
	for i, h := range l.actions {
		got := l.at(center(h.rect))
		require.Equal(t, regionAction, got.region)
		assert.Equal(t, i, got.index)
	}
	assert.Equal(t, regionCanvas, l.at(center(l.canvas)).region)
	assert.Equal(t, regionNone, l.at(image.Pt(5, 599)).region)
}

func TestSwatchesStayInsideToolbar(t *testing.T) {
	l := newLayout(800, 600, 9, board.Widths())
	for _, h := range l.swatches {
		assert.LessOrEqual(t, h.rect.Max.X, l.toolbar)
	}
	last := l.swatches[len(l.swatches)-1].rect
	assert.Less(t, last.Max.Y, l.widths[0].rect.Min.Y)
}
