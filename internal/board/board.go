// Package board implements the whiteboard drawing engine: the surface
// state, the gesture state machine and the snapshot undo history.
//
// A Board is not safe for concurrent use. Hosts feed it from a single
// goroutine.
package board

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/example/whiteboard/internal/geometry"
	"github.com/example/whiteboard/internal/history"
	"github.com/example/whiteboard/internal/surface"
)

var (
	// ErrNotReady is returned by Export when no surface is attached.
	ErrNotReady = errors.New("board: no surface attached")
	// ErrEmptyFrame is returned by Export for a zero-sized frame.
	ErrEmptyFrame = errors.New("board: frame is empty")
)

// Encoder turns a frame into an image file.
type Encoder interface {
	Encode(w io.Writer, img image.Image) error
}

// Board owns the frame, the history and the active gesture.
type Board struct {
	surf       surface.Surface
	hist       *history.Stack
	background color.Color
	color      color.Color
	width      int
	scale      float64
	tool       Tool
	offset     geometry.Point
	ticks      int
	limit      int

	// active is nil while idle.
	active *gesture
}

type Option func(*Board)

// WithBackground sets the blank canvas colour.
func WithBackground(c color.Color) Option { return func(b *Board) { b.background = c } }

// WithColor sets the initial ink.
func WithColor(c color.Color) Option { return func(b *Board) { b.SetColor(c) } }

// WithWidth sets the initial brush width.
func WithWidth(w int) Option { return func(b *Board) { b.SetWidth(w) } }

// WithTool sets the initial tool.
func WithTool(t Tool) Option { return func(b *Board) { b.SetTool(t) } }

// WithScale sets the display scale applied to stroke widths.
func WithScale(s float64) Option { return func(b *Board) { b.SetScale(s) } }

// WithRulerTicks sets how many intervals the ruler marks.
func WithRulerTicks(n int) Option {
	return func(b *Board) {
		if n > 0 {
			b.ticks = n
		}
	}
}

// WithHistoryLimit caps the undo history; zero keeps everything.
func WithHistoryLimit(n int) Option {
	return func(b *Board) {
		if n >= 0 {
			b.limit = n
		}
	}
}

// WithSurface attaches s at construction.
func WithSurface(s surface.Surface) Option { return func(b *Board) { b.surf = s } }

// New creates a board. Until a surface is attached every drawing
// operation is ignored.
func New(opts ...Option) *Board {
	b := &Board{
		background: Background,
		color:      DefaultColor(),
		width:      DefaultWidth,
		scale:      1,
		tool:       ToolPen,
		ticks:      DefaultRulerTicks,
	}
	for _, opt := range opts {
		opt(b)
	}
	if s := b.surf; s != nil {
		b.surf = nil
		b.Attach(s)
	}
	return b
}

// Attach makes s the drawing target, blanks it and seeds the history.
func (b *Board) Attach(s surface.Surface) {
	if s == nil {
		b.Detach()
		return
	}
	b.active = nil
	b.surf = s
	b.surf.Fill(b.background)
	b.hist = history.New(b.surf.Snapshot(), b.limit)
}

// Detach drops the surface and the history.
func (b *Board) Detach() {
	b.active = nil
	b.surf = nil
	b.hist = nil
}

// Ready reports whether a surface is attached.
func (b *Board) Ready() bool { return b.surf != nil && b.hist != nil }

func (b *Board) SetColor(c color.Color) {
	if c == nil {
		return
	}
	b.color = c
}

func (b *Board) SetWidth(w int) { b.width = ClampWidth(w) }

// SetTool switches the tool used by the next gesture.
func (b *Board) SetTool(t Tool) {
	if t < ToolPen || t > ToolRuler {
		return
	}
	b.tool = t
}

// SetScale sets the display scale; non-positive values reset it to 1.
func (b *Board) SetScale(s float64) {
	if s <= 0 {
		s = 1
	}
	b.scale = s
}

// SetOffset records where the surface origin sits in viewport coordinates.
func (b *Board) SetOffset(p image.Point) { b.offset = geometry.FromImage(p) }

func (b *Board) Color() color.Color  { return b.color }
func (b *Board) Width() int          { return b.width }
func (b *Board) Tool() Tool          { return b.tool }
func (b *Board) Scale() float64      { return b.scale }
func (b *Board) RulerTicks() int     { return b.ticks }
func (b *Board) Offset() image.Point { return b.offset.Image() }

// Size is the frame size, zero when not ready.
func (b *Board) Size() image.Point {
	if !b.Ready() {
		return image.Point{}
	}
	return b.surf.Size()
}

// Resize reallocates a blank frame and resets history to it. Any gesture in
// progress is dropped without committing.
func (b *Board) Resize(w, h int) {
	if !b.Ready() {
		return
	}
	b.active = nil
	b.surf.Resize(w, h)
	b.surf.Fill(b.background)
	b.hist.Reset(b.surf.Snapshot())
}

// Undo restores the previous snapshot. It reports false when only the
// baseline remains. A gesture in progress is committed first.
func (b *Board) Undo() bool {
	if !b.Ready() {
		return false
	}
	b.commit()
	snap, ok := b.hist.Undo()
	if ok {
		b.surf.Restore(snap.Image())
	}
	return ok
}

// CanUndo reports whether Undo would change the frame.
func (b *Board) CanUndo() bool {
	if !b.Ready() {
		return false
	}
	return b.hist.CanUndo() || b.active != nil
}

// HistoryLen is the number of retained snapshots.
func (b *Board) HistoryLen() int {
	if !b.Ready() {
		return 0
	}
	return b.hist.Len()
}

// Clear blanks the frame and commits it as a new snapshot.
func (b *Board) Clear() {
	if !b.Ready() {
		return
	}
	b.commit()
	b.surf.Fill(b.background)
	b.hist.Push(b.surf.Snapshot())
}

// Frame returns a copy of the live frame, or nil when not ready.
func (b *Board) Frame() *image.RGBA {
	if !b.Ready() {
		return nil
	}
	return b.surf.Snapshot()
}

// Export encodes the live frame without touching it or the history.
func (b *Board) Export(enc Encoder) ([]byte, error) {
	if !b.Ready() {
		return nil, ErrNotReady
	}
	frame := b.surf.Snapshot()
	if frame.Bounds().Empty() {
		return nil, ErrEmptyFrame
	}
	var buf bytes.Buffer
	if err := enc.Encode(&buf, frame); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return buf.Bytes(), nil
}
