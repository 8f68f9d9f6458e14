package board

import (
	"github.com/example/whiteboard/internal/geometry"
	"github.com/example/whiteboard/internal/surface"
)

// gesture is one pointer-down to pointer-up interaction. Tool and style are
// fixed when it starts.
type gesture struct {
	tool   Tool
	style  surface.Style
	anchor geometry.Point
	last   geometry.Point
}

// Gesturing reports whether a gesture is in progress.
func (b *Board) Gesturing() bool { return b.active != nil }

func (b *Board) local(x, y float64) geometry.Point {
	return geometry.Pt(x, y).Sub(b.offset)
}

func (b *Board) style() surface.Style {
	return surface.Style{Color: b.color, Width: float64(b.width) * b.scale}
}

// PointerDown starts a gesture at viewport position (x, y). It is ignored
// while another gesture is active.
func (b *Board) PointerDown(x, y float64) {
	if !b.Ready() || b.active != nil {
		return
	}
	p := b.local(x, y)
	b.active = &gesture{tool: b.tool, style: b.style(), anchor: p, last: p}
}

// PointerMove extends the pen stroke or redraws the shape preview.
func (b *Board) PointerMove(x, y float64) {
	if !b.Ready() || b.active == nil {
		return
	}
	g := b.active
	p := b.local(x, y)
	if g.tool.shape() {
		b.surf.Restore(b.hist.Top().Image())
		b.renderShape(g, p)
	} else {
		b.surf.StrokeLine(g.last, p, g.style)
	}
	g.last = p
}

// PointerUp commits the gesture.
func (b *Board) PointerUp() { b.commit() }

// PointerLeave commits the gesture exactly like PointerUp.
func (b *Board) PointerLeave() { b.commit() }

func (b *Board) commit() {
	if !b.Ready() || b.active == nil {
		return
	}
	b.active = nil
	b.hist.Push(b.surf.Snapshot())
}

func (b *Board) renderShape(g *gesture, p geometry.Point) {
	switch g.tool {
	case ToolRectangle:
		b.surf.StrokeRect(geometry.Span(g.anchor, p), g.style)
	case ToolEllipse:
		b.surf.StrokeCircle(g.anchor, geometry.Distance(g.anchor, p), g.style)
	case ToolRuler:
		b.surf.StrokeLine(g.anchor, p, g.style)
		for _, tick := range geometry.Ticks(g.anchor, p, b.ticks) {
			b.surf.FillCircle(tick, TickRadius, g.style.Color)
		}
	}
}
