package surface

import (
	"image"
	"image/color"
	"log"

	"github.com/gogpu/gg"

	"github.com/example/whiteboard/internal/geometry"
)

// GG is a Surface drawing through a gogpu/gg software context.
type GG struct {
	dc   *gg.Context
	size image.Point
}

var _ Surface = (*GG)(nil)

// NewGG allocates a w by h transparent gg context.
func NewGG(w, h int) *GG {
	s := &GG{}
	s.Resize(w, h)
	return s
}

func (s *GG) Size() image.Point { return s.size }

func (s *GG) Resize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	if s.dc != nil {
		if err := s.dc.Close(); err != nil {
			log.Printf("gg close: %v", err)
		}
	}
	// gg refuses to resize to an empty target, so always start over
	s.dc = gg.NewContext(w, h)
	s.size = image.Pt(w, h)
}

func (s *GG) Fill(c color.Color) {
	s.dc.ClearWithColor(gg.FromColor(c))
}

func (s *GG) empty() bool { return s.size.X == 0 || s.size.Y == 0 }

func (s *GG) begin(st Style) {
	s.dc.ClearPath()
	s.dc.SetColor(st.Color)
	s.dc.SetLineWidth(st.Width)
	s.dc.SetLineCap(gg.LineCapRound)
	s.dc.SetLineJoin(gg.LineJoinRound)
}

func (s *GG) stroke(what string) {
	if err := s.dc.Stroke(); err != nil {
		log.Printf("gg stroke %s: %v", what, err)
	}
}

func (s *GG) StrokeLine(a, b geometry.Point, st Style) {
	if s.empty() {
		return
	}
	s.begin(st)
	s.dc.MoveTo(a.X, a.Y)
	s.dc.LineTo(b.X, b.Y)
	s.stroke("line")
}

func (s *GG) StrokeRect(box geometry.Box, st Style) {
	if s.empty() {
		return
	}
	s.begin(st)
	s.dc.DrawRectangle(box.Min.X, box.Min.Y, box.Dx(), box.Dy())
	s.stroke("rect")
}

func (s *GG) StrokeCircle(center geometry.Point, r float64, st Style) {
	if s.empty() || r <= 0 {
		return
	}
	s.begin(st)
	s.dc.DrawCircle(center.X, center.Y, r)
	s.stroke("circle")
}

func (s *GG) FillCircle(center geometry.Point, r float64, c color.Color) {
	if s.empty() || r <= 0 {
		return
	}
	s.dc.ClearPath()
	s.dc.SetColor(c)
	s.dc.DrawCircle(center.X, center.Y, r)
	if err := s.dc.Fill(); err != nil {
		log.Printf("gg fill circle: %v", err)
	}
}

func (s *GG) Snapshot() *image.RGBA {
	if err := s.dc.FlushGPU(); err != nil {
		log.Printf("gg flush: %v", err)
	}
	return s.dc.ResizeTarget().ToImage()
}

func (s *GG) Restore(img *image.RGBA) {
	src := packed(img)
	size := src.Bounds().Size()
	if size != s.size {
		s.Resize(size.X, size.Y)
	}
	copy(s.dc.ResizeTarget().Data(), src.Pix)
}
