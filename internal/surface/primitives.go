package surface

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/example/whiteboard/internal/geometry"
)

// brush collects the pixels of one primitive and composites them onto img
// over what is already there. Opaque colours are written straight through;
// translucent ones go through a coverage mask so overlapping tips blend once.
type brush struct {
	img  *image.RGBA
	col  color.RGBA
	clip image.Rectangle
	mask *image.Alpha
}

// newBrush prepares a brush limited to area. It returns nil when nothing
// could be painted.
func newBrush(img *image.RGBA, c color.Color, area image.Rectangle) *brush {
	area = area.Intersect(img.Bounds())
	col := color.RGBAModel.Convert(c).(color.RGBA)
	if area.Empty() || col.A == 0 {
		return nil
	}
	b := &brush{img: img, col: col, clip: area}
	if col.A != 0xff {
		b.mask = image.NewAlpha(area)
	}
	return b
}

func (b *brush) plot(x, y int) {
	if !image.Pt(x, y).In(b.clip) {
		return
	}
	if b.mask == nil {
		b.img.SetRGBA(x, y, b.col)
		return
	}
	b.mask.SetAlpha(x, y, color.Alpha{A: 0xff})
}

func (b *brush) flush() {
	if b.mask == nil {
		return
	}
	draw.DrawMask(b.img, b.clip, image.NewUniform(b.col), image.Point{}, b.mask, b.clip.Min, draw.Over)
}

// stamp paints a pen tip of the given thickness centred on (x, y). Tips
// wider than two pixels are round.
func (b *brush) stamp(x, y, thick int) {
	if thick <= 2 {
		r := thick / 2
		b.fillRect(image.Rect(x-r, y-r, x+r+1, y+r+1))
		return
	}
	b.disc(x, y, thick/2)
}

func (b *brush) fillRect(r image.Rectangle) {
	r = r.Intersect(b.clip)
	for py := r.Min.Y; py < r.Max.Y; py++ {
		for px := r.Min.X; px < r.Max.X; px++ {
			b.plot(px, py)
		}
	}
}

// disc fills every pixel within r of (cx, cy), visiting only the part of
// its box that lies on the image.
func (b *brush) disc(cx, cy, r int) {
	box := image.Rect(cx-r, cy-r, cx+r+1, cy+r+1).Intersect(b.clip)
	for py := box.Min.Y; py < box.Max.Y; py++ {
		dy := py - cy
		for px := box.Min.X; px < box.Max.X; px++ {
			dx := px - cx
			if dx*dx+dy*dy <= r*r {
				b.plot(px, py)
			}
		}
	}
}

// line walks the segment with Bresenham and stamps the tip at each step.
// The segment is first clipped to the image grown by thick, so only the
// steps that can reach a pixel are taken.
func (b *brush) line(p, q geometry.Point, thick int) {
	pad := float64(thick)
	bounds := b.img.Bounds()
	p, q, ok := clipSegment(p, q,
		float64(bounds.Min.X)-pad, float64(bounds.Min.Y)-pad,
		float64(bounds.Max.X)+pad, float64(bounds.Max.Y)+pad)
	if !ok {
		return
	}
	a, c := p.Image(), q.Image()
	x0, y0, x1, y1 := a.X, a.Y, c.X, c.Y
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		b.stamp(x0, y0, thick)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// clipSegment is Liang-Barsky against the box [minX,maxX]x[minY,maxY].
// It reports false when the segment misses the box entirely.
func clipSegment(p, q geometry.Point, minX, minY, maxX, maxY float64) (geometry.Point, geometry.Point, bool) {
	d := q.Sub(p)
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-d.X, p.X - minX},
		{d.X, maxX - p.X},
		{-d.Y, p.Y - minY},
		{d.Y, maxY - p.Y},
	}
	for _, e := range edges {
		den, num := e[0], e[1]
		if den == 0 {
			if num < 0 {
				return p, q, false
			}
			continue
		}
		t := num / den
		if den < 0 {
			if t > t1 {
				return p, q, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return p, q, false
			}
			t1 = math.Min(t1, t)
		}
	}
	if math.IsNaN(t0) || math.IsNaN(t1) {
		return p, q, false
	}
	return p.Add(d.Mul(t0)), p.Add(d.Mul(t1)), true
}

// segmentArea is the box a clipped segment can touch with a tip of thick.
func segmentArea(p, q geometry.Point, thick int) image.Rectangle {
	box := geometry.Span(p, q)
	pad := float64(thick)
	return floatRect(box.Min.X-pad, box.Min.Y-pad, box.Max.X+pad, box.Max.Y+pad)
}

// floatRect rounds outwards to a pixel rectangle, saturating at the int
// range so far-off geometry still yields a valid (empty after clipping) box.
func floatRect(x0, y0, x1, y1 float64) image.Rectangle {
	return image.Rect(satInt(math.Floor(x0)), satInt(math.Floor(y0)), satInt(math.Ceil(x1))+1, satInt(math.Ceil(y1))+1)
}

func satInt(v float64) int {
	const limit = 1 << 30
	switch {
	case math.IsNaN(v):
		return 0
	case v > limit:
		return limit
	case v < -limit:
		return -limit
	}
	return int(v)
}

func drawLine(img *image.RGBA, p, q geometry.Point, col color.Color, thick int) {
	b := newBrush(img, col, segmentArea(p, q, thick))
	if b == nil {
		return
	}
	b.line(p, q, thick)
	b.flush()
}

// circleThin is the midpoint circle, one pixel wide.
func (b *brush) circleThin(cx, cy, r int) {
	x := r
	y := 0
	err := 1 - r
	for x >= y {
		pts := [8][2]int{{x, y}, {y, x}, {-y, x}, {-x, y}, {-x, -y}, {-y, -x}, {y, -x}, {x, -y}}
		for _, p := range pts {
			b.plot(cx+p[0], cy+p[1])
		}
		y++
		if err < 0 {
			err += 2*y + 1
		} else {
			x--
			err += 2 * (y - x + 1)
		}
	}
}

// drawRing paints every pixel whose centre lies within thick/2 of the
// circle of radius r. One pixel rings use the midpoint circle while it is
// no longer than the image's own perimeter.
func drawRing(img *image.RGBA, cx, cy, r float64, col color.Color, thick int) {
	half := float64(thick) / 2
	outer := r + half
	b := newBrush(img, col, floatRect(cx-outer, cy-outer, cx+outer, cy+outer))
	if b == nil {
		return
	}
	defer b.flush()
	bounds := img.Bounds()
	if thick <= 1 && r <= float64(bounds.Dx()+bounds.Dy()) {
		b.circleThin(int(math.Round(cx)), int(math.Round(cy)), int(math.Round(r)))
		return
	}
	half = math.Max(half, 0.5)
	for py := b.clip.Min.Y; py < b.clip.Max.Y; py++ {
		for px := b.clip.Min.X; px < b.clip.Max.X; px++ {
			d := math.Hypot(float64(px)-cx, float64(py)-cy)
			if math.Abs(d-r) <= half {
				b.plot(px, py)
			}
		}
	}
}

func drawFilledCircle(img *image.RGBA, cx, cy float64, r int, col color.Color) {
	rf := float64(r)
	b := newBrush(img, col, floatRect(cx-rf, cy-rf, cx+rf, cy+rf))
	if b == nil {
		return
	}
	p := geometry.Pt(cx, cy).Image()
	b.disc(p.X, p.Y, r)
	b.flush()
}

// drawRect outlines box, whose Max corner is inclusive. The four edges
// share one brush so corners are painted once.
func drawRect(img *image.RGBA, box geometry.Box, col color.Color, thick int) {
	b := newBrush(img, col, segmentArea(box.Min, box.Max, thick))
	if b == nil {
		return
	}
	tl, br := box.Min, box.Max
	tr, bl := geometry.Pt(br.X, tl.Y), geometry.Pt(tl.X, br.Y)
	b.line(tl, tr, thick)
	b.line(tr, br, thick)
	b.line(br, bl, thick)
	b.line(bl, tl, thick)
	b.flush()
}

// thickness converts a stroke width to whole pixels, never below one.
func thickness(w float64) int {
	t := int(math.Round(w))
	if t < 1 {
		return 1
	}
	return t
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
