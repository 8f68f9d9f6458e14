package surface

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"github.com/example/whiteboard/internal/geometry"
)

// Raster is a Surface backed by an in-memory image.RGBA. With antialias
// set strokes go through rasterx; otherwise they are hard-edged pixels.
type Raster struct {
	img       *image.RGBA
	antialias bool
}

var _ Surface = (*Raster)(nil)

// NewRaster allocates a w by h transparent frame.
func NewRaster(w, h int, antialias bool) *Raster {
	r := &Raster{antialias: antialias}
	r.Resize(w, h)
	return r
}

func (r *Raster) Size() image.Point { return r.img.Bounds().Size() }

func (r *Raster) Resize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	r.img = image.NewRGBA(image.Rect(0, 0, w, h))
}

func (r *Raster) Fill(c color.Color) {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

func (r *Raster) empty() bool { return r.img.Bounds().Empty() }

func (r *Raster) StrokeLine(a, b geometry.Point, st Style) {
	if r.empty() {
		return
	}
	if r.antialias {
		d := r.dasher(st)
		d.Start(rasterx.ToFixedP(a.X, a.Y))
		d.Line(rasterx.ToFixedP(b.X, b.Y))
		d.Stop(false)
		d.Draw()
		return
	}
	drawLine(r.img, a, b, st.Color, thickness(st.Width))
}

func (r *Raster) StrokeRect(box geometry.Box, st Style) {
	if r.empty() {
		return
	}
	if r.antialias {
		d := r.dasher(st)
		rasterx.AddRect(box.Min.X, box.Min.Y, box.Max.X, box.Max.Y, 0, d)
		d.Draw()
		return
	}
	drawRect(r.img, box, st.Color, thickness(st.Width))
}

func (r *Raster) StrokeCircle(center geometry.Point, radius float64, st Style) {
	if r.empty() {
		return
	}
	if r.antialias {
		if radius <= 0 {
			return
		}
		d := r.dasher(st)
		rasterx.AddCircle(center.X, center.Y, radius, d)
		d.Draw()
		return
	}
	drawRing(r.img, center.X, center.Y, radius, st.Color, thickness(st.Width))
}

func (r *Raster) FillCircle(center geometry.Point, radius float64, c color.Color) {
	if r.empty() {
		return
	}
	if r.antialias {
		w, h := r.img.Bounds().Dx(), r.img.Bounds().Dy()
		f := rasterx.NewFiller(w, h, rasterx.NewScannerGV(w, h, r.img, r.img.Bounds()))
		rasterx.AddCircle(center.X, center.Y, radius, f)
		f.SetColor(c)
		f.Draw()
		return
	}
	drawFilledCircle(r.img, center.X, center.Y, satInt(math.Round(radius)), c)
}

func (r *Raster) Snapshot() *image.RGBA {
	out := image.NewRGBA(r.img.Bounds())
	copy(out.Pix, r.img.Pix)
	return out
}

func (r *Raster) Restore(img *image.RGBA) {
	src := packed(img)
	if src.Bounds() != r.img.Bounds() {
		r.img = image.NewRGBA(src.Bounds())
	}
	copy(r.img.Pix, src.Pix)
}

// dasher prepares a round-capped, round-joined stroker drawing onto the frame.
func (r *Raster) dasher(st Style) *rasterx.Dasher {
	w, h := r.img.Bounds().Dx(), r.img.Bounds().Dy()
	scanner := rasterx.NewScannerGV(w, h, r.img, r.img.Bounds())
	d := rasterx.NewDasher(w, h, scanner)
	d.SetStroke(fixed.Int26_6(st.Width*64), 4<<6, rasterx.RoundCap, nil, rasterx.RoundGap, rasterx.Round, nil, 0)
	d.SetColor(st.Color)
	return d
}
