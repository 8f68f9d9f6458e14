// Package surface provides the pixel surfaces the board draws on.
package surface

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/example/whiteboard/internal/geometry"
)

// Style is the colour and width applied to a stroke. Width is in pixels
// after any display scaling.
type Style struct {
	Color color.Color
	Width float64
}

// Surface is a 2-D pixel target. Strokes use round caps and joins.
type Surface interface {
	Size() image.Point
	// Resize reallocates the frame. Pixel content is undefined until Fill.
	Resize(w, h int)
	Fill(c color.Color)
	StrokeLine(a, b geometry.Point, st Style)
	StrokeRect(box geometry.Box, st Style)
	StrokeCircle(center geometry.Point, r float64, st Style)
	FillCircle(center geometry.Point, r float64, c color.Color)
	// Snapshot reads the whole frame into a fresh image.
	Snapshot() *image.RGBA
	// Restore writes img over the whole frame, adopting its size.
	Restore(img *image.RGBA)
}

// Backend names a Surface implementation.
type Backend string

const (
	BackendRaster Backend = "raster"
	BackendGG     Backend = "gg"
)

// Backends lists the selectable implementations.
func Backends() []Backend { return []Backend{BackendRaster, BackendGG} }

// New builds a surface of the named backend. Antialias only affects the
// raster backend; gg always antialiases.
func New(backend string, w, h int, antialias bool) (Surface, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(backend))) {
	case BackendRaster, "":
		return NewRaster(w, h, antialias), nil
	case BackendGG:
		return NewGG(w, h), nil
	default:
		return nil, fmt.Errorf("unknown surface backend %q", backend)
	}
}

func packed(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	if b.Min == (image.Point{}) && img.Stride == 4*b.Dx() {
		return img
	}
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		copy(out.Pix[y*out.Stride:(y+1)*out.Stride], src[:4*b.Dx()])
	}
	return out
}
