// Package render holds raster effects used by the window chrome.
package render

import (
	"image"
	"image/color"
	"image/draw"
)

// ShadowOptions configures the drop shadow cast by the canvas.
type ShadowOptions struct {
	Radius  int
	Offset  image.Point
	Opacity float64
}

// DefaultShadowOptions is a soft shadow sized for window chrome.
func DefaultShadowOptions() ShadowOptions {
	return ShadowOptions{Radius: 6, Offset: image.Pt(3, 3), Opacity: 0.35}
}

// Shadow is a pre-rendered shadow for a rectangle of a fixed size.
type Shadow struct {
	// Image holds only the shadow, transparent elsewhere.
	Image *image.RGBA
	// Origin is where the rectangle's top-left corner sits inside Image.
	Origin image.Point
}

// Empty reports whether there is nothing to draw.
func (s Shadow) Empty() bool { return s.Image == nil }

// DrawUnder composites the shadow so that it falls beneath a rectangle whose
// top-left corner is at. Draw the rectangle itself afterwards.
func (s Shadow) DrawUnder(dst draw.Image, at image.Point) {
	if s.Empty() {
		return
	}
	r := s.Image.Bounds().Add(at.Sub(s.Origin))
	draw.Draw(dst, r, s.Image, image.Point{}, draw.Over)
}

// NewShadow renders the shadow of an opaque rectangle of the given size.
func NewShadow(size image.Point, opts ShadowOptions) Shadow {
	if size.X <= 0 || size.Y <= 0 || opts.Opacity <= 0 {
		return Shadow{}
	}
	opacity := opts.Opacity
	if opacity > 1 {
		opacity = 1
	}
	radius := opts.Radius
	if radius < 0 {
		radius = 0
	}

	rect := image.Rectangle{Max: size}
	padded := rect.Inset(-radius)
	cast := padded.Add(opts.Offset)
	bounds := rect.Union(cast)

	mask := image.NewGray(padded.Sub(padded.Min))
	draw.Draw(mask, rect.Sub(padded.Min), image.NewUniform(color.Gray{Y: 255}), image.Point{}, draw.Src)
	blurred := blurGray(mask, radius)

	dst := image.NewRGBA(bounds.Sub(bounds.Min))
	alpha := uint8(opacity*255 + 0.5)
	draw.DrawMask(dst, blurred.Bounds().Add(cast.Min.Sub(bounds.Min)),
		image.NewUniform(color.RGBA{0, 0, 0, alpha}), image.Point{}, blurred, image.Point{}, draw.Over)
	return Shadow{Image: dst, Origin: rect.Min.Sub(bounds.Min)}
}

// blurGray is a separable box blur built on running sums.
func blurGray(src *image.Gray, radius int) *image.Gray {
	bounds := src.Bounds()
	if radius <= 0 {
		out := image.NewGray(bounds)
		copy(out.Pix, src.Pix)
		return out
	}
	w, h := bounds.Dx(), bounds.Dy()
	tmp := image.NewGray(bounds)
	dst := image.NewGray(bounds)

	prefix := make([]int, max(w, h)+1)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < w; x++ {
			prefix[x+1] = prefix[x] + int(row[x])
		}
		for x := 0; x < w; x++ {
			x0, x1 := max(x-radius, 0), min(x+radius, w-1)
			tmp.Pix[y*tmp.Stride+x] = uint8((prefix[x1+1] - prefix[x0]) / (x1 - x0 + 1))
		}
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			prefix[y+1] = prefix[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			y0, y1 := max(y-radius, 0), min(y+radius, h-1)
			dst.Pix[y*dst.Stride+x] = uint8((prefix[y1+1] - prefix[y0]) / (y1 - y0 + 1))
		}
	}
	return dst
}
