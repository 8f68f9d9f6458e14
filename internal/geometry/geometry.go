// Package geometry holds the pure point math used by the drawing tools.
package geometry

import (
	"image"
	"math"
)

// Point is a surface-local position in pixels.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// FromImage converts an integer image point.
func FromImage(p image.Point) Point { return Point{X: float64(p.X), Y: float64(p.Y)} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Mul scales p by k.
func (p Point) Mul(k float64) Point { return Point{p.X * k, p.Y * k} }

// Image rounds p to the nearest pixel.
func (p Point) Image() image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}

// Distance is the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Angle is the direction of b seen from a, in radians.
func Angle(a, b Point) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

// Lerp returns a + t*(b-a).
func Lerp(a, b Point, t float64) Point {
	return a.Add(b.Sub(a).Mul(t))
}

// Ticks returns the n+1 evenly spaced points from a to b inclusive.
// Tick k sits at a + (k/n)*(b-a). A non-positive n yields just the endpoints.
func Ticks(a, b Point, n int) []Point {
	if n <= 0 {
		return []Point{a, b}
	}
	length := Distance(a, b)
	angle := Angle(a, b)
	step := length / float64(n)
	ticks := make([]Point, 0, n+1)
	for k := 0; k <= n; k++ {
		if k == n {
			// land exactly on the endpoint
			ticks = append(ticks, b)
			continue
		}
		d := step * float64(k)
		ticks = append(ticks, Point{
			X: a.X + d*math.Cos(angle),
			Y: a.Y + d*math.Sin(angle),
		})
	}
	return ticks
}

// Box is an axis-aligned rectangle with Min <= Max on both axes.
type Box struct {
	Min, Max Point
}

// Span normalises the box between two corners, in any order.
func Span(a, b Point) Box {
	return Box{
		Min: Point{math.Min(a.X, b.X), math.Min(a.Y, b.Y)},
		Max: Point{math.Max(a.X, b.X), math.Max(a.Y, b.Y)},
	}
}

// Dx is the box width.
func (b Box) Dx() float64 { return b.Max.X - b.Min.X }

// Dy is the box height.
func (b Box) Dy() float64 { return b.Max.Y - b.Min.Y }
