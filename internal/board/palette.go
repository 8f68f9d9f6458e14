package board

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/image/colornames"
)

// Brush width bounds, in unscaled units.
const (
	MinWidth     = 1
	MaxWidth     = 20
	DefaultWidth = 5
)

// DefaultRulerTicks is the number of intervals a ruler is divided into.
const DefaultRulerTicks = 10

// TickRadius is the radius of a ruler tick dot.
const TickRadius = 2

// Background is the blank canvas colour.
var Background = color.RGBA{255, 255, 255, 255}

type PaletteColor struct {
	Name  string
	Color color.RGBA
}

var (
	paletteMu sync.RWMutex
	palette   = []PaletteColor{
		{"Black", color.RGBA{0x00, 0x00, 0x00, 0xff}},
		{"Red", color.RGBA{0xff, 0x00, 0x00, 0xff}},
		{"Blue", color.RGBA{0x00, 0x00, 0xff, 0xff}},
		{"Green", color.RGBA{0x00, 0x80, 0x00, 0xff}},
		{"Orange", color.RGBA{0xff, 0xa5, 0x00, 0xff}},
		{"Purple", color.RGBA{0x80, 0x00, 0x80, 0xff}},
		{"Pink", color.RGBA{0xff, 0x69, 0xb4, 0xff}},
		{"Brown", color.RGBA{0xa5, 0x2a, 0x2a, 0xff}},
		{"White", color.RGBA{0xff, 0xff, 0xff, 0xff}},
	}
)

// DefaultColor is the ink selected on start up.
func DefaultColor() color.RGBA { return PaletteColors()[0].Color }

// PaletteColors returns a copy of the named palette.
func PaletteColors() []PaletteColor {
	paletteMu.RLock()
	defer paletteMu.RUnlock()
	out := make([]PaletteColor, len(palette))
	copy(out, palette)
	return out
}

// SetPalette replaces the palette, typically from a theme. Empty input is
// ignored.
func SetPalette(colors []PaletteColor) {
	if len(colors) == 0 {
		return
	}
	paletteMu.Lock()
	defer paletteMu.Unlock()
	palette = append([]PaletteColor(nil), colors...)
}

// EnsurePaletteColor returns the palette index of col, appending it under
// name when missing.
func EnsurePaletteColor(col color.RGBA, name string) int {
	paletteMu.Lock()
	defer paletteMu.Unlock()
	for i, p := range palette {
		if p.Color == col {
			return i
		}
	}
	if name == "" {
		name = HexColor(col)
	}
	palette = append(palette, PaletteColor{Name: name, Color: col})
	return len(palette) - 1
}

// Widths lists the brush widths offered by pickers.
func Widths() []int { return []int{1, 2, 3, 5, 8, 12, 16, 20} }

// ClampWidth keeps w inside [MinWidth, MaxWidth].
func ClampWidth(w int) int {
	if w < MinWidth {
		return MinWidth
	}
	if w > MaxWidth {
		return MaxWidth
	}
	return w
}

// ParseColor accepts a palette name, an SVG colour name, or #RRGGBB and
// #RRGGBBAA hex values. Hex alpha is straight; the result is premultiplied.
func ParseColor(s string) (color.RGBA, error) {
	spec := strings.ToLower(strings.TrimSpace(s))
	if spec == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	for _, entry := range PaletteColors() {
		if strings.EqualFold(entry.Name, spec) {
			return entry.Color, nil
		}
	}
	if c, ok := colornames.Map[spec]; ok {
		return c, nil
	}
	if strings.HasPrefix(spec, "#") && (len(spec) == 7 || len(spec) == 9) {
		v, err := strconv.ParseUint(spec[1:], 16, 32)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q", s)
		}
		if len(spec) == 7 {
			return color.RGBA{uint8(v >> 16), uint8(v >> 8), uint8(v), 0xff}, nil
		}
		n := color.NRGBA{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}
		return color.RGBAModel.Convert(n).(color.RGBA), nil
	}
	return color.RGBA{}, fmt.Errorf("invalid color %q", s)
}

// HexColor formats c as #RRGGBB, or #RRGGBBAA when not opaque.
func HexColor(c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0xff {
		return fmt.Sprintf("#%02X%02X%02X", n.R, n.G, n.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", n.R, n.G, n.B, n.A)
}
