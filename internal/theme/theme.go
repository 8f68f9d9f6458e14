// Package theme describes the window chrome, the canvas background and
// the ink palette.
package theme

import (
	"embed"
	"image/color"
)

// EmbeddedThemes holds the themes shipped with the binary.
//
//go:embed defaults/*.theme
var EmbeddedThemes embed.FS

// Swatch is a named palette entry.
type Swatch struct {
	Name  string
	Color color.RGBA
}

// Theme defines the colours used by the window host.
type Theme struct {
	Name string

	// General
	Background color.RGBA // Window background around the canvas
	Foreground color.RGBA // Status line text

	// Toolbar
	ToolbarBackground color.RGBA
	ToolbarText       color.RGBA

	// Buttons
	ButtonBackground       color.RGBA
	ButtonBackgroundHover  color.RGBA
	ButtonBackgroundActive color.RGBA
	ButtonText             color.RGBA
	ButtonTextActive       color.RGBA
	ButtonBorder           color.RGBA

	// Canvas is the blank board colour.
	Canvas color.RGBA

	// Palette replaces the ink swatches when non-empty.
	Palette []Swatch
}

// Default returns the hardcoded light theme (fallback).
func Default() *Theme {
	return &Theme{
		Name:                   "light",
		Background:             color.RGBA{243, 244, 246, 255},
		Foreground:             color.RGBA{17, 24, 39, 255},
		ToolbarBackground:      color.RGBA{229, 231, 235, 255},
		ToolbarText:            color.RGBA{17, 24, 39, 255},
		ButtonBackground:       color.RGBA{255, 255, 255, 255},
		ButtonBackgroundHover:  color.RGBA{209, 213, 219, 255},
		ButtonBackgroundActive: color.RGBA{17, 24, 39, 255},
		ButtonText:             color.RGBA{17, 24, 39, 255},
		ButtonTextActive:       color.RGBA{255, 255, 255, 255},
		ButtonBorder:           color.RGBA{156, 163, 175, 255},
		Canvas:                 color.RGBA{255, 255, 255, 255},
	}
}

// Clone returns a deep copy of t.
func (t *Theme) Clone() *Theme {
	c := *t
	c.Palette = append([]Swatch(nil), t.Palette...)
	return &c
}
