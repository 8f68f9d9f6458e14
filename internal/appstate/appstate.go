// Package appstate hosts the whiteboard in a native window.
package appstate

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/example/whiteboard/internal/board"
	"github.com/example/whiteboard/internal/render"
	"github.com/example/whiteboard/internal/theme"
)

const appTitle = "Whiteboard"

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

var messageFace font.Face

func init() {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	messageFace, err = opentype.NewFace(f, &opentype.FaceOptions{Size: 24, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Fatalf("font face: %v", err)
	}
}

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

func fill(dst *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, &image.Uniform{c}, image.Point{}, draw.Src)
}

// outline draws a border of the given thickness just inside r.
func outline(dst *image.RGBA, r image.Rectangle, c color.Color, thick int) {
	fill(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thick), c)
	fill(dst, image.Rect(r.Min.X, r.Max.Y-thick, r.Max.X, r.Max.Y), c)
	fill(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+thick, r.Max.Y), c)
	fill(dst, image.Rect(r.Max.X-thick, r.Min.Y, r.Max.X, r.Max.Y), c)
}

func label(dst *image.RGBA, text string, x, y int, c color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: basicfont.Face7x13, Dot: fixed.P(x, y)}
	d.DrawString(text)
}

// drawButton renders a labelled button in the theme colours.
func drawButton(dst *image.RGBA, th *theme.Theme, r image.Rectangle, text string, state ButtonState) {
	bg, fg := th.ButtonBackground, th.ButtonText
	switch state {
	case StateHover:
		bg = th.ButtonBackgroundHover
	case StatePressed:
		bg, fg = th.ButtonBackgroundActive, th.ButtonTextActive
	}
	fill(dst, r, bg)
	outline(dst, r, th.ButtonBorder, 1)
	label(dst, text, r.Min.X+4, r.Min.Y+(r.Dy()+10)/2, fg)
}

func stateFor(selected, hovered bool) ButtonState {
	switch {
	case selected:
		return StatePressed
	case hovered:
		return StateHover
	}
	return StateDefault
}

// paintState is everything drawFrame needs, copied off the event loop.
type paintState struct {
	layout       layout
	theme        *theme.Theme
	frame        *image.RGBA
	shadow       render.Shadow
	tool         board.Tool
	ink          color.Color
	width        int
	scale        float64
	hover        hit
	canUndo      bool
	message      string
	messageUntil time.Time
}

func (c *controller) paintState(th *theme.Theme) paintState {
	b := c.sess.Board()
	return paintState{
		layout:       c.layout,
		theme:        th,
		frame:        b.Frame(),
		shadow:       c.shadow,
		tool:         b.Tool(),
		ink:          b.Color(),
		width:        b.Width(),
		scale:        b.Scale(),
		hover:        c.hover,
		canUndo:      b.CanUndo(),
		message:      c.message,
		messageUntil: c.messageUntil,
	}
}

func drawTopBar(dst *image.RGBA, st paintState) {
	th := st.theme
	fill(dst, image.Rect(0, 0, st.layout.width, topHeight), th.ToolbarBackground)
	label(dst, appTitle, 4, 16, th.ToolbarText)
	for i, h := range st.layout.actions {
		state := stateFor(false, st.hover.region == regionAction && st.hover.index == i)
		drawButton(dst, th, h.rect, actionButtons[i].label, state)
		if actionButtons[i].name == "undo" && !st.canUndo {
			draw.Draw(dst, h.rect, &image.Uniform{color.RGBA{255, 255, 255, 120}}, image.Point{}, draw.Over)
		}
	}
}

func drawToolbar(dst *image.RGBA, st paintState) {
	th := st.theme
	l := st.layout
	fill(dst, image.Rect(0, topHeight, l.toolbar, l.height-bottomHeight), th.ToolbarBackground)

	tools := board.Tools()
	for i, h := range l.tools {
		hovered := st.hover.region == regionTool && st.hover.index == i
		drawButton(dst, th, h.rect, toolLabels[tools[i]], stateFor(tools[i] == st.tool, hovered))
	}

	colors := board.PaletteColors()
	ink := color.RGBAModel.Convert(st.ink)
	for i, h := range l.swatches {
		if i >= len(colors) {
			break
		}
		fill(dst, h.rect, colors[i].Color)
		outline(dst, h.rect, th.ButtonBorder, 1)
		if st.hover.region == regionSwatch && st.hover.index == i {
			draw.Draw(dst, h.rect, &image.Uniform{color.RGBA{255, 255, 255, 80}}, image.Point{}, draw.Over)
		}
		if colors[i].Color == ink {
			outline(dst, h.rect.Inset(-2), th.ButtonBackgroundActive, 2)
		}
	}

	for i, h := range l.widths {
		w := board.Widths()[i]
		hovered := st.hover.region == regionWidth && st.hover.index == i
		state := stateFor(w == st.width, hovered)
		drawButton(dst, th, h.rect, fmt.Sprintf("%d", w), state)
		thick := w
		if thick > h.rect.Dy()-4 {
			thick = h.rect.Dy() - 4
		}
		mid := h.rect.Min.Y + h.rect.Dy()/2
		fill(dst, image.Rect(h.rect.Min.X+24, mid-thick/2, h.rect.Max.X-4, mid-thick/2+thick), st.ink)
	}
}

func drawStatus(dst *image.RGBA, st paintState) {
	th := st.theme
	l := st.layout
	r := image.Rect(0, l.height-bottomHeight, l.width, l.height)
	fill(dst, r, th.ToolbarBackground)
	name := board.HexColor(st.ink)
	for _, p := range board.PaletteColors() {
		if color.RGBAModel.Convert(st.ink) == p.Color {
			name = p.Name
			break
		}
	}
	text := fmt.Sprintf("%s  %s  width %d", st.tool, name, st.width)
	if st.scale != 1 {
		text += fmt.Sprintf(" x%g", st.scale)
	}
	text += "   [ ]:width  P R E U:tools"
	label(dst, text, 4, r.Min.Y+16, th.Foreground)
}

func drawMessage(dst *image.RGBA, st paintState) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(st.theme.Foreground), Face: messageFace}
	wmsg := d.MeasureString(st.message).Ceil()
	ascent := messageFace.Metrics().Ascent.Ceil()
	descent := messageFace.Metrics().Descent.Ceil()
	c := st.layout.canvas
	px := c.Min.X + (c.Dx()-wmsg)/2
	py := c.Max.Y - descent - 16
	rect := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
	bg := st.theme.Background
	draw.Draw(dst, rect, &image.Uniform{color.NRGBA{bg.R, bg.G, bg.B, 230}}, image.Point{}, draw.Over)
	outline(dst, rect, st.theme.ButtonBorder, 2)
	d.Dot = fixed.P(px, py)
	d.DrawString(st.message)
}

// compose draws a complete window image. It returns early when ctx is
// cancelled by a newer frame.
func compose(ctx context.Context, dst *image.RGBA, st paintState) bool {
	fill(dst, dst.Bounds(), st.theme.Background)
	st.shadow.DrawUnder(dst, st.layout.canvas.Min)
	if st.frame != nil {
		draw.Draw(dst, st.layout.canvas, st.frame, image.Point{}, draw.Src)
	}
	if ctx.Err() != nil {
		return false
	}
	drawTopBar(dst, st)
	drawToolbar(dst, st)
	drawStatus(dst, st)
	if ctx.Err() != nil {
		return false
	}
	if st.message != "" && time.Now().Before(st.messageUntil) {
		drawMessage(dst, st)
	}
	return ctx.Err() == nil
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	b, err := s.NewBuffer(image.Point{st.layout.width, st.layout.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()
	if !compose(ctx, b.RGBA(), st) {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
