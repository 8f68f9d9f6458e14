package appstate

import (
	"image"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/example/whiteboard/internal/board"
)

const (
	topHeight    = 24
	bottomHeight = 24
	toolHeight   = 24
	widthHeight  = 16
	swatchSize   = 16
	swatchStep   = 18
)

type region int

const (
	regionNone region = iota
	regionTool
	regionSwatch
	regionWidth
	regionAction
	regionCanvas
)

// hit identifies the control under a point. index selects the tool,
// swatch, width or action.
type hit struct {
	region region
	index  int
	rect   image.Rectangle
}

var noHit = hit{region: regionNone, index: -1}

// action is a top bar button.
type action struct {
	name  string
	label string
}

var actionButtons = []action{
	{"undo", "^Z:Undo"},
	{"clear", "Del:Clear"},
	{"save", "^S:Save"},
	{"copy", "^C:Copy"},
	{"quit", "Q:Quit"},
}

var toolLabels = map[board.Tool]string{
	board.ToolPen:       "P:Pen",
	board.ToolRectangle: "R:Rect",
	board.ToolEllipse:   "E:Circle",
	board.ToolRuler:     "U:Ruler",
}

// toolbarWidth fits the title and every tool label.
func toolbarWidth() int {
	d := &font.Drawer{Face: basicfont.Face7x13}
	w := d.MeasureString(appTitle).Ceil() + 8
	for _, lbl := range toolLabels {
		if lw := d.MeasureString(lbl).Ceil() + 8; lw > w {
			w = lw
		}
	}
	if w < 4*swatchStep+4 {
		w = 4*swatchStep + 4
	}
	return w
}

// layout places the chrome around the canvas for one window size.
type layout struct {
	width, height int
	toolbar       int
	tools         []hit
	swatches      []hit
	widths        []hit
	actions       []hit
	canvas        image.Rectangle
}

func newLayout(width, height, swatches int, widths []int) layout {
	tw := toolbarWidth()
	l := layout{width: width, height: height, toolbar: tw}

	y := topHeight
	for i := range board.Tools() {
		l.tools = append(l.tools, hit{regionTool, i, image.Rect(0, y, tw, y+toolHeight)})
		y += toolHeight
	}

	y += 4
	x := 4
	for i := 0; i < swatches; i++ {
		l.swatches = append(l.swatches, hit{regionSwatch, i, image.Rect(x, y, x+swatchSize, y+swatchSize)})
		x += swatchStep
		if x+swatchSize > tw {
			x = 4
			y += swatchStep
		}
	}
	if x != 4 {
		y += swatchStep
	}

	y += 4
	for i := range widths {
		l.widths = append(l.widths, hit{regionWidth, i, image.Rect(0, y, tw, y+widthHeight)})
		y += widthHeight
	}

	d := &font.Drawer{Face: basicfont.Face7x13}
	x = tw
	for i, a := range actionButtons {
		w := d.MeasureString(a.label).Ceil() + 8
		l.actions = append(l.actions, hit{regionAction, i, image.Rect(x, 0, x+w, topHeight)})
		x += w
	}

	l.canvas = image.Rect(tw, topHeight, width, height-bottomHeight)
	if l.canvas.Dx() <= 0 || l.canvas.Dy() <= 0 {
		l.canvas = image.Rectangle{Min: l.canvas.Min, Max: l.canvas.Min}
	}
	return l
}

// windowSize is the window needed to show a canvas of the given size.
func windowSize(canvas image.Point) image.Point {
	return image.Pt(canvas.X+toolbarWidth(), canvas.Y+topHeight+bottomHeight)
}

// at returns the control under p.
func (l layout) at(p image.Point) hit {
	for _, group := range [][]hit{l.actions, l.tools, l.swatches, l.widths} {
		for _, h := range group {
			if p.In(h.rect) {
				return h
			}
		}
	}
	if p.In(l.canvas) {
		return hit{region: regionCanvas, index: -1, rect: l.canvas}
	}
	return noHit
}
