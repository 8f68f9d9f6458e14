package appstate

import (
	"image"
	"log"
	"time"
	"unicode"

	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"

	"github.com/example/whiteboard/internal/board"
	"github.com/example/whiteboard/internal/notify"
	"github.com/example/whiteboard/internal/render"
	"github.com/example/whiteboard/internal/session"
)

const messageDuration = 2 * time.Second

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// controller turns window events into board operations. It runs on the
// window event goroutine only.
type controller struct {
	sess       *session.Session
	layout     layout
	hover      hit
	shadow     render.Shadow
	shadowSize image.Point

	message      string
	messageUntil time.Time
	now          func() time.Time

	quit bool

	actions        map[string]func()
	keyboardAction map[KeyShortcut]string
}

func newController(sess *session.Session, width, height int) *controller {
	c := &controller{
		sess:           sess,
		hover:          noHit,
		now:            time.Now,
		actions:        map[string]func(){},
		keyboardAction: map[KeyShortcut]string{},
	}
	c.register("undo", shortcutList{{Rune: 'z', Modifiers: key.ModControl}}, func() {
		n, _ := c.sess.Undo()
		c.show(n)
	})
	c.register("save", shortcutList{{Rune: 's', Modifiers: key.ModControl}}, func() {
		n, err := c.sess.Save()
		if err != nil {
			log.Printf("save: %v", err)
		}
		c.show(n)
	})
	c.register("copy", shortcutList{{Rune: 'c', Modifiers: key.ModControl}}, func() {
		n, err := c.sess.Copy()
		if err != nil {
			log.Printf("copy: %v", err)
		}
		c.show(n)
	})
	c.register("clear", shortcutList{{Rune: -1, Code: key.CodeDeleteForward}}, func() {
		c.show(c.sess.Clear())
	})
	c.register("quit", shortcutList{{Rune: 'q'}}, func() {
		c.sess.Board().PointerLeave()
		c.quit = true
	})
	c.resize(width, height)
	return c
}

func (c *controller) register(name string, keys KeyboardShortcuts, fn func()) {
	c.actions[name] = fn
	if keys != nil {
		for _, sc := range keys.KeyboardShortcuts() {
			c.keyboardAction[sc] = name
		}
	}
}

func (c *controller) trigger(name string) {
	if fn, ok := c.actions[name]; ok {
		fn()
	}
}

func (c *controller) show(n notify.Notice) {
	if n.Title == "" {
		return
	}
	c.message = n.String()
	c.messageUntil = c.now().Add(messageDuration)
}

// messageVisible reports whether the status message should be drawn.
func (c *controller) messageVisible() bool {
	return c.message != "" && c.now().Before(c.messageUntil)
}

// resize lays the chrome out for a new window size and matches the board
// to the canvas. The board is only reallocated when the canvas size changed.
func (c *controller) resize(width, height int) {
	c.layout = newLayout(width, height, len(board.PaletteColors()), board.Widths())
	if size := c.layout.canvas.Size(); c.shadow.Empty() || c.shadowSize != size {
		c.shadow = render.NewShadow(size, render.DefaultShadowOptions())
		c.shadowSize = size
	}
	b := c.sess.Board()
	b.SetOffset(c.layout.canvas.Min)
	size := c.layout.canvas.Size()
	if b.Ready() && b.Size() != size {
		c.sess.Resize(size.X, size.Y)
	}
}

// focusLost commits any gesture in progress.
func (c *controller) focusLost() {
	c.sess.Board().PointerLeave()
}

// mouse handles a pointer event and reports whether a repaint is needed.
func (c *controller) mouse(e mouse.Event) bool {
	b := c.sess.Board()
	p := image.Pt(int(e.X), int(e.Y))
	h := c.layout.at(p)
	x, y := float64(e.X), float64(e.Y)

	if b.Gesturing() {
		switch {
		case e.Direction == mouse.DirRelease && e.Button == mouse.ButtonLeft:
			b.PointerUp()
		case h.region != regionCanvas:
			b.PointerLeave()
		case e.Direction == mouse.DirNone:
			b.PointerMove(x, y)
		}
		return true
	}

	repaint := false
	if e.Direction == mouse.DirNone {
		if h.region != c.hover.region || h.index != c.hover.index {
			c.hover = h
			repaint = true
		}
		return repaint
	}
	if e.Button != mouse.ButtonLeft || e.Direction != mouse.DirPress {
		return false
	}
	if c.messageVisible() {
		c.messageUntil = time.Time{}
		repaint = true
	}

	switch h.region {
	case regionCanvas:
		b.PointerDown(x, y)
	case regionTool:
		b.SetTool(board.Tools()[h.index])
	case regionSwatch:
		if colors := board.PaletteColors(); h.index < len(colors) {
			b.SetColor(colors[h.index].Color)
		}
	case regionWidth:
		if widths := board.Widths(); h.index < len(widths) {
			b.SetWidth(widths[h.index])
		}
	case regionAction:
		c.trigger(actionButtons[h.index].name)
	default:
		return repaint
	}
	return true
}

// key handles a key press and reports whether a repaint is needed.
func (c *controller) key(e key.Event) bool {
	if e.Direction != key.DirPress {
		return false
	}
	ks := KeyShortcut{Rune: unicode.ToLower(e.Rune), Code: e.Code, Modifiers: e.Modifiers}
	if e.Rune > 0 {
		ks.Code = 0
	}
	if name, ok := c.keyboardAction[ks]; ok {
		c.trigger(name)
		return true
	}
	if e.Modifiers&key.ModControl != 0 {
		return false
	}
	b := c.sess.Board()
	switch unicode.ToLower(e.Rune) {
	case 'p':
		b.SetTool(board.ToolPen)
	case 'r':
		b.SetTool(board.ToolRectangle)
	case 'e':
		b.SetTool(board.ToolEllipse)
	case 'u':
		b.SetTool(board.ToolRuler)
	case '[':
		b.SetWidth(stepWidth(b.Width(), -1))
	case ']':
		b.SetWidth(stepWidth(b.Width(), 1))
	default:
		return false
	}
	return true
}

// stepWidth moves to the neighbouring preset width.
func stepWidth(current, dir int) int {
	widths := board.Widths()
	if dir > 0 {
		for _, w := range widths {
			if w > current {
				return w
			}
		}
		return widths[len(widths)-1]
	}
	for i := len(widths) - 1; i >= 0; i-- {
		if widths[i] < current {
			return widths[i]
		}
	}
	return widths[0]
}
