package appstate

import (
	"context"
	"image"
	"log"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/whiteboard/internal/session"
	"github.com/example/whiteboard/internal/theme"
)

// AppState holds the window configuration.
type AppState struct {
	Session *session.Session
	Theme   *theme.Theme
	Title   string

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithTheme sets the chrome colours.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(a *AppState) { a.Title = title } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState driving sess.
func New(sess *session.Session, opts ...Option) *AppState {
	a := &AppState{Session: sess, Theme: theme.Default(), Title: appTitle}
	for _, o := range opts {
		o(a)
	}
	if a.Theme == nil {
		a.Theme = theme.Default()
	}
	return a
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

func (a *AppState) Main(s screen.Screen) {
	canvas := a.Session.Board().Size()
	if canvas.X == 0 || canvas.Y == 0 {
		canvas = image.Pt(1024, 768)
	}
	win := windowSize(canvas)
	width, height := win.X, win.Y
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: a.Title})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer a.notifyClose()

	ctl := newController(a.Session, width, height)

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()
	defer close(paintCh)

	stopPainting := func() {
		paintMu.Lock()
		if paintCancel != nil {
			paintCancel()
		}
		paintMu.Unlock()
	}

	// repaint once the status message expires
	var expiry *time.Timer
	defer func() {
		if expiry != nil {
			expiry.Stop()
		}
	}()
	scheduleExpiry := func() {
		if !ctl.messageVisible() {
			return
		}
		if expiry != nil {
			expiry.Stop()
		}
		expiry = time.AfterFunc(time.Until(ctl.messageUntil), func() { w.Send(paint.Event{}) })
	}

	for {
		e := w.NextEvent()
		switch e := e.(type) {
		case lifecycle.Event:
			if e.Crosses(lifecycle.StageFocused) == lifecycle.CrossOff {
				ctl.focusLost()
				w.Send(paint.Event{})
			}
			if e.To == lifecycle.StageDead {
				ctl.focusLost()
				stopPainting()
				return
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			ctl.resize(width, height)
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := ctl.paintState(a.Theme)
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			if ctl.mouse(e) {
				scheduleExpiry()
				w.Send(paint.Event{})
			}
		case key.Event:
			repaint := ctl.key(e)
			if ctl.quit {
				stopPainting()
				return
			}
			if repaint {
				scheduleExpiry()
				w.Send(paint.Event{})
			}
		}
	}
}
