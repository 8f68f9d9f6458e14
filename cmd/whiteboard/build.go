package main

import (
	"fmt"

	"github.com/example/whiteboard/internal/board"
	"github.com/example/whiteboard/internal/export"
	"github.com/example/whiteboard/internal/notify"
	"github.com/example/whiteboard/internal/session"
	"github.com/example/whiteboard/internal/surface"
	"github.com/example/whiteboard/internal/theme"
)

// sessionOptions tweaks the session built from the configuration.
type sessionOptions struct {
	width, height int
	exportDir     string
	extra         []session.Option
}

// applyPalette makes the theme swatches the ink palette.
func applyPalette(t *theme.Theme) {
	if t == nil || len(t.Palette) == 0 {
		return
	}
	colors := make([]board.PaletteColor, len(t.Palette))
	for i, s := range t.Palette {
		colors[i] = board.PaletteColor{Name: s.Name, Color: s.Color}
	}
	board.SetPalette(colors)
}

// announced maps the notify flags to session events.
func (r *root) announced() map[notify.Event]bool {
	return map[notify.Event]bool{
		notify.EventSave:      r.saveAlerts,
		notify.EventClear:     r.clearAlerts,
		notify.EventUndo:      r.undoAlerts,
		notify.EventUndoEmpty: r.undoAlerts,
		notify.EventCopy:      r.copyAlerts,
	}
}

func (r *root) sink() notify.Sink {
	sinks := notify.Multi{notify.Log}
	if r.desktop {
		n := notify.New(notify.DefaultPreferences())
		for _, e := range notify.Events() {
			n.Enable(e, true)
		}
		sinks = append(sinks, n)
	}
	return sinks
}

// newSession builds the board, its surface and the session around it.
// A zero width or height leaves the board without a surface.
func (r *root) newSession(o sessionOptions) (*session.Session, error) {
	cfg := r.config
	t := r.activeTheme
	if t == nil {
		t = theme.Default()
	}
	applyPalette(t)

	ink, err := board.ParseColor(cfg.Board.Color)
	if err != nil {
		return nil, fmt.Errorf("board color: %w", err)
	}
	// a configured ink outside the theme still gets a swatch
	board.EnsurePaletteColor(ink, "")
	tool, err := board.ParseTool(cfg.Board.Tool)
	if err != nil {
		return nil, fmt.Errorf("board tool: %w", err)
	}
	format, err := export.ParseFormat(cfg.Export.Format)
	if err != nil {
		return nil, err
	}

	opts := []board.Option{
		board.WithBackground(t.Canvas),
		board.WithColor(ink),
		board.WithWidth(cfg.Board.BrushWidth),
		board.WithTool(tool),
		board.WithScale(cfg.Board.Scale),
		board.WithRulerTicks(cfg.Board.RulerTicks),
		board.WithHistoryLimit(cfg.Board.HistoryLimit),
	}
	w, h := cfg.Board.Width, cfg.Board.Height
	if o.width > 0 {
		w = o.width
	}
	if o.height > 0 {
		h = o.height
	}
	if w > 0 && h > 0 {
		renderer := r.renderer
		if renderer == "" {
			renderer = cfg.Renderer
		}
		surf, err := surface.New(renderer, w, h, cfg.Board.Antialias)
		if err != nil {
			return nil, err
		}
		opts = append(opts, board.WithSurface(surf))
	}

	dir := cfg.Export.Dir
	if o.exportDir != "" {
		dir = o.exportDir
	}
	sopts := append([]session.Option{
		session.WithFormat(format),
		session.WithSaveDelivery(export.Dir{Path: dir}),
		session.WithSink(r.sink()),
		session.WithAnnounce(r.announced()),
	}, o.extra...)
	return session.New(board.New(opts...), sopts...), nil
}
