// Package session binds a board to its export targets and notification
// sinks. Every host drives the board through a Session.
package session

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/whiteboard/internal/board"
	"github.com/example/whiteboard/internal/export"
	"github.com/example/whiteboard/internal/notify"
)

// Session is not safe for concurrent use. Hosts with more than one
// goroutine go through a Loop.
type Session struct {
	ID uuid.UUID

	board    *board.Board
	format   export.Format
	save     export.Delivery
	copy     export.Delivery
	sink     notify.Sink
	prefs    notify.Preferences
	announce map[notify.Event]bool
	now      func() time.Time
}

type Option func(*Session)

// WithFormat selects the encoding used by Save.
func WithFormat(f export.Format) Option { return func(s *Session) { s.format = f } }

// WithSaveDelivery sets where Save writes.
func WithSaveDelivery(d export.Delivery) Option { return func(s *Session) { s.save = d } }

// WithCopyDelivery sets where Copy publishes.
func WithCopyDelivery(d export.Delivery) Option { return func(s *Session) { s.copy = d } }

// WithSink sets the notification sink.
func WithSink(sink notify.Sink) Option { return func(s *Session) { s.sink = sink } }

// WithPreferences overrides the notification wording.
func WithPreferences(p notify.Preferences) Option { return func(s *Session) { s.prefs = p } }

// WithAnnounce restricts which events reach the sink. Failures are always
// announced.
func WithAnnounce(events map[notify.Event]bool) Option {
	return func(s *Session) { s.announce = events }
}

// WithClock replaces time.Now for export names.
func WithClock(now func() time.Time) Option { return func(s *Session) { s.now = now } }

// New wraps b.
func New(b *board.Board, opts ...Option) *Session {
	s := &Session{
		ID:     uuid.New(),
		board:  b,
		format: export.FormatPNG,
		save:   export.Dir{Path: "."},
		copy:   export.Clipboard{},
		sink:   notify.Log,
		prefs:  notify.DefaultPreferences(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	log.Printf("session %s started", s.ID)
	return s
}

// Board exposes the board for pointer input and style changes.
func (s *Session) Board() *board.Board { return s.board }

// Format is the encoding used by Save.
func (s *Session) Format() export.Format { return s.format }

func (s *Session) emit(event notify.Event, detail string, err error) notify.Notice {
	n := s.prefs.Notice(event, detail)
	n.Err = err
	return s.publish(n)
}

func (s *Session) publish(n notify.Notice) notify.Notice {
	if n.Err == nil && s.announce != nil && !s.announce[n.Event] {
		return n
	}
	if s.sink != nil {
		s.sink.Notify(n)
	}
	return n
}

// Undo restores the previous snapshot and announces the outcome.
func (s *Session) Undo() (notify.Notice, bool) {
	if !s.board.Ready() {
		return notify.Notice{}, false
	}
	if !s.board.Undo() {
		return s.emit(notify.EventUndoEmpty, "", nil), false
	}
	return s.emit(notify.EventUndo, "", nil), true
}

// Clear blanks the board as a new undoable step.
func (s *Session) Clear() notify.Notice {
	if !s.board.Ready() {
		return notify.Notice{}
	}
	s.board.Clear()
	return s.emit(notify.EventClear, "", nil)
}

// Resize reallocates the frame, discarding history.
func (s *Session) Resize(w, h int) {
	s.board.Resize(w, h)
}

// Save encodes the frame in the session format and delivers it. A board
// without a surface is a silent no-op.
func (s *Session) Save() (notify.Notice, error) {
	now := s.now()
	enc, err := export.EncoderFor(s.format, now)
	if err != nil {
		return s.emit(notify.EventSaveFailed, "", err), err
	}
	name, data, err := s.encode(enc, now)
	if errors.Is(err, board.ErrNotReady) {
		return notify.Notice{}, nil
	}
	if err == nil {
		err = s.save.Deliver(name, data)
	}
	if err != nil {
		err = fmt.Errorf("save: %w", err)
		return s.emit(notify.EventSaveFailed, "", err), err
	}
	n := s.prefs.Notice(notify.EventSave, strings.ToUpper(enc.Extension()))
	n.Path = name
	if t, ok := s.save.(interface{ Target(string) string }); ok {
		n.Path = t.Target(name)
	}
	return s.publish(n), nil
}

// Copy publishes the frame as PNG through the copy delivery.
func (s *Session) Copy() (notify.Notice, error) {
	name, data, err := s.encode(export.PNG{}, s.now())
	if errors.Is(err, board.ErrNotReady) {
		return notify.Notice{}, nil
	}
	if err == nil {
		err = s.copy.Deliver(name, data)
	}
	if err != nil {
		err = fmt.Errorf("copy: %w", err)
		return s.emit(notify.EventSaveFailed, "", err), err
	}
	return s.emit(notify.EventCopy, "PNG", nil), nil
}

// Export encodes the frame in format f without delivering it. The
// returned name is the suggested download filename.
func (s *Session) Export(f export.Format) (name string, enc export.Encoder, data []byte, err error) {
	now := s.now()
	enc, err = export.EncoderFor(f, now)
	if err != nil {
		return "", nil, nil, err
	}
	name, data, err = s.encode(enc, now)
	if err != nil {
		return "", nil, nil, err
	}
	return name, enc, data, nil
}

// WriteTo streams a PNG of the frame to w.
func (s *Session) WriteTo(w io.Writer) (int64, error) {
	_, data, err := s.encode(export.PNG{}, s.now())
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// encode exports the frame and names it for the instant now.
func (s *Session) encode(enc export.Encoder, now time.Time) (string, []byte, error) {
	data, err := s.board.Export(enc)
	if err != nil {
		return "", nil, err
	}
	return export.Filename(now, enc.Extension()), data, nil
}

// State is a serialisable view of the board.
type State struct {
	ID         string  `json:"id"`
	Ready      bool    `json:"ready"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Tool       string  `json:"tool"`
	Color      string  `json:"color"`
	BrushWidth int     `json:"brushWidth"`
	Scale      float64 `json:"scale"`
	Gesturing  bool    `json:"gesturing"`
	CanUndo    bool    `json:"canUndo"`
	History    int     `json:"history"`
	Format     string  `json:"format"`
}

// State snapshots the board settings.
func (s *Session) State() State {
	b := s.board
	size := b.Size()
	return State{
		ID:         s.ID.String(),
		Ready:      b.Ready(),
		Width:      size.X,
		Height:     size.Y,
		Tool:       b.Tool().String(),
		Color:      board.HexColor(b.Color()),
		BrushWidth: b.Width(),
		Scale:      b.Scale(),
		Gesturing:  b.Gesturing(),
		CanUndo:    b.CanUndo(),
		History:    b.HistoryLen(),
		Format:     string(s.format),
	}
}

// Style is a partial style update. Nil fields are left alone.
type Style struct {
	Tool  *string  `json:"tool,omitempty"`
	Color *string  `json:"color,omitempty"`
	Width *int     `json:"width,omitempty"`
	Scale *float64 `json:"scale,omitempty"`
}

// SetStyle applies st. Nothing changes when any field is invalid.
func (s *Session) SetStyle(st Style) error {
	b := s.board
	tool := b.Tool()
	if st.Tool != nil {
		t, err := board.ParseTool(*st.Tool)
		if err != nil {
			return err
		}
		tool = t
	}
	ink := b.Color()
	if st.Color != nil {
		c, err := board.ParseColor(*st.Color)
		if err != nil {
			return err
		}
		ink = c
	}
	if st.Width != nil && (*st.Width < board.MinWidth || *st.Width > board.MaxWidth) {
		return fmt.Errorf("width %d outside %d..%d", *st.Width, board.MinWidth, board.MaxWidth)
	}
	if st.Scale != nil && *st.Scale <= 0 {
		return fmt.Errorf("scale must be positive")
	}
	b.SetTool(tool)
	b.SetColor(ink)
	if st.Width != nil {
		b.SetWidth(*st.Width)
	}
	if st.Scale != nil {
		b.SetScale(*st.Scale)
	}
	return nil
}
