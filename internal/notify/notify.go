// Package notify reports board actions to the user.
package notify

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/whiteboard/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	// EventSave fires when an export has been delivered to disk.
	EventSave Event = "save"
	// EventSaveFailed fires when encoding or delivering an export failed.
	EventSaveFailed Event = "error"
	// EventClear fires after the canvas was blanked.
	EventClear Event = "clear"
	// EventUndo fires after a snapshot was restored.
	EventUndo Event = "undo"
	// EventUndoEmpty fires when undo was requested at the baseline.
	EventUndoEmpty Event = "undo-empty"
	// EventCopy fires when an export was copied to the clipboard.
	EventCopy Event = "copy"
)

// Events lists every event in display order.
func Events() []Event {
	return []Event{EventSave, EventSaveFailed, EventClear, EventUndo, EventUndoEmpty, EventCopy}
}

// Notice is a single user facing message.
type Notice struct {
	Event   Event  `json:"event"`
	Title   string `json:"title"`
	Message string `json:"message,omitempty"`
	// Path is the written file for save notices.
	Path string `json:"path,omitempty"`
	Err  error  `json:"-"`
}

func (n Notice) String() string {
	if n.Message == "" {
		return n.Title
	}
	return n.Title + ": " + n.Message
}

// Sink receives notices.
type Sink interface {
	Notify(Notice)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Notice)

func (f SinkFunc) Notify(n Notice) { f(n) }

// Multi fans a notice out to every sink in order.
type Multi []Sink

func (m Multi) Notify(n Notice) {
	for _, s := range m {
		if s != nil {
			s.Notify(n)
		}
	}
}

// Discard drops every notice.
var Discard Sink = SinkFunc(func(Notice) {})

// Log writes notices through the standard logger.
var Log Sink = SinkFunc(func(n Notice) {
	if n.Err != nil {
		log.Printf("%s: %v", n, n.Err)
		return
	}
	log.Print(n.String())
})

// EventPreference describes formatting for a notification event.
type EventPreference struct {
	Title string
	// Template is formatted with the notice detail when it contains a verb.
	Template string
}

// Preferences describes notification wording.
type Preferences struct {
	AppName string
	Events  map[Event]EventPreference
}

// DefaultPreferences returns the default notification wording.
func DefaultPreferences() Preferences {
	return Preferences{
		AppName: platform.DefaultAppName,
		Events: map[Event]EventPreference{
			EventSave:       {Title: "Saved!", Template: "Your whiteboard has been downloaded as %s"},
			EventSaveFailed: {Title: "Error", Template: "Could not save the whiteboard"},
			EventClear:      {Title: "Canvas cleared", Template: "Your whiteboard has been reset"},
			EventUndo:       {Title: "Undo", Template: "Previous action undone"},
			EventUndoEmpty:  {Title: "Nothing to undo"},
			EventCopy:       {Title: "Copied to clipboard", Template: "Your whiteboard is on the clipboard as %s"},
		},
	}
}

// Notice builds the notice for event. Detail fills the template verb.
func (p Preferences) Notice(event Event, detail string) Notice {
	pref, ok := p.Events[event]
	if !ok {
		return Notice{Event: event, Title: string(event)}
	}
	msg := pref.Template
	if strings.Contains(msg, "%") {
		msg = fmt.Sprintf(msg, strings.TrimSpace(detail))
	}
	return Notice{Event: event, Title: pref.Title, Message: strings.TrimSpace(msg)}
}

// Notifier sends OS-level notifications for enabled events.
type Notifier struct {
	prefs   Preferences
	enabled map[Event]bool
	send    func(title, body string, opts platform.Options) error
}

// New creates a desktop Notifier. Every event starts disabled.
func New(prefs Preferences) *Notifier {
	cloned := Preferences{AppName: prefs.AppName, Events: make(map[Event]EventPreference, len(prefs.Events))}
	for k, v := range prefs.Events {
		cloned.Events[k] = v
	}
	return &Notifier{prefs: cloned, enabled: make(map[Event]bool), send: platform.Notify}
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	if n.enabled == nil {
		n.enabled = make(map[Event]bool)
	}
	n.enabled[event] = enabled
}

// Notify implements Sink.
func (n *Notifier) Notify(notice Notice) {
	if !n.enabledFor(notice.Event) {
		return
	}
	title := strings.TrimSpace(notice.Title)
	if title == "" {
		return
	}
	opts := platform.Options{AppName: n.prefs.AppName}
	if notice.Event == EventSave && strings.EqualFold(filepath.Ext(notice.Path), ".png") {
		if abs, err := filepath.Abs(notice.Path); err == nil {
			if _, statErr := os.Stat(abs); statErr == nil {
				opts.IconPath = abs
			}
		}
	}
	if err := n.send(title, notice.Message, opts); err != nil {
		log.Printf("notification %s: %v", notice.Event, err)
	}
}

func (n *Notifier) enabledFor(event Event) bool {
	if n == nil || n.enabled == nil {
		return false
	}
	return n.enabled[event]
}
