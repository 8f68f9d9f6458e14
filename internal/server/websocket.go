package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/example/whiteboard/internal/notify"
	"github.com/example/whiteboard/internal/session"
)

// Message is a client to server websocket frame.
type Message struct {
	Type   string         `json:"type"`
	X      float64        `json:"x,omitempty"`
	Y      float64        `json:"y,omitempty"`
	Width  int            `json:"width,omitempty"`
	Height int            `json:"height,omitempty"`
	Style  *session.Style `json:"style,omitempty"`
}

// Reply is a server to client websocket frame.
type Reply struct {
	Type   string         `json:"type"`
	Notice *notify.Notice `json:"notice,omitempty"`
	State  *session.State `json:"state,omitempty"`
	Error  string         `json:"error,omitempty"`
}

var errGestureBusy = errors.New("gesture in progress on another connection")

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()
	ctx := r.Context()
	id := atomic.AddUint64(&s.conns, 1)

	// a dropped client must not leave its own gesture open
	defer func() {
		_ = s.loop.Do(ctx, func(sess *session.Session) {
			if s.owner == id && sess.Board().Gesturing() {
				sess.Board().PointerLeave()
			}
		})
	}()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("websocket read: %v", err)
			}
			return
		}
		var reply *Reply
		if err := s.loop.Do(ctx, func(sess *session.Session) { reply = s.apply(sess, id, msg) }); err != nil {
			return
		}
		if reply == nil {
			continue
		}
		if err := conn.WriteJSON(reply); err != nil {
			log.Printf("websocket write: %v", err)
			return
		}
	}
}

// apply performs msg for connection id. Pointer moves produce no reply.
// Only the connection that opened the active gesture may extend or end it.
func (s *Server) apply(sess *session.Session, id uint64, msg Message) *Reply {
	b := sess.Board()
	foreign := b.Gesturing() && s.owner != id
	var (
		n   notify.Notice
		err error
	)
	switch msg.Type {
	case "down":
		if foreign {
			err = errGestureBusy
			break
		}
		b.PointerDown(msg.X, msg.Y)
		if b.Gesturing() {
			s.owner = id
		}
	case "move":
		if !foreign {
			b.PointerMove(msg.X, msg.Y)
		}
		return nil
	case "up":
		if !foreign {
			b.PointerUp()
		}
	case "leave":
		if !foreign {
			b.PointerLeave()
		}
	case "undo":
		n, _ = sess.Undo()
	case "clear":
		n = sess.Clear()
	case "save":
		n, err = sess.Save()
	case "copy":
		n, err = sess.Copy()
	case "resize":
		if msg.Width < 0 || msg.Height < 0 {
			err = fmt.Errorf("width and height must not be negative")
			break
		}
		sess.Resize(msg.Width, msg.Height)
	case "style":
		if msg.Style == nil {
			err = fmt.Errorf("style message without style")
			break
		}
		err = sess.SetStyle(*msg.Style)
	case "state":
	default:
		err = fmt.Errorf("unknown message type %q", msg.Type)
	}
	st := sess.State()
	reply := &Reply{Type: "state", State: &st, Notice: noticePtr(n)}
	if err != nil {
		reply.Type = "error"
		reply.Error = err.Error()
	}
	return reply
}
