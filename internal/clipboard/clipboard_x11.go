//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

var (
	initOnce sync.Once
	initErr  error
	owner    *x11Owner
)

func ensureInit() error {
	initOnce.Do(func() {
		if !hasDisplay() {
			initErr = errNoDisplay
			return
		}
		o := &x11Owner{}
		if err := o.initialize(); err != nil {
			initErr = err
			return
		}
		owner = o
	})
	return initErr
}

// WritePNG publishes already encoded PNG bytes as the clipboard image.
func WritePNG(data []byte) error {
	if err := checkPNG(data); err != nil {
		return err
	}
	if err := ensureInit(); err != nil {
		return err
	}
	return owner.offer(data)
}

// x11Owner holds the CLIPBOARD selection and answers image/png requests
// from a hidden window.
type x11Owner struct {
	conn   *xgb.Conn
	window xproto.Window
	atoms  atomSet
	mu     sync.RWMutex
	image  []byte
}

type atomSet struct {
	clipboard xproto.Atom
	targets   xproto.Atom
	png       xproto.Atom
}

func (o *x11Owner) initialize() error {
	conn, err := xgb.NewConn()
	if err != nil {
		return err
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		conn.Close()
		return err
	}
	if err := xproto.CreateWindowChecked(conn, screen.RootDepth, window, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOutput, screen.RootVisual, xproto.CwEventMask,
		[]uint32{xproto.EventMaskPropertyChange}).Check(); err != nil {
		conn.Close()
		return err
	}
	atoms, err := internAtoms(conn)
	if err != nil {
		xproto.DestroyWindow(conn, window)
		conn.Close()
		return err
	}
	o.conn = conn
	o.window = window
	o.atoms = atoms
	go o.serve()
	return nil
}

func internAtoms(conn *xgb.Conn) (atomSet, error) {
	var set atomSet
	for name, dst := range map[string]*xproto.Atom{
		"CLIPBOARD": &set.clipboard,
		"TARGETS":   &set.targets,
		"image/png": &set.png,
	} {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			return atomSet{}, err
		}
		*dst = reply.Atom
	}
	return set, nil
}

func (o *x11Owner) offer(data []byte) error {
	o.mu.Lock()
	o.image = append([]byte(nil), data...)
	o.mu.Unlock()
	return xproto.SetSelectionOwnerChecked(o.conn, o.window, o.atoms.clipboard, xproto.TimeCurrentTime).Check()
}

func (o *x11Owner) serve() {
	for {
		ev, err := o.conn.WaitForEvent()
		if err != nil {
			return
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			o.answer(e)
		case xproto.SelectionClearEvent:
			o.mu.Lock()
			o.image = nil
			o.mu.Unlock()
		}
	}
}

func (o *x11Owner) answer(e xproto.SelectionRequestEvent) {
	property := e.Property
	if property == xproto.AtomNone {
		property = e.Target
	}
	o.mu.RLock()
	data := o.image
	o.mu.RUnlock()

	switch {
	case e.Target == o.atoms.targets:
		targets := []xproto.Atom{o.atoms.targets}
		if len(data) > 0 {
			targets = append(targets, o.atoms.png)
		}
		buf := make([]byte, len(targets)*4)
		for i, atom := range targets {
			xgb.Put32(buf[i*4:], uint32(atom))
		}
		xproto.ChangeProperty(o.conn, xproto.PropModeReplace, e.Requestor, property, xproto.AtomAtom, 32, uint32(len(targets)), buf)
	case e.Target == o.atoms.png && len(data) > 0:
		xproto.ChangeProperty(o.conn, xproto.PropModeReplace, e.Requestor, property, o.atoms.png, 8, uint32(len(data)), data)
	default:
		property = xproto.AtomNone
	}

	notify := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  property,
	}
	_ = xproto.SendEvent(o.conn, false, e.Requestor, 0, string(notify.Bytes()))
}
