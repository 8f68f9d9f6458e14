// Package history keeps the linear undo stack of full-frame snapshots.
package history

import (
	"image"
	"image/draw"
)

// Snapshot is an immutable copy of a frame. Accessors hand out copies so
// the captured pixels can never change after creation.
type Snapshot struct {
	img *image.RGBA
}

func capture(frame *image.RGBA) *Snapshot {
	b := frame.Bounds()
	img := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(img, img.Bounds(), frame, b.Min, draw.Src)
	return &Snapshot{img: img}
}

// Bounds reports the snapshot dimensions, anchored at the origin.
func (s *Snapshot) Bounds() image.Rectangle { return s.img.Bounds() }

// Image returns a private copy of the captured pixels.
func (s *Snapshot) Image() *image.RGBA {
	out := image.NewRGBA(s.img.Bounds())
	copy(out.Pix, s.img.Pix)
	return out
}

// Stack is an ordered sequence of snapshots. Once seeded it never holds
// fewer than one snapshot.
type Stack struct {
	snaps []*Snapshot
	limit int
}

// New seeds a stack with a snapshot of base. A positive limit caps the
// number of retained snapshots, dropping the oldest first.
func New(base *image.RGBA, limit int) *Stack {
	if limit < 0 {
		limit = 0
	}
	s := &Stack{limit: limit}
	s.Reset(base)
	return s
}

// Push appends a copy of frame and returns it.
func (s *Stack) Push(frame *image.RGBA) *Snapshot {
	snap := capture(frame)
	s.snaps = append(s.snaps, snap)
	if s.limit > 0 && len(s.snaps) > s.limit {
		drop := len(s.snaps) - s.limit
		// release dropped entries for the collector
		for i := 0; i < drop; i++ {
			s.snaps[i] = nil
		}
		s.snaps = append([]*Snapshot(nil), s.snaps[drop:]...)
	}
	return snap
}

// Undo removes the newest snapshot and returns the one now on top. With a
// single snapshot left it returns that snapshot and false.
func (s *Stack) Undo() (*Snapshot, bool) {
	if len(s.snaps) <= 1 {
		return s.Top(), false
	}
	last := len(s.snaps) - 1
	s.snaps[last] = nil
	s.snaps = s.snaps[:last]
	return s.snaps[last-1], true
}

// Top returns the most recent snapshot.
func (s *Stack) Top() *Snapshot {
	if len(s.snaps) == 0 {
		return nil
	}
	return s.snaps[len(s.snaps)-1]
}

// Len is the number of retained snapshots.
func (s *Stack) Len() int { return len(s.snaps) }

// CanUndo reports whether Undo would change anything.
func (s *Stack) CanUndo() bool { return len(s.snaps) > 1 }

// Reset discards every snapshot and reseeds the stack with base.
func (s *Stack) Reset(base *image.RGBA) {
	for i := range s.snaps {
		s.snaps[i] = nil
	}
	s.snaps = []*Snapshot{capture(base)}
}
