package session

import (
	"context"
	"errors"
)

// ErrStopped is returned by Do once the loop has exited.
var ErrStopped = errors.New("session loop stopped")

// Loop runs closures against a Session on a single goroutine, so hosts
// that receive input concurrently still feed the board in order.
type Loop struct {
	s    *Session
	ops  chan func(*Session)
	done chan struct{}
}

// NewLoop creates a loop for s. Run must be called before Do.
func NewLoop(s *Session) *Loop {
	return &Loop{s: s, ops: make(chan func(*Session)), done: make(chan struct{})}
}

// Run processes closures until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return
		case op := <-l.ops:
			op(l.s)
		}
	}
}

// Do runs fn on the loop goroutine and waits for it to return.
func (l *Loop) Do(ctx context.Context, fn func(*Session)) error {
	finished := make(chan struct{})
	op := func(s *Session) {
		defer close(finished)
		fn(s)
	}
	select {
	case l.ops <- op:
	case <-l.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-finished
	return nil
}
