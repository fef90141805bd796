// Package broadcast implements a single-producer, many-consumer fan-out
// channel with the contract the rest of this daemon is built around:
// drop the oldest undelivered item for a slow consumer rather than
// block the producer or grow without bound, and let that consumer
// observe the drop as a distinct signal.
package broadcast

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrLagged is returned by Receiver.Recv when the receiver fell behind
// and one or more messages were dropped on its behalf. The next call to
// Recv returns the oldest message still queued.
var ErrLagged = errors.New("broadcast: receiver lagged, messages dropped")

// ErrClosed is returned once the sender has been closed and the
// receiver has drained everything that was queued for it.
var ErrClosed = errors.New("broadcast: sender closed")

// Sender fans values of type T out to any number of subscribers.
type Sender[T any] struct {
	depth int

	mu   sync.Mutex
	subs map[uint64]*subscription[T]
	next uint64

	closed atomic.Bool
}

type subscription[T any] struct {
	ch     chan T
	lagged atomic.Bool
}

// NewSender creates a broadcaster whose subscribers each buffer up to
// depth undelivered messages before the oldest is dropped.
func NewSender[T any](depth int) *Sender[T] {
	if depth < 1 {
		depth = 1
	}
	return &Sender[T]{depth: depth, subs: make(map[uint64]*subscription[T])}
}

// Send publishes v to every current subscriber. A send with no
// subscribers is a silent no-op success. Send never blocks: a
// subscriber that is already full has its oldest queued value evicted
// first. Send on a closed sender is a no-op.
func (s *Sender[T]) Send(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed.Load() {
		return
	}
	for _, sub := range s.subs {
		select {
		case sub.ch <- v:
		default:
			// Full: drop the oldest queued value, then retry once.
			select {
			case <-sub.ch:
				sub.lagged.Store(true)
			default:
			}
			select {
			case sub.ch <- v:
			default:
				// Not reached while s.mu is held: only Send fills the
				// channel and Recv only drains it. Kept as a
				// non-blocking guard; mark lagged and move on rather
				// than spin.
				sub.lagged.Store(true)
			}
		}
	}
}

// SubscriberCount reports the number of currently-subscribed receivers.
func (s *Sender[T]) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Subscribe returns an independent Receiver. It sees only messages sent
// after Subscribe returns — there is no replay.
func (s *Sender[T]) Subscribe() *Receiver[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.next
	s.next++
	sub := &subscription[T]{ch: make(chan T, s.depth)}
	s.subs[id] = sub

	return &Receiver[T]{
		sub:    sub,
		detach: func() { s.detach(id) },
	}
}

func (s *Sender[T]) detach(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

// Close marks the sender closed; existing receivers drain what is
// already queued for them and then observe ErrClosed. Close is
// idempotent.
func (s *Sender[T]) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		close(sub.ch)
	}
}

// Receiver is a weak-by-construction subscription: dropping it (never
// calling Unsubscribe) does not keep the sender or its producer alive,
// and the sender never blocks waiting on it.
type Receiver[T any] struct {
	sub    *subscription[T]
	detach func()
	once   sync.Once
}

// Recv blocks until a message is available, the receiver has lagged, ctx
// is done, or the sender is closed and drained.
func (r *Receiver[T]) Recv(ctx context.Context) (T, error) {
	var zero T
	if r.sub.lagged.CompareAndSwap(true, false) {
		return zero, ErrLagged
	}
	select {
	case v, ok := <-r.sub.ch:
		if !ok {
			return zero, ErrClosed
		}
		return v, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Unsubscribe detaches the receiver from its sender. Safe to call more
// than once; safe to skip entirely.
func (r *Receiver[T]) Unsubscribe() {
	r.once.Do(r.detach)
}
