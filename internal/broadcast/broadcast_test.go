package broadcast

import (
	"context"
	"testing"
	"time"
)

func TestSendWithNoSubscribersSucceeds(t *testing.T) {
	s := NewSender[int](4)
	s.Send(1) // must not panic or block
	if s.SubscriberCount() != 0 {
		t.Fatalf("expected no subscribers")
	}
}

func TestSubscriberReceivesAfterSubscribe(t *testing.T) {
	s := NewSender[int](4)
	rx := s.Subscribe()

	s.Send(1)
	s.Send(2)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	v, err := rx.Recv(ctx)
	if err != nil || v != 1 {
		t.Fatalf("Recv() = %v, %v, want 1, nil", v, err)
	}
	v, err = rx.Recv(ctx)
	if err != nil || v != 2 {
		t.Fatalf("Recv() = %v, %v, want 2, nil", v, err)
	}
}

func TestSlowSubscriberLagsThenResumes(t *testing.T) {
	depth := 4
	s := NewSender[int](depth)
	rx := s.Subscribe()

	// Overflow the subscriber's buffer many times over.
	for i := 0; i < depth*10; i++ {
		s.Send(i)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	v, err := rx.Recv(ctx)
	if err != ErrLagged {
		t.Fatalf("expected ErrLagged first, got v=%v err=%v", v, err)
	}

	// From here on, every further Recv must return a real, increasing
	// value (only messages newer than the drop point survive).
	last := -1
	for i := 0; i < depth; i++ {
		v, err := rx.Recv(ctx)
		if err != nil {
			t.Fatalf("Recv() after lag: %v", err)
		}
		if v <= last {
			t.Fatalf("values not increasing after lag: %d <= %d", v, last)
		}
		last = v
	}
}

func TestUnsubscribeDetaches(t *testing.T) {
	s := NewSender[int](4)
	rx := s.Subscribe()
	if s.SubscriberCount() != 1 {
		t.Fatal("expected one subscriber")
	}
	rx.Unsubscribe()
	if s.SubscriberCount() != 0 {
		t.Fatal("expected subscriber detached")
	}
	// Idempotent.
	rx.Unsubscribe()
}
