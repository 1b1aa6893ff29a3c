package session

import (
	"context"
	stderrors "errors"
	"testing"
	"time"
)

func TestDispatcher_DeliverToMatchingWaiters(t *testing.T) {
	d := NewDispatcher()
	ctx := context.Background()

	results := make(chan Message, 2)
	for _, user := range []string{"u1", "u1"} {
		user := user
		go func() {
			msg, err := d.Await(ctx, func(m Message) bool { return m.UserID == user }, time.Second)
			if err == nil {
				results <- msg
			}
		}()
	}

	deadline := time.Now().Add(time.Second)
	for d.Pending() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	if n := d.Deliver(Message{UserID: "u2", Text: "x"}); n != 0 {
		t.Errorf("Deliver(u2) = %d, want 0", n)
	}
	if n := d.Deliver(Message{UserID: "u1", Text: "first"}); n != 2 {
		t.Errorf("Deliver(u1) = %d, want 2", n)
	}
	if n := d.Deliver(Message{UserID: "u1", Text: "second"}); n != 0 {
		t.Errorf("later Deliver(u1) = %d, want 0", n)
	}

	for i := 0; i < 2; i++ {
		select {
		case msg := <-results:
			if msg.Text != "first" {
				t.Errorf("waiter got %q, want first", msg.Text)
			}
		case <-time.After(time.Second):
			t.Fatal("waiter did not receive message")
		}
	}
}

func TestDispatcher_Timeout(t *testing.T) {
	d := NewDispatcher()

	_, err := d.Await(context.Background(), func(Message) bool { return true }, 10*time.Millisecond)
	if !stderrors.Is(err, ErrTimedOut) {
		t.Errorf("Await() error = %v, want ErrTimedOut", err)
	}
	if d.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", d.Pending())
	}
}

func TestDispatcher_ContextCancel(t *testing.T) {
	d := NewDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Await(ctx, func(Message) bool { return true }, time.Minute)
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("Await() error = %v, want context.Canceled", err)
	}
}

func TestDispatcher_DeliveryBeforeDeadlineWins(t *testing.T) {
	d := NewDispatcher()

	// Repeat to exercise deliveries that land right at the deadline.
	for i := 0; i < 50; i++ {
		done := make(chan error, 1)
		go func() {
			_, err := d.Await(context.Background(), func(Message) bool { return true }, time.Millisecond)
			done <- err
		}()

		var err error
		delivered, finished := 0, false
		for delivered == 0 && !finished {
			select {
			case err = <-done:
				finished = true
			default:
				if d.Pending() > 0 {
					delivered = d.Deliver(Message{Text: "hit"})
				}
			}
		}
		if !finished {
			err = <-done
		}

		if delivered == 1 && err != nil {
			t.Fatalf("iteration %d: message handed over but Await() error = %v", i, err)
		}
		if delivered == 0 && !stderrors.Is(err, ErrTimedOut) {
			t.Fatalf("iteration %d: Await() error = %v, want ErrTimedOut", i, err)
		}
	}
}
