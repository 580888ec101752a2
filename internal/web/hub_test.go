package web

import "testing"

func TestSessionBroadcaster_NotifiesOnlyThatSession(t *testing.T) {
	t.Parallel()

	b := newSessionBroadcaster()
	a, cancelA := b.subscribe("a")
	other, cancelOther := b.subscribe("b")
	defer cancelOther()

	b.notify("a")
	select {
	case <-a:
	default:
		t.Fatalf("expected notification for a")
	}
	select {
	case <-other:
		t.Fatalf("b should not be notified")
	default:
	}

	cancelA()
	cancelA()
	if n := b.subscribers("a"); n != 0 {
		t.Fatalf("expected hub dropped, have %d subscribers", n)
	}
	b.notify("a")
}
