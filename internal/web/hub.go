package web

import "sync"

type sessionHub struct {
	mu   sync.Mutex
	subs map[chan struct{}]struct{}
}

func (h *sessionHub) broadcast() {
	h.mu.Lock()
	for ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	h.mu.Unlock()
}

// sessionBroadcaster fans document-changed notifications out to the live
// streams open for one session. Hubs are dropped once their last subscriber leaves.
type sessionBroadcaster struct {
	mu   sync.Mutex
	hubs map[string]*sessionHub
}

func newSessionBroadcaster() *sessionBroadcaster {
	return &sessionBroadcaster{hubs: map[string]*sessionHub{}}
}

func (b *sessionBroadcaster) subscribe(sessionID string) (ch chan struct{}, cancel func()) {
	ch = make(chan struct{}, 8)

	b.mu.Lock()
	h := b.hubs[sessionID]
	if h == nil {
		h = &sessionHub{subs: map[chan struct{}]struct{}{}}
		b.hubs[sessionID] = h
	}
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			h.mu.Lock()
			delete(h.subs, ch)
			empty := len(h.subs) == 0
			h.mu.Unlock()
			if empty && b.hubs[sessionID] == h {
				delete(b.hubs, sessionID)
			}
			b.mu.Unlock()
			close(ch)
		})
	}
}

func (b *sessionBroadcaster) notify(sessionID string) {
	b.mu.Lock()
	h := b.hubs[sessionID]
	b.mu.Unlock()
	if h != nil {
		h.broadcast()
	}
}

func (b *sessionBroadcaster) subscribers(sessionID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	h := b.hubs[sessionID]
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
