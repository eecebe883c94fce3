// Package notify carries state-change signals from the core components to
// whatever renders them.
package notify

import (
	"sort"
	"sync"
)

// Hub fans a change signal out to subscribers. The zero value is ready to
// use. Listeners run synchronously on the publishing goroutine and must not
// call back into the publisher while holding its lock.
type Hub struct {
	mu        sync.Mutex
	next      int
	listeners map[int]func()
}

// Subscribe registers fn and returns a function that removes it.
func (h *Hub) Subscribe(fn func()) (unsubscribe func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.listeners == nil {
		h.listeners = make(map[int]func())
	}
	id := h.next
	h.next++
	h.listeners[id] = fn
	return func() {
		h.mu.Lock()
		delete(h.listeners, id)
		h.mu.Unlock()
	}
}

// Publish calls every current listener in subscription order.
func (h *Hub) Publish() {
	h.mu.Lock()
	ids := make([]int, 0, len(h.listeners))
	for id := range h.listeners {
		ids = append(ids, id)
	}
	fns := make([]func(), 0, len(ids))
	sort.Ints(ids)
	for _, id := range ids {
		fns = append(fns, h.listeners[id])
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
