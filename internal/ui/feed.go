package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// stateChangedMsg tells a surface that one of its core objects published a
// change and the view must be rebuilt from current state.
type stateChangedMsg struct{ feed *changeFeed }

// changeFeed bridges core change notifications into the bubbletea loop.
// Notifications are coalesced: a burst of publishes yields one message.
type changeFeed struct {
	ch     chan struct{}
	mu     sync.Mutex
	closed bool
	unsubs []func()
}

type subscriber interface {
	Subscribe(fn func()) func()
}

func newChangeFeed(sources ...subscriber) *changeFeed {
	f := &changeFeed{ch: make(chan struct{}, 1)}
	for _, src := range sources {
		f.unsubs = append(f.unsubs, src.Subscribe(f.signal))
	}
	return f
}

func (f *changeFeed) signal() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	select {
	case f.ch <- struct{}{}:
	default:
	}
}

// wait blocks until the next notification. It must be re-armed after every
// stateChangedMsg. It yields nil once the feed is closed.
func (f *changeFeed) wait() tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-f.ch; !ok {
			return nil
		}
		return stateChangedMsg{feed: f}
	}
}

// Close unsubscribes from every source and releases a pending wait.
func (f *changeFeed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	for _, unsub := range f.unsubs {
		unsub()
	}
	close(f.ch)
}
