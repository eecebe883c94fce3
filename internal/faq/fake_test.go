package faq

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/unibot/cli/internal/api"
)

var errRefused = &api.TransportError{Method: "GET", Path: "/admin/faqs", Err: errors.New("connection refused")}

// fakeBackend is an in-memory positional FAQ store that records calls.
type fakeBackend struct {
	mu    sync.Mutex
	items []api.FAQ
	calls []string

	listErr   error
	createErr error
	updateErr error
	deleteErr error
	// listAfterMutationErr fails list calls made after a successful mutation.
	listAfterMutationErr error
	mutated              bool

	lastInput api.FAQInput
}

func newFakeBackend(items ...api.FAQ) *fakeBackend {
	return &fakeBackend{items: items}
}

func (f *fakeBackend) ListFAQs(ctx context.Context) ([]api.FAQ, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "list")
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.mutated && f.listAfterMutationErr != nil {
		return nil, f.listAfterMutationErr
	}
	out := make([]api.FAQ, len(f.items))
	for i, it := range f.items {
		out[i] = api.FAQ{Question: it.Question, Answer: it.Answer, Keywords: append([]string(nil), it.Keywords...)}
	}
	return out, nil
}

func (f *fakeBackend) CreateFAQ(ctx context.Context, input api.FAQInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "create")
	f.lastInput = input
	if f.createErr != nil {
		return f.createErr
	}
	f.items = append(f.items, api.FAQ(input))
	f.mutated = true
	return nil
}

func (f *fakeBackend) UpdateFAQ(ctx context.Context, index int, input api.FAQInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "update")
	f.lastInput = input
	if f.updateErr != nil {
		return f.updateErr
	}
	if index < 0 || index >= len(f.items) {
		return &api.StatusError{Method: "PUT", Path: "/admin/faqs", StatusCode: http.StatusNotFound}
	}
	f.items[index] = api.FAQ(input)
	f.mutated = true
	return nil
}

func (f *fakeBackend) DeleteFAQ(ctx context.Context, index int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "delete")
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if index < 0 || index >= len(f.items) {
		return &api.StatusError{Method: "DELETE", Path: "/admin/faqs", StatusCode: http.StatusNotFound}
	}
	f.items = append(f.items[:index], f.items[index+1:]...)
	f.mutated = true
	return nil
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func sampleFAQs() []api.FAQ {
	return []api.FAQ{
		{Question: "When is the library open?", Answer: "8am to 10pm.", Keywords: []string{"library", "hours"}},
		{Question: "How do I apply?", Answer: "Online.", Keywords: []string{"admissions"}},
	}
}
