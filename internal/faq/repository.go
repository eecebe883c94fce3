package faq

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/unibot/cli/internal/api"
	"github.com/unibot/cli/internal/apperr"
	"github.com/unibot/cli/internal/notify"
)

// Backend is the slice of the API client the repository needs.
type Backend interface {
	ListFAQs(ctx context.Context) ([]api.FAQ, error)
	CreateFAQ(ctx context.Context, input api.FAQInput) error
	UpdateFAQ(ctx context.Context, index int, input api.FAQInput) error
	DeleteFAQ(ctx context.Context, index int) error
}

// ReloadError is returned by a mutation that the server accepted but whose
// follow-up reload failed. The cache still holds the pre-mutation listing.
type ReloadError struct {
	Err error
}

func (e *ReloadError) Error() string {
	return fmt.Sprintf("saved, but reloading FAQs failed: %v", e.Err)
}

func (e *ReloadError) Unwrap() error {
	return e.Err
}

// Repository is the client-side mirror of the server's FAQ collection.
// The cache is only ever replaced wholesale by a successful Load; every
// successful mutation is followed by a Load.
type Repository struct {
	backend Backend
	logger  *zap.Logger
	loads   singleflight.Group
	hub     notify.Hub

	mu      sync.RWMutex
	entries []Entry
	loaded  bool
	lastErr error
	// started numbers every list request; applied is the newest one whose
	// result reached the cache. An older response never overwrites a newer.
	started uint64
	applied uint64
}

// NewRepository builds an empty repository on top of backend.
func NewRepository(backend Backend, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{
		backend: backend,
		logger:  logger.Named("faq"),
	}
}

// Subscribe registers fn to run after every cache replacement or failed
// load.
func (r *Repository) Subscribe(fn func()) func() {
	return r.hub.Subscribe(fn)
}

// Load fetches the full collection and replaces the cache. Concurrent calls
// share a single request. On failure the cache is left as it was.
// Mutations never join a shared request; see reload.
func (r *Repository) Load(ctx context.Context) ([]Entry, error) {
	v, err, _ := r.loads.Do("load", func() (any, error) {
		return r.load(ctx)
	})
	if err != nil {
		return nil, err
	}
	return cloneEntries(v.([]Entry)), nil
}

func (r *Repository) load(ctx context.Context) ([]Entry, error) {
	r.mu.Lock()
	r.started++
	seq := r.started
	r.mu.Unlock()

	items, err := r.backend.ListFAQs(ctx)
	if err != nil {
		classified := apperr.Classify("load faqs", err, apperr.KindServer, "Failed to load FAQs")
		r.logger.Error("load faqs failed", zap.Error(err))
		r.mu.Lock()
		if seq > r.applied {
			r.lastErr = classified
		}
		r.mu.Unlock()
		r.hub.Publish()
		return nil, classified
	}

	entries := make([]Entry, len(items))
	for i, item := range items {
		entries[i] = entryFromAPI(item)
	}

	r.mu.Lock()
	if seq < r.applied {
		current := r.entries
		r.mu.Unlock()
		r.logger.Debug("discarding superseded faq listing", zap.Uint64("seq", seq))
		return current, nil
	}
	r.applied = seq
	r.entries = entries
	r.loaded = true
	r.lastErr = nil
	r.mu.Unlock()

	r.logger.Debug("faqs loaded", zap.Int("count", len(entries)))
	r.hub.Publish()
	return entries, nil
}

// Create submits a new entry and reloads on success.
func (r *Repository) Create(ctx context.Context, entry Entry) error {
	if err := r.backend.CreateFAQ(ctx, entry.toInput()); err != nil {
		r.logger.Error("create faq failed", zap.Error(err))
		return apperr.Classify("create faq", err, apperr.KindServerMutation, "Failed to save FAQ")
	}
	return r.reload(ctx)
}

// Update replaces the entry at position index and reloads on success.
func (r *Repository) Update(ctx context.Context, index int, entry Entry) error {
	if err := r.backend.UpdateFAQ(ctx, index, entry.toInput()); err != nil {
		r.logger.Error("update faq failed", zap.Int("index", index), zap.Error(err))
		return apperr.Classify("update faq", err, apperr.KindServerMutation, "Failed to save FAQ")
	}
	return r.reload(ctx)
}

// Delete removes the entry at position index and reloads on success.
func (r *Repository) Delete(ctx context.Context, index int) error {
	if err := r.backend.DeleteFAQ(ctx, index); err != nil {
		r.logger.Error("delete faq failed", zap.Int("index", index), zap.Error(err))
		return apperr.Classify("delete faq", err, apperr.KindServerMutation, "Failed to delete FAQ")
	}
	return r.reload(ctx)
}

// reload issues its own request: a Load already in flight may have been
// answered before the mutation landed.
func (r *Repository) reload(ctx context.Context) error {
	if _, err := r.load(ctx); err != nil {
		return &ReloadError{Err: err}
	}
	return nil
}

// Entries returns a copy of the cached collection.
func (r *Repository) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneEntries(r.entries)
}

// Entry returns a copy of the cached entry at index.
func (r *Repository) Entry(index int) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if index < 0 || index >= len(r.entries) {
		return Entry{}, false
	}
	return r.entries[index].Clone(), true
}

// Len returns the number of cached entries.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Loaded reports whether at least one load has succeeded.
func (r *Repository) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded
}

// LastError returns the error of the most recent load, or nil if it
// succeeded.
func (r *Repository) LastError() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastErr
}
