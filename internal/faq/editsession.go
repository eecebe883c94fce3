package faq

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/unibot/cli/internal/apperr"
	"github.com/unibot/cli/internal/notify"
)

// Mode tells whether an open session creates a new entry or edits one.
type Mode int

const (
	ModeNone Mode = iota
	ModeCreate
	ModeEdit
)

func (m Mode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeEdit:
		return "edit"
	default:
		return "closed"
	}
}

// Validation messages returned by Save.
const (
	MsgQuestionRequired  = "Question is required"
	MsgAnswerRequired    = "Answer is required"
	MsgKeywordsRequired  = "Add at least one keyword"
	MsgDeleteUnconfirmed = "Delete was not confirmed"
)

// EditSession drives the create/edit form. It is Closed, Open(Create) or
// Open(Edit(index)). While open it owns a draft question, answer and
// keyword buffer; the buffer is always a copy and never aliases the
// repository cache.
type EditSession struct {
	repo   *Repository
	logger *zap.Logger
	hub    notify.Hub

	mu       sync.Mutex
	mode     Mode
	index    int
	question string
	answer   string
	keywords KeywordSet
	err      error
	// saving covers the request, not the draft: it outlives a Cancel.
	saving   bool
	deleting bool
	// gen changes on every open/close so a save that settles after a
	// cancel cannot resurrect a discarded session.
	gen uint64
}

// NewEditSession builds a closed session that saves through repo.
func NewEditSession(repo *Repository, logger *zap.Logger) *EditSession {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EditSession{
		repo:   repo,
		logger: logger.Named("edit"),
		index:  -1,
	}
}

// Subscribe registers fn to run after every state change.
func (s *EditSession) Subscribe(fn func()) func() {
	return s.hub.Subscribe(fn)
}

// OpenForCreate opens the session with empty buffers. It is ignored while a
// save is in flight.
func (s *EditSession) OpenForCreate() {
	s.mu.Lock()
	if s.saving {
		s.mu.Unlock()
		return
	}
	s.reset(ModeCreate, -1)
	s.mu.Unlock()
	s.hub.Publish()
}

// OpenForEdit opens the session on a copy of the cached entry at index.
func (s *EditSession) OpenForEdit(index int) error {
	entry, ok := s.repo.Entry(index)
	if !ok {
		return apperr.Validation("edit faq", "FAQ no longer exists")
	}

	s.mu.Lock()
	if s.saving {
		s.mu.Unlock()
		return apperr.Busy("edit faq")
	}
	s.reset(ModeEdit, index)
	s.question = entry.Question
	s.answer = entry.Answer
	s.keywords = entry.Keywords.Clone()
	s.mu.Unlock()
	s.hub.Publish()
	return nil
}

func (s *EditSession) reset(mode Mode, index int) {
	s.gen++
	s.mode = mode
	s.index = index
	s.question = ""
	s.answer = ""
	s.keywords = KeywordSet{}
	s.err = nil
}

// Cancel discards all buffers and closes the session. It never touches the
// repository. A save already in flight keeps running and still blocks a new
// one until it settles; its outcome is discarded.
func (s *EditSession) Cancel() {
	s.mu.Lock()
	if s.mode == ModeNone {
		s.mu.Unlock()
		return
	}
	s.reset(ModeNone, -1)
	s.mu.Unlock()
	s.hub.Publish()
}

// SetQuestion replaces the draft question.
func (s *EditSession) SetQuestion(q string) {
	s.mutate(func() { s.question = q })
}

// SetAnswer replaces the draft answer.
func (s *EditSession) SetAnswer(a string) {
	s.mutate(func() { s.answer = a })
}

// AddKeyword adds raw to the keyword buffer. It returns false when the
// session is closed or the keyword is blank or already present.
func (s *EditSession) AddKeyword(raw string) bool {
	var added bool
	s.mutate(func() { added = s.keywords.Add(raw) })
	return added
}

// RemoveKeyword drops the keyword at position; out-of-range is a no-op.
func (s *EditSession) RemoveKeyword(position int) bool {
	var removed bool
	s.mutate(func() { removed = s.keywords.Remove(position) })
	return removed
}

func (s *EditSession) mutate(fn func()) {
	s.mu.Lock()
	if s.mode == ModeNone {
		s.mu.Unlock()
		return
	}
	fn()
	s.mu.Unlock()
	s.hub.Publish()
}

// Save validates the draft and dispatches a create or update. On success
// the session closes. Validation and repository failures leave it open with
// the error recorded. A save that the server accepted but whose reload
// failed still closes the session and returns the reload error.
func (s *EditSession) Save(ctx context.Context) error {
	s.mu.Lock()
	if s.saving {
		s.mu.Unlock()
		return apperr.Busy("save faq")
	}
	if s.mode == ModeNone {
		s.mu.Unlock()
		return apperr.Validation("save faq", "No FAQ is being edited")
	}

	draft := Entry{
		Question: strings.TrimSpace(s.question),
		Answer:   strings.TrimSpace(s.answer),
		Keywords: s.keywords.Clone(),
	}
	if err := validateDraft(draft); err != nil {
		s.err = err
		s.mu.Unlock()
		s.hub.Publish()
		return err
	}

	mode, index, gen := s.mode, s.index, s.gen
	s.saving = true
	s.err = nil
	s.mu.Unlock()
	s.hub.Publish()

	var err error
	if mode == ModeEdit {
		err = s.repo.Update(ctx, index, draft)
	} else {
		err = s.repo.Create(ctx, draft)
	}

	var reloadErr *ReloadError
	committed := err == nil || errors.As(err, &reloadErr)

	s.mu.Lock()
	s.saving = false
	if s.gen == gen {
		if committed {
			s.reset(ModeNone, -1)
		} else {
			s.err = err
		}
	}
	s.mu.Unlock()
	s.hub.Publish()

	if err != nil {
		s.logger.Warn("save faq", zap.Stringer("mode", mode), zap.Int("index", index), zap.Error(err))
	}
	return err
}

func validateDraft(e Entry) error {
	switch {
	case e.Question == "":
		return apperr.Validation("save faq", MsgQuestionRequired)
	case e.Answer == "":
		return apperr.Validation("save faq", MsgAnswerRequired)
	case e.Keywords.Len() == 0:
		return apperr.Validation("save faq", MsgKeywordsRequired)
	}
	return nil
}

// Delete removes the entry at index through the repository. confirmed must
// carry the user's explicit answer to the confirmation prompt; without it
// nothing is sent.
func (s *EditSession) Delete(ctx context.Context, index int, confirmed bool) error {
	if !confirmed {
		return apperr.Validation("delete faq", MsgDeleteUnconfirmed)
	}

	s.mu.Lock()
	if s.deleting {
		s.mu.Unlock()
		return apperr.Busy("delete faq")
	}
	s.deleting = true
	s.mu.Unlock()

	err := s.repo.Delete(ctx, index)

	s.mu.Lock()
	s.deleting = false
	s.mu.Unlock()

	if err != nil {
		s.logger.Warn("delete faq", zap.Int("index", index), zap.Error(err))
	}
	return err
}

// --- Read accessors ---

// IsOpen reports whether the session is open.
func (s *EditSession) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode != ModeNone
}

// Mode returns the current mode; ModeNone when closed.
func (s *EditSession) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Index returns the edited position, or -1 outside Edit mode.
func (s *EditSession) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Question returns the draft question.
func (s *EditSession) Question() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.question
}

// Answer returns the draft answer.
func (s *EditSession) Answer() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.answer
}

// Keywords returns a copy of the keyword buffer.
func (s *EditSession) Keywords() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keywords.Values()
}

// Saving reports whether a save is in flight.
func (s *EditSession) Saving() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saving
}

// Err returns the error of the last failed save, cleared on reopen.
func (s *EditSession) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
