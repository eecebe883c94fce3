package faq

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unibot/cli/internal/api"
	"github.com/unibot/cli/internal/apperr"
)

func loadedSession(t *testing.T, items ...api.FAQ) (*EditSession, *Repository, *fakeBackend) {
	t.Helper()
	backend := newFakeBackend(items...)
	repo := NewRepository(backend, nil)
	_, err := repo.Load(context.Background())
	require.NoError(t, err)
	return NewEditSession(repo, nil), repo, backend
}

func TestEditSessionStartsClosed(t *testing.T) {
	s, _, _ := loadedSession(t)
	assert.False(t, s.IsOpen())
	assert.Equal(t, ModeNone, s.Mode())
	assert.Equal(t, -1, s.Index())
	assert.Equal(t, "closed", s.Mode().String())
}

func TestEditSessionCreateKeywordsAreNormalized(t *testing.T) {
	s, _, _ := loadedSession(t)
	s.OpenForCreate()

	assert.True(t, s.AddKeyword("Billing"))
	assert.False(t, s.AddKeyword("billing "))
	assert.Equal(t, []string{"billing"}, s.Keywords())
}

func TestEditSessionMutatorsIgnoredWhenClosed(t *testing.T) {
	s, _, _ := loadedSession(t)
	s.SetQuestion("Q")
	s.SetAnswer("A")
	assert.False(t, s.AddKeyword("k"))
	assert.False(t, s.RemoveKeyword(0))

	assert.Empty(t, s.Question())
	assert.Empty(t, s.Answer())
	assert.Empty(t, s.Keywords())
}

func TestEditSessionSaveValidatesInOrder(t *testing.T) {
	s, _, backend := loadedSession(t)
	s.OpenForCreate()
	callsBefore := len(backend.Calls())

	err := s.Save(context.Background())
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Equal(t, MsgQuestionRequired, apperr.UserMessage(err))

	s.SetQuestion("   How do I apply?  ")
	err = s.Save(context.Background())
	assert.Equal(t, MsgAnswerRequired, apperr.UserMessage(err))

	s.SetAnswer("Online.")
	err = s.Save(context.Background())
	assert.Equal(t, MsgKeywordsRequired, apperr.UserMessage(err))
	assert.Equal(t, err, s.Err())

	assert.True(t, s.IsOpen())
	assert.Len(t, backend.Calls(), callsBefore, "validation failures never reach the backend")
}

func TestEditSessionWhitespaceAnswerIsRequired(t *testing.T) {
	s, _, _ := loadedSession(t)
	s.OpenForCreate()
	s.SetQuestion("Q")
	s.SetAnswer(" \n\t ")
	s.AddKeyword("k")

	err := s.Save(context.Background())
	assert.Equal(t, MsgAnswerRequired, apperr.UserMessage(err))
}

func TestEditSessionCreateSavesAndCloses(t *testing.T) {
	s, repo, backend := loadedSession(t, sampleFAQs()...)
	s.OpenForCreate()
	s.SetQuestion("  Where can I park?  ")
	s.SetAnswer(" Lot B. ")
	s.AddKeyword("Parking")

	require.NoError(t, s.Save(context.Background()))

	assert.False(t, s.IsOpen())
	assert.NoError(t, s.Err())
	assert.Equal(t, []string{"list", "create", "list"}, backend.Calls())
	assert.Equal(t, api.FAQInput{Question: "Where can I park?", Answer: "Lot B.", Keywords: []string{"parking"}}, backend.lastInput)
	assert.Equal(t, 3, repo.Len())
}

func TestEditSessionEditCopiesEntry(t *testing.T) {
	s, repo, _ := loadedSession(t, sampleFAQs()...)

	require.NoError(t, s.OpenForEdit(0))
	assert.Equal(t, ModeEdit, s.Mode())
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, "When is the library open?", s.Question())
	assert.Equal(t, []string{"library", "hours"}, s.Keywords())

	s.RemoveKeyword(0)
	s.AddKeyword("weekend")

	entry, _ := repo.Entry(0)
	assert.Equal(t, []string{"library", "hours"}, entry.Keywords.Values(), "draft must not alias the cache")
}

func TestEditSessionEditUpdatesPosition(t *testing.T) {
	s, repo, backend := loadedSession(t, sampleFAQs()...)
	require.NoError(t, s.OpenForEdit(1))
	s.SetAnswer("Through the online portal.")

	require.NoError(t, s.Save(context.Background()))
	assert.Equal(t, []string{"list", "update", "list"}, backend.Calls())

	entry, _ := repo.Entry(1)
	assert.Equal(t, "Through the online portal.", entry.Answer)
	assert.Equal(t, []string{"admissions"}, entry.Keywords.Values())
}

func TestEditSessionOpenForEditOutOfRange(t *testing.T) {
	s, _, _ := loadedSession(t, sampleFAQs()...)
	err := s.OpenForEdit(7)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.False(t, s.IsOpen())
}

func TestEditSessionCancelNeverTouchesRepository(t *testing.T) {
	s, repo, backend := loadedSession(t, sampleFAQs()...)
	calls := len(backend.Calls())

	require.NoError(t, s.OpenForEdit(0))
	s.SetQuestion("changed")
	s.AddKeyword("extra")
	s.Cancel()

	assert.False(t, s.IsOpen())
	assert.Empty(t, s.Question())
	assert.Empty(t, s.Keywords())
	assert.Len(t, backend.Calls(), calls)
	entry, _ := repo.Entry(0)
	assert.Equal(t, "When is the library open?", entry.Question)
}

func TestEditSessionServerFailureKeepsSessionOpen(t *testing.T) {
	s, _, backend := loadedSession(t, sampleFAQs()...)
	backend.createErr = &api.StatusError{Method: "POST", Path: "/admin/faqs", StatusCode: http.StatusInternalServerError}

	s.OpenForCreate()
	s.SetQuestion("Q")
	s.SetAnswer("A")
	s.AddKeyword("k")
	err := s.Save(context.Background())

	assert.Equal(t, apperr.KindServerMutation, apperr.KindOf(err))
	assert.Equal(t, "Failed to save FAQ", apperr.UserMessage(s.Err()))
	assert.True(t, s.IsOpen())
	assert.Equal(t, "Q", s.Question())
	assert.Equal(t, []string{"k"}, s.Keywords())
	assert.False(t, s.Saving())
}

func TestEditSessionReloadFailureStillCloses(t *testing.T) {
	s, _, backend := loadedSession(t, sampleFAQs()...)
	backend.listAfterMutationErr = errRefused

	s.OpenForCreate()
	s.SetQuestion("Q")
	s.SetAnswer("A")
	s.AddKeyword("k")
	err := s.Save(context.Background())

	var reloadErr *ReloadError
	require.ErrorAs(t, err, &reloadErr)
	assert.False(t, s.IsOpen())
}

func TestEditSessionSaveWhenClosed(t *testing.T) {
	s, _, _ := loadedSession(t)
	err := s.Save(context.Background())
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestEditSessionReopenClearsError(t *testing.T) {
	s, _, _ := loadedSession(t)
	s.OpenForCreate()
	require.Error(t, s.Save(context.Background()))
	require.Error(t, s.Err())

	s.OpenForCreate()
	assert.NoError(t, s.Err())
}

func TestEditSessionDeleteRequiresConfirmation(t *testing.T) {
	s, repo, backend := loadedSession(t, sampleFAQs()...)
	calls := len(backend.Calls())

	err := s.Delete(context.Background(), 0, false)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Len(t, backend.Calls(), calls)

	require.NoError(t, s.Delete(context.Background(), 0, true))
	assert.Equal(t, 1, repo.Len())
	entry, _ := repo.Entry(0)
	assert.Equal(t, "How do I apply?", entry.Question)
}

func TestEditSessionPublishesChanges(t *testing.T) {
	s, _, _ := loadedSession(t)
	var calls int
	unsub := s.Subscribe(func() { calls++ })
	defer unsub()

	s.OpenForCreate()
	s.SetQuestion("Q")
	s.Cancel()
	assert.Equal(t, 3, calls)
}

// blockingBackend holds CreateFAQ until release is closed.
type blockingBackend struct {
	*fakeBackend
	started chan struct{}
	release chan struct{}
}

func (b *blockingBackend) CreateFAQ(ctx context.Context, input api.FAQInput) error {
	close(b.started)
	<-b.release
	return b.fakeBackend.CreateFAQ(ctx, input)
}

func TestEditSessionSaveInFlightIsBusy(t *testing.T) {
	backend := &blockingBackend{
		fakeBackend: newFakeBackend(),
		started:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	repo := NewRepository(backend, nil)
	s := NewEditSession(repo, nil)
	s.OpenForCreate()
	s.SetQuestion("Q")
	s.SetAnswer("A")
	s.AddKeyword("k")

	done := make(chan error, 1)
	go func() { done <- s.Save(context.Background()) }()
	<-backend.started

	assert.True(t, s.Saving())
	err := s.Save(context.Background())
	assert.Equal(t, apperr.KindBusy, apperr.KindOf(err))

	close(backend.release)
	require.NoError(t, <-done)
	assert.Equal(t, []string{"create", "list"}, backend.Calls())
}

func TestEditSessionCancelDuringSaveDiscardsResult(t *testing.T) {
	backend := &blockingBackend{
		fakeBackend: newFakeBackend(),
		started:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	backend.createErr = errRefused
	repo := NewRepository(backend, nil)
	s := NewEditSession(repo, nil)
	s.OpenForCreate()
	s.SetQuestion("Q")
	s.SetAnswer("A")
	s.AddKeyword("k")

	done := make(chan error, 1)
	go func() { done <- s.Save(context.Background()) }()
	<-backend.started
	s.Cancel()
	close(backend.release)

	require.Error(t, <-done)
	assert.False(t, s.IsOpen())
	assert.NoError(t, s.Err())
}

func TestEditSessionCancelKeepsSaveGuard(t *testing.T) {
	backend := &blockingBackend{
		fakeBackend: newFakeBackend(),
		started:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	repo := NewRepository(backend, nil)
	s := NewEditSession(repo, nil)
	s.OpenForCreate()
	s.SetQuestion("Q")
	s.SetAnswer("A")
	s.AddKeyword("k")

	done := make(chan error, 1)
	go func() { done <- s.Save(context.Background()) }()
	<-backend.started

	s.Cancel()
	assert.True(t, s.Saving(), "cancel must not release the in-flight guard")

	s.OpenForCreate()
	assert.False(t, s.IsOpen())
	assert.Equal(t, apperr.KindBusy, apperr.KindOf(s.Save(context.Background())))

	close(backend.release)
	require.NoError(t, <-done)
	assert.False(t, s.Saving())
	assert.False(t, s.IsOpen())
	assert.Equal(t, []string{"create", "list"}, backend.Calls())

	s.OpenForCreate()
	assert.True(t, s.IsOpen())
}
