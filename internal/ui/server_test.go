package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unibot/cli/internal/api"
)

// backend is an in-memory UniBot server.
type backend struct {
	mu       sync.Mutex
	faqs     []api.FAQ
	answer   string
	failAsk  bool
	username string
	password string
	srv      *httptest.Server
}

func newBackend(t *testing.T, faqs ...api.FAQ) *backend {
	t.Helper()
	b := &backend{
		faqs:     faqs,
		answer:   "The library is open **8am to 10pm**.",
		username: "admin",
		password: "secret",
	}

	mux := http.NewServeMux()
	mux.HandleFunc("OPTIONS /api/ask", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("POST /api/ask", func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.failAsk {
			http.Error(w, `{"error":"model offline"}`, http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(api.AskResponse{Answer: b.answer})
	})
	mux.HandleFunc("POST /api/admin/login", func(w http.ResponseWriter, r *http.Request) {
		var in api.LoginInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Username != b.username || in.Password != b.password {
			http.Error(w, `{"error":"invalid credentials"}`, http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"message":"ok"}`))
	})
	mux.HandleFunc("GET /api/admin/faqs", func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		_ = json.NewEncoder(w).Encode(b.faqs)
	})
	mux.HandleFunc("POST /api/admin/faqs", func(w http.ResponseWriter, r *http.Request) {
		var in api.FAQ
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.mu.Lock()
		b.faqs = append(b.faqs, in)
		b.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("PUT /api/admin/faqs/{index}", func(w http.ResponseWriter, r *http.Request) {
		var in api.FAQ
		_ = json.NewDecoder(r.Body).Decode(&in)
		b.mu.Lock()
		defer b.mu.Unlock()
		i, err := strconv.Atoi(r.PathValue("index"))
		if err != nil || i < 0 || i >= len(b.faqs) {
			http.NotFound(w, r)
			return
		}
		b.faqs[i] = in
	})
	mux.HandleFunc("DELETE /api/admin/faqs/{index}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		i, err := strconv.Atoi(r.PathValue("index"))
		if err != nil || i < 0 || i >= len(b.faqs) {
			http.NotFound(w, r)
			return
		}
		b.faqs = append(b.faqs[:i], b.faqs[i+1:]...)
	})

	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *backend) client() *api.Client {
	return api.NewClient(b.srv.URL+"/api", 2*time.Second)
}

func (b *backend) setFailAsk(fail bool) {
	b.mu.Lock()
	b.failAsk = fail
	b.mu.Unlock()
}

func (b *backend) snapshot() []api.FAQ {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]api.FAQ(nil), b.faqs...)
}

func sampleFAQs() []api.FAQ {
	return []api.FAQ{
		{Question: "When is the library open?", Answer: "8am to 10pm.", Keywords: []string{"library", "hours"}},
		{Question: "How do I apply?", Answer: "Through the admissions portal.", Keywords: []string{"admissions"}},
	}
}

// --- key helpers ---

func typeText(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}
