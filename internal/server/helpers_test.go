package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/treasurehunt/internal/hunt"
	"github.com/playperu/treasurehunt/internal/registry"
)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type testEnv struct {
	router  chi.Router
	reg     *registry.Registry
	broker  *Broker
	clock   *testClock
	answers map[string]string
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// newTestEnv runs a real registry over eight clues in four locations.
// Answers are "answer-N".
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	records := make([]hunt.ClueRecord, 8)
	for i := range records {
		records[i] = hunt.ClueRecord{
			Poem:     fmt.Sprintf("poem %d", i),
			Hint:     fmt.Sprintf("hint %d", i),
			Item:     fmt.Sprintf("item %d", i),
			Location: string(rune('A' + i%4)),
			Answer:   fmt.Sprintf("answer-%d", i),
		}
	}
	catalog := hunt.NewCatalog(records)
	answers := make(map[string]string, len(catalog))
	for i, c := range catalog {
		answers[c.ID()] = records[i].Answer
	}

	broker := NewBroker()
	clock := &testClock{t: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)}
	reg, err := registry.New(registry.Config{
		Catalog:          catalog,
		ArrangementCount: 1,
		Cooldowns:        registry.DefaultCooldowns,
		Rand:             rand.New(rand.NewPCG(3, 4)),
		Clock:            clock.Now,
		Listener:         broker,
		Logger:           discard,
	})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		reg.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	return &testEnv{
		router: NewRouter(discard, Deps{
			Hunt:      reg,
			Broker:    broker,
			PublicURL: "https://hunt.example/",
		}, nil),
		reg:     reg,
		broker:  broker,
		clock:   clock,
		answers: answers,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encoding body: %v", err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) register(t *testing.T, team string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/register", RegisterRequest{TeamName: team})
	if w.Code != http.StatusCreated {
		t.Fatalf("register %q: expected 201, got %d: %s", team, w.Code, w.Body.String())
	}
	var resp RegisterResponse
	json.NewDecoder(w.Body).Decode(&resp)
	return resp.SessionID
}

func (e *testEnv) session(t *testing.T, id string) SessionResponse {
	t.Helper()
	w := e.do(t, http.MethodGet, "/api/sessions/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("session: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp SessionResponse
	json.NewDecoder(w.Body).Decode(&resp)
	return resp
}
