package server

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestLeaderboard(t *testing.T) {
	e := newTestEnv(t)
	owls := e.register(t, "Owls")
	e.register(t, "Bats")

	clue := e.session(t, owls).Clue
	e.do(t, http.MethodPost, "/api/sessions/"+owls+"/answer", AnswerRequest{ClueID: clue.ID, Answer: e.answers[clue.ID]})

	w := e.do(t, http.MethodGet, "/api/leaderboard?session="+strings.ToLower(owls), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var rows []StandingResponse
	json.NewDecoder(w.Body).Decode(&rows)

	want := []StandingResponse{
		{TeamName: "Owls", Score: 400, IsYou: true},
		{TeamName: "Bats", Score: 0},
	}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %+v", len(want), rows)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d = %+v, want %+v", i, rows[i], want[i])
		}
	}

	w = e.do(t, http.MethodGet, "/api/leaderboard?session=bogus", nil)
	json.NewDecoder(w.Body).Decode(&rows)
	for _, row := range rows {
		if row.IsYou {
			t.Errorf("no row should be marked for an invalid session, got %+v", row)
		}
	}
}

func TestLeaderboardEvents(t *testing.T) {
	e := newTestEnv(t)
	srv := httptest.NewServer(e.router)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/leaderboard/events", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("subscribing: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content-type = %q, want text/event-stream", ct)
	}

	body, _ := json.Marshal(RegisterRequest{TeamName: "Owls"})
	reg, err := http.Post(srv.URL+"/api/register", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("registering: %v", err)
	}
	reg.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		data, ok := strings.CutPrefix(scanner.Text(), "data: ")
		if !ok {
			continue
		}
		var event LeaderboardEvent
		if err := json.Unmarshal([]byte(data), &event); err != nil {
			t.Fatalf("decoding event: %v", err)
		}
		if event.Type != "leaderboard" || len(event.Standings) != 1 || event.Standings[0].TeamName != "Owls" {
			t.Fatalf("unexpected event %+v", event)
		}
		return
	}
	t.Fatalf("stream ended without an event: %v", scanner.Err())
}

func TestLeaderboardEventsArriveInOrder(t *testing.T) {
	e := newTestEnv(t)
	ch := e.broker.Subscribe(topicLeaderboard)
	defer e.broker.Unsubscribe(topicLeaderboard, ch)

	const teams = 8
	var wg sync.WaitGroup
	for i := range teams {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := e.do(t, http.MethodPost, "/api/register", RegisterRequest{TeamName: fmt.Sprintf("Team %d", i)})
			if w.Code != http.StatusCreated {
				t.Errorf("register: expected 201, got %d", w.Code)
			}
		}()
	}
	wg.Wait()

	for want := 1; want <= teams; want++ {
		select {
		case data := <-ch:
			var event LeaderboardEvent
			if err := json.Unmarshal(data, &event); err != nil {
				t.Fatalf("decoding event: %v", err)
			}
			if len(event.Standings) != want {
				t.Fatalf("event %d has %d teams, want %d", want, len(event.Standings), want)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("missing event %d", want)
		}
	}
}

func TestQRCode(t *testing.T) {
	e := newTestEnv(t)
	id := e.register(t, "Owls")

	w := e.do(t, http.MethodGet, "/api/sessions/"+id+"/qr.png", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("content-type = %q, want image/png", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("body is not a PNG")
	}

	// Rendering the QR code must not start the first clue.
	snap, err := e.reg.Snapshot(context.Background())
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if strings.Contains(string(snap.Sessions[0].Data), `"kind":"seen"`) {
		t.Error("qr code request marked a clue as seen")
	}
}

func TestMetrics(t *testing.T) {
	e := newTestEnv(t)
	id := e.register(t, "Owls")
	clue := e.session(t, id).Clue
	e.do(t, http.MethodPost, "/api/sessions/"+id+"/hint", ClueRequest{ClueID: clue.ID})
	e.do(t, http.MethodPost, "/api/sessions/"+id+"/answer", AnswerRequest{ClueID: clue.ID, Answer: "nope"})

	w := e.do(t, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		"treasurehunt_registrations_total 1",
		`treasurehunt_answers_total{result="wrong"} 1`,
		`treasurehunt_cooldown_rejections_total{action="hint"} 1`,
		"treasurehunt_leaderboard_subscribers 0",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestBroker(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe(topicLeaderboard)
	other := b.Subscribe("elsewhere")

	b.Publish(topicLeaderboard, LeaderboardEvent{Type: "leaderboard"})

	select {
	case data := <-ch:
		if !strings.Contains(string(data), `"type":"leaderboard"`) {
			t.Errorf("unexpected payload %s", data)
		}
	default:
		t.Fatal("subscriber got nothing")
	}
	select {
	case data := <-other:
		t.Fatalf("other topic got %s", data)
	default:
	}

	if n := b.Subscribers(topicLeaderboard); n != 1 {
		t.Errorf("subscribers = %d, want 1", n)
	}
	b.Unsubscribe(topicLeaderboard, ch)
	if n := b.Subscribers(topicLeaderboard); n != 0 {
		t.Errorf("subscribers = %d, want 0", n)
	}

	// A full subscriber does not block publishers.
	slow := b.Subscribe(topicLeaderboard)
	for range cap(slow) + 5 {
		b.Publish(topicLeaderboard, LeaderboardEvent{Type: "leaderboard"})
	}
	if len(slow) != cap(slow) {
		t.Errorf("expected a full buffer, got %d", len(slow))
	}
}
