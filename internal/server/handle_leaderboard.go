package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/playperu/treasurehunt/internal/hunt"
)

// handleLeaderboard marks the row of ?session= when it names a session.
func handleLeaderboard(logger *slog.Logger, h Hunt) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var you hunt.SessionID
		if code := r.URL.Query().Get("session"); code != "" {
			if id, err := hunt.ParseSessionID(code); err == nil {
				you = id
			}
		}

		rows, err := h.Leaderboard(r.Context(), you)
		if err != nil {
			writeHuntError(w, logger, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, toStandings(rows))
	}
}

func handleLeaderboardEvents(broker *Broker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		// Subscribed before the headers go out, so a client that has the
		// response also gets every later event.
		ch := broker.Subscribe(topicLeaderboard)
		defer broker.Unsubscribe(topicLeaderboard, ch)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		flusher.Flush()

		ping := time.NewTicker(30 * time.Second)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case data := <-ch:
				fmt.Fprintf(w, "event: leaderboard\ndata: %s\n\n", data)
				flusher.Flush()
			case <-ping.C:
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}
