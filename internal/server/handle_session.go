package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/playperu/treasurehunt/internal/hunt"
	"github.com/playperu/treasurehunt/internal/registry"
)

func handleSession(logger *slog.Logger, h Hunt) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := h.Current(r.Context(), sessionID(r))
		if err != nil {
			writeHuntError(w, logger, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, toSessionResponse(view))
	}
}

type clueAction func(ctx context.Context, id hunt.SessionID, clueID string) (registry.View, error)

// handleClueAction serves hint, reveal and skip, which all name the clue
// they apply to and answer with the resulting view.
func handleClueAction(logger *slog.Logger, name string, action clueAction, metrics *Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ClueRequest
		if err := decodeRequest(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		view, err := action(r.Context(), sessionID(r), req.ClueID)
		var cooldown *registry.CooldownError
		switch {
		case errors.As(err, &cooldown):
			metrics.cooldowns.WithLabelValues(name).Inc()
			writeHuntError(w, logger, err, &view)
			return
		case err != nil:
			writeHuntError(w, logger, err, &view)
			return
		}

		metrics.actions.WithLabelValues(name).Inc()
		writeJSON(w, http.StatusOK, toSessionResponse(view))
	}
}
