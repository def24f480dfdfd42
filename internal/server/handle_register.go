package server

import (
	"log/slog"
	"net/http"
)

func handleRegister(logger *slog.Logger, h Hunt, metrics *Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := decodeRequest(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		reg, err := h.NewSession(r.Context(), req.TeamName)
		if err != nil {
			writeHuntError(w, logger, err, nil)
			return
		}
		metrics.registrations.Inc()

		writeJSON(w, http.StatusCreated, RegisterResponse{
			SessionID: reg.SessionID.String(),
			TeamName:  reg.Team.String(),
		})
	}
}
