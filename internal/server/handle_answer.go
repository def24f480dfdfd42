package server

import (
	"log/slog"
	"net/http"
)

// handleAnswer compares the answer byte for byte: no trimming or case folding.
func handleAnswer(logger *slog.Logger, h Hunt, metrics *Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AnswerRequest
		if err := decodeRequest(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		reply, err := h.Answer(r.Context(), sessionID(r), req.ClueID, req.Answer)
		if err != nil {
			writeHuntError(w, logger, err, &reply.View)
			return
		}

		metrics.answers.WithLabelValues(reply.Result.Outcome.String()).Inc()

		writeJSON(w, http.StatusOK, AnswerResponse{
			Result:  reply.Result.Outcome.String(),
			Points:  reply.Result.Points,
			Session: toSessionResponse(reply.View),
		})
	}
}
