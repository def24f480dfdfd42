package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/playperu/treasurehunt/internal/registry"
)

// writeHuntError maps registry errors to responses. view is the session as
// the registry returned it alongside err, if any.
func writeHuntError(w http.ResponseWriter, logger *slog.Logger, err error, view *registry.View) {
	var cooldown *registry.CooldownError
	switch {
	case errors.As(err, &cooldown):
		secs := int64((cooldown.Remaining + time.Second - 1) / time.Second)
		w.Header().Set("Retry-After", strconv.FormatInt(secs, 10))
		writeJSON(w, http.StatusTooManyRequests, CooldownResponse{
			Error:             cooldown.Error(),
			RetryAfterSeconds: secs,
		})
	case errors.Is(err, registry.ErrStaleClue) && view != nil:
		writeJSON(w, http.StatusConflict, StaleClueResponse{
			Error:   err.Error(),
			Session: toSessionResponse(*view),
		})
	case errors.Is(err, registry.ErrUnknownSession):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, registry.ErrInvalidTeamName):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, registry.ErrDuplicateTeamName):
		writeError(w, http.StatusConflict, err.Error())
	default:
		logger.Error("registry command failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
