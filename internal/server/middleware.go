package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/treasurehunt/internal/hunt"
)

type ctxKey int

const ctxKeySession ctxKey = iota

// sessionMiddleware resolves the {id} path parameter. Malformed codes are
// reported like unknown sessions.
func sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := hunt.ParseSessionID(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}

		ctx := context.WithValue(r.Context(), ctxKeySession, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionID(r *http.Request) hunt.SessionID {
	return r.Context().Value(ctxKeySession).(hunt.SessionID)
}
