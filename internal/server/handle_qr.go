package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/skip2/go-qrcode"
)

const qrSize = 320

// handleQR renders a PNG QR code of the team's clue page so teammates can
// join from their phones.
func handleQR(logger *slog.Logger, h Hunt, publicURL string) http.HandlerFunc {
	base := strings.TrimRight(publicURL, "/")
	return func(w http.ResponseWriter, r *http.Request) {
		id := sessionID(r)
		if _, err := h.Team(r.Context(), id); err != nil {
			writeHuntError(w, logger, err, nil)
			return
		}

		png, err := qrcode.Encode(base+"/clue/"+id.String(), qrcode.Medium, qrSize)
		if err != nil {
			logger.Error("encoding qr code", "session", id.String(), "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	}
}
