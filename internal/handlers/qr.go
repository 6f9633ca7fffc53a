package handlers

import (
	"net/http"
	"strconv"

	qrcode "github.com/skip2/go-qrcode"
)

// handleJoinQR serves a QR code pointing at the gateway join URL, so a
// watchparty host can put it on screen for people to scan
func (h *Handlers) handleJoinQR(w http.ResponseWriter, r *http.Request) {
	size := 256
	if s := r.URL.Query().Get("size"); s != "" {
		if parsed, err := strconv.Atoi(s); err == nil && parsed >= 64 && parsed <= 1024 {
			size = parsed
		}
	}

	png, err := qrcode.Encode(h.joinURL, qrcode.Medium, size)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Write(png)
}
