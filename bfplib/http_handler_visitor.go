package bfplib

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

func (h httpHandler) handleVisitorLog(w http.ResponseWriter, req *http.Request) {
	if !strings.Contains(req.Header.Get("Content-Type"), "application/json") {
		h.sendError(w, nil, "Incorrect content type", http.StatusUnsupportedMediaType)

		return
	}

	bodyBytes, err := io.ReadAll(req.Body)

	req.Body.Close()

	if err != nil {
		h.sendError(w, err, "Cannot read request body", http.StatusBadRequest)

		return
	}

	profile := VisitorProfile{}
	if err := json.Unmarshal(bodyBytes, &profile); err != nil {
		h.sendError(w, err, "Cannot parse request JSON", http.StatusBadRequest)

		return
	}

	clientIP := ResolveClientIP(req.Header, req.RemoteAddr)

	if err := h.aggregator.RecordVisit(req.Context(), clientIP, profile); err != nil {
		h.logger.StoreError(err)
		h.sendError(w, err, "Cannot record a visit", http.StatusInternalServerError)

		return
	}

	h.encodeJSON(w, http.StatusCreated, map[string]bool{"ok": true})
}
