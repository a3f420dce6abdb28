package bfplib

import "net/http"

func (h httpHandler) handleProviders(w http.ResponseWriter, req *http.Request) {
	response := struct {
		Results []*UsageStats `json:"results"`
	}{
		Results: h.resolver.UsageStats(),
	}

	h.sendData(w, http.StatusOK, "Provider usage statistics", response)
}

func (h httpHandler) handleHealth(w http.ResponseWriter, req *http.Request) {
	if err := h.store.Ping(req.Context()); err != nil {
		h.logger.StoreError(err)
		h.sendError(w, err, "Service unavailable", http.StatusServiceUnavailable)

		return
	}

	h.sendData(w, http.StatusOK, "API is running and database is connected", map[string]string{
		"status":   "healthy",
		"database": "connected",
		"version":  h.version,
	})
}

func (h httpHandler) handleHealthDB(w http.ResponseWriter, req *http.Request) {
	count, err := h.store.CountVisits(req.Context())
	if err != nil {
		h.logger.StoreError(err)
		h.sendError(w, err, "Database connection failed", http.StatusServiceUnavailable)

		return
	}

	h.sendData(w, http.StatusOK, "Database connection is healthy", map[string]interface{}{
		"database_name":    h.database,
		"collection_count": count,
		"status":           "connected",
	})
}
