package httpapi

import (
	"net/http"
	"strconv"

	"github.com/script2sound/script2sound/internal/eventlog"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// handleHistory returns recent synthesis events from the event log.
// Without a configured database the list is empty.
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) {
	limit := defaultHistoryLimit
	if v := req.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, errTagInvalidRequest, "limit must be a positive integer")
			return
		}
		if n > maxHistoryLimit {
			n = maxHistoryLimit
		}
		limit = n
	}

	events, err := r.eventLog.Recent(req.Context(), limit)
	if err != nil {
		r.logger.Printf("history: query failed: %v", err)
		captureError(req, err, "load history")
		writeError(w, http.StatusInternalServerError, "internal", "failed to load history")
		return
	}
	if events == nil {
		events = []eventlog.Event{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}
