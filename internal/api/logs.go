package api

import "net/http"

// Logs handles GET /api/logs.
func (h *Handler) Logs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.Svc.Logs(r.Context(), GetClaims(r.Context()).ClassroomID, r.URL.Query().Get("q"))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, logs)
}
