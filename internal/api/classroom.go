package api

import (
	"log/slog"
	"net/http"
)

type changeCodeRequest struct {
	CurrentCode string `json:"current_code"`
	NewCode     string `json:"new_code"`
}

type renameRequest struct {
	Handle string `json:"handle"`
	Code   string `json:"code"`
}

type teacherCodeRequest struct {
	Code string `json:"code"`
}

// Snapshot handles GET /api/classroom.
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Svc.Snapshot(r.Context(), GetClaims(r.Context()).ClassroomID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, snap)
}

// ChangeCode handles PUT /api/classroom/code.
func (h *Handler) ChangeCode(w http.ResponseWriter, r *http.Request) {
	var req changeCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	err := h.Svc.ChangeCode(r.Context(), GetClaims(r.Context()).ClassroomID, req.CurrentCode, req.NewCode)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, nil)
}

// Rename handles PUT /api/classroom/handle.
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	c, err := h.Svc.RenameClassroom(r.Context(), GetClaims(r.Context()).ClassroomID, req.Handle, req.Code)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, c)
}

// DeleteClassroom handles DELETE /api/classroom. The session ends with it.
func (h *Handler) DeleteClassroom(w http.ResponseWriter, r *http.Request) {
	var req teacherCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	claims := GetClaims(r.Context())
	if err := h.Svc.DeleteClassroom(r.Context(), claims.ClassroomID, req.Code); err != nil {
		serviceError(w, r, err)
		return
	}
	if err := h.revoke(r, claims); err != nil {
		slog.Error("failed to revoke session of deleted classroom", "classroom", claims.ClassroomID, "error", err)
	}
	jsonResponse(w, http.StatusOK, nil)
}

// Sweep handles POST /api/classroom/sweep.
func (h *Handler) Sweep(w http.ResponseWriter, r *http.Request) {
	var req teacherCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	res, err := h.Svc.Sweep(r.Context(), GetClaims(r.Context()).ClassroomID, req.Code)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, res)
}
