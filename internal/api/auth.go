package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/gearkiosk/internal/auth"
	"github.com/erazemk/gearkiosk/internal/model"
	"github.com/erazemk/gearkiosk/internal/store"
)

type credentialsRequest struct {
	Handle string `json:"handle"`
	Code   string `json:"code"`
}

type loginResponse struct {
	Token     string           `json:"token"`
	Classroom *model.Classroom `json:"classroom"`
}

// CreateClassroom handles POST /api/classrooms.
func (h *Handler) CreateClassroom(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	c, err := h.Svc.CreateClassroom(r.Context(), req.Handle, req.Code)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, c)
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}
	if req.Handle == "" || req.Code == "" {
		badRequest(w, "handle and code required")
		return
	}

	c, err := h.Svc.Login(r.Context(), req.Handle, req.Code)
	if err != nil {
		serviceError(w, r, err)
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, c.ID, c.Handle, h.TokenTTL)
	if err != nil {
		serviceError(w, r, err)
		return
	}

	slog.Info("classroom logged in", "classroom", c.ID, "handle", c.Handle)
	jsonResponse(w, http.StatusOK, loginResponse{Token: token, Classroom: c})
}

// Logout handles POST /api/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if err := h.revoke(r, claims); err != nil {
		serviceError(w, r, err)
		return
	}

	slog.Info("classroom logged out", "classroom", claims.ClassroomID)
	jsonResponse(w, http.StatusOK, nil)
}

// revoke ends the session a token belongs to.
func (h *Handler) revoke(r *http.Request, claims *auth.Claims) error {
	return store.RevokeToken(r.Context(), h.Svc.DB, claims.ID, claims.ExpiresAt.Time)
}
