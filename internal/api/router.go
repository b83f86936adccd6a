package api

import (
	"net/http"
	"time"

	"github.com/erazemk/gearkiosk/internal/kiosk"
	"github.com/erazemk/gearkiosk/internal/metrics"
)

// Handler serves the kiosk API.
type Handler struct {
	Svc       *kiosk.Service
	JWTSecret string
	TokenTTL  time.Duration
}

// NewRouter creates the API router with all endpoints registered.
func NewRouter(svc *kiosk.Service, jwtSecret string, tokenTTL time.Duration) http.Handler {
	mux := http.NewServeMux()
	h := &Handler{Svc: svc, JWTSecret: jwtSecret, TokenTTL: tokenTTL}
	authMW := AuthMiddleware(jwtSecret, svc.DB)
	session := func(fn http.HandlerFunc) http.Handler { return authMW(fn) }

	// Public.
	mux.HandleFunc("POST /api/classrooms", h.CreateClassroom)
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("GET /healthz", h.Health)
	mux.Handle("GET /metrics", metrics.Handler())

	// Session.
	mux.Handle("POST /api/auth/logout", session(h.Logout))

	mux.Handle("GET /api/classroom", session(h.Snapshot))
	mux.Handle("PUT /api/classroom/code", session(h.ChangeCode))
	mux.Handle("PUT /api/classroom/handle", session(h.Rename))
	mux.Handle("DELETE /api/classroom", session(h.DeleteClassroom))
	mux.Handle("POST /api/classroom/sweep", session(h.Sweep))

	mux.Handle("GET /api/items", session(h.ListItems))
	mux.Handle("POST /api/items", session(h.CreateItem))
	mux.Handle("DELETE /api/items/{id}", session(h.DeleteItem))
	mux.Handle("PUT /api/items/{id}/image", session(h.UploadImage))
	mux.Handle("GET /api/items/{id}/image", session(h.GetImage))
	mux.Handle("POST /api/items/{id}/scan", session(h.Scan))
	mux.Handle("POST /api/items/{id}/verify", session(h.Verify))
	mux.Handle("POST /api/items/verify-pending", session(h.VerifyPending))
	mux.Handle("POST /api/checkouts/one-time", session(h.OneTimeCheckout))

	mux.Handle("GET /api/students", session(h.ListStudents))
	mux.Handle("POST /api/students", session(h.CreateStudent))
	mux.Handle("DELETE /api/students/{id}", session(h.DeleteStudent))
	mux.Handle("POST /api/students/import", session(h.ImportStudents))

	mux.Handle("GET /api/logs", session(h.Logs))

	return RequestIDMiddleware(LoggingMiddleware(metrics.HTTPMetricsMiddleware(mux)))
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.DB.PingContext(r.Context()); err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
