package api

import (
	"io"
	"net/http"
	"strconv"

	"github.com/erazemk/gearkiosk/internal/imaging"
)

type createItemRequest struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type scanRequest struct {
	Code string `json:"code"`
	// Expect is the item status the kiosk showed when the code was typed.
	Expect string `json:"expect"`
}

type oneTimeRequest struct {
	Item        string `json:"item"`
	Student     string `json:"student"`
	TeacherCode string `json:"teacher_code"`
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(w, "invalid id")
		return 0, false
	}
	return id, true
}

// ListItems handles GET /api/items.
func (h *Handler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.Svc.ListItems(r.Context(), GetClaims(r.Context()).ClassroomID, r.URL.Query().Get("q"))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// CreateItem handles POST /api/items.
func (h *Handler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	item, err := h.Svc.AddItem(r.Context(), GetClaims(r.Context()).ClassroomID, req.Code, req.Name)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, item)
}

// DeleteItem handles DELETE /api/items/{id}.
func (h *Handler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Svc.DeleteItem(r.Context(), GetClaims(r.Context()).ClassroomID, id); err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, nil)
}

// UploadImage handles PUT /api/items/{id}/image. The body is the raw image.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadSize)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		jsonError(w, http.StatusRequestEntityTooLarge, "validation", "image too large")
		return
	}

	if err := h.Svc.SetItemImage(r.Context(), GetClaims(r.Context()).ClassroomID, id, data); err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, nil)
}

// GetImage handles GET /api/items/{id}/image.
func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	data, mime, err := h.Svc.ItemImage(r.Context(), GetClaims(r.Context()).ClassroomID, id)
	if err != nil {
		serviceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Write(data)
}

// Scan handles POST /api/items/{id}/scan.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req scanRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	t, err := h.Svc.Scan(r.Context(), GetClaims(r.Context()).ClassroomID, id, req.Code, req.Expect)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, t)
}

// Verify handles POST /api/items/{id}/verify.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req teacherCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	t, err := h.Svc.Verify(r.Context(), GetClaims(r.Context()).ClassroomID, id, req.Code)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, t)
}

// VerifyPending handles POST /api/items/verify-pending.
func (h *Handler) VerifyPending(w http.ResponseWriter, r *http.Request) {
	var req teacherCodeRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	codes, err := h.Svc.VerifyAllPending(r.Context(), GetClaims(r.Context()).ClassroomID, req.Code)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"verified": codes})
}

// OneTimeCheckout handles POST /api/checkouts/one-time.
func (h *Handler) OneTimeCheckout(w http.ResponseWriter, r *http.Request) {
	var req oneTimeRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	res, err := h.Svc.OneTimeCheckout(r.Context(), GetClaims(r.Context()).ClassroomID, req.Item, req.Student, req.TeacherCode)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, res)
}
