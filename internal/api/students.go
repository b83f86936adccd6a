package api

import (
	"net/http"

	"github.com/erazemk/gearkiosk/internal/kiosk"
	"github.com/erazemk/gearkiosk/internal/model"
)

type createStudentRequest struct {
	Name string `json:"name"`
	Code string `json:"pin"`
}

// importRequest carries either parsed entries or pasted CSV/TSV text.
type importRequest struct {
	Students []kiosk.RosterEntry `json:"students"`
	Text     string              `json:"text"`
}

// ListStudents handles GET /api/students.
func (h *Handler) ListStudents(w http.ResponseWriter, r *http.Request) {
	students, err := h.Svc.ListStudents(r.Context(), GetClaims(r.Context()).ClassroomID)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	if students == nil {
		students = []model.Student{}
	}
	jsonResponse(w, http.StatusOK, students)
}

// CreateStudent handles POST /api/students.
func (h *Handler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req createStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	st, err := h.Svc.AddStudent(r.Context(), GetClaims(r.Context()).ClassroomID, req.Name, req.Code)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusCreated, st)
}

// DeleteStudent handles DELETE /api/students/{id}.
func (h *Handler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.Svc.DeleteStudent(r.Context(), GetClaims(r.Context()).ClassroomID, id); err != nil {
		serviceError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, nil)
}

// ImportStudents handles POST /api/students/import.
func (h *Handler) ImportStudents(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, "invalid request body")
		return
	}

	entries, lineErrs := req.Students, []string(nil)
	if req.Text != "" {
		parsed, errs := kiosk.ParseRoster(req.Text)
		entries = append(entries, parsed...)
		lineErrs = errs
	}
	if len(entries) == 0 {
		msg := "no valid students found"
		if len(lineErrs) > 0 {
			msg += ": " + lineErrs[0]
		}
		badRequest(w, msg)
		return
	}

	res, err := h.Svc.BulkAddStudents(r.Context(), GetClaims(r.Context()).ClassroomID, entries)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	res.Errors = append(lineErrs, res.Errors...)
	jsonResponse(w, http.StatusOK, res)
}
