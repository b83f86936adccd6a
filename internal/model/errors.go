package model

import "errors"

// Failure reasons shared by the store, the service layer and the API.
var (
	ErrValidation       = errors.New("validation failed")
	ErrConflict         = errors.New("already exists")
	ErrUnauthorized     = errors.New("incorrect code")
	ErrNotFound         = errors.New("not found")
	ErrTeacherRequired  = errors.New("teacher code required")
	ErrInvalidState     = errors.New("invalid state transition")
	ErrItemUnavailable  = errors.New("item not available")
	ErrStudentHoldsItem = errors.New("student has items checked out")
)

// Reason returns the machine-readable failure reason for err. Errors that do
// not wrap one of the sentinels above are storage failures.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrTeacherRequired):
		return "teacher_required"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrItemUnavailable):
		return "item_unavailable"
	case errors.Is(err, ErrStudentHoldsItem):
		return "student_holds_item"
	default:
		return "store"
	}
}
