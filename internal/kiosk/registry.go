package kiosk

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/erazemk/gearkiosk/internal/checkout"
	"github.com/erazemk/gearkiosk/internal/imaging"
	"github.com/erazemk/gearkiosk/internal/model"
	"github.com/erazemk/gearkiosk/internal/store"
)

// AddItem registers a permanent item.
func (s *Service) AddItem(ctx context.Context, classroomID int64, code, name string) (*model.Item, error) {
	code, name = strings.TrimSpace(code), strings.TrimSpace(name)
	if code == "" || name == "" {
		return nil, fmt.Errorf("%w: item code and name required", model.ErrValidation)
	}
	if _, err := classroom(ctx, s.DB, classroomID); err != nil {
		return nil, err
	}

	it, err := store.CreateItem(ctx, s.DB, classroomID, code, name, false)
	if err != nil {
		return nil, err
	}

	slog.Info("item added", "classroom", classroomID, "item", it.Code)
	return it, nil
}

// ListItems returns a classroom's items, narrowed by a free-text query.
func (s *Service) ListItems(ctx context.Context, classroomID int64, query string) ([]model.Item, error) {
	if _, err := classroom(ctx, s.DB, classroomID); err != nil {
		return nil, err
	}
	items, err := store.ListItems(ctx, s.DB, classroomID)
	if err != nil {
		return nil, err
	}

	out := make([]model.Item, 0, len(items))
	for _, it := range items {
		if checkout.ItemMatches(it, query) {
			out = append(out, it)
		}
	}
	return out, nil
}

// DeleteItem removes an item whatever its status.
func (s *Service) DeleteItem(ctx context.Context, classroomID, itemID int64) error {
	var swept int64
	err := store.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		if _, err := item(ctx, tx, classroomID, itemID); err != nil {
			return err
		}
		if _, err := store.DeleteItem(ctx, tx, classroomID, itemID, ""); err != nil {
			return err
		}
		var err error
		swept, err = sweepStudents(ctx, tx, classroomID)
		return err
	})
	if err != nil {
		return err
	}

	observeSweep(classroomID, swept, 0)
	slog.Info("item deleted", "classroom", classroomID, "id", itemID)
	return nil
}

// SetItemImage stores a photo for an item after normalizing it.
func (s *Service) SetItemImage(ctx context.Context, classroomID, itemID int64, data []byte) error {
	img, err := imaging.Process(data)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrValidation, err)
	}

	ok, err := store.SetItemImage(ctx, s.DB, classroomID, itemID, img.Data, img.MIME)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: item %d", model.ErrNotFound, itemID)
	}
	return nil
}

// ItemImage returns an item's photo and its MIME type.
func (s *Service) ItemImage(ctx context.Context, classroomID, itemID int64) ([]byte, string, error) {
	data, mime, err := store.GetItemImage(ctx, s.DB, classroomID, itemID)
	if err != nil {
		return nil, "", err
	}
	if data == nil {
		return nil, "", fmt.Errorf("%w: no image", model.ErrNotFound)
	}
	return data, mime, nil
}

// AddStudent registers a student with a four digit code.
func (s *Service) AddStudent(ctx context.Context, classroomID int64, name, code string) (*model.Student, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: student name required", model.ErrValidation)
	}
	if err := model.ValidateCode(code); err != nil {
		return nil, err
	}
	if _, err := classroom(ctx, s.DB, classroomID); err != nil {
		return nil, err
	}

	st, err := store.CreateStudent(ctx, s.DB, classroomID, name, code, false)
	if err != nil {
		return nil, err
	}

	slog.Info("student added", "classroom", classroomID, "student", st.ID)
	return st, nil
}

// ListStudents returns a classroom's students ordered by name.
func (s *Service) ListStudents(ctx context.Context, classroomID int64) ([]model.Student, error) {
	if _, err := classroom(ctx, s.DB, classroomID); err != nil {
		return nil, err
	}
	return store.ListStudents(ctx, s.DB, classroomID)
}

// DeleteStudent removes a student and their log entries. It is refused while
// the student has an item out.
func (s *Service) DeleteStudent(ctx context.Context, classroomID, studentID int64) error {
	err := store.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		st, err := store.GetStudent(ctx, tx, classroomID, studentID)
		if err != nil {
			return err
		}
		if st == nil {
			return fmt.Errorf("%w: student %d", model.ErrNotFound, studentID)
		}

		held, err := store.CountItemsHeldBy(ctx, tx, classroomID, st, model.ItemStatusOut)
		if err != nil {
			return err
		}
		if held > 0 {
			return fmt.Errorf("%w: %s has %d item(s) out", model.ErrStudentHoldsItem, st.Name, held)
		}

		if err := store.DeleteStudent(ctx, tx, classroomID, studentID); err != nil {
			return err
		}
		return store.DeleteStudentLogs(ctx, tx, classroomID, st.Name)
	})
	if err != nil {
		return err
	}

	slog.Info("student deleted", "classroom", classroomID, "student", studentID)
	return nil
}

// RosterEntry is one student to import.
type RosterEntry struct {
	Name string `json:"name"`
	Code string `json:"pin"`
}

// BulkResult reports an import.
type BulkResult struct {
	Added  int      `json:"added_count"`
	Errors []string `json:"errors"`
}

// BulkAddStudents adds every valid entry. Invalid or conflicting entries are
// skipped and reported without stopping the import.
func (s *Service) BulkAddStudents(ctx context.Context, classroomID int64, entries []RosterEntry) (*BulkResult, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no students to import", model.ErrValidation)
	}
	if _, err := classroom(ctx, s.DB, classroomID); err != nil {
		return nil, err
	}

	res := &BulkResult{Errors: []string{}}
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" || e.Code == "" {
			res.Errors = append(res.Errors, "skipped invalid entry: name or PIN missing")
			continue
		}
		if err := model.ValidateCode(e.Code); err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("skipped %s: PIN must be exactly %d digits", name, model.CodeLength))
			continue
		}

		_, err := store.CreateStudent(ctx, s.DB, classroomID, name, e.Code, false)
		switch {
		case errors.Is(err, model.ErrConflict):
			res.Errors = append(res.Errors, fmt.Sprintf("skipped %s: PIN already in use", name))
		case err != nil:
			return nil, err
		default:
			res.Added++
		}
	}

	slog.Info("students imported", "classroom", classroomID, "added", res.Added, "skipped", len(res.Errors))
	return res, nil
}
