package kiosk

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/erazemk/gearkiosk/internal/checkout"
	"github.com/erazemk/gearkiosk/internal/model"
	"github.com/erazemk/gearkiosk/internal/store"
)

// CreateClassroom registers a classroom with a handle and a four digit
// teacher code.
func (s *Service) CreateClassroom(ctx context.Context, handle, code string) (*model.Classroom, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, fmt.Errorf("%w: handle required", model.ErrValidation)
	}
	if err := model.ValidateCode(code); err != nil {
		return nil, err
	}

	sealed, err := s.Guard.Seal(code)
	if err != nil {
		return nil, err
	}

	c, err := store.CreateClassroom(ctx, s.DB, handle, sealed)
	if err != nil {
		return nil, err
	}

	slog.Info("classroom created", "classroom", c.ID, "handle", c.Handle)
	return c, nil
}

// Login returns the classroom when handle and code match. A failure never
// says which of the two was wrong.
func (s *Service) Login(ctx context.Context, handle, code string) (*model.Classroom, error) {
	c, err := store.GetClassroomByHandle(ctx, s.DB, strings.TrimSpace(handle))
	if err != nil {
		return nil, err
	}
	if c == nil || !s.Guard.Teacher(c, code) {
		slog.Warn("login failed", "handle", handle)
		return nil, model.ErrUnauthorized
	}
	return c, nil
}

// ChangeCode replaces the teacher code after checking the current one.
func (s *Service) ChangeCode(ctx context.Context, id int64, oldCode, newCode string) error {
	if err := model.ValidateCode(newCode); err != nil {
		return err
	}
	if newCode == oldCode {
		return fmt.Errorf("%w: new code must differ from the current one", model.ErrValidation)
	}
	sealed, err := s.Guard.Seal(newCode)
	if err != nil {
		return err
	}

	err = store.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		if _, err := s.authorize(ctx, tx, id, oldCode); err != nil {
			return err
		}
		return store.UpdateClassroomCode(ctx, tx, id, sealed)
	})
	if err != nil {
		return err
	}

	slog.Info("classroom code changed", "classroom", id)
	return nil
}

// RenameClassroom changes the handle. Keeping the current handle or taking
// one in use by another classroom is a conflict.
func (s *Service) RenameClassroom(ctx context.Context, id int64, newHandle, code string) (*model.Classroom, error) {
	newHandle = strings.TrimSpace(newHandle)
	if newHandle == "" {
		return nil, fmt.Errorf("%w: handle required", model.ErrValidation)
	}

	var renamed *model.Classroom
	err := store.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		c, err := s.authorize(ctx, tx, id, code)
		if err != nil {
			return err
		}
		if c.Handle == newHandle {
			return fmt.Errorf("%w: handle is unchanged", model.ErrConflict)
		}
		if err := store.UpdateClassroomHandle(ctx, tx, id, newHandle); err != nil {
			return err
		}
		c.Handle = newHandle
		renamed = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("classroom renamed", "classroom", id, "handle", newHandle)
	return renamed, nil
}

// DeleteClassroom removes a classroom with its log, items and students.
func (s *Service) DeleteClassroom(ctx context.Context, id int64, code string) error {
	err := store.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		if _, err := s.authorize(ctx, tx, id, code); err != nil {
			return err
		}
		return store.DeleteClassroom(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	slog.Info("classroom deleted", "classroom", id)
	return nil
}

// Snapshot is everything a kiosk screen shows for a classroom.
type Snapshot struct {
	Classroom *model.Classroom `json:"classroom"`
	Items     []SnapshotItem   `json:"items"`
	Students  []model.Student  `json:"students"`
	Logs      []model.LogEntry `json:"logs"`
}

// SnapshotItem is an item as the kiosk lists it. TeacherRequired is set when
// the next scan of the item only accepts the teacher code.
type SnapshotItem struct {
	model.Item
	TeacherRequired bool `json:"teacher_required"`
}

// Snapshot loads a classroom's items by code, students by name and most
// recent log entries.
func (s *Service) Snapshot(ctx context.Context, id int64) (*Snapshot, error) {
	c, err := classroom(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Classroom: c}
	items, err := store.ListItems(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if snap.Students, err = store.ListStudents(ctx, s.DB, id); err != nil {
		return nil, err
	}
	snap.Items = make([]SnapshotItem, len(items))
	for i := range items {
		it := &items[i]
		snap.Items[i] = SnapshotItem{
			Item:            *it,
			TeacherRequired: checkout.NeedsTeacher(it, checkout.HolderIsOneTime(it, snap.Students)),
		}
	}
	if snap.Logs, err = store.ListRecentLogs(ctx, s.DB, id, model.RecentLogLimit); err != nil {
		return nil, err
	}

	if snap.Students == nil {
		snap.Students = []model.Student{}
	}
	if snap.Logs == nil {
		snap.Logs = []model.LogEntry{}
	}
	return snap, nil
}
