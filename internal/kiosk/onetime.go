package kiosk

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/erazemk/gearkiosk/internal/checkout"
	"github.com/erazemk/gearkiosk/internal/metrics"
	"github.com/erazemk/gearkiosk/internal/model"
	"github.com/erazemk/gearkiosk/internal/store"
)

// OneTimeResult describes a one-time checkout.
type OneTimeResult struct {
	Item           *model.Item    `json:"item"`
	Student        *model.Student `json:"student"`
	CreatedItem    bool           `json:"created_item"`
	CreatedStudent bool           `json:"created_student"`
	// StudentCode is only set for a student created by this checkout.
	StudentCode string `json:"student_code,omitempty"`
}

// OneTimeCheckout lends an item to a named person with the teacher code.
// An unknown item is created as a one-time item coded TEMP-<n> and named after
// the entered text; an unknown person is created as a one-time student with a
// generated code. Everything happens in one transaction.
func (s *Service) OneTimeCheckout(ctx context.Context, classroomID int64, itemText, studentName, teacherCode string) (*OneTimeResult, error) {
	itemText, studentName = strings.TrimSpace(itemText), strings.TrimSpace(studentName)
	if itemText == "" || studentName == "" {
		return nil, fmt.Errorf("%w: item and student name required", model.ErrValidation)
	}

	res := &OneTimeResult{}
	var t *Transition
	err := store.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		if _, err := s.authorize(ctx, tx, classroomID, teacherCode); err != nil {
			return err
		}

		it, created, err := oneTimeItem(ctx, tx, classroomID, itemText)
		if err != nil {
			return err
		}
		res.CreatedItem = created

		st, created, err := oneTimeStudent(ctx, tx, classroomID, studentName)
		if err != nil {
			return err
		}
		res.Student = st
		res.CreatedStudent = created
		if created {
			res.StudentCode = st.Code
		}

		t, err = apply(ctx, tx, it, false, checkout.Actor{Kind: checkout.Student, Student: st})
		if err != nil {
			return err
		}
		res.Item = t.Item
		return nil
	})
	if err != nil {
		return nil, err
	}

	observe(classroomID, t)
	slog.Info("one-time checkout", "classroom", classroomID, "item", res.Item.Code,
		"new_item", res.CreatedItem, "new_student", res.CreatedStudent)
	return res, nil
}

// oneTimeItem resolves the entered text as an item code, creating a one-time
// item when there is none.
func oneTimeItem(ctx context.Context, tx *sql.Tx, classroomID int64, text string) (*model.Item, bool, error) {
	it, err := store.GetItemByCode(ctx, tx, classroomID, text)
	if err != nil {
		return nil, false, err
	}
	if it != nil {
		if it.Status != model.ItemStatusAvailable {
			return nil, false, fmt.Errorf("%w: %s is %s", model.ErrItemUnavailable, it.Code, it.Status)
		}
		return it, false, nil
	}

	existing, err := store.ListItemCodes(ctx, tx, classroomID, checkout.TempCodePrefix)
	if err != nil {
		return nil, false, err
	}
	it, err = store.CreateItem(ctx, tx, classroomID, checkout.NextTempCode(existing), text, true)
	if err != nil {
		return nil, false, err
	}
	return it, true, nil
}

// oneTimeStudent resolves a student by name, creating a one-time student with
// a generated code when there is none.
func oneTimeStudent(ctx context.Context, tx *sql.Tx, classroomID int64, name string) (*model.Student, bool, error) {
	st, err := store.GetStudentByName(ctx, tx, classroomID, name)
	if err != nil {
		return nil, false, err
	}
	if st != nil {
		return st, false, nil
	}

	code, err := checkout.RandomCode(func(code string) (bool, error) {
		other, err := store.GetStudentByCode(ctx, tx, classroomID, code)
		return other != nil, err
	})
	if err != nil {
		return nil, false, err
	}

	st, err = store.CreateStudent(ctx, tx, classroomID, name, code, true)
	if err != nil {
		return nil, false, err
	}
	return st, true, nil
}

// SweepResult counts the records removed by a cleanup.
type SweepResult struct {
	Items    int64 `json:"items"`
	Students int64 `json:"students"`
}

// Sweep removes one-time items nobody holds and one-time students without
// an item out.
func (s *Service) Sweep(ctx context.Context, classroomID int64, code string) (*SweepResult, error) {
	res := &SweepResult{}
	err := store.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		if _, err := s.authorize(ctx, tx, classroomID, code); err != nil {
			return err
		}

		var err error
		if res.Items, err = store.DeleteAvailableOneTimeItems(ctx, tx, classroomID); err != nil {
			return err
		}
		res.Students, err = sweepStudents(ctx, tx, classroomID)
		return err
	})
	if err != nil {
		return nil, err
	}

	observeSweep(classroomID, res.Students, res.Items)
	return res, nil
}

func sweepStudents(ctx context.Context, tx *sql.Tx, classroomID int64) (int64, error) {
	return store.SweepOneTimeStudents(ctx, tx, classroomID)
}

func observeSweep(classroomID, students, items int64) {
	if students == 0 && items == 0 {
		return
	}
	metrics.ObserveSweep(metrics.KindStudent, students)
	metrics.ObserveSweep(metrics.KindItem, items)
	slog.Info("one-time records swept", "classroom", classroomID, "students", students, "items", items)
}
