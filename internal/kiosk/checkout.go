package kiosk

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/erazemk/gearkiosk/internal/checkout"
	"github.com/erazemk/gearkiosk/internal/metrics"
	"github.com/erazemk/gearkiosk/internal/model"
	"github.com/erazemk/gearkiosk/internal/store"
)

// Transition is the committed outcome of a scan or verification.
type Transition struct {
	Item    *model.Item `json:"item,omitempty"` // nil once a one-time item is removed
	Action  string      `json:"action"`
	Actor   string      `json:"actor"`
	Removed bool        `json:"removed"`
	Swept   int64       `json:"swept_students"`
}

// Scan handles a code typed at the kiosk for an item. A student code checks
// an available item out or starts a return; the teacher code closes a return
// out directly. Items that must be returned through the teacher only accept
// the teacher code.
//
// expect is the status the kiosk showed when the code was typed. If the item
// has moved on since, the scan fails with ErrInvalidState instead of being
// applied to the new status.
func (s *Service) Scan(ctx context.Context, classroomID, itemID int64, code, expect string) (*Transition, error) {
	if !model.ValidItemStatus(expect) {
		return nil, fmt.Errorf("%w: expected item status required", model.ErrValidation)
	}

	var t *Transition
	err := store.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		c, err := classroom(ctx, tx, classroomID)
		if err != nil {
			return err
		}
		it, err := item(ctx, tx, classroomID, itemID)
		if err != nil {
			return err
		}
		if it.Status != expect {
			return fmt.Errorf("%w: item %s is %s", model.ErrInvalidState, it.Code, it.Status)
		}
		holderOneTime, err := holderIsOneTime(ctx, tx, it)
		if err != nil {
			return err
		}

		var actor checkout.Actor
		switch {
		case it.Status != model.ItemStatusAvailable && s.Guard.Teacher(c, code):
			actor = checkout.Actor{Kind: checkout.Teacher}
		case checkout.NeedsTeacher(it, holderOneTime):
			return model.ErrTeacherRequired
		default:
			st, err := s.Guard.Student(ctx, tx, classroomID, code)
			if err != nil {
				return err
			}
			if st == nil {
				return model.ErrUnauthorized
			}
			actor = checkout.Actor{Kind: checkout.Student, Student: st}
		}

		t, err = apply(ctx, tx, it, holderOneTime, actor)
		return err
	})
	if err != nil {
		return nil, err
	}

	observe(classroomID, t)
	return t, nil
}

// Verify closes out a returned item with the teacher code.
func (s *Service) Verify(ctx context.Context, classroomID, itemID int64, code string) (*Transition, error) {
	var t *Transition
	err := store.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		if _, err := s.authorize(ctx, tx, classroomID, code); err != nil {
			return err
		}
		it, err := item(ctx, tx, classroomID, itemID)
		if err != nil {
			return err
		}
		t, err = apply(ctx, tx, it, false, checkout.Actor{Kind: checkout.Verifier})
		return err
	})
	if err != nil {
		return nil, err
	}

	observe(classroomID, t)
	return t, nil
}

// VerifyAllPending releases every pending item of the classroom at once and
// returns the codes of the released items.
func (s *Service) VerifyAllPending(ctx context.Context, classroomID int64, code string) ([]string, error) {
	var (
		codes []string
		swept int64
	)
	err := store.WithTx(ctx, s.DB, func(tx *sql.Tx) error {
		if _, err := s.authorize(ctx, tx, classroomID, code); err != nil {
			return err
		}

		var err error
		codes, err = store.VerifyAllPending(ctx, tx, classroomID)
		if err != nil {
			return err
		}
		for _, ic := range codes {
			if err := store.InsertLog(ctx, tx, classroomID, ic, model.TeacherName, checkout.ActionVerifiedBulk); err != nil {
				return err
			}
		}
		if len(codes) == 0 {
			return nil
		}
		swept, err = sweepStudents(ctx, tx, classroomID)
		return err
	})
	if err != nil {
		return nil, err
	}

	for range codes {
		metrics.ObserveTransition(checkout.ActionVerifiedBulk)
	}
	observeSweep(classroomID, swept, 0)
	slog.Info("pending returns verified", "classroom", classroomID, "count", len(codes))
	if codes == nil {
		codes = []string{}
	}
	return codes, nil
}

// apply decides and persists a transition, logs it and sweeps one-time
// students when the item was released.
func apply(ctx context.Context, tx *sql.Tx, it *model.Item, holderOneTime bool, actor checkout.Actor) (*Transition, error) {
	d, err := checkout.Decide(it, holderOneTime, actor)
	if err != nil {
		return nil, err
	}

	var ok bool
	if d.Delete {
		ok, err = store.DeleteItem(ctx, tx, it.ClassroomID, it.ID, d.From)
	} else {
		var (
			name string
			id   *int64
		)
		if d.Holder != nil {
			name, id = d.Holder.Name, &d.Holder.ID
		}
		ok, err = store.TransitionItem(ctx, tx, it.ClassroomID, it.ID, d.From, d.To, name, id)
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: item %s changed concurrently", model.ErrInvalidState, it.Code)
	}

	if err := store.InsertLog(ctx, tx, it.ClassroomID, it.Code, actor.Name(), d.Action); err != nil {
		return nil, err
	}

	t := &Transition{Action: d.Action, Actor: actor.Name(), Removed: d.Delete}
	if d.Released() {
		if t.Swept, err = sweepStudents(ctx, tx, it.ClassroomID); err != nil {
			return nil, err
		}
	}
	if !d.Delete {
		if t.Item, err = store.GetItem(ctx, tx, it.ClassroomID, it.ID); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// holderIsOneTime looks up the holder of a held item by id, or by name when
// the id is missing.
func holderIsOneTime(ctx context.Context, q store.DBTX, it *model.Item) (bool, error) {
	if !it.Held() {
		return false, nil
	}

	var (
		st  *model.Student
		err error
	)
	switch {
	case it.HolderID != nil:
		st, err = store.GetStudent(ctx, q, it.ClassroomID, *it.HolderID)
	case it.CurrentUser != "":
		st, err = store.GetStudentByName(ctx, q, it.ClassroomID, it.CurrentUser)
	}
	if err != nil {
		return false, err
	}
	return st != nil && st.OneTime, nil
}

func observe(classroomID int64, t *Transition) {
	metrics.ObserveTransition(t.Action)
	observeSweep(classroomID, t.Swept, 0)
	slog.Info("item transition", "classroom", classroomID, "action", t.Action, "actor", t.Actor, "removed", t.Removed)
}
