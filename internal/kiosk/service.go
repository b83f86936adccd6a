// Package kiosk implements the operations a classroom kiosk performs: managing
// a classroom and its roster, moving items through checkout and return, and
// cleaning up the one-time records created along the way.
package kiosk

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/gearkiosk/internal/auth"
	"github.com/erazemk/gearkiosk/internal/model"
	"github.com/erazemk/gearkiosk/internal/store"
)

// Service runs kiosk operations against the database. Every write that reads
// state first runs in a single transaction.
type Service struct {
	DB    *sql.DB
	Guard *auth.Guard
}

// New creates a service. A nil guard compares codes as plain text.
func New(db *sql.DB, guard *auth.Guard) *Service {
	if guard == nil {
		guard = auth.NewGuard(nil)
	}
	return &Service{DB: db, Guard: guard}
}

// classroom loads a classroom, failing closed on a missing id.
func classroom(ctx context.Context, q store.DBTX, id int64) (*model.Classroom, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: classroom id required", model.ErrValidation)
	}
	c, err := store.GetClassroom(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: classroom %d", model.ErrNotFound, id)
	}
	return c, nil
}

// authorize loads a classroom and checks the teacher code against it.
func (s *Service) authorize(ctx context.Context, q store.DBTX, id int64, code string) (*model.Classroom, error) {
	c, err := classroom(ctx, q, id)
	if err != nil {
		return nil, err
	}
	if !s.Guard.Teacher(c, code) {
		return nil, model.ErrUnauthorized
	}
	return c, nil
}

// item loads an item of a classroom.
func item(ctx context.Context, q store.DBTX, classroomID, id int64) (*model.Item, error) {
	it, err := store.GetItem(ctx, q, classroomID, id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, fmt.Errorf("%w: item %d", model.ErrNotFound, id)
	}
	return it, nil
}
