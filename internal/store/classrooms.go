package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/gearkiosk/internal/model"
)

// CreateClassroom registers a new classroom. The code is stored as given; the
// caller decides whether it is sealed.
func CreateClassroom(ctx context.Context, db DBTX, handle, code string) (*model.Classroom, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO classrooms (handle, code, created_at) VALUES (?, ?, ?)`,
		handle, code, time.Now().UTC(),
	)
	if err != nil {
		return nil, uniqueOr(err, "classroom handle already exists", "creating classroom")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting classroom id: %w", err)
	}

	return GetClassroom(ctx, db, id)
}

// GetClassroom returns a classroom by ID.
func GetClassroom(ctx context.Context, db DBTX, id int64) (*model.Classroom, error) {
	return getClassroom(ctx, db, `WHERE id = ?`, id)
}

// GetClassroomByHandle returns a classroom by its handle.
func GetClassroomByHandle(ctx context.Context, db DBTX, handle string) (*model.Classroom, error) {
	return getClassroom(ctx, db, `WHERE handle = ?`, handle)
}

func getClassroom(ctx context.Context, db DBTX, where string, arg any) (*model.Classroom, error) {
	c := &model.Classroom{}
	err := db.QueryRowContext(ctx,
		`SELECT id, handle, code, created_at FROM classrooms `+where, arg,
	).Scan(&c.ID, &c.Handle, &c.Code, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting classroom: %w", err)
	}
	return c, nil
}

// UpdateClassroomCode replaces a classroom's code.
func UpdateClassroomCode(ctx context.Context, db DBTX, id int64, code string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE classrooms SET code = ? WHERE id = ?`,
		code, id,
	)
	if err != nil {
		return fmt.Errorf("updating classroom code: %w", err)
	}
	return nil
}

// UpdateClassroomHandle renames a classroom.
func UpdateClassroomHandle(ctx context.Context, db DBTX, id int64, handle string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE classrooms SET handle = ? WHERE id = ?`,
		handle, id,
	)
	if err != nil {
		return uniqueOr(err, "classroom handle already exists", "updating classroom handle")
	}
	return nil
}

// DeleteClassroom removes a classroom and everything it owns: logs, items,
// students, then the classroom row. Run it inside a transaction.
func DeleteClassroom(ctx context.Context, db DBTX, id int64) error {
	steps := []struct {
		what  string
		query string
	}{
		{"logs", `DELETE FROM logs WHERE classroom_id = ?`},
		{"items", `DELETE FROM items WHERE classroom_id = ?`},
		{"students", `DELETE FROM students WHERE classroom_id = ?`},
		{"classroom", `DELETE FROM classrooms WHERE id = ?`},
	}
	for _, s := range steps {
		if _, err := db.ExecContext(ctx, s.query, id); err != nil {
			return fmt.Errorf("deleting classroom %s: %w", s.what, err)
		}
	}
	return nil
}
