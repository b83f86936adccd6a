package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/gearkiosk/internal/model"
)

const studentColumns = `id, classroom_id, name, code, one_time, created_at`

func scanStudent(s scanner) (*model.Student, error) {
	st := &model.Student{}
	if err := s.Scan(&st.ID, &st.ClassroomID, &st.Name, &st.Code, &st.OneTime, &st.CreatedAt); err != nil {
		return nil, err
	}
	return st, nil
}

// CreateStudent registers a student. Codes are unique per classroom.
func CreateStudent(ctx context.Context, db DBTX, classroomID int64, name, code string, oneTime bool) (*model.Student, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO students (classroom_id, name, code, one_time, created_at) VALUES (?, ?, ?, ?, ?)`,
		classroomID, name, code, oneTime, time.Now().UTC(),
	)
	if err != nil {
		return nil, uniqueOr(err, "student code already in use", "creating student")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting student id: %w", err)
	}

	return GetStudent(ctx, db, classroomID, id)
}

// GetStudent returns a student by ID within a classroom.
func GetStudent(ctx context.Context, db DBTX, classroomID, id int64) (*model.Student, error) {
	return getStudent(ctx, db, `WHERE classroom_id = ? AND id = ?`, classroomID, id)
}

// GetStudentByCode returns the student whose code matches exactly.
func GetStudentByCode(ctx context.Context, db DBTX, classroomID int64, code string) (*model.Student, error) {
	return getStudent(ctx, db, `WHERE classroom_id = ? AND code = ?`, classroomID, code)
}

// GetStudentByName returns the first student with the given name, ignoring case.
func GetStudentByName(ctx context.Context, db DBTX, classroomID int64, name string) (*model.Student, error) {
	return getStudent(ctx, db,
		`WHERE classroom_id = ? AND name = ? COLLATE NOCASE ORDER BY id LIMIT 1`,
		classroomID, name)
}

func getStudent(ctx context.Context, db DBTX, where string, args ...any) (*model.Student, error) {
	st, err := scanStudent(db.QueryRowContext(ctx,
		`SELECT `+studentColumns+` FROM students `+where, args...,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting student: %w", err)
	}
	return st, nil
}

// ListStudents returns all students of a classroom ordered by name.
func ListStudents(ctx context.Context, db DBTX, classroomID int64) ([]model.Student, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+studentColumns+` FROM students WHERE classroom_id = ? ORDER BY name COLLATE NOCASE, id`,
		classroomID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing students: %w", err)
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning student: %w", err)
		}
		students = append(students, *st)
	}
	return students, rows.Err()
}

// DeleteStudent removes a student.
func DeleteStudent(ctx context.Context, db DBTX, classroomID, id int64) error {
	_, err := db.ExecContext(ctx,
		`DELETE FROM students WHERE classroom_id = ? AND id = ?`,
		classroomID, id,
	)
	if err != nil {
		return fmt.Errorf("deleting student: %w", err)
	}
	return nil
}

// SweepOneTimeStudents deletes every one-time student of a classroom who does
// not hold an out item, and returns how many were removed.
func SweepOneTimeStudents(ctx context.Context, db DBTX, classroomID int64) (int64, error) {
	result, err := db.ExecContext(ctx,
		`DELETE FROM students
		 WHERE classroom_id = ? AND one_time = 1
		   AND NOT EXISTS (
		       SELECT 1 FROM items
		       WHERE items.classroom_id = students.classroom_id
		         AND items.status = ?
		         AND (items.holder_id = students.id
		              OR (items.holder_id IS NULL AND items.holder_name = students.name COLLATE NOCASE))
		   )`,
		classroomID, model.ItemStatusOut,
	)
	if err != nil {
		return 0, fmt.Errorf("sweeping one-time students: %w", err)
	}
	return result.RowsAffected()
}
