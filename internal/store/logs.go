package store

import (
	"context"
	"fmt"
	"time"

	"github.com/erazemk/gearkiosk/internal/model"
)

// InsertLog appends an entry to a classroom's activity log.
func InsertLog(ctx context.Context, db DBTX, classroomID int64, item, student, action string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO logs (classroom_id, item, student, action, logged_at) VALUES (?, ?, ?, ?, ?)`,
		classroomID, item, student, action, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting log: %w", err)
	}
	return nil
}

// ListRecentLogs returns up to limit entries, newest first.
func ListRecentLogs(ctx context.Context, db DBTX, classroomID int64, limit int) ([]model.LogEntry, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, classroom_id, item, student, action, logged_at
		 FROM logs WHERE classroom_id = ?
		 ORDER BY logged_at DESC, id DESC
		 LIMIT ?`,
		classroomID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing logs: %w", err)
	}
	defer rows.Close()

	var logs []model.LogEntry
	for rows.Next() {
		var l model.LogEntry
		if err := rows.Scan(&l.ID, &l.ClassroomID, &l.Item, &l.Student, &l.Action, &l.LoggedAt); err != nil {
			return nil, fmt.Errorf("scanning log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// DeleteStudentLogs removes the entries recorded under a student's name.
func DeleteStudentLogs(ctx context.Context, db DBTX, classroomID int64, student string) error {
	_, err := db.ExecContext(ctx,
		`DELETE FROM logs WHERE classroom_id = ? AND student = ?`,
		classroomID, student,
	)
	if err != nil {
		return fmt.Errorf("deleting student logs: %w", err)
	}
	return nil
}
