package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/gearkiosk/internal/model"
)

const itemColumns = `id, classroom_id, code, name, status, holder_name, holder_id, one_time,
	image_mime, created_at, updated_at`

func scanItem(s scanner) (*model.Item, error) {
	item := &model.Item{}
	var holder, imageMime sql.NullString
	err := s.Scan(&item.ID, &item.ClassroomID, &item.Code, &item.Name, &item.Status,
		&holder, &item.HolderID, &item.OneTime, &imageMime, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	item.CurrentUser = holder.String
	item.ImageMime = imageMime.String
	return item, nil
}

// CreateItem registers a new available item.
func CreateItem(ctx context.Context, db DBTX, classroomID int64, code, name string, oneTime bool) (*model.Item, error) {
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx,
		`INSERT INTO items (classroom_id, code, name, status, one_time, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		classroomID, code, name, model.ItemStatusAvailable, oneTime, now, now,
	)
	if err != nil {
		return nil, uniqueOr(err, "item code already exists", "creating item")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, classroomID, id)
}

// GetItem returns an item by ID within a classroom.
func GetItem(ctx context.Context, db DBTX, classroomID, id int64) (*model.Item, error) {
	item, err := scanItem(db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE classroom_id = ? AND id = ?`,
		classroomID, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// GetItemByCode returns an item by its external code, ignoring case. An exact
// match wins over a case-folded one.
func GetItemByCode(ctx context.Context, db DBTX, classroomID int64, code string) (*model.Item, error) {
	item, err := scanItem(db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items
		 WHERE classroom_id = ? AND code = ? COLLATE NOCASE
		 ORDER BY code = ? DESC, id LIMIT 1`,
		classroomID, code, code,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item by code: %w", err)
	}
	return item, nil
}

// ListItems returns all items of a classroom ordered by code.
func ListItems(ctx context.Context, db DBTX, classroomID int64) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE classroom_id = ? ORDER BY code`,
		classroomID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// ListItemCodes returns the codes of a classroom's items that start with
// prefix, ignoring case.
func ListItemCodes(ctx context.Context, db DBTX, classroomID int64, prefix string) ([]string, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT code FROM items WHERE classroom_id = ? AND substr(code, 1, ?) = ? COLLATE NOCASE`,
		classroomID, len(prefix), prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("listing item codes: %w", err)
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scanning item code: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}

// TransitionItem moves an item from one status to another and sets its
// holder. The update only applies while the item is still in status from, so
// two racing callers cannot both move it; the result reports whether it did.
func TransitionItem(ctx context.Context, db DBTX, classroomID, id int64, from, to, holderName string, holderID *int64) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET status = ?, holder_name = ?, holder_id = ?, updated_at = ?
		 WHERE classroom_id = ? AND id = ? AND status = ?`,
		to, nullString(holderName), holderID, time.Now().UTC(), classroomID, id, from,
	)
	if err != nil {
		return false, fmt.Errorf("updating item status: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking item update: %w", err)
	}
	return n == 1, nil
}

// DeleteItem removes an item. With a non-empty status the row is only removed
// while still in that status. The result reports whether a row was deleted.
func DeleteItem(ctx context.Context, db DBTX, classroomID, id int64, status string) (bool, error) {
	query := `DELETE FROM items WHERE classroom_id = ? AND id = ?`
	args := []any{classroomID, id}
	if status != "" {
		query += ` AND status = ?`
		args = append(args, status)
	}

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("deleting item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking item delete: %w", err)
	}
	return n == 1, nil
}

// VerifyAllPending releases every pending item of a classroom: one-time items
// are deleted and the rest become available, each as a single statement. It
// returns the codes of all affected items.
func VerifyAllPending(ctx context.Context, db DBTX, classroomID int64) ([]string, error) {
	removed, err := queryCodes(ctx, db,
		`DELETE FROM items WHERE classroom_id = ? AND status = ? AND one_time = 1
		 RETURNING code`,
		classroomID, model.ItemStatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("removing pending one-time items: %w", err)
	}

	released, err := queryCodes(ctx, db,
		`UPDATE items SET status = ?, holder_name = NULL, holder_id = NULL, updated_at = ?
		 WHERE classroom_id = ? AND status = ?
		 RETURNING code`,
		model.ItemStatusAvailable, time.Now().UTC(), classroomID, model.ItemStatusPending,
	)
	if err != nil {
		return nil, fmt.Errorf("releasing pending items: %w", err)
	}

	return append(removed, released...), nil
}

// DeleteAvailableOneTimeItems removes one-time items nobody holds.
func DeleteAvailableOneTimeItems(ctx context.Context, db DBTX, classroomID int64) (int64, error) {
	result, err := db.ExecContext(ctx,
		`DELETE FROM items WHERE classroom_id = ? AND one_time = 1 AND status = ?`,
		classroomID, model.ItemStatusAvailable,
	)
	if err != nil {
		return 0, fmt.Errorf("deleting one-time items: %w", err)
	}
	return result.RowsAffected()
}

// CountItemsHeldBy counts a student's items in the given status. Items are
// matched by holder id, or by name for rows that predate the id reference.
func CountItemsHeldBy(ctx context.Context, db DBTX, classroomID int64, student *model.Student, status string) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items
		 WHERE classroom_id = ? AND status = ?
		   AND (holder_id = ? OR (holder_id IS NULL AND holder_name = ? COLLATE NOCASE))`,
		classroomID, status, student.ID, student.Name,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting held items: %w", err)
	}
	return count, nil
}

// SetItemImage sets an item's photo.
func SetItemImage(ctx context.Context, db DBTX, classroomID, id int64, image []byte, mime string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE items SET image = ?, image_mime = ?, updated_at = ?
		 WHERE classroom_id = ? AND id = ?`,
		image, mime, time.Now().UTC(), classroomID, id,
	)
	if err != nil {
		return false, fmt.Errorf("setting item image: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking item image update: %w", err)
	}
	return n == 1, nil
}

// GetItemImage returns an item's photo and MIME type; nil data means no photo.
func GetItemImage(ctx context.Context, db DBTX, classroomID, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT image, image_mime FROM items WHERE classroom_id = ? AND id = ?`,
		classroomID, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}

func queryCodes(ctx context.Context, db DBTX, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, rows.Err()
}
