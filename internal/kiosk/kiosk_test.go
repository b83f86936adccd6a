package kiosk

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erazemk/gearkiosk/internal/db"
	"github.com/erazemk/gearkiosk/internal/model"
	"github.com/erazemk/gearkiosk/internal/store"
)

const teacherCode = "1234"

// fixture is RoomA with teacher code 1234, item D1 "Drill" and student Alex
// with code 5555.
type fixture struct {
	svc   *Service
	db    *sql.DB
	room  *model.Classroom
	drill *model.Item
	alex  *model.Student
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return setup(t, db.NewTestDB(t))
}

func setup(t *testing.T, database *sql.DB) *fixture {
	t.Helper()
	ctx := context.Background()
	svc := New(database, nil)

	room, err := svc.CreateClassroom(ctx, "RoomA", teacherCode)
	require.NoError(t, err)
	drill, err := svc.AddItem(ctx, room.ID, "D1", "Drill")
	require.NoError(t, err)
	alex, err := svc.AddStudent(ctx, room.ID, "Alex", "5555")
	require.NoError(t, err)

	return &fixture{svc: svc, db: database, room: room, drill: drill, alex: alex}
}

func (f *fixture) item(t *testing.T, id int64) *model.Item {
	t.Helper()
	it, err := store.GetItem(context.Background(), f.db, f.room.ID, id)
	require.NoError(t, err)
	return it
}

// scan presents code at an item the way the kiosk does, expecting the status
// the item has right now.
func (f *fixture) scan(ctx context.Context, classroomID, itemID int64, code string) (*Transition, error) {
	expect := model.ItemStatusAvailable
	if it, err := store.GetItem(ctx, f.db, classroomID, itemID); err == nil && it != nil {
		expect = it.Status
	}
	return f.svc.Scan(ctx, classroomID, itemID, code, expect)
}

func (f *fixture) items(t *testing.T) []model.Item {
	t.Helper()
	items, err := store.ListItems(context.Background(), f.db, f.room.ID)
	require.NoError(t, err)
	return items
}

func (f *fixture) actions(t *testing.T) []string {
	t.Helper()
	logs, err := store.ListRecentLogs(context.Background(), f.db, f.room.ID, model.RecentLogLimit)
	require.NoError(t, err)

	// Oldest first reads better in assertions.
	out := make([]string, len(logs))
	for i, l := range logs {
		out[len(logs)-1-i] = l.Action
	}
	return out
}

// requireHolderInvariant checks that every item has a holder exactly when it
// is out or pending.
func (f *fixture) requireHolderInvariant(t *testing.T) {
	t.Helper()
	for _, it := range f.items(t) {
		require.Equal(t, it.Held(), it.CurrentUser != "", "item %s status %s holder %q", it.Code, it.Status, it.CurrentUser)
	}
}
