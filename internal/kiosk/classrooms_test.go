package kiosk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/gearkiosk/internal/auth"
	"github.com/erazemk/gearkiosk/internal/db"
	"github.com/erazemk/gearkiosk/internal/model"
)

func TestCreateClassroomValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateClassroom(ctx, "  ", "1234")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = f.svc.CreateClassroom(ctx, "RoomB", "12a4")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = f.svc.CreateClassroom(ctx, "RoomA", "9999")
	assert.ErrorIs(t, err, model.ErrConflict)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.svc.Login(ctx, "RoomA", teacherCode)
	require.NoError(t, err)
	assert.Equal(t, f.room.ID, c.ID)

	_, err = f.svc.Login(ctx, "RoomA", "0000")
	assert.ErrorIs(t, err, model.ErrUnauthorized)

	_, err = f.svc.Login(ctx, "Nobody", teacherCode)
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestLoginWithBcryptCodes(t *testing.T) {
	svc := New(db.NewTestDB(t), auth.NewGuard(auth.BcryptScheme{Cost: 4}))
	ctx := context.Background()

	c, err := svc.CreateClassroom(ctx, "RoomA", "1234")
	require.NoError(t, err)
	assert.NotEqual(t, "1234", c.Code)

	_, err = svc.Login(ctx, "RoomA", "1234")
	require.NoError(t, err)

	require.NoError(t, svc.ChangeCode(ctx, c.ID, "1234", "4321"))
	_, err = svc.Login(ctx, "RoomA", "1234")
	assert.ErrorIs(t, err, model.ErrUnauthorized)
	_, err = svc.Login(ctx, "RoomA", "4321")
	assert.NoError(t, err)
}

func TestChangeCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.ChangeCode(ctx, f.room.ID, "0000", "4321"), model.ErrUnauthorized)
	assert.ErrorIs(t, f.svc.ChangeCode(ctx, f.room.ID, teacherCode, teacherCode), model.ErrValidation)
	assert.ErrorIs(t, f.svc.ChangeCode(ctx, f.room.ID, teacherCode, "43210"), model.ErrValidation)

	require.NoError(t, f.svc.ChangeCode(ctx, f.room.ID, teacherCode, "4321"))
	_, err := f.svc.Login(ctx, "RoomA", "4321")
	assert.NoError(t, err)
}

func TestRenameClassroom(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateClassroom(ctx, "RoomB", "9999")
	require.NoError(t, err)

	_, err = f.svc.RenameClassroom(ctx, f.room.ID, "RoomA", teacherCode)
	assert.ErrorIs(t, err, model.ErrConflict, "own handle")

	_, err = f.svc.RenameClassroom(ctx, f.room.ID, "RoomB", teacherCode)
	assert.ErrorIs(t, err, model.ErrConflict, "taken handle")

	_, err = f.svc.RenameClassroom(ctx, f.room.ID, "RoomC", "0000")
	assert.ErrorIs(t, err, model.ErrUnauthorized)

	c, err := f.svc.RenameClassroom(ctx, f.room.ID, "RoomC", teacherCode)
	require.NoError(t, err)
	assert.Equal(t, "RoomC", c.Handle)
}

func TestDeleteClassroom(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.scan(ctx, f.room.ID, f.drill.ID, "5555")
	require.NoError(t, err)

	assert.ErrorIs(t, f.svc.DeleteClassroom(ctx, f.room.ID, "0000"), model.ErrUnauthorized)
	require.NoError(t, f.svc.DeleteClassroom(ctx, f.room.ID, teacherCode))

	_, err = f.svc.Snapshot(ctx, f.room.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	_, err = f.svc.Login(ctx, "RoomA", teacherCode)
	assert.ErrorIs(t, err, model.ErrUnauthorized)
}

func TestSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, f.room.ID, "A0", "Awl")
	require.NoError(t, err)
	_, err = f.scan(ctx, f.room.ID, f.drill.ID, "5555")
	require.NoError(t, err)

	snap, err := f.svc.Snapshot(ctx, f.room.ID)
	require.NoError(t, err)
	assert.Equal(t, "RoomA", snap.Classroom.Handle)
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "A0", snap.Items[0].Code)
	assert.False(t, snap.Items[1].TeacherRequired, "a student may start the return of D1")
	require.Len(t, snap.Students, 1)
	require.Len(t, snap.Logs, 1)
	assert.Equal(t, "Checkout", snap.Logs[0].Action)
}

func TestSnapshotFlagsTeacherReturns(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	guest, err := f.svc.OneTimeCheckout(ctx, f.room.ID, "D1", "Guest", teacherCode)
	require.NoError(t, err)
	one, err := f.svc.OneTimeCheckout(ctx, f.room.ID, "Cable", "Alex", teacherCode)
	require.NoError(t, err)
	awl, err := f.svc.AddItem(ctx, f.room.ID, "A0", "Awl")
	require.NoError(t, err)
	saw, err := f.svc.AddItem(ctx, f.room.ID, "S1", "Saw")
	require.NoError(t, err)
	_, err = f.scan(ctx, f.room.ID, saw.ID, "5555")
	require.NoError(t, err)
	_, err = f.scan(ctx, f.room.ID, saw.ID, "5555")
	require.NoError(t, err)

	snap, err := f.svc.Snapshot(ctx, f.room.ID)
	require.NoError(t, err)

	flags := map[int64]bool{}
	for _, it := range snap.Items {
		flags[it.ID] = it.TeacherRequired
	}
	assert.Equal(t, map[int64]bool{
		guest.Item.ID: true,  // held by a one-time student
		one.Item.ID:   true,  // one-time item
		awl.ID:        false, // available
		saw.ID:        true,  // pending
	}, flags)
}

func TestMissingClassroomFailsClosed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Snapshot(ctx, 0)
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = f.svc.AddItem(ctx, 0, "X1", "Thing")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = f.scan(ctx, 0, f.drill.ID, "5555")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = f.svc.VerifyAllPending(ctx, f.room.ID+1, teacherCode)
	assert.ErrorIs(t, err, model.ErrNotFound)
}
