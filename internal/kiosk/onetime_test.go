package kiosk

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/gearkiosk/internal/checkout"
	"github.com/erazemk/gearkiosk/internal/model"
	"github.com/erazemk/gearkiosk/internal/store"
)

func TestOneTimeCheckoutThenTeacherReturn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.OneTimeCheckout(ctx, f.room.ID, "CAM1", "Guest", teacherCode)
	require.NoError(t, err)
	assert.True(t, res.CreatedItem)
	assert.True(t, res.CreatedStudent)
	assert.Equal(t, "CAM1", res.Item.Name)
	assert.Equal(t, "TEMP-1", res.Item.Code)
	assert.True(t, res.Item.OneTime)
	assert.Equal(t, model.ItemStatusOut, res.Item.Status)
	assert.Equal(t, "Guest", res.Item.CurrentUser)
	assert.True(t, res.Student.OneTime)
	assert.Len(t, res.StudentCode, model.GeneratedCodeLength)
	f.requireHolderInvariant(t)

	// Guests cannot close out their own checkout.
	_, err = f.scan(ctx, f.room.ID, res.Item.ID, res.StudentCode)
	assert.ErrorIs(t, err, model.ErrTeacherRequired)

	tr, err := f.scan(ctx, f.room.ID, res.Item.ID, teacherCode)
	require.NoError(t, err)
	assert.True(t, tr.Removed)
	assert.Nil(t, tr.Item)
	assert.Equal(t, checkout.ActionOneTimeRemoved, tr.Action)
	assert.Equal(t, int64(1), tr.Swept)

	for _, it := range f.items(t) {
		assert.NotEqual(t, res.Item.ID, it.ID, "one-time item must be gone")
	}
	guest, err := store.GetStudentByName(ctx, f.db, f.room.ID, "Guest")
	require.NoError(t, err)
	assert.Nil(t, guest, "one-time student must be swept")

	assert.Equal(t, []string{"Checkout", "Returned (One-Time Item Removed)"}, f.actions(t))
}

func TestOneTimeItemRemovedByVerify(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.OneTimeCheckout(ctx, f.room.ID, "Cable", "Alex", teacherCode)
	require.NoError(t, err)
	assert.False(t, res.CreatedStudent)
	assert.Empty(t, res.StudentCode)

	// A one-time item needs the teacher even when a regular student holds it.
	_, err = f.scan(ctx, f.room.ID, res.Item.ID, "5555")
	assert.ErrorIs(t, err, model.ErrTeacherRequired)

	tr, err := f.svc.Verify(ctx, f.room.ID, res.Item.ID, teacherCode)
	require.NoError(t, err)
	assert.True(t, tr.Removed)
	assert.Len(t, f.items(t), 1)

	alex, err := store.GetStudent(ctx, f.db, f.room.ID, f.alex.ID)
	require.NoError(t, err)
	assert.NotNil(t, alex, "regular students are never swept")
}

func TestOneTimeItemRemovedByBulkVerify(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.OneTimeCheckout(ctx, f.room.ID, "Cable", "Alex", teacherCode)
	require.NoError(t, err)

	// Put it in pending the way a store-level return would.
	ok, err := store.TransitionItem(ctx, f.db, f.room.ID, res.Item.ID, model.ItemStatusOut, model.ItemStatusPending, "Alex", &f.alex.ID)
	require.NoError(t, err)
	require.True(t, ok)

	codes, err := f.svc.VerifyAllPending(ctx, f.room.ID, teacherCode)
	require.NoError(t, err)
	assert.Equal(t, []string{res.Item.Code}, codes)
	assert.Len(t, f.items(t), 1)
}

func TestOneTimeStudentSurvivesWhileHoldingItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, f.room.ID, "T1", "Tripod")
	require.NoError(t, err)

	first, err := f.svc.OneTimeCheckout(ctx, f.room.ID, "CAM1", "Guest", teacherCode)
	require.NoError(t, err)
	second, err := f.svc.OneTimeCheckout(ctx, f.room.ID, "t1", "guest", teacherCode)
	require.NoError(t, err)
	assert.False(t, second.CreatedItem, "existing item is matched ignoring case")
	assert.False(t, second.CreatedStudent, "existing student is matched ignoring case")
	assert.Equal(t, first.Student.ID, second.Student.ID)

	// Returning one item leaves Guest holding the tripod.
	tr, err := f.scan(ctx, f.room.ID, first.Item.ID, teacherCode)
	require.NoError(t, err)
	assert.Zero(t, tr.Swept)
	guest, _ := store.GetStudent(ctx, f.db, f.room.ID, first.Student.ID)
	assert.NotNil(t, guest)

	// The tripod is permanent but its holder is one-time.
	_, err = f.scan(ctx, f.room.ID, second.Item.ID, "5555")
	assert.ErrorIs(t, err, model.ErrTeacherRequired)

	tr, err = f.scan(ctx, f.room.ID, second.Item.ID, teacherCode)
	require.NoError(t, err)
	assert.Equal(t, checkout.ActionReturnTeacher, tr.Action)
	assert.Equal(t, int64(1), tr.Swept)
	guest, _ = store.GetStudent(ctx, f.db, f.room.ID, first.Student.ID)
	assert.Nil(t, guest)
}

func TestOneTimeCheckoutRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.OneTimeCheckout(ctx, f.room.ID, "CAM1", "Guest", "0000")
	assert.ErrorIs(t, err, model.ErrUnauthorized)

	_, err = f.svc.OneTimeCheckout(ctx, f.room.ID, " ", "Guest", teacherCode)
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = f.scan(ctx, f.room.ID, f.drill.ID, "5555")
	require.NoError(t, err)
	_, err = f.svc.OneTimeCheckout(ctx, f.room.ID, "d1", "Guest", teacherCode)
	assert.ErrorIs(t, err, model.ErrItemUnavailable)

	// Nothing from the failed attempts was kept.
	assert.Len(t, f.items(t), 1)
	guest, err := store.GetStudentByName(ctx, f.db, f.room.ID, "Guest")
	require.NoError(t, err)
	assert.Nil(t, guest)
}

func TestTempCodesReuseSmallestFree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	one, err := f.svc.OneTimeCheckout(ctx, f.room.ID, "Cable", "Guest", teacherCode)
	require.NoError(t, err)
	two, err := f.svc.OneTimeCheckout(ctx, f.room.ID, "Charger", "Guest", teacherCode)
	require.NoError(t, err)
	assert.Equal(t, "TEMP-1", one.Item.Code)
	assert.Equal(t, "TEMP-2", two.Item.Code)

	_, err = f.scan(ctx, f.room.ID, one.Item.ID, teacherCode)
	require.NoError(t, err)

	three, err := f.svc.OneTimeCheckout(ctx, f.room.ID, "Adapter", "Guest", teacherCode)
	require.NoError(t, err)
	assert.Equal(t, "TEMP-1", three.Item.Code)
}

func TestTempCodeSkipsRegisteredCodeInAnyCase(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, f.room.ID, "temp-1", "Labelled by hand")
	require.NoError(t, err)

	res, err := f.svc.OneTimeCheckout(ctx, f.room.ID, "Cable", "Guest", teacherCode)
	require.NoError(t, err)
	assert.Equal(t, "TEMP-2", res.Item.Code)
}

func TestSweep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := store.CreateItem(ctx, f.db, f.room.ID, "TEMP-9", "Leftover", true)
	require.NoError(t, err)
	_, err = store.CreateStudent(ctx, f.db, f.room.ID, "Visitor", "12345", true)
	require.NoError(t, err)
	held, err := f.svc.OneTimeCheckout(ctx, f.room.ID, "Cable", "Guest", teacherCode)
	require.NoError(t, err)

	_, err = f.svc.Sweep(ctx, f.room.ID, "0000")
	assert.ErrorIs(t, err, model.ErrUnauthorized)

	res, err := f.svc.Sweep(ctx, f.room.ID, teacherCode)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Items)
	assert.Equal(t, int64(1), res.Students)

	assert.NotNil(t, f.item(t, held.Item.ID), "held one-time item survives")
	guest, _ := store.GetStudent(ctx, f.db, f.room.ID, held.Student.ID)
	assert.NotNil(t, guest, "one-time student holding an item survives")
}
