package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/erazemk/gearkiosk/internal/model"
)

func TestNeedsTeacher(t *testing.T) {
	assert.False(t, NeedsTeacher(item(model.ItemStatusAvailable, true), true))
	assert.False(t, NeedsTeacher(item(model.ItemStatusOut, false), false))
	assert.True(t, NeedsTeacher(item(model.ItemStatusOut, true), false))
	assert.True(t, NeedsTeacher(item(model.ItemStatusOut, false), true))
	assert.True(t, NeedsTeacher(item(model.ItemStatusPending, false), false))
	assert.False(t, NeedsTeacher(nil, true))
}

func TestRequiresTeacherReturn(t *testing.T) {
	guestID := int64(9)
	students := []model.Student{
		{ID: 1, Name: "Alex"},
		{ID: guestID, Name: "Guest", OneTime: true},
	}

	byName := &model.Item{Status: model.ItemStatusOut, CurrentUser: "GUEST"}
	assert.True(t, RequiresTeacherReturn(byName, students))

	byID := &model.Item{Status: model.ItemStatusOut, CurrentUser: "Renamed", HolderID: &guestID}
	assert.True(t, RequiresTeacherReturn(byID, students))

	regular := &model.Item{Status: model.ItemStatusOut, CurrentUser: "Alex"}
	assert.False(t, RequiresTeacherReturn(regular, students))

	oneTime := &model.Item{Status: model.ItemStatusOut, CurrentUser: "Alex", OneTime: true}
	assert.True(t, RequiresTeacherReturn(oneTime, students))

	// Pending items go to verification, not the teacher-return path.
	pending := &model.Item{Status: model.ItemStatusPending, CurrentUser: "Guest"}
	assert.False(t, RequiresTeacherReturn(pending, students))
}

func TestLogMatches(t *testing.T) {
	names := map[string]string{"D1": "Drill"}
	entry := model.LogEntry{Item: "D1", Student: "Alex", Action: ActionCheckout}

	assert.True(t, LogMatches(entry, names, ""))
	assert.True(t, LogMatches(entry, names, " z "), "short query matches everything")
	assert.True(t, LogMatches(entry, names, "d1"))
	assert.True(t, LogMatches(entry, names, "  DRI "))
	assert.True(t, LogMatches(entry, names, "lex"))
	assert.False(t, LogMatches(entry, names, "Checkout"), "actions are not searched")
	assert.False(t, LogMatches(entry, names, "saw"))
}

func TestItemMatches(t *testing.T) {
	it := model.Item{Code: "CAM1", Name: "Camera", CurrentUser: "Guest"}

	assert.True(t, ItemMatches(it, "c"))
	assert.True(t, ItemMatches(it, "cam"))
	assert.True(t, ItemMatches(it, "mera"))
	assert.True(t, ItemMatches(it, "gue"))
	assert.False(t, ItemMatches(it, "tripod"))
}

func TestFilterLogs(t *testing.T) {
	logs := []model.LogEntry{
		{ID: 3, Item: "D1", Student: "Alex"},
		{ID: 2, Item: "CAM1", Student: "Guest"},
		{ID: 1, Item: "D1", Student: "Sam"},
	}
	items := []model.Item{{Code: "D1", Name: "Drill"}, {Code: "CAM1", Name: "Camera"}}

	got := FilterLogs(logs, items, "drill")
	if assert.Len(t, got, 2) {
		assert.Equal(t, int64(3), got[0].ID)
		assert.Equal(t, int64(1), got[1].ID)
	}
	assert.Len(t, FilterLogs(logs, items, "x"), 3)
}
