package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/gearkiosk/internal/db"
	"github.com/erazemk/gearkiosk/internal/model"
)

func TestCreateStudentDuplicateCode(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	c := newClassroom(t, database, "RoomA")

	if _, err := CreateStudent(ctx, database, c.ID, "Alex", "5555", false); err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	_, err := CreateStudent(ctx, database, c.ID, "Sam", "5555", false)
	if !errors.Is(err, model.ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestStudentLookups(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	c := newClassroom(t, database, "RoomA")

	alex, _ := CreateStudent(ctx, database, c.ID, "Alex", "5555", false)
	CreateStudent(ctx, database, c.ID, "bea", "6666", false)

	byCode, err := GetStudentByCode(ctx, database, c.ID, "5555")
	if err != nil {
		t.Fatalf("GetStudentByCode: %v", err)
	}
	if byCode == nil || byCode.ID != alex.ID {
		t.Errorf("expected Alex by code, got %+v", byCode)
	}

	byName, _ := GetStudentByName(ctx, database, c.ID, "ALEX")
	if byName == nil || byName.ID != alex.ID {
		t.Errorf("expected Alex by name, got %+v", byName)
	}

	if none, _ := GetStudentByCode(ctx, database, c.ID, "0000"); none != nil {
		t.Error("expected nil for unknown code")
	}

	students, _ := ListStudents(ctx, database, c.ID)
	if len(students) != 2 || students[0].Name != "Alex" || students[1].Name != "bea" {
		t.Errorf("expected students ordered by name, got %+v", students)
	}
}

func TestSweepOneTimeStudents(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	c := newClassroom(t, database, "RoomA")

	holder, _ := CreateStudent(ctx, database, c.ID, "Guest", "11111", true)
	idle, _ := CreateStudent(ctx, database, c.ID, "Visitor", "22222", true)
	legacy, _ := CreateStudent(ctx, database, c.ID, "Parent", "33333", true)
	regular, _ := CreateStudent(ctx, database, c.ID, "Alex", "5555", false)

	cam, _ := CreateItem(ctx, database, c.ID, "CAM1", "Camera", false)
	TransitionItem(ctx, database, c.ID, cam.ID, model.ItemStatusAvailable, model.ItemStatusOut, holder.Name, &holder.ID)

	// Held by name only, as rows without a holder id are.
	tripod, _ := CreateItem(ctx, database, c.ID, "TRI1", "Tripod", false)
	TransitionItem(ctx, database, c.ID, tripod.ID, model.ItemStatusAvailable, model.ItemStatusOut, "parent", nil)

	n, err := SweepOneTimeStudents(ctx, database, c.ID)
	if err != nil {
		t.Fatalf("SweepOneTimeStudents: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 swept student, got %d", n)
	}

	for _, st := range []*model.Student{holder, legacy, regular} {
		if got, _ := GetStudent(ctx, database, c.ID, st.ID); got == nil {
			t.Errorf("expected %s to survive the sweep", st.Name)
		}
	}
	if got, _ := GetStudent(ctx, database, c.ID, idle.ID); got != nil {
		t.Error("expected idle one-time student to be swept")
	}
}

func TestCountItemsHeldBy(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	c := newClassroom(t, database, "RoomA")

	alex, _ := CreateStudent(ctx, database, c.ID, "Alex", "5555", false)
	d1, _ := CreateItem(ctx, database, c.ID, "D1", "Drill", false)
	d2, _ := CreateItem(ctx, database, c.ID, "D2", "Drill", false)
	TransitionItem(ctx, database, c.ID, d1.ID, model.ItemStatusAvailable, model.ItemStatusOut, alex.Name, &alex.ID)
	TransitionItem(ctx, database, c.ID, d2.ID, model.ItemStatusAvailable, model.ItemStatusOut, alex.Name, &alex.ID)
	TransitionItem(ctx, database, c.ID, d2.ID, model.ItemStatusOut, model.ItemStatusPending, alex.Name, &alex.ID)

	out, err := CountItemsHeldBy(ctx, database, c.ID, alex, model.ItemStatusOut)
	if err != nil {
		t.Fatalf("CountItemsHeldBy: %v", err)
	}
	if out != 1 {
		t.Errorf("expected 1 out item, got %d", out)
	}
}
