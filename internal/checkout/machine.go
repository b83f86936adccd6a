// Package checkout decides item transitions. Nothing here touches storage:
// callers load the item and the acting person, ask Decide what happens, and
// persist the result.
package checkout

import (
	"fmt"

	"github.com/erazemk/gearkiosk/internal/model"
)

// Log actions.
const (
	ActionCheckout       = "Checkout"
	ActionReturnPending  = "Returned (Pending)"
	ActionReturnTeacher  = "Returned (Teacher)"
	ActionOneTimeRemoved = "Returned (One-Time Item Removed)"
	ActionVerified       = "Verified Return"
	ActionVerifiedBulk   = "Verified Return (Bulk)"
)

// ActorKind says how the acting person proved who they are.
type ActorKind int

const (
	// Student presented their own code.
	Student ActorKind = iota
	// Teacher presented the classroom code where a student code was expected.
	Teacher
	// Verifier is a teacher explicitly verifying a return.
	Verifier
)

func (k ActorKind) String() string {
	switch k {
	case Student:
		return "student"
	case Teacher:
		return "teacher"
	case Verifier:
		return "verifier"
	}
	return fmt.Sprintf("actor(%d)", int(k))
}

// Actor is the person moving an item.
type Actor struct {
	Kind    ActorKind
	Student *model.Student // set for Student
}

// Name is what the activity log records for the actor.
func (a Actor) Name() string {
	if a.Kind == Student && a.Student != nil {
		return a.Student.Name
	}
	return model.TeacherName
}

// Decision is the outcome of a transition.
type Decision struct {
	From   string
	To     string // model item status; empty when Delete is set
	Holder *model.Student
	Delete bool
	Action string
}

// Released reports whether the item leaves the held states, which is what
// triggers the one-time student sweep.
func (d Decision) Released() bool {
	return d.Delete || d.To == model.ItemStatusAvailable
}

// Decide computes what happens when actor presents item. holderOneTime tells
// whether the current holder is a one-time student.
func Decide(item *model.Item, holderOneTime bool, actor Actor) (Decision, error) {
	if item == nil {
		return Decision{}, model.ErrNotFound
	}
	if actor.Kind == Student && actor.Student == nil {
		return Decision{}, model.ErrUnauthorized
	}

	d := Decision{From: item.Status}

	switch item.Status {
	case model.ItemStatusAvailable:
		if actor.Kind != Student {
			return Decision{}, fmt.Errorf("%w: item %s is not checked out", model.ErrInvalidState, item.Code)
		}
		d.To = model.ItemStatusOut
		d.Holder = actor.Student
		d.Action = ActionCheckout

	case model.ItemStatusOut:
		if actor.Kind == Student {
			if NeedsTeacher(item, holderOneTime) {
				return Decision{}, model.ErrTeacherRequired
			}
			d.To = model.ItemStatusPending
			d.Holder = actor.Student
			d.Action = ActionReturnPending
			break
		}
		release(&d, item, actor.Kind)

	case model.ItemStatusPending:
		if actor.Kind == Student {
			return Decision{}, model.ErrTeacherRequired
		}
		release(&d, item, Verifier)

	default:
		return Decision{}, fmt.Errorf("%w: unknown status %q", model.ErrInvalidState, item.Status)
	}

	return d, nil
}

// release makes the item available again, or removes it if it was one-time.
func release(d *Decision, item *model.Item, kind ActorKind) {
	switch {
	case item.OneTime:
		d.Delete = true
		d.Action = ActionOneTimeRemoved
	case kind == Teacher:
		d.To = model.ItemStatusAvailable
		d.Action = ActionReturnTeacher
	default:
		d.To = model.ItemStatusAvailable
		d.Action = ActionVerified
	}
}
