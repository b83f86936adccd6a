package model

import (
	"strings"
	"time"
)

// Student is a person allowed to check items out with their code.
type Student struct {
	ID          int64     `json:"id"`
	ClassroomID int64     `json:"classroom_id"`
	Name        string    `json:"name"`
	Code        string    `json:"-"`
	OneTime     bool      `json:"one_time"`
	CreatedAt   time.Time `json:"created_at"`
}

// LogEntry records a single item transition.
type LogEntry struct {
	ID          int64     `json:"id"`
	ClassroomID int64     `json:"classroom_id"`
	Item        string    `json:"item"`
	Student     string    `json:"student"`
	Action      string    `json:"action"`
	LoggedAt    time.Time `json:"logged_at"`
}

// RecentLogLimit bounds the activity feed.
const RecentLogLimit = 100

// SameName compares holder names the way the checkout flow resolves them.
func SameName(a, b string) bool {
	return a != "" && strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
