package model

import "time"

// Item is a single physical piece of gear tracked by its external code.
type Item struct {
	ID          int64     `json:"id"`
	ClassroomID int64     `json:"classroom_id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	CurrentUser string    `json:"current_user,omitempty"`
	HolderID    *int64    `json:"holder_id,omitempty"`
	OneTime     bool      `json:"one_time"`
	ImageMime   string    `json:"image_mime,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Item statuses.
const (
	ItemStatusAvailable = "available"
	ItemStatusOut       = "out"
	ItemStatusPending   = "pending"
)

// ValidItemStatus reports whether status is one of the known item statuses.
func ValidItemStatus(status string) bool {
	switch status {
	case ItemStatusAvailable, ItemStatusOut, ItemStatusPending:
		return true
	}
	return false
}

// Held reports whether the item is checked out or awaiting verification.
func (i *Item) Held() bool {
	return i.Status == ItemStatusOut || i.Status == ItemStatusPending
}
