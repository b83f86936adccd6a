package model

import (
	"fmt"
	"time"
)

// Classroom is a tenant: it owns its items, students and activity log.
type Classroom struct {
	ID        int64     `json:"id"`
	Handle    string    `json:"handle"`
	Code      string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Code lengths.
const (
	CodeLength          = 4
	GeneratedCodeLength = 5
)

// TeacherName is recorded as the acting person for teacher transitions.
const TeacherName = "Teacher"

// ValidateCode checks that a classroom or student code is exactly four digits.
func ValidateCode(code string) error {
	if len(code) != CodeLength {
		return fmt.Errorf("%w: code must be exactly %d digits", ErrValidation, CodeLength)
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return fmt.Errorf("%w: code must contain only digits", ErrValidation)
		}
	}
	return nil
}
