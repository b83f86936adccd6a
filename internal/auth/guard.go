package auth

import (
	"context"
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/gearkiosk/internal/model"
	"github.com/erazemk/gearkiosk/internal/store"
)

// CodeScheme decides how classroom codes are stored and compared.
type CodeScheme interface {
	// Seal turns a plain code into its stored form.
	Seal(code string) (string, error)
	// Match reports whether a presented code matches a stored one.
	Match(stored, presented string) bool
}

// Code scheme names accepted by SchemeByName.
const (
	SchemePlain  = "plain"
	SchemeBcrypt = "bcrypt"
)

// PlainScheme stores codes as they are typed. Codes are four digits and are
// not rate limited, so this offers no real secrecy.
type PlainScheme struct{}

func (PlainScheme) Seal(code string) (string, error) { return code, nil }

func (PlainScheme) Match(stored, presented string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(presented)) == 1
}

// BcryptScheme stores bcrypt hashes of codes.
type BcryptScheme struct {
	Cost int
}

func (s BcryptScheme) Seal(code string) (string, error) {
	cost := s.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), cost)
	if err != nil {
		return "", fmt.Errorf("hashing code: %w", err)
	}
	return string(hash), nil
}

func (BcryptScheme) Match(stored, presented string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(presented)) == nil
}

// SchemeByName returns the code scheme registered under name.
func SchemeByName(name string) (CodeScheme, error) {
	switch name {
	case "", SchemePlain:
		return PlainScheme{}, nil
	case SchemeBcrypt:
		return BcryptScheme{}, nil
	default:
		return nil, fmt.Errorf("unknown code scheme %q", name)
	}
}

// Guard checks codes presented at the kiosk against a classroom and its
// students.
type Guard struct {
	Scheme CodeScheme
}

// NewGuard returns a guard using scheme, or PlainScheme when scheme is nil.
func NewGuard(scheme CodeScheme) *Guard {
	if scheme == nil {
		scheme = PlainScheme{}
	}
	return &Guard{Scheme: scheme}
}

// Seal prepares a classroom code for storage.
func (g *Guard) Seal(code string) (string, error) {
	return g.Scheme.Seal(code)
}

// Teacher reports whether code is the classroom's teacher code.
func (g *Guard) Teacher(c *model.Classroom, code string) bool {
	if c == nil || code == "" {
		return false
	}
	return g.Scheme.Match(c.Code, code)
}

// Student returns the classroom's student with the given code, or nil.
// Student codes are looked up by value, so they are always stored plain.
func (g *Guard) Student(ctx context.Context, q store.DBTX, classroomID int64, code string) (*model.Student, error) {
	if classroomID <= 0 || code == "" {
		return nil, nil
	}
	return store.GetStudentByCode(ctx, q, classroomID, code)
}
