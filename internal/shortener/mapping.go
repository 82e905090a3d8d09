package shortener

import (
	"context"
	"errors"
	"time"
)

// Code represents a short URL code.
type Code string

// CodeLength is the fixed length of every issued code.
const CodeLength = 6

// Mapping represents a persisted short code to original URL association.
// Mappings are immutable: created once, read many times, never updated.
type Mapping struct {
	ID          int64
	OriginalURL string
	Code        Code
	CreatedAt   time.Time
}

var (
	// ErrNotFound is returned when no mapping exists for a code or URL.
	ErrNotFound = errors.New("mapping not found")

	// ErrCodeExists is returned by Insert when the code is already taken.
	// The unique constraint on short_code is what raises it; callers may
	// retry with a fresh code.
	ErrCodeExists = errors.New("short code already exists")

	// ErrCodeSpaceExhausted is returned when every allocation attempt
	// collided with an existing code.
	ErrCodeSpaceExhausted = errors.New("exhausted short code allocation attempts")
)

// Repository defines the storage operations for URL mappings.
//
// Insert must be atomic and must report a short-code uniqueness conflict as
// ErrCodeExists, distinguishable from any other storage failure. That
// constraint, not CodeExists, is what keeps two concurrent writers from ever
// sharing a code.
type Repository interface {
	// FindByURL returns the existing mapping whose original URL matches url
	// byte-for-byte, or ErrNotFound. No normalization is applied.
	FindByURL(ctx context.Context, url string) (*Mapping, error)

	// CodeExists reports whether a mapping already uses code. It is an
	// optimization to avoid wasting a constraint violation, not a
	// correctness check.
	CodeExists(ctx context.Context, code Code) (bool, error)

	// Insert persists a new mapping, returning ErrCodeExists when the code
	// is already taken.
	Insert(ctx context.Context, m *Mapping) error

	// FindByCode returns the mapping for code, or ErrNotFound.
	FindByCode(ctx context.Context, code Code) (*Mapping, error)
}
