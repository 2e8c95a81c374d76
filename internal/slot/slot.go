// Package slot provides the single-key storage slots the luggage repository
// persists its collection into. A slot holds one opaque value; every Store
// replaces that value as a whole.
package slot

import (
	"context"
	"errors"
)

// DefaultKey is the key the item collection is stored under.
const DefaultKey = "luggage-tracker-items"

// ErrUnavailable is returned when there is no storage to talk to at all.
// Callers treat it as "nothing stored, nothing to write to" rather than as
// a failure.
var ErrUnavailable = errors.New("storage slot unavailable")

// Slot is a single string-keyed value in some persistent store.
type Slot interface {
	// Key returns the key the slot is bound to.
	Key() string

	// Load returns the current value, or (nil, nil) if the key is absent.
	Load(ctx context.Context) ([]byte, error)

	// Store replaces the value in a single call.
	Store(ctx context.Context, value []byte) error
}

// Unavailable is a Slot with no backing store. Every call returns
// ErrUnavailable.
type Unavailable struct {
	key string
}

// NewUnavailable returns an Unavailable slot for key.
func NewUnavailable(key string) *Unavailable {
	return &Unavailable{key: key}
}

// Key returns the key the slot would be bound to.
func (u *Unavailable) Key() string { return u.key }

// Load always returns ErrUnavailable.
func (u *Unavailable) Load(context.Context) ([]byte, error) { return nil, ErrUnavailable }

// Store always returns ErrUnavailable.
func (u *Unavailable) Store(context.Context, []byte) error { return ErrUnavailable }
