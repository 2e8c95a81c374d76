package luggage

import "errors"

// ErrInvalidInput is returned when a name or destination is missing.
var ErrInvalidInput = errors.New("name and destination are required")

// ErrDuplicateID is returned when the ID generator keeps producing IDs that
// are already present in the store.
var ErrDuplicateID = errors.New("could not generate a unique item id")
