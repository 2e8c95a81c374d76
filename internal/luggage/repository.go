package luggage

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"luggagetracker/internal/logging"
	"luggagetracker/internal/slot"
)

// idAttempts bounds how often Create retries a colliding ID.
const idAttempts = 3

// Option configures a Repository.
type Option func(*options)

type options struct {
	logger logging.Logger
	now    func() time.Time
	newID  func() string
}

func defaultOptions() options {
	return options{
		logger: logging.Nop(),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

// WithLogger routes diagnostics to l.
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock overrides the source of CreatedAt timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator overrides the ID source. The default is a random
// (version 4) UUID read from crypto/rand.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) {
		if newID != nil {
			o.newID = newID
		}
	}
}

// Stats counts the repository's traffic against its slot.
type Stats struct {
	Reads        uint64
	Writes       uint64
	CorruptReads uint64
}

// Repository owns the persisted item collection. The whole collection lives
// in one slot and is rewritten in full on every change. Create and Delete
// are safe for concurrent use within one process.
type Repository struct {
	slot slot.Slot
	opts options

	// mu serializes the read-modify-write of Create and Delete.
	mu sync.Mutex

	reads   atomic.Uint64
	writes  atomic.Uint64
	corrupt atomic.Uint64
}

// NewRepository creates a Repository over s.
func NewRepository(s slot.Slot, opts ...Option) *Repository {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return &Repository{
		slot: s,
		opts: o,
	}
}

// ListAll returns every stored item in insertion order.
//
// An absent key, an unavailable slot and an undecodable payload all yield an
// empty collection; the last is also logged as a warning. A single record
// that cannot be decoded is skipped with a warning and the rest are
// returned. Any other read failure is returned.
func (r *Repository) ListAll(ctx context.Context) ([]Item, error) {
	raw, err := r.slot.Load(ctx)
	r.reads.Add(1)
	if errors.Is(err, slot.ErrUnavailable) {
		return []Item{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", r.slot.Key(), err)
	}
	if raw == nil {
		return []Item{}, nil
	}

	items, diags := decode(r.slot.Key(), raw)
	for _, d := range diags {
		if d.Index < 0 {
			r.opts.logger.Warn(ctx, "failed to parse luggage items", "key", d.Key, "err", d.Err)
			continue
		}
		r.opts.logger.Warn(ctx, "skipping unreadable luggage item", "key", d.Key, "index", d.Index, "err", d.Err)
	}
	if len(diags) > 0 {
		r.corrupt.Add(1)
	}
	return items, nil
}

// Create appends a new item and persists the updated collection.
// name and destination are stored as given.
func (r *Repository) Create(ctx context.Context, name, destination string) (Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.ListAll(ctx)
	if err != nil {
		return Item{}, err
	}

	id, err := r.uniqueID(items)
	if err != nil {
		return Item{}, err
	}
	item := Item{
		ID:          id,
		Name:        name,
		Destination: destination,
		CreatedAt:   r.opts.now(),
	}

	if err := r.persist(ctx, append(items, item)); err != nil {
		return Item{}, err
	}
	return item, nil
}

// Delete removes the first item with the given id. It reports false, and
// writes nothing, if no item matched.
func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items, err := r.ListAll(ctx)
	if err != nil {
		return false, err
	}

	idx := slices.IndexFunc(items, func(it Item) bool { return it.ID == id })
	if idx < 0 {
		return false, nil
	}
	items = slices.Delete(items, idx, idx+1)

	if err := r.persist(ctx, items); err != nil {
		return false, err
	}
	return true, nil
}

// Stats returns a snapshot of the slot counters.
func (r *Repository) Stats() Stats {
	return Stats{
		Reads:        r.reads.Load(),
		Writes:       r.writes.Load(),
		CorruptReads: r.corrupt.Load(),
	}
}

func (r *Repository) uniqueID(items []Item) (string, error) {
	for range idAttempts {
		id := r.opts.newID()
		if !slices.ContainsFunc(items, func(it Item) bool { return it.ID == id }) {
			return id, nil
		}
	}
	return "", ErrDuplicateID
}

// persist writes the full collection. Without a backing store the write is
// skipped and reported as success.
func (r *Repository) persist(ctx context.Context, items []Item) error {
	payload, err := encode(items)
	if err != nil {
		return fmt.Errorf("encode items: %w", err)
	}
	err = r.slot.Store(ctx, payload)
	if errors.Is(err, slot.ErrUnavailable) {
		r.opts.logger.Debug(ctx, "storage unavailable, write skipped", "key", r.slot.Key())
		return nil
	}
	if err != nil {
		return fmt.Errorf("store %s: %w", r.slot.Key(), err)
	}
	r.writes.Add(1)
	return nil
}
