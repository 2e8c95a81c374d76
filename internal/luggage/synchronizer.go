package luggage

import (
	"context"
	"slices"
	"sync"

	"luggagetracker/internal/logging"
)

// Messages surfaced through State.Error.
const (
	MsgLoadFailed   = "Failed to load items from storage"
	MsgAddFailed    = "Failed to add item"
	MsgDeleteFailed = "Failed to delete item"
)

// SyncOption configures a Synchronizer.
type SyncOption func(*Synchronizer)

// WithSyncLogger routes the Synchronizer's failure logs to l.
func WithSyncLogger(l logging.Logger) SyncOption {
	return func(s *Synchronizer) {
		if l != nil {
			s.logger = l
		}
	}
}

// Store is the persistence the Synchronizer writes through.
// *Repository implements it.
type Store interface {
	ListAll(ctx context.Context) ([]Item, error)
	Create(ctx context.Context, name, destination string) (Item, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// State is what a presentation layer renders. Error is empty when there is
// no error to show.
type State struct {
	Items   []Item
	Loading bool
	Error   string
}

func (s State) clone() State {
	s.Items = slices.Clone(s.Items)
	if s.Items == nil {
		s.Items = []Item{}
	}
	return s
}

// Synchronizer is an observable cache of a Store. Loads and writes are
// serialized; failures never escape as errors and are reported through
// State.Error instead. The cache is only reconciled with the store on
// Reload.
type Synchronizer struct {
	store  Store
	logger logging.Logger

	// writeMu serializes Reload, Add and Delete.
	writeMu sync.Mutex

	mu      sync.RWMutex
	state   State
	subs    map[int]chan State
	nextSub int

	ready chan struct{}
}

// NewSynchronizer returns a Synchronizer in the loading state and starts the
// initial load in the background. Ready is closed once it settles.
func NewSynchronizer(ctx context.Context, store Store, opts ...SyncOption) *Synchronizer {
	s := &Synchronizer{
		store:  store,
		logger: logging.Nop(),
		state:  State{Items: []Item{}, Loading: true},
		subs:   make(map[int]chan State),
		ready:  make(chan struct{}),
	}
	for _, fn := range opts {
		fn(s)
	}
	go func() {
		defer close(s.ready)
		s.Reload(ctx)
	}()
	return s
}

// Ready is closed when the initial load has settled.
func (s *Synchronizer) Ready() <-chan struct{} { return s.ready }

// Snapshot returns a copy of the current state.
func (s *Synchronizer) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Items returns a copy of the cached items.
func (s *Synchronizer) Items() []Item { return s.Snapshot().Items }

// Loading reports whether an operation is in flight.
func (s *Synchronizer) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Loading
}

// Err returns the current error message, or "" if there is none.
func (s *Synchronizer) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Error
}

// Subscribe returns a channel that always holds the latest state. The
// current state is delivered immediately; a state the subscriber has not
// yet received is replaced by newer ones. Call the returned func to
// unsubscribe, which closes the channel.
func (s *Synchronizer) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.state.clone()
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			close(ch)
			s.mu.Unlock()
		})
	}
	return ch, cancel
}

// Reload replaces the cached items with the store's contents. On failure
// the cached items are kept and Error is set.
func (s *Synchronizer) Reload(ctx context.Context) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.update(func(st *State) { st.Loading = true })

	items, err := s.store.ListAll(ctx)
	if err != nil {
		s.logger.Error(ctx, "load luggage items", "err", err)
	}
	s.update(func(st *State) {
		if err != nil {
			st.Error = MsgLoadFailed
		} else {
			st.Items = items
			st.Error = ""
		}
		st.Loading = false
	})
}

// Add creates an item through the store and appends it to the cache.
// It reports false if the store failed; Error says so and the cache is
// left as it was.
func (s *Synchronizer) Add(ctx context.Context, name, destination string) (Item, bool) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.update(func(st *State) { st.Loading = true })

	item, err := s.store.Create(ctx, name, destination)
	if err != nil {
		s.logger.Error(ctx, "add luggage item", "err", err)
		s.fail(MsgAddFailed)
		return Item{}, false
	}

	s.update(func(st *State) {
		st.Items = append(slices.Clone(st.Items), item)
		st.Error = ""
		st.Loading = false
	})
	return item, true
}

// Delete removes id through the store and drops it from the cache. An id
// the store does not know is still dropped from the cache. It reports
// false if the store failed.
func (s *Synchronizer) Delete(ctx context.Context, id string) bool {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.update(func(st *State) { st.Loading = true })

	removed, err := s.store.Delete(ctx, id)
	if err != nil {
		s.logger.Error(ctx, "delete luggage item", "id", id, "err", err)
		s.fail(MsgDeleteFailed)
		return false
	}
	if !removed {
		s.logger.Debug(ctx, "delete of unknown luggage item", "id", id)
	}

	s.update(func(st *State) {
		st.Items = slices.DeleteFunc(slices.Clone(st.Items), func(it Item) bool { return it.ID == id })
		st.Error = ""
		st.Loading = false
	})
	return true
}

func (s *Synchronizer) fail(msg string) {
	s.update(func(st *State) {
		st.Error = msg
		st.Loading = false
	})
}

// update applies fn to the state and publishes the result.
func (s *Synchronizer) update(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.state)
	for _, ch := range s.subs {
		publish(ch, s.state.clone())
	}
}

// publish hands st to ch, replacing any value still waiting in it. Callers
// hold s.mu, so there is a single sender per channel.
func publish(ch chan State, st State) {
	select {
	case ch <- st:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	ch <- st
}
