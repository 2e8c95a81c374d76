package luggage

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"luggagetracker/internal/logging"
	"luggagetracker/internal/slot"
)

var errBoom = errors.New("boom")

// faultySlot wraps a Memory slot and fails loads or stores on demand.
type faultySlot struct {
	*slot.Memory

	mu        sync.Mutex
	loadErr   error
	storeErr  error
	loadGate  chan struct{}
	loadEnter chan struct{}
}

func newFaultySlot() *faultySlot {
	return &faultySlot{Memory: slot.NewMemory(slot.DefaultKey)}
}

func (f *faultySlot) setLoadErr(err error) {
	f.mu.Lock()
	f.loadErr = err
	f.mu.Unlock()
}

func (f *faultySlot) setStoreErr(err error) {
	f.mu.Lock()
	f.storeErr = err
	f.mu.Unlock()
}

// gate makes every Load block until release is called. Each blocked Load
// first signals on the returned channel.
func (f *faultySlot) gate() (entered <-chan struct{}, release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loadGate = make(chan struct{})
	f.loadEnter = make(chan struct{}, 16)
	g := f.loadGate
	return f.loadEnter, func() { close(g) }
}

func (f *faultySlot) Load(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	err, gate, enter := f.loadErr, f.loadGate, f.loadEnter
	f.mu.Unlock()

	if gate != nil {
		enter <- struct{}{}
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return f.Memory.Load(ctx)
}

func (f *faultySlot) Store(ctx context.Context, value []byte) error {
	f.mu.Lock()
	err := f.storeErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	return f.Memory.Store(ctx, value)
}

func newBufferLogger(t *testing.T) (logging.Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	return logging.NewSlogLogger(slog.New(h)), &buf
}
