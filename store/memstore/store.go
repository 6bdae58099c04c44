package memstore

import (
	"context"
	"fmt"
	"iter"
	"sync"

	ticketreg "github.com/ssoforge/ticketreg"
)

// Store is the in-memory reference [ticketreg.TicketStore]: a mutex-guarded
// map. All single-key operations are atomic; Stream iterates over a
// point-in-time snapshot, so concurrent writes during iteration are neither
// observed nor disturbed.
type Store struct {
	mu      sync.RWMutex
	tickets map[string]ticketreg.Ticket
}

// New creates an empty store.
func New() *Store {
	return &Store{tickets: make(map[string]ticketreg.Ticket)}
}

// Put implements [ticketreg.TicketStore].
func (s *Store) Put(ctx context.Context, t ticketreg.Ticket) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ticketreg.ErrStoreUnavailable, err)
	}
	s.mu.Lock()
	s.tickets[t.ID()] = t
	s.mu.Unlock()
	return nil
}

// Get implements [ticketreg.TicketStore].
func (s *Store) Get(ctx context.Context, id string) (ticketreg.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ticketreg.ErrStoreUnavailable, err)
	}
	s.mu.RLock()
	t, ok := s.tickets[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ticketreg.ErrTicketNotFound, id)
	}
	return t, nil
}

// DeleteSingle implements [ticketreg.TicketStore].
func (s *Store) DeleteSingle(ctx context.Context, id string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("%w: %v", ticketreg.ErrStoreUnavailable, err)
	}
	s.mu.Lock()
	_, ok := s.tickets[id]
	delete(s.tickets, id)
	s.mu.Unlock()
	if ok {
		return 1, nil
	}
	return 0, nil
}

// Stream implements [ticketreg.TicketStore].
func (s *Store) Stream(ctx context.Context) (iter.Seq2[ticketreg.Ticket, error], error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ticketreg.ErrStoreUnavailable, err)
	}
	return func(yield func(ticketreg.Ticket, error) bool) {
		s.mu.RLock()
		snapshot := make([]ticketreg.Ticket, 0, len(s.tickets))
		for _, t := range s.tickets {
			snapshot = append(snapshot, t)
		}
		s.mu.RUnlock()

		for _, t := range snapshot {
			if !yield(t, nil) {
				return
			}
		}
	}, nil
}

// Len returns the number of stored entries. Test and inspection helper.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tickets)
}

// Contains reports whether an entry exists under id without going through
// the registry's decode layer. Test and inspection helper.
func (s *Store) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tickets[id]
	return ok
}
