package ticketreg

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log"
	"math"
	"strings"
	"time"
)

// CountUnknown is the sentinel returned by count operations when the backing
// store cannot enumerate its contents. Callers must not treat it as a real
// count.
const CountUnknown int64 = math.MinInt64

// Registry is the ticket lifecycle manager. It orchestrates persistence
// through a [TicketStore], routing payloads through the cipher and
// serializer, and computes derived queries (counts, attribute search) by
// streaming the store.
//
// A Registry holds no mutable state of its own; its collaborators are
// read-only after construction, so all methods are safe for concurrent use
// when the store's individual operations are atomic.
type Registry struct {
	store      TicketStore
	cipher     Cipher
	serializer Serializer
	metrics    *Metrics

	cleanOrphanedEncoded bool
}

// WithCipher derives a registry over the same store and serializer with a
// different cipher. This is the explicit key-rotation path: the returned
// registry applies the new cipher to subsequent operations only, and the
// receiver is unchanged.
func (r *Registry) WithCipher(c Cipher) *Registry {
	derived := *r
	if c == nil {
		c = NoCipher{}
	}
	derived.cipher = c
	return &derived
}

// AddTicket persists the ticket through the encode layer. Nil and
// already-expired tickets are silently dropped. Store failures propagate.
func (r *Registry) AddTicket(ctx context.Context, t Ticket) error {
	if t == nil || t.IsExpired(time.Now()) {
		return nil
	}
	encoded, err := r.encodeTicket(t)
	if err != nil {
		return err
	}
	if err := r.store.Put(ctx, encoded); err != nil {
		return err
	}
	r.metrics.Inc(MetricTicketsAdded)
	return nil
}

// GetTicket fetches and decodes the ticket stored under id.
//
// This read carries two documented write side effects: a ticket whose
// expiration predicate evaluates true is deleted from the store (lazy
// eviction) and reported as [ErrTicketNotFound], and an encoded ticket found
// while the cipher is disabled is removed the same way. Concurrent callers
// may race to evict the same id; both succeed because deleting an absent key
// is a no-op.
func (r *Registry) GetTicket(ctx context.Context, id string) (Ticket, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: blank ticket id", ErrTicketNotFound)
	}
	storageID := r.digest(id)
	raw, err := r.store.Get(ctx, storageID)
	if err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			r.metrics.Inc(MetricTicketsNotFound)
			return nil, fmt.Errorf("%w: %s", ErrTicketNotFound, id)
		}
		return nil, err
	}
	decoded, err := r.decodeTicket(ctx, raw)
	if err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			r.metrics.Inc(MetricTicketsNotFound)
		}
		return nil, err
	}
	if decoded.IsExpired(time.Now()) {
		if _, err := r.store.DeleteSingle(ctx, storageID); err != nil {
			log.Print("ticketreg: lazy eviction delete failed")
		} else {
			r.metrics.Inc(MetricLazyEvictions)
		}
		r.metrics.Inc(MetricTicketsNotFound)
		return nil, fmt.Errorf("%w: %s expired", ErrTicketNotFound, id)
	}
	r.metrics.Inc(MetricTicketsFetched)
	return decoded, nil
}

// GetTicketOfKind fetches the ticket under id and fails with
// [ErrTicketTypeMismatch] when the found variant is not compatible with the
// expected kind. A proxy-granting ticket satisfies [KindTicketGranting].
func (r *Registry) GetTicketOfKind(ctx context.Context, id string, expected Kind) (Ticket, error) {
	t, err := r.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	if !kindCompatible(expected, t.Kind()) {
		return nil, fmt.Errorf("%w: ticket %s is %s, expected %s", ErrTicketTypeMismatch, id, t.Kind(), expected)
	}
	return t, nil
}

func kindCompatible(expected, actual Kind) bool {
	if expected == actual {
		return true
	}
	// A proxy-granting ticket is itself a grantor session.
	return expected == KindTicketGranting && actual == KindProxyGranting
}

// GetTicketGrantingTicket fetches a root session ticket by id.
func (r *Registry) GetTicketGrantingTicket(ctx context.Context, id string) (*TicketGrantingTicket, error) {
	t, err := r.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	tgt, ok := t.(*TicketGrantingTicket)
	if !ok {
		return nil, fmt.Errorf("%w: ticket %s is %s, expected %s", ErrTicketTypeMismatch, id, t.Kind(), KindTicketGranting)
	}
	return tgt, nil
}

// GetServiceTicket fetches a service ticket by id.
func (r *Registry) GetServiceTicket(ctx context.Context, id string) (*ServiceTicket, error) {
	t, err := r.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	st, ok := t.(*ServiceTicket)
	if !ok {
		return nil, fmt.Errorf("%w: ticket %s is %s, expected %s", ErrTicketTypeMismatch, id, t.Kind(), KindService)
	}
	return st, nil
}

// GetProxyGrantingTicket fetches a proxy-granting ticket by id.
func (r *Registry) GetProxyGrantingTicket(ctx context.Context, id string) (*ProxyGrantingTicket, error) {
	t, err := r.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	pgt, ok := t.(*ProxyGrantingTicket)
	if !ok {
		return nil, fmt.Errorf("%w: ticket %s is %s, expected %s", ErrTicketTypeMismatch, id, t.Kind(), KindProxyGranting)
	}
	return pgt, nil
}

// DeleteTicket removes the ticket under id together with everything it
// transitively granted, returning the total number of store entries removed.
// A blank or unknown id removes nothing and returns 0 without error; delete
// is idempotent. A failure mid-cascade aborts the whole call and propagates;
// no partial count is reported.
func (r *Registry) DeleteTicket(ctx context.Context, id string) (int, error) {
	count, err := r.deleteByID(ctx, id)
	if err != nil {
		return 0, err
	}
	r.metrics.Add(MetricTicketsDeleted, uint64(count))
	return count, nil
}

// DeleteLoadedTicket cascade-deletes a ticket the caller already holds.
// See [Registry.DeleteTicket] for semantics.
func (r *Registry) DeleteLoadedTicket(ctx context.Context, t Ticket) (int, error) {
	count, err := r.deleteCascade(ctx, t)
	if err != nil {
		return 0, err
	}
	r.metrics.Add(MetricTicketsDeleted, uint64(count))
	return count, nil
}

func (r *Registry) deleteByID(ctx context.Context, id string) (int, error) {
	if id == "" {
		return 0, nil
	}
	t, err := r.GetTicket(ctx, id)
	if err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return r.deleteCascade(ctx, t)
}

func (r *Registry) deleteCascade(ctx context.Context, t Ticket) (int, error) {
	if t == nil {
		return 0, nil
	}
	count := 0
	switch v := t.(type) {
	case *TicketGrantingTicket:
		removed, err := r.deleteChildren(ctx, v.Services)
		if err != nil {
			return 0, err
		}
		count += removed

		removed, err = r.deleteLinkedProxyGrantingTickets(ctx, v)
		if err != nil {
			return 0, err
		}
		count += removed

	case *ProxyGrantingTicket:
		removed, err := r.deleteChildren(ctx, v.Services)
		if err != nil {
			return 0, err
		}
		count += removed

		if err := r.detachFromParent(ctx, v); err != nil {
			return 0, err
		}
	}

	removed, err := r.store.DeleteSingle(ctx, r.digest(t.ID()))
	if err != nil {
		return 0, err
	}
	count += removed
	return count, nil
}

// deleteChildren removes the service tickets referenced by a grantor's
// services map (service id → service ticket id). Already-absent children
// contribute nothing to the count.
func (r *Registry) deleteChildren(ctx context.Context, services map[string]string) (int, error) {
	count := 0
	for _, ticketID := range services {
		removed, err := r.store.DeleteSingle(ctx, r.digest(ticketID))
		if err != nil {
			return 0, err
		}
		count += removed
	}
	return count, nil
}

// deleteLinkedProxyGrantingTickets cascade-deletes every proxy-granting
// ticket a root session granted, then clears the map and persists the
// session once before the session itself is removed.
func (r *Registry) deleteLinkedProxyGrantingTickets(ctx context.Context, tgt *TicketGrantingTicket) (int, error) {
	if len(tgt.ProxyGrantingTickets) == 0 {
		return 0, nil
	}
	count := 0
	for pgtID := range tgt.ProxyGrantingTickets {
		removed, err := r.deleteByID(ctx, pgtID)
		if err != nil {
			return 0, err
		}
		count += removed
	}
	tgt.ProxyGrantingTickets = map[string]string{}
	updated, err := r.encodeTicket(tgt)
	if err != nil {
		return 0, err
	}
	if err := r.store.Put(ctx, updated); err != nil {
		return 0, err
	}
	return count, nil
}

// detachFromParent removes a proxy-granting ticket's forward entry from its
// parent's map and persists the parent with a single store write. The parent
// being already gone is not an error; the entry died with it.
func (r *Registry) detachFromParent(ctx context.Context, pgt *ProxyGrantingTicket) error {
	if pgt.ParentID == "" {
		return nil
	}
	parent, err := r.GetTicket(ctx, pgt.ParentID)
	if err != nil {
		if errors.Is(err, ErrTicketNotFound) {
			return nil
		}
		return err
	}
	switch p := parent.(type) {
	case *TicketGrantingTicket:
		delete(p.ProxyGrantingTickets, pgt.TicketID)
	case *ProxyGrantingTicket:
		delete(p.ProxyGrantingTickets, pgt.TicketID)
	default:
		return nil
	}
	updated, err := r.encodeTicket(parent)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, updated)
}

// Tickets returns a lazy, restartable sequence over all decoded tickets in
// the store. Each range over the sequence re-enumerates the store. Stores
// without enumeration support surface [ErrEnumerationUnsupported].
func (r *Registry) Tickets(ctx context.Context) (iter.Seq2[Ticket, error], error) {
	if _, err := r.store.Stream(ctx); err != nil {
		return nil, err
	}
	return func(yield func(Ticket, error) bool) {
		seq, err := r.store.Stream(ctx)
		if err != nil {
			yield(nil, err)
			return
		}
		for t, err := range r.decodeStream(ctx, seq) {
			if !yield(t, err) {
				return
			}
		}
	}, nil
}

// SessionCount counts grantor tickets (sessions) in the store by streaming
// it. When the store cannot enumerate, it returns [CountUnknown] rather than
// an error.
func (r *Registry) SessionCount(ctx context.Context) int64 {
	return r.countMatching(ctx, IsGrantor)
}

// ServiceTicketCount counts service tickets in the store by streaming it.
// When the store cannot enumerate, it returns [CountUnknown] rather than an
// error.
func (r *Registry) ServiceTicketCount(ctx context.Context) int64 {
	return r.countMatching(ctx, func(t Ticket) bool { return t.Kind() == KindService })
}

// CountSessionsFor counts live sessions whose authenticated principal id
// matches principalID case-insensitively. Returns [CountUnknown] when the
// store cannot enumerate.
func (r *Registry) CountSessionsFor(ctx context.Context, principalID string) int64 {
	now := time.Now()
	return r.countMatching(ctx, func(t Ticket) bool {
		return IsGrantor(t) && !t.IsExpired(now) &&
			strings.EqualFold(PrincipalID(t), principalID)
	})
}

func (r *Registry) countMatching(ctx context.Context, match func(Ticket) bool) int64 {
	seq, err := r.store.Stream(ctx)
	if err != nil {
		return CountUnknown
	}
	var n int64
	for t, err := range r.decodeStream(ctx, seq) {
		if err != nil {
			return CountUnknown
		}
		if t != nil && match(t) {
			n++
		}
	}
	return n
}

// GetSessionsWithAttributes returns a lazy, restartable sequence of live
// sessions whose digested attribute map satisfies the query: any query key
// present, with any candidate value equal case-insensitively to any stored
// value under that key, all compared in digested form. Equality search works
// against encrypted-at-rest attributes without decrypting them; substring
// and range queries are not possible in this form.
func (r *Registry) GetSessionsWithAttributes(ctx context.Context, query map[string][]string) (iter.Seq2[Ticket, error], error) {
	all, err := r.Tickets(ctx)
	if err != nil {
		return nil, err
	}
	return func(yield func(Ticket, error) bool) {
		now := time.Now()
		for t, err := range all {
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}
			if !IsGrantor(t) || t.IsExpired(now) || !HasAuthentication(t) {
				continue
			}
			if !r.matchesAttributeQuery(t, query) {
				continue
			}
			if !yield(t, nil) {
				return
			}
		}
	}, nil
}
