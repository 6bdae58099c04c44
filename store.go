package ticketreg

import (
	"context"
	"iter"
)

// TicketStore is the raw key→ticket persistence consumed by the registry.
// Individual Put/Get/DeleteSingle calls must be atomic; nothing stronger is
// assumed. Calls may block on I/O; cancellation and timeouts are the store's
// responsibility through ctx.
//
// When the registry's cipher is enabled, every ticket handed to Put is an
// [EncodedTicket] and every lookup id is pre-digested; the store never needs
// to know whether encryption is active.
type TicketStore interface {
	// Put persists the ticket under its id, replacing any previous entry.
	Put(ctx context.Context, t Ticket) error

	// Get returns the ticket stored under id, or an error wrapping
	// [ErrTicketNotFound] when absent.
	Get(ctx context.Context, id string) (Ticket, error)

	// DeleteSingle removes the entry under id and returns the number of
	// entries removed (0 or 1). Deleting an absent id is not an error.
	DeleteSingle(ctx context.Context, id string) (int, error)

	// Stream returns a lazy sequence over all stored tickets. Stores that
	// cannot enumerate return an error wrapping [ErrEnumerationUnsupported].
	// The sequence yields per-element errors for entries that cannot be
	// loaded; iteration may be abandoned at any point.
	Stream(ctx context.Context) (iter.Seq2[Ticket, error], error)
}
