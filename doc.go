// Package ticketreg implements the lifecycle core of a single sign-on ticket
// registry: ticket-granting tickets (sessions), service tickets, and
// proxy-granting tickets over a pluggable storage backend, with lazy
// expiration, cascading invalidation across the ticket dependency graph,
// optional at-rest encryption with digested lookup keys, and
// privacy-preserving attribute search over encrypted session data.
//
// The package is designed for concurrent server workloads: Registry methods
// are safe to call from multiple goroutines after construction through
// [Builder.Build], provided the backing [TicketStore] keeps its individual
// put/get/delete operations atomic. The registry itself holds no locks
// across multi-step operations; correctness under races relies on the
// idempotence of delete and the harmlessness of re-deleting an absent key.
//
// # Architecture boundaries
//
// ticketreg is the public surface. It exposes [Registry], [Builder], the
// ticket variants, and the collaborator interfaces ([TicketStore],
// [Serializer], [Cipher]). Concrete backends live in store/memstore and
// store/redisstore and are never imported here; the registry speaks only
// through [TicketStore].
//
// # What this package must NOT do
//
//   - Import any concrete storage backend.
//   - Retry failed backend calls; retry policy belongs to the backend.
//   - Hold cross-call resources while a backend call is in flight.
package ticketreg
