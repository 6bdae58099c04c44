package ticketreg

import "errors"

var (
	// ErrTicketNotFound is returned when a requested ticket is absent from
	// the store or was expired at lookup time.
	ErrTicketNotFound = errors.New("ticket not found or expired")
	// ErrTicketTypeMismatch is returned when a ticket exists but is not of
	// the requested kind.
	ErrTicketTypeMismatch = errors.New("ticket type mismatch")
	// ErrSerialization is returned on encode/decode failure over a malformed
	// or tampered payload.
	ErrSerialization = errors.New("ticket serialization failed")
	// ErrStoreUnavailable is returned when the backing store fails on I/O or
	// a transient backend error.
	ErrStoreUnavailable = errors.New("ticket store unavailable")
	// ErrEnumerationUnsupported is returned by stores that cannot enumerate
	// their contents. Count operations translate it to [CountUnknown].
	ErrEnumerationUnsupported = errors.New("ticket enumeration unsupported")
)
