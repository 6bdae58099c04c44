package ticketreg

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"iter"
	"log"
)

// cipherEnabled reports whether at-rest encryption is active.
func (r *Registry) cipherEnabled() bool {
	return r.cipher != nil && r.cipher.Enabled()
}

// digest applies the one-way id/attribute obfuscation: SHA-512, hex encoded.
// It is deterministic and non-invertible, and returns the input unchanged
// when the cipher is disabled or the input is blank.
func (r *Registry) digest(value string) string {
	if !r.cipherEnabled() || value == "" {
		return value
	}
	sum := sha512.Sum512([]byte(value))
	return hex.EncodeToString(sum[:])
}

// encodeTicket produces the at-rest form of a ticket. With the cipher
// disabled this is plaintext passthrough; with it enabled the ticket is
// serialized, encrypted, and wrapped in an [EncodedTicket] keyed by the
// digest of the original id.
func (r *Registry) encodeTicket(t Ticket) (Ticket, error) {
	if !r.cipherEnabled() || t == nil {
		return t, nil
	}
	data, err := r.serializer.Serialize(t)
	if err != nil {
		return nil, err
	}
	sealed, err := r.cipher.Encrypt(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return &EncodedTicket{
		TicketID:     r.digest(t.ID()),
		TicketPrefix: t.Prefix(),
		Payload:      sealed,
	}, nil
}

// decodeTicket restores the original ticket from its at-rest form.
//
// An [EncodedTicket] found while the cipher is disabled is unreadable
// without the key; when orphan cleanup is on, it is deleted from the store
// as a side effect of the read and reported as [ErrTicketNotFound].
func (r *Registry) decodeTicket(ctx context.Context, t Ticket) (Ticket, error) {
	encoded, isEncoded := t.(*EncodedTicket)
	if isEncoded && !r.cipherEnabled() {
		if r.cleanOrphanedEncoded {
			if _, err := r.store.DeleteSingle(ctx, encoded.TicketID); err != nil {
				log.Print("ticketreg: orphaned encoded ticket cleanup failed")
			} else {
				r.metrics.Inc(MetricOrphanCleanups)
			}
		}
		return nil, fmt.Errorf("%w: encoded ticket %s with cipher disabled", ErrTicketNotFound, encoded.TicketID)
	}
	if !r.cipherEnabled() || !isEncoded {
		return t, nil
	}
	data, err := r.cipher.Decrypt(encoded.Payload)
	if err != nil {
		r.metrics.Inc(MetricDecodeFailures)
		return nil, err
	}
	decoded, err := r.serializer.Deserialize(data)
	if err != nil {
		r.metrics.Inc(MetricDecodeFailures)
		return nil, err
	}
	return decoded, nil
}

// decodeStream applies decodeTicket element-wise over a lazy sequence
// without materializing it. Orphaned encoded entries are skipped after
// cleanup; decode failures surface as per-element errors.
func (r *Registry) decodeStream(ctx context.Context, seq iter.Seq2[Ticket, error]) iter.Seq2[Ticket, error] {
	return func(yield func(Ticket, error) bool) {
		for t, err := range seq {
			if err != nil {
				if !yield(nil, err) {
					return
				}
				continue
			}
			decoded, err := r.decodeTicket(ctx, t)
			if err != nil {
				if errors.Is(err, ErrTicketNotFound) {
					continue
				}
				if !yield(nil, err) {
					return
				}
				continue
			}
			if !yield(decoded, nil) {
				return
			}
		}
	}
}
