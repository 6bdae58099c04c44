package ticketreg

import "time"

// ExpiryPolicy selects how a ticket's expiration predicate is evaluated.
type ExpiryPolicy uint8

const (
	// ExpiryNever keeps the ticket live until explicitly deleted.
	ExpiryNever ExpiryPolicy = iota
	// ExpiryHardTimeout expires the ticket a fixed duration after creation.
	ExpiryHardTimeout
	// ExpiryIdleTimeout expires the ticket a fixed duration after its last
	// recorded use, capped by MaxLifetime when set.
	ExpiryIdleTimeout
)

// Expiry is a ticket's serializable expiration state. The predicate is
// evaluated lazily at read time; no background sweep exists, so an expired
// ticket stays at rest until the next read evicts it.
type Expiry struct {
	Policy      ExpiryPolicy  `json:"policy"`
	CreatedAt   time.Time     `json:"created_at"`
	LastUsedAt  time.Time     `json:"last_used_at,omitempty"`
	MaxLifetime time.Duration `json:"max_lifetime,omitempty"`
	IdleTimeout time.Duration `json:"idle_timeout,omitempty"`
}

// NeverExpires returns an [Expiry] that keeps the ticket live until deleted.
func NeverExpires(createdAt time.Time) Expiry {
	return Expiry{Policy: ExpiryNever, CreatedAt: createdAt}
}

// ExpiresAfter returns a hard-timeout [Expiry] measured from createdAt.
func ExpiresAfter(createdAt time.Time, lifetime time.Duration) Expiry {
	return Expiry{Policy: ExpiryHardTimeout, CreatedAt: createdAt, MaxLifetime: lifetime}
}

// ExpiresIdle returns a sliding-window [Expiry]: the ticket expires idle
// after no use, and unconditionally after maxLifetime when maxLifetime > 0.
func ExpiresIdle(createdAt time.Time, idle, maxLifetime time.Duration) Expiry {
	return Expiry{
		Policy:      ExpiryIdleTimeout,
		CreatedAt:   createdAt,
		LastUsedAt:  createdAt,
		IdleTimeout: idle,
		MaxLifetime: maxLifetime,
	}
}

// IsExpired evaluates the expiration predicate at now.
func (e Expiry) IsExpired(now time.Time) bool {
	switch e.Policy {
	case ExpiryNever:
		return false
	case ExpiryHardTimeout:
		return !now.Before(e.CreatedAt.Add(e.MaxLifetime))
	case ExpiryIdleTimeout:
		last := e.LastUsedAt
		if last.IsZero() {
			last = e.CreatedAt
		}
		if !now.Before(last.Add(e.IdleTimeout)) {
			return true
		}
		if e.MaxLifetime > 0 && !now.Before(e.CreatedAt.Add(e.MaxLifetime)) {
			return true
		}
		return false
	default:
		return false
	}
}

// Touch records a use at now for sliding-window policies. It returns the
// updated state; hard and never policies are unchanged.
func (e Expiry) Touch(now time.Time) Expiry {
	if e.Policy == ExpiryIdleTimeout {
		e.LastUsedAt = now
	}
	return e
}
