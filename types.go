package ticketreg

import (
	"time"
)

// Kind is the type discriminator for ticket variants. Every ticket stored in
// a [TicketStore] is exactly one of these kinds; capability checks
// ([HasAuthentication], [IsGrantor]) are pattern matches on the kind rather
// than dynamic casts.
type Kind uint8

const (
	// KindTicketGranting is a root session ticket that grants further tickets.
	KindTicketGranting Kind = iota + 1
	// KindService is a short-lived ticket scoped to a single service.
	KindService
	// KindProxyGranting is a grantor ticket derived from a parent session.
	KindProxyGranting
	// KindEncoded is the storage-only encrypted representation of a ticket.
	KindEncoded
)

// String returns the conventional id prefix for the kind.
func (k Kind) String() string {
	switch k {
	case KindTicketGranting:
		return PrefixTicketGranting
	case KindService:
		return PrefixService
	case KindProxyGranting:
		return PrefixProxyGranting
	case KindEncoded:
		return "ENC"
	default:
		return "UNKNOWN"
	}
}

// Conventional ticket id prefixes.
const (
	// PrefixTicketGranting is an exported constant used in ticket ids.
	PrefixTicketGranting = "TGT"
	// PrefixService is an exported constant used in ticket ids.
	PrefixService = "ST"
	// PrefixProxyGranting is an exported constant used in ticket ids.
	PrefixProxyGranting = "PGT"
)

// Ticket is an authentication artifact held by the registry: a session or a
// token derived from one. Implementations are value types; the registry
// mutates them only through cascading-delete bookkeeping on grantor maps.
type Ticket interface {
	// ID returns the globally unique ticket identifier.
	ID() string
	// Prefix returns the type discriminator prefix carried by the ticket.
	Prefix() string
	// Kind returns the variant tag.
	Kind() Kind
	// IsExpired evaluates the ticket's expiration predicate at now.
	IsExpired(now time.Time) bool
}

// Authentication carries the authenticated principal and the two attribute
// maps merged by attribute search: authentication attributes take precedence
// over principal attributes on key collision.
type Authentication struct {
	PrincipalID         string              `json:"principal_id"`
	Attributes          map[string][]string `json:"attributes,omitempty"`
	PrincipalAttributes map[string][]string `json:"principal_attributes,omitempty"`
}

// TicketGrantingTicket represents an authenticated session. It exclusively
// owns its two forward maps: Services (service id → issued service ticket
// id) drives service-ticket cascade deletion, and ProxyGrantingTickets
// (proxy-granting ticket id → service id) drives proxy cascade deletion.
// Both maps are mutated only by [Registry.DeleteTicket].
type TicketGrantingTicket struct {
	TicketID       string          `json:"id"`
	Authentication *Authentication `json:"authentication,omitempty"`

	Services             map[string]string `json:"services,omitempty"`
	ProxyGrantingTickets map[string]string `json:"proxy_granting_tickets,omitempty"`

	Expiry Expiry `json:"expiry"`
}

// ID implements [Ticket].
func (t *TicketGrantingTicket) ID() string { return t.TicketID }

// Prefix implements [Ticket].
func (t *TicketGrantingTicket) Prefix() string { return PrefixTicketGranting }

// Kind implements [Ticket].
func (t *TicketGrantingTicket) Kind() Kind { return KindTicketGranting }

// IsExpired implements [Ticket].
func (t *TicketGrantingTicket) IsExpired(now time.Time) bool { return t.Expiry.IsExpired(now) }

// ServiceTicket is a short-lived ticket issued from a grantor for a single
// service. It references its parent by id and owns no children.
type ServiceTicket struct {
	TicketID string `json:"id"`
	ParentID string `json:"parent_id"`
	Service  string `json:"service"`

	Expiry Expiry `json:"expiry"`
}

// ID implements [Ticket].
func (t *ServiceTicket) ID() string { return t.TicketID }

// Prefix implements [Ticket].
func (t *ServiceTicket) Prefix() string { return PrefixService }

// Kind implements [Ticket].
func (t *ServiceTicket) Kind() Kind { return KindService }

// IsExpired implements [Ticket].
func (t *ServiceTicket) IsExpired(now time.Time) bool { return t.Expiry.IsExpired(now) }

// ProxyGrantingTicket is a grantor ticket issued down a proxy chain. It is
// TGT-like: it carries authentication data and its own forward maps. ParentID
// is a non-owning back-reference used only to locate the parent during
// cascade bookkeeping; the parent's ProxyGrantingTickets map is the single
// source of truth for which proxy-granting tickets exist.
type ProxyGrantingTicket struct {
	TicketID       string          `json:"id"`
	ParentID       string          `json:"parent_id"`
	Authentication *Authentication `json:"authentication,omitempty"`

	Services             map[string]string `json:"services,omitempty"`
	ProxyGrantingTickets map[string]string `json:"proxy_granting_tickets,omitempty"`

	Expiry Expiry `json:"expiry"`
}

// ID implements [Ticket].
func (t *ProxyGrantingTicket) ID() string { return t.TicketID }

// Prefix implements [Ticket].
func (t *ProxyGrantingTicket) Prefix() string { return PrefixProxyGranting }

// Kind implements [Ticket].
func (t *ProxyGrantingTicket) Kind() Kind { return KindProxyGranting }

// IsExpired implements [Ticket].
func (t *ProxyGrantingTicket) IsExpired(now time.Time) bool { return t.Expiry.IsExpired(now) }

// EncodedTicket is the storage-only representation of a ticket when the
// cipher is enabled: the id is the digest of the original id, the payload is
// the encrypted serialized original, and the prefix is copied from the
// original. It never exists outside a [TicketStore].
type EncodedTicket struct {
	TicketID     string `json:"id"`
	TicketPrefix string `json:"prefix"`
	Payload      []byte `json:"payload"`
}

// ID implements [Ticket].
func (t *EncodedTicket) ID() string { return t.TicketID }

// Prefix implements [Ticket].
func (t *EncodedTicket) Prefix() string { return t.TicketPrefix }

// Kind implements [Ticket].
func (t *EncodedTicket) Kind() Kind { return KindEncoded }

// IsExpired implements [Ticket]. An encoded ticket's expiration predicate is
// unreadable without the cipher; expiry is evaluated after decoding.
func (t *EncodedTicket) IsExpired(time.Time) bool { return false }

// HasAuthentication reports whether the ticket variant carries
// authentication data.
func HasAuthentication(t Ticket) bool {
	switch v := t.(type) {
	case *TicketGrantingTicket:
		return v.Authentication != nil
	case *ProxyGrantingTicket:
		return v.Authentication != nil
	default:
		return false
	}
}

// IsGrantor reports whether the ticket variant can grant further tickets
// (a ticket-granting or proxy-granting ticket).
func IsGrantor(t Ticket) bool {
	switch t.(type) {
	case *TicketGrantingTicket, *ProxyGrantingTicket:
		return true
	default:
		return false
	}
}

// authenticationOf returns the ticket's authentication data, or nil for
// variants that carry none.
func authenticationOf(t Ticket) *Authentication {
	switch v := t.(type) {
	case *TicketGrantingTicket:
		return v.Authentication
	case *ProxyGrantingTicket:
		return v.Authentication
	default:
		return nil
	}
}

// PrincipalID returns the authenticated principal id of the ticket, or the
// empty string for variants without authentication data.
func PrincipalID(t Ticket) string {
	if auth := authenticationOf(t); auth != nil {
		return auth.PrincipalID
	}
	return ""
}
