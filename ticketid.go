package ticketreg

import (
	"github.com/google/uuid"
)

// NewTicketID mints a globally unique ticket id of the conventional
// PREFIX-<uuid> shape. Uniqueness within a store at any instant follows from
// the random UUID.
func NewTicketID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// NewTicketGrantingTicketID mints a session ticket id.
func NewTicketGrantingTicketID() string { return NewTicketID(PrefixTicketGranting) }

// NewServiceTicketID mints a service ticket id.
func NewServiceTicketID() string { return NewTicketID(PrefixService) }

// NewProxyGrantingTicketID mints a proxy-granting ticket id.
func NewProxyGrantingTicketID() string { return NewTicketID(PrefixProxyGranting) }
