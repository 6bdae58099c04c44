package ticketreg

import (
	"encoding/json"
	"fmt"
)

// Serializer converts tickets to and from their at-rest byte form. Malformed
// input fails with [ErrSerialization].
type Serializer interface {
	Serialize(t Ticket) ([]byte, error)
	Deserialize(data []byte) (Ticket, error)
}

// ticketEnvelope tags the serialized variant so Deserialize can restore the
// concrete type without guessing.
type ticketEnvelope struct {
	Kind Kind `json:"kind"`

	TicketGranting *TicketGrantingTicket `json:"tgt,omitempty"`
	Service        *ServiceTicket        `json:"st,omitempty"`
	ProxyGranting  *ProxyGrantingTicket  `json:"pgt,omitempty"`
	Encoded        *EncodedTicket        `json:"enc,omitempty"`
}

// JSONSerializer is the default [Serializer]: a JSON envelope keyed by the
// ticket kind.
type JSONSerializer struct{}

// NewJSONSerializer returns the default JSON serializer.
func NewJSONSerializer() *JSONSerializer { return &JSONSerializer{} }

// Serialize implements [Serializer].
func (s *JSONSerializer) Serialize(t Ticket) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil ticket", ErrSerialization)
	}
	env := ticketEnvelope{Kind: t.Kind()}
	switch v := t.(type) {
	case *TicketGrantingTicket:
		env.TicketGranting = v
	case *ServiceTicket:
		env.Service = v
	case *ProxyGrantingTicket:
		env.ProxyGranting = v
	case *EncodedTicket:
		env.Encoded = v
	default:
		return nil, fmt.Errorf("%w: unknown ticket variant %T", ErrSerialization, t)
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return data, nil
}

// Deserialize implements [Serializer].
func (s *JSONSerializer) Deserialize(data []byte) (Ticket, error) {
	var env ticketEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	switch env.Kind {
	case KindTicketGranting:
		if env.TicketGranting == nil {
			return nil, fmt.Errorf("%w: missing ticket-granting payload", ErrSerialization)
		}
		return env.TicketGranting, nil
	case KindService:
		if env.Service == nil {
			return nil, fmt.Errorf("%w: missing service payload", ErrSerialization)
		}
		return env.Service, nil
	case KindProxyGranting:
		if env.ProxyGranting == nil {
			return nil, fmt.Errorf("%w: missing proxy-granting payload", ErrSerialization)
		}
		return env.ProxyGranting, nil
	case KindEncoded:
		if env.Encoded == nil {
			return nil, fmt.Errorf("%w: missing encoded payload", ErrSerialization)
		}
		return env.Encoded, nil
	default:
		return nil, fmt.Errorf("%w: unknown ticket kind %d", ErrSerialization, env.Kind)
	}
}
