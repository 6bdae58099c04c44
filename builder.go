package ticketreg

import "errors"

// ErrStoreRequired is returned by [Builder.Build] when no store is set.
var ErrStoreRequired = errors.New("ticket store is required")

// Builder assembles a [Registry]. Configure it during initialization and
// treat the built registry as immutable afterwards; the only sanctioned
// runtime reconfiguration is [Registry.WithCipher].
type Builder struct {
	config     Config
	store      TicketStore
	cipher     Cipher
	serializer Serializer
}

// New creates a [Builder] with default configuration: metrics enabled,
// orphaned-encoded-ticket cleanup on, plaintext passthrough cipher, JSON
// serializer.
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the builder's configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithStore sets the backing [TicketStore]. Required.
func (b *Builder) WithStore(store TicketStore) *Builder {
	b.store = store
	return b
}

// WithCipher sets the at-rest [Cipher]. Defaults to [NoCipher].
func (b *Builder) WithCipher(c Cipher) *Builder {
	b.cipher = c
	return b
}

// WithSerializer sets the ticket [Serializer]. Defaults to
// [JSONSerializer].
func (b *Builder) WithSerializer(s Serializer) *Builder {
	b.serializer = s
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and returns a ready [Registry].
func (b *Builder) Build() (*Registry, error) {
	if b.store == nil {
		return nil, ErrStoreRequired
	}
	cipher := b.cipher
	if cipher == nil {
		cipher = NoCipher{}
	}
	serializer := b.serializer
	if serializer == nil {
		serializer = NewJSONSerializer()
	}
	return &Registry{
		store:                b.store,
		cipher:               cipher,
		serializer:           serializer,
		metrics:              NewMetrics(b.config.Metrics),
		cleanOrphanedEncoded: b.config.CleanOrphanedEncodedTickets,
	}, nil
}
