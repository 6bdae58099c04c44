package ticketreg

// MetricsConfig controls the in-process metrics counters. When Enabled is
// false, every metrics operation is a no-op.
type MetricsConfig struct {
	Enabled bool
}

// Config holds registry-wide behavior toggles. Zero value is not usable
// directly; obtain defaults through [New] and override with
// [Builder.WithConfig].
type Config struct {
	// Metrics configures the in-process counters.
	Metrics MetricsConfig

	// CleanOrphanedEncodedTickets controls whether an encoded ticket found
	// at rest while the cipher is disabled is deleted as a side effect of
	// the read. Such a ticket is unreadable without the key; with cleanup
	// off it stays in the store and every read reports it absent.
	CleanOrphanedEncodedTickets bool
}

func defaultConfig() Config {
	return Config{
		Metrics:                     MetricsConfig{Enabled: true},
		CleanOrphanedEncodedTickets: true,
	}
}
