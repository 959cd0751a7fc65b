package config

// DeliveryContext selects where asynchronous outcomes are handed to
// their consumer.
type DeliveryContext int

const (
	// DeliverCurrent delivers on whatever goroutine completed the work.
	DeliverCurrent DeliveryContext = iota
	// DeliverPrimary redelivers through the process primary executor.
	DeliverPrimary
)

// String returns the directive spelling of the delivery context.
func (d DeliveryContext) String() string {
	if d == DeliverPrimary {
		return "primary"
	}

	return "current"
}

// SyncStrategy selects the lock used by synthesized accessors.
type SyncStrategy int

const (
	// SyncConcurrent allows concurrent reads with exclusive writes.
	SyncConcurrent SyncStrategy = iota
	// SyncSerial serializes all access.
	SyncSerial
)

// String returns the directive spelling of the sync strategy.
func (s SyncStrategy) String() string {
	if s == SyncSerial {
		return "serial"
	}

	return "concurrent"
}

// AvailabilityKind discriminates availability policies.
type AvailabilityKind int

const (
	// AvailabilityDefault defers to the per-convention default.
	AvailabilityDefault AvailabilityKind = iota
	// AvailabilityNone suppresses any availability annotation.
	AvailabilityNone
	// AvailabilityDeprecated marks the derived declaration deprecated.
	AvailabilityDeprecated
	// AvailabilityUnavailable marks the derived declaration unavailable.
	AvailabilityUnavailable
)

// AvailabilityPolicy is the availability annotation attached to derived
// declarations.
type AvailabilityPolicy struct {
	Kind    AvailabilityKind
	Message string
}

// Config is one configuration layer. Nil fields are absent and fall
// through to the next layer during resolution.
type Config struct {
	Prefix           *string
	Availability     *AvailabilityPolicy
	Deliver          *DeliveryContext
	Sync             *SyncStrategy
	Extensions       *bool
	BlockingFallible *bool
}

// EffectiveConfig is the fully-resolved configuration for one
// declaration. Every field is set.
type EffectiveConfig struct {
	// Prefix is prepended to derived declaration names.
	Prefix string
	// Availability is the availability annotation policy.
	Availability AvailabilityPolicy
	// Deliver is the delivery context for asynchronous conventions.
	Deliver DeliveryContext
	// Sync is the accessor synchronization strategy.
	Sync SyncStrategy
	// Extensions controls emission of default-implementation adapters
	// for interface derivations.
	Extensions bool
	// BlockingFallible forces blocking derivations to carry an error
	// result even for non-fallible sources.
	BlockingFallible bool
}

// helpers for building layers

func ptr[T any](v T) *T { return &v }

// WithPrefix returns a layer setting only the name prefix.
func WithPrefix(p string) *Config {
	return &Config{Prefix: ptr(p)}
}
