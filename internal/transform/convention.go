package transform

import "fmt"

// Convention is the closed set of target calling conventions.
type Convention int

const (
	// Blocking is an ordinary synchronous call through the runtime
	// blocking bridge.
	Blocking Convention = iota
	// Future returns a future settled exactly once.
	Future
	// Callback appends a single-shot trailing handler parameter.
	Callback
	// Stream returns a single-value-then-complete event stream.
	Stream
)

// String returns the directive spelling of the convention.
func (c Convention) String() string {
	switch c {
	case Blocking:
		return "blocking"
	case Future:
		return "future"
	case Callback:
		return "callback"
	case Stream:
		return "stream"
	default:
		return "unknown"
	}
}

// ParseConvention parses a directive convention name.
func ParseConvention(s string) (Convention, error) {
	switch s {
	case "blocking":
		return Blocking, nil
	case "future":
		return Future, nil
	case "callback":
		return Callback, nil
	case "stream":
		return Stream, nil
	default:
		return 0, fmt.Errorf("unknown convention %q (want blocking, future, callback, or stream)", s)
	}
}

// containerKind selects the result wrapper of a convention.
type containerKind int

const (
	containerNone containerKind = iota
	containerFuture
	containerStream
)

// rules captures everything that differs between conventions. The
// transformer and synthesizer consume this table; per-convention
// behavior lives nowhere else.
type rules struct {
	// suffix appended to the derived name after the configured prefix.
	suffix string
	// acceptsNonSuspending permits non-suspending sources.
	acceptsNonSuspending bool
	// trailingHandler appends the single-shot handler parameter and
	// drops the return type.
	trailingHandler bool
	// container is the result wrapper kind.
	container containerKind
	// keepsFallibility leaves the error result in the signature
	// (Blocking); the other conventions capture errors in their
	// container or handler instead.
	keepsFallibility bool
	// defaultDeprecated marks derivations deprecated unless configured
	// otherwise.
	defaultDeprecated bool
}

// conventionRules is the single source of truth for per-convention
// signature shape.
var conventionRules = map[Convention]rules{
	Blocking: {
		suffix:            "Blocking",
		keepsFallibility:  true,
		defaultDeprecated: true,
	},
	Future: {
		suffix:               "Future",
		acceptsNonSuspending: true,
		container:            containerFuture,
	},
	Callback: {
		suffix:          "WithCallback",
		trailingHandler: true,
	},
	Stream: {
		suffix:               "Stream",
		acceptsNonSuspending: true,
		container:            containerStream,
	},
}

// DefaultDeprecationMessage is attached to derivations that are
// deprecated by default.
const DefaultDeprecationMessage = "blocks the calling goroutine; prefer the context-aware source"
