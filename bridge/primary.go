package bridge

import "sync"

// Executor runs a function on some execution context. The function must
// eventually be called exactly once.
type Executor func(func())

// primaryExec is the process-wide primary delivery executor. It is set
// once during startup and read on every primary-delivery dispatch, so
// reads take the shared lock.
var primaryExec = struct {
	sync.RWMutex
	exec Executor
}{}

// SetPrimary installs the process-wide primary delivery executor, e.g. a
// UI loop or a single-threaded event loop. Passing nil restores inline
// delivery. Intended to be called once during startup; concurrent reads
// during the write are safe.
func SetPrimary(exec Executor) {
	primaryExec.Lock()
	defer primaryExec.Unlock()
	primaryExec.exec = exec
}

// OnPrimary runs f through the primary executor, or inline when none is
// installed.
func OnPrimary(f func()) {
	primaryExec.RLock()
	exec := primaryExec.exec
	primaryExec.RUnlock()

	if exec == nil {
		f()
		return
	}

	exec(f)
}

// Delivery selects the execution context on which an asynchronous outcome
// is handed to its consumer.
type Delivery int

const (
	// DeliverCurrent hands the outcome over on whatever goroutine
	// completed the work.
	DeliverCurrent Delivery = iota
	// DeliverPrimary redelivers the outcome through the primary executor.
	DeliverPrimary
)

// settings holds per-constructor options.
type settings struct {
	delivery Delivery
}

// Option configures an asynchronous constructor.
type Option func(*settings)

// WithPrimaryDelivery redelivers outcomes through the primary executor.
func WithPrimaryDelivery() Option {
	return func(s *settings) { s.delivery = DeliverPrimary }
}

func applyOptions(opts []Option) settings {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}

	return s
}

// dispatch runs f according to the configured delivery.
func (s settings) dispatch(f func()) {
	if s.delivery == DeliverPrimary {
		OnPrimary(f)
		return
	}

	f()
}
