// Package bridge is the runtime support library for code generated by
// bridgegen. Generated declarations forward to their suspending source
// through the primitives in this package.
//
// # Primitives
//
//   - Blocking: [Wait], [WaitValue], [WaitErr], [WaitVoid] run a suspending
//     computation to completion while blocking the calling goroutine.
//     This is the only thread-blocking point in the system.
//   - Future: [Go] and [GoSafe] start detached work settled exactly once
//     into a [Future] or [SafeFuture].
//   - Callback: [GoCall] starts detached work and invokes a single-shot
//     handler with a [Result].
//   - Stream: [GoStream] and [GoStreamSafe] deliver a single value followed
//     by completion on a [Stream] or [SafeStream].
//
// # Delivery
//
// Asynchronous outcomes are handed to consumers either on whatever
// goroutine completed the work (the default) or redelivered through the
// process-wide primary executor ([SetPrimary], [WithPrimaryDelivery]).
//
// # Deadlock hazard
//
// Wait occupies the calling goroutine for the computation's full duration
// and has no cancellation or timeout path. Calling Wait from the primary
// executor while the computation delivers on the primary executor, or from
// a worker pool the computation itself needs, deadlocks. This is a usage
// contract, not a detected condition.
package bridge
