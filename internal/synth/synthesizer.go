package synth

import (
	"fmt"
	"strings"

	"bridgegen/internal/config"
	"bridgegen/internal/transform"
)

// Synthesize builds the forwarding body for a derived signature.
// target is the call target for the source declaration: the bare
// function name for free functions, or a receiver-qualified expression
// like "a.Impl.Fetch" for adapter methods. The body forwards every
// parameter verbatim (variadics expanded) and adapts the outcome into
// the convention's idiom; argument evaluation happens before the
// forwarded call by Go's own evaluation order.
func Synthesize(sig *transform.Signature, eff config.EffectiveConfig, target string) string {
	call := callExpr(sig, target)
	ctxParam := "ctx"

	if !sig.Source.Effects.Suspending {
		ctxParam = "_"
	}

	switch sig.Convention {
	case transform.Blocking:
		return blockingBody(sig, call)

	case transform.Future:
		return containerBody(sig, eff, call, ctxParam, "bridge.Go", "bridge.GoSafe")

	case transform.Stream:
		return containerBody(sig, eff, call, ctxParam, "bridge.GoStream", "bridge.GoStreamSafe")

	case transform.Callback:
		return callbackBody(sig, eff, call, ctxParam)

	default:
		return ""
	}
}

// callExpr renders the forwarded call, re-adding the context argument
// for suspending sources and expanding the trailing variadic.
func callExpr(sig *transform.Signature, target string) string {
	var parts []string

	if sig.Source.Effects.Suspending {
		parts = append(parts, "ctx")
	}

	if args := sig.Source.ArgsString(); args != "" {
		parts = append(parts, args)
	}

	return target + "(" + strings.Join(parts, ", ") + ")"
}

// blockingBody selects the bridge entry point matching the effect
// matrix of the source and the derived fallibility.
func blockingBody(sig *transform.Signature, call string) string {
	src := sig.Source

	switch {
	case src.Void() && src.Effects.Fallible:
		return fmt.Sprintf(`	return bridge.WaitErr(func(ctx context.Context) error {
		return %s
	})`, call)

	case src.Void() && sig.Fallible:
		// Forced fallibility over a non-fallible void source.
		return fmt.Sprintf(`	return bridge.WaitErr(func(ctx context.Context) error {
		%s
		return nil
	})`, call)

	case src.Void():
		return fmt.Sprintf(`	bridge.WaitVoid(func(ctx context.Context) {
		%s
	})`, call)

	case src.Effects.Fallible:
		return fmt.Sprintf(`	return bridge.Wait(func(ctx context.Context) (%s, error) {
		return %s
	})`, src.Result, call)

	case sig.Fallible:
		// Forced fallibility over a non-fallible source.
		return fmt.Sprintf(`	return bridge.Wait(func(ctx context.Context) (%s, error) {
		return %s, nil
	})`, src.Result, call)

	default:
		return fmt.Sprintf(`	return bridge.WaitValue(func(ctx context.Context) %s {
		return %s
	})`, src.Result, call)
	}
}

// containerBody emits Future and Stream bodies; the two conventions
// share everything but the constructor pair.
func containerBody(sig *transform.Signature, eff config.EffectiveConfig, call, ctxParam, ctor, safeCtor string) string {
	opts := deliveryOpts(eff)

	if sig.Safe {
		return fmt.Sprintf(`	return %s(func(%s context.Context) %s {
%s
	}%s)`, safeCtor, ctxParam, sig.ResultType, safeThunk(sig, call), opts)
	}

	return fmt.Sprintf(`	return %s(func(%s context.Context) (%s, error) {
%s
	}%s)`, ctor, ctxParam, sig.ResultType, fallibleThunk(sig, call), opts)
}

func callbackBody(sig *transform.Signature, eff config.EffectiveConfig, call, ctxParam string) string {
	return fmt.Sprintf(`	bridge.GoCall(func(%s context.Context) (%s, error) {
%s
	}, %s%s)`, ctxParam, sig.ResultType, fallibleThunk(sig, call), sig.Handler, deliveryOpts(eff))
}

// fallibleThunk renders the closure body returning (payload, error),
// adapting void sources to an explicit Unit payload and non-fallible
// sources to a nil error.
func fallibleThunk(sig *transform.Signature, call string) string {
	src := sig.Source

	switch {
	case src.Void() && src.Effects.Fallible:
		return fmt.Sprintf("\t\treturn bridge.Unit{}, %s", call)

	case src.Void():
		return fmt.Sprintf("\t\t%s\n\t\treturn bridge.Unit{}, nil", call)

	case src.Effects.Fallible:
		return fmt.Sprintf("\t\treturn %s", call)

	default:
		return fmt.Sprintf("\t\treturn %s, nil", call)
	}
}

// safeThunk renders the closure body returning the bare payload; it is
// only reachable for non-fallible sources.
func safeThunk(sig *transform.Signature, call string) string {
	if sig.Source.Void() {
		return fmt.Sprintf("\t\t%s\n\t\treturn bridge.Unit{}", call)
	}

	return fmt.Sprintf("\t\treturn %s", call)
}

func deliveryOpts(eff config.EffectiveConfig) string {
	if eff.Deliver == config.DeliverPrimary {
		return ", bridge.WithPrimaryDelivery()"
	}

	return ""
}
