package transform

import (
	"errors"
	"fmt"

	"bridgegen/internal/config"
	"bridgegen/internal/decl"
)

// ErrNotSuspending marks derivations rejected because the source lacks
// the leading context parameter.
var ErrNotSuspending = errors.New("derivation requires a suspending source (leading context.Context)")

// HandlerParamName is the trailing handler parameter of callback
// derivations. A colliding source parameter name falls back to
// handlerFallbackName.
const (
	HandlerParamName    = "done"
	handlerFallbackName = "onDone"
)

// Signature is a derived declaration signature. It keeps both the
// structured pieces the synthesizer needs and enough rendering helpers
// for templates.
type Signature struct {
	Convention Convention
	// Name is the derived declaration name (prefix + source + suffix).
	Name string
	// TypeParams is the rendered generic parameter list, "" if none.
	TypeParams string
	// TypeArgs is the rendered generic argument list, "" if none.
	TypeArgs string
	// Params is the rendered parameter list including the trailing
	// handler for Callback.
	Params string
	// Results is the rendered result clause, "" for none.
	Results string
	// ResultType is the success payload type; "bridge.Unit" for void
	// sources of container/handler conventions, "" for Blocking void.
	ResultType string
	// Fallible is the derived declaration's own fallibility (Blocking
	// only; containers and handlers capture errors internally).
	Fallible bool
	// Safe marks the error-channel-free container variant.
	Safe bool
	// Handler is the handler parameter name for Callback, "" otherwise.
	Handler string
	// Availability is the resolved availability annotation.
	Availability config.AvailabilityPolicy
	// Source is the declaration this signature was derived from.
	Source *decl.Declaration
}

// Render returns the signature as it appears after the func keyword,
// e.g. `FetchUserBlocking(id string) (User, error)`.
func (s *Signature) Render() string {
	out := s.Name + s.TypeParams + "(" + s.Params + ")"
	if s.Results != "" {
		out += " " + s.Results
	}

	return out
}

// MethodRender returns the signature as an interface member, which has
// no type parameter list.
func (s *Signature) MethodRender() string {
	out := s.Name + "(" + s.Params + ")"
	if s.Results != "" {
		out += " " + s.Results
	}

	return out
}

// Derive produces the output signature for one declaration and target
// convention. It never mutates the source declaration. A shape or
// effect mismatch returns an error that aborts only this derivation.
func Derive(d *decl.Declaration, c Convention, eff config.EffectiveConfig) (*Signature, error) {
	r, ok := conventionRules[c]
	if !ok {
		return nil, fmt.Errorf("unknown convention %d", int(c))
	}

	if !d.Effects.Suspending && !r.acceptsNonSuspending {
		return nil, fmt.Errorf("%s: %s %w", d.ID(), c, ErrNotSuspending)
	}

	sig := &Signature{
		Convention:   c,
		Name:         eff.Prefix + d.Name + r.suffix,
		TypeParams:   d.TypeParamsString(),
		TypeArgs:     d.TypeArgsString(),
		Params:       d.ParamsString(),
		Source:       d,
		Availability: resolveAvailability(eff.Availability, r),
	}

	payload := d.Result
	if payload == "" {
		payload = "bridge.Unit"
	}

	switch r.container {
	case containerFuture:
		sig.ResultType = payload
		sig.Safe = !d.Effects.Fallible
		sig.Results = containerType("bridge.Future", sig.Safe, payload)

	case containerStream:
		sig.ResultType = payload
		sig.Safe = !d.Effects.Fallible
		sig.Results = containerType("bridge.Stream", sig.Safe, payload)

	case containerNone:
		if r.trailingHandler {
			sig.ResultType = payload
			sig.Handler = handlerName(d)
			handler := fmt.Sprintf("%s func(bridge.Result[%s])", sig.Handler, payload)

			if sig.Params == "" {
				sig.Params = handler
			} else {
				sig.Params += ", " + handler
			}

			break
		}

		// Blocking: return type unchanged, fallibility per source or
		// forced by configuration.
		sig.Fallible = d.Effects.Fallible || eff.BlockingFallible
		sig.ResultType = d.Result
		sig.Results = blockingResults(d.Result, sig.Fallible)
	}

	return sig, nil
}

// resolveAvailability applies the per-convention default when the
// resolved policy defers to it.
func resolveAvailability(p config.AvailabilityPolicy, r rules) config.AvailabilityPolicy {
	if p.Kind != config.AvailabilityDefault {
		return p
	}

	if r.defaultDeprecated {
		return config.AvailabilityPolicy{
			Kind:    config.AvailabilityDeprecated,
			Message: DefaultDeprecationMessage,
		}
	}

	return config.AvailabilityPolicy{Kind: config.AvailabilityNone}
}

// containerType renders the wrapped result container. The Safe variants
// carry no error channel; they exist only for non-fallible sources.
func containerType(base string, safe bool, payload string) string {
	if safe {
		// bridge.Future -> bridge.SafeFuture, bridge.Stream -> bridge.SafeStream
		base = "bridge.Safe" + base[len("bridge."):]
	}

	return "*" + base + "[" + payload + "]"
}

func blockingResults(result string, fallible bool) string {
	switch {
	case result == "" && !fallible:
		return ""
	case result == "":
		return "error"
	case !fallible:
		return result
	default:
		return "(" + result + ", error)"
	}
}

// handlerName picks the trailing handler parameter name, avoiding
// collisions with source parameter names.
func handlerName(d *decl.Declaration) string {
	for _, p := range d.Params {
		if p.Name == HandlerParamName {
			return handlerFallbackName
		}
	}

	return HandlerParamName
}
