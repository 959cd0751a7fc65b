package config

import (
	"fmt"

	"bridgegen/internal/decl"
	"bridgegen/internal/diagnostic"
)

// BuiltIn returns the built-in defaults layer. Every field is set, which
// makes resolution total regardless of the upper layers.
func BuiltIn() *Config {
	return &Config{
		Prefix:           ptr(""),
		Availability:     &AvailabilityPolicy{Kind: AvailabilityDefault},
		Deliver:          ptr(DeliverCurrent),
		Sync:             ptr(SyncConcurrent),
		Extensions:       ptr(true),
		BlockingFallible: ptr(false),
	}
}

// Resolve merges layers field-wise, first-non-absent-wins, in the order
// given. Callers pass layers highest-precedence first and terminate with
// BuiltIn(); nil layers are skipped.
func Resolve(layers ...*Config) EffectiveConfig {
	var eff EffectiveConfig

	prefixSet := false
	availSet := false
	deliverSet := false
	syncSet := false
	extSet := false
	blockingSet := false

	for _, layer := range layers {
		if layer == nil {
			continue
		}

		if !prefixSet && layer.Prefix != nil {
			eff.Prefix = *layer.Prefix
			prefixSet = true
		}

		if !availSet && layer.Availability != nil {
			eff.Availability = *layer.Availability
			availSet = true
		}

		if !deliverSet && layer.Deliver != nil {
			eff.Deliver = *layer.Deliver
			deliverSet = true
		}

		if !syncSet && layer.Sync != nil {
			eff.Sync = *layer.Sync
			syncSet = true
		}

		if !extSet && layer.Extensions != nil {
			eff.Extensions = *layer.Extensions
			extSet = true
		}

		if !blockingSet && layer.BlockingFallible != nil {
			eff.BlockingFallible = *layer.BlockingFallible
			blockingSet = true
		}
	}

	return eff
}

// Directive option keys recognized by FromDirective.
const (
	keyPrefix       = "prefix"
	keyDeliver      = "deliver"
	keySync         = "sync"
	keyExtensions   = "extensions"
	keyBlocking     = "blocking"
	keyDeprecated   = "deprecated"
	keyUnavailable  = "unavailable"
	keyAvailability = "availability"
)

// FromDirective converts a directive's options into a configuration
// layer. Unknown keys and unrecognized values are reported as warnings
// rather than silently defaulted; the recognized remainder still
// applies.
func FromDirective(d *decl.Directive, declID string, diags *diagnostic.Diagnostics) *Config {
	if d == nil {
		return nil
	}

	cfg := &Config{}

	for key, value := range d.Options {
		switch key {
		case keyPrefix:
			cfg.Prefix = ptr(value)

		case keyDeliver:
			switch value {
			case "current":
				cfg.Deliver = ptr(DeliverCurrent)
			case "primary":
				cfg.Deliver = ptr(DeliverPrimary)
			default:
				badValue(diags, declID, d.Pos, key, value, "current|primary")
			}

		case keySync:
			switch value {
			case "concurrent":
				cfg.Sync = ptr(SyncConcurrent)
			case "serial":
				cfg.Sync = ptr(SyncSerial)
			default:
				badValue(diags, declID, d.Pos, key, value, "concurrent|serial")
			}

		case keyExtensions:
			switch value {
			case "on":
				cfg.Extensions = ptr(true)
			case "off":
				cfg.Extensions = ptr(false)
			default:
				badValue(diags, declID, d.Pos, key, value, "on|off")
			}

		case keyBlocking:
			switch value {
			case "source":
				cfg.BlockingFallible = ptr(false)
			case "always":
				cfg.BlockingFallible = ptr(true)
			default:
				badValue(diags, declID, d.Pos, key, value, "source|always")
			}

		case keyDeprecated:
			cfg.Availability = &AvailabilityPolicy{
				Kind:    AvailabilityDeprecated,
				Message: value,
			}

		case keyUnavailable:
			cfg.Availability = &AvailabilityPolicy{
				Kind:    AvailabilityUnavailable,
				Message: value,
			}

		case keyAvailability:
			if value == "none" {
				cfg.Availability = &AvailabilityPolicy{Kind: AvailabilityNone}
			} else {
				badValue(diags, declID, d.Pos, key, value, "none (or use deprecated=/unavailable=)")
			}

		default:
			diags.AddWarning(diagnostic.CodeDirectiveUnknown,
				fmt.Sprintf("unknown directive option %q", key), declID, "", d.Pos)
		}
	}

	return cfg
}

func badValue(diags *diagnostic.Diagnostics, declID, site, key, value, want string) {
	diags.AddWarning(diagnostic.CodeDirectiveBadValue,
		fmt.Sprintf("unrecognized %s value %q (want %s)", key, value, want), declID, "", site)
}
