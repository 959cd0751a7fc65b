package config

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// Process is the injectable process-wide configuration layer. It is set
// once (typically from bridgegen.yaml at startup) and read for every
// declaration; reads are safe against a concurrent write.
type Process struct {
	mu  sync.RWMutex
	cfg Config
}

// NewProcess creates an empty process layer: every field absent.
func NewProcess() *Process {
	return &Process{}
}

// Set replaces the process layer's configuration.
func (p *Process) Set(cfg Config) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg = cfg
}

// Snapshot returns a copy of the current configuration for use as a
// resolution layer.
func (p *Process) Snapshot() *Config {
	p.mu.RLock()
	defer p.mu.RUnlock()

	cfg := p.cfg

	return &cfg
}

// fileConfig is the YAML schema of bridgegen.yaml. All fields are
// optional; absent fields stay absent in the resulting layer.
type fileConfig struct {
	Prefix      *string `yaml:"prefix,omitempty"`
	Deliver     *string `yaml:"deliver,omitempty"`
	Sync        *string `yaml:"sync,omitempty"`
	Extensions  *bool   `yaml:"extensions,omitempty"`
	Blocking    *string `yaml:"blocking,omitempty"`
	Deprecated  *string `yaml:"deprecated,omitempty"`
	Unavailable *string `yaml:"unavailable,omitempty"`
}

// LoadFile reads a YAML process configuration file into the layer.
func (p *Process) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return p.Parse(data)
}

// Parse parses YAML data into the layer. Unrecognized enum values are
// an error here, unlike directive options: a process file applies to
// everything, so a typo is not ignorable.
func (p *Process) Parse(data []byte) error {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config YAML: %w", err)
	}

	cfg, err := fc.toConfig()
	if err != nil {
		return err
	}

	p.Set(cfg)

	return nil
}

func (fc *fileConfig) toConfig() (Config, error) {
	var cfg Config

	cfg.Prefix = fc.Prefix
	cfg.Extensions = fc.Extensions

	if fc.Deliver != nil {
		switch *fc.Deliver {
		case "current":
			cfg.Deliver = ptr(DeliverCurrent)
		case "primary":
			cfg.Deliver = ptr(DeliverPrimary)
		default:
			return cfg, fmt.Errorf("unrecognized deliver value %q", *fc.Deliver)
		}
	}

	if fc.Sync != nil {
		switch *fc.Sync {
		case "concurrent":
			cfg.Sync = ptr(SyncConcurrent)
		case "serial":
			cfg.Sync = ptr(SyncSerial)
		default:
			return cfg, fmt.Errorf("unrecognized sync value %q", *fc.Sync)
		}
	}

	if fc.Blocking != nil {
		switch *fc.Blocking {
		case "source":
			cfg.BlockingFallible = ptr(false)
		case "always":
			cfg.BlockingFallible = ptr(true)
		default:
			return cfg, fmt.Errorf("unrecognized blocking value %q", *fc.Blocking)
		}
	}

	if fc.Deprecated != nil {
		cfg.Availability = &AvailabilityPolicy{
			Kind:    AvailabilityDeprecated,
			Message: *fc.Deprecated,
		}
	}

	if fc.Unavailable != nil {
		cfg.Availability = &AvailabilityPolicy{
			Kind:    AvailabilityUnavailable,
			Message: *fc.Unavailable,
		}
	}

	return cfg, nil
}
