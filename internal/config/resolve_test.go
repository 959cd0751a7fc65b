package config

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bridgegen/internal/decl"
	"bridgegen/internal/diagnostic"
)

func TestResolvePrefixPrecedenceLadder(t *testing.T) {
	callSite := WithPrefix("a")
	enclosing := WithPrefix("b")
	process := WithPrefix("c")

	tests := []struct {
		name   string
		layers []*Config
		want   string
	}{
		{"call-site wins", []*Config{callSite, enclosing, process, BuiltIn()}, "a"},
		{"type wins without call-site", []*Config{nil, enclosing, process, BuiltIn()}, "b"},
		{"process wins without upper layers", []*Config{nil, nil, process, BuiltIn()}, "c"},
		{"built-in when all absent", []*Config{nil, nil, nil, BuiltIn()}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eff := Resolve(tt.layers...)
			assert.Equal(t, tt.want, eff.Prefix)
		})
	}
}

func TestResolveIsFieldWise(t *testing.T) {
	callSite := &Config{Deliver: ptr(DeliverPrimary)}
	enclosing := &Config{Prefix: ptr("Svc"), Sync: ptr(SyncSerial)}

	eff := Resolve(callSite, enclosing, nil, BuiltIn())

	assert.Equal(t, "Svc", eff.Prefix)
	assert.Equal(t, DeliverPrimary, eff.Deliver)
	assert.Equal(t, SyncSerial, eff.Sync)
	assert.True(t, eff.Extensions)
	assert.False(t, eff.BlockingFallible)
}

func TestResolveIsTotal(t *testing.T) {
	eff := Resolve(BuiltIn())

	assert.Equal(t, "", eff.Prefix)
	assert.Equal(t, AvailabilityDefault, eff.Availability.Kind)
	assert.Equal(t, DeliverCurrent, eff.Deliver)
	assert.Equal(t, SyncConcurrent, eff.Sync)
	assert.True(t, eff.Extensions)
	assert.False(t, eff.BlockingFallible)
}

func TestFromDirectiveOptions(t *testing.T) {
	d := &decl.Directive{
		Kind: decl.DirectiveDerive,
		Options: map[string]string{
			"prefix":     "Legacy",
			"deliver":    "primary",
			"extensions": "off",
			"blocking":   "always",
			"deprecated": "use the context variant",
		},
	}

	var diags diagnostic.Diagnostics

	cfg := FromDirective(d, "FetchUser", &diags)
	require.NotNil(t, cfg)
	assert.False(t, diags.HasErrors())
	assert.Empty(t, diags.Warnings)

	eff := Resolve(cfg, BuiltIn())
	assert.Equal(t, "Legacy", eff.Prefix)
	assert.Equal(t, DeliverPrimary, eff.Deliver)
	assert.False(t, eff.Extensions)
	assert.True(t, eff.BlockingFallible)
	assert.Equal(t, AvailabilityDeprecated, eff.Availability.Kind)
	assert.Equal(t, "use the context variant", eff.Availability.Message)
}

func TestFromDirectiveReportsUnknownAndBadValues(t *testing.T) {
	d := &decl.Directive{
		Kind: decl.DirectiveDerive,
		Options: map[string]string{
			"deliver": "mainthread",
			"colour":  "red",
			"prefix":  "Ok",
		},
		Pos: "svc.go:7",
	}

	var diags diagnostic.Diagnostics

	cfg := FromDirective(d, "FetchUser", &diags)
	require.NotNil(t, cfg)

	// Promoted to diagnostics, not silently defaulted.
	require.Len(t, diags.Warnings, 2)
	assert.Nil(t, cfg.Deliver)

	for _, w := range diags.Warnings {
		assert.Equal(t, "svc.go:7", w.Site)
	}

	// The recognized remainder still applies.
	eff := Resolve(cfg, BuiltIn())
	assert.Equal(t, "Ok", eff.Prefix)
	assert.Equal(t, DeliverCurrent, eff.Deliver)
}

func TestProcessLayerFromYAML(t *testing.T) {
	p := NewProcess()

	err := p.Parse([]byte("prefix: Proc\ndeliver: primary\nsync: serial\n"))
	require.NoError(t, err)

	eff := Resolve(nil, nil, p.Snapshot(), BuiltIn())
	assert.Equal(t, "Proc", eff.Prefix)
	assert.Equal(t, DeliverPrimary, eff.Deliver)
	assert.Equal(t, SyncSerial, eff.Sync)
}

func TestProcessLayerRejectsBadValues(t *testing.T) {
	p := NewProcess()

	err := p.Parse([]byte("deliver: mainthread\n"))
	require.Error(t, err)

	err = p.Parse([]byte("sync: [1,2]\n"))
	require.Error(t, err)
}

func TestProcessConcurrentReadsDuringWrite(t *testing.T) {
	p := NewProcess()
	p.Set(Config{Prefix: ptr("x")})

	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := 0; j < 100; j++ {
				_ = Resolve(p.Snapshot(), BuiltIn())
			}
		}()
	}

	// The rare write racing the reads.
	p.Set(Config{Prefix: ptr("y")})
	wg.Wait()

	assert.Equal(t, "y", *p.Snapshot().Prefix)
}
