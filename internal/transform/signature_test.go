package transform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bridgegen/internal/config"
	"bridgegen/internal/decl"
)

func effDefaults() config.EffectiveConfig {
	return config.Resolve(config.BuiltIn())
}

func fetchUser() *decl.Declaration {
	return &decl.Declaration{
		Name:    "fetchUser",
		Params:  []decl.Param{{Name: "id", Type: "string"}},
		Effects: decl.Effects{Suspending: true, Fallible: true},
		Result:  "User",
		Context: decl.FreeFunction,
	}
}

func TestDeriveBlockingFetchUser(t *testing.T) {
	sig, err := Derive(fetchUser(), Blocking, effDefaults())
	require.NoError(t, err)

	assert.Equal(t, "fetchUserBlocking(id string) (User, error)", sig.Render())
	assert.True(t, sig.Fallible)
	assert.Equal(t, config.AvailabilityDeprecated, sig.Availability.Kind)
}

func TestDerivePreservesParameterList(t *testing.T) {
	d := &decl.Declaration{
		Name: "mix",
		Params: []decl.Param{
			{Name: "a", Type: "int"},
			{Name: "b", Type: "*User", Pointer: true},
			{Name: "rest", Type: "string", Variadic: true},
		},
		Effects: decl.Effects{Suspending: true, Fallible: true},
		Result:  "int",
	}

	for _, c := range []Convention{Blocking, Future, Callback, Stream} {
		sig, err := Derive(d, c, effDefaults())
		require.NoError(t, err, c.String())

		want := "a int, b *User, rest ...string"
		assert.Contains(t, sig.Params, want, "%s must preserve order, names, and flags", c)
		assert.True(t, strings.HasPrefix(sig.Params, want), "%s must not prepend parameters", c)
	}
}

func TestDeriveFutureErrorChannelRule(t *testing.T) {
	fallible := fetchUser()

	sig, err := Derive(fallible, Future, effDefaults())
	require.NoError(t, err)
	assert.Equal(t, "*bridge.Future[User]", sig.Results)
	assert.False(t, sig.Safe)

	plain := &decl.Declaration{
		Name:    "tick",
		Effects: decl.Effects{Suspending: true},
		Result:  "int",
	}

	sig, err = Derive(plain, Future, effDefaults())
	require.NoError(t, err)
	assert.Equal(t, "*bridge.SafeFuture[int]", sig.Results)
	assert.True(t, sig.Safe)
}

func TestDeriveStreamMirrorsFuture(t *testing.T) {
	sig, err := Derive(fetchUser(), Stream, effDefaults())
	require.NoError(t, err)
	assert.Equal(t, "*bridge.Stream[User]", sig.Results)

	plain := &decl.Declaration{
		Name:    "tick",
		Effects: decl.Effects{Suspending: true},
		Result:  "int",
	}

	sig, err = Derive(plain, Stream, effDefaults())
	require.NoError(t, err)
	assert.Equal(t, "*bridge.SafeStream[int]", sig.Results)
}

func TestDeriveCallbackAppendsTrailingHandler(t *testing.T) {
	sig, err := Derive(fetchUser(), Callback, effDefaults())
	require.NoError(t, err)

	assert.Equal(t, "fetchUserWithCallback(id string, done func(bridge.Result[User]))", sig.Render())
	assert.Empty(t, sig.Results, "callback drops the return type")
	assert.Equal(t, "done", sig.Handler)
}

func TestDeriveCallbackHandlerNameCollision(t *testing.T) {
	d := &decl.Declaration{
		Name:    "ship",
		Params:  []decl.Param{{Name: "done", Type: "bool"}},
		Effects: decl.Effects{Suspending: true},
	}

	sig, err := Derive(d, Callback, effDefaults())
	require.NoError(t, err)
	assert.Equal(t, "onDone", sig.Handler)
}

func TestDeriveVoidKeepsExplicitUnitPayload(t *testing.T) {
	d := &decl.Declaration{
		Name:    "warmCache",
		Effects: decl.Effects{Suspending: true},
	}

	blocking, err := Derive(d, Blocking, effDefaults())
	require.NoError(t, err)
	assert.Equal(t, "warmCacheBlocking()", blocking.Render())

	future, err := Derive(d, Future, effDefaults())
	require.NoError(t, err)
	assert.Equal(t, "*bridge.SafeFuture[bridge.Unit]", future.Results)

	callback, err := Derive(d, Callback, effDefaults())
	require.NoError(t, err)
	assert.Contains(t, callback.Params, "done func(bridge.Result[bridge.Unit])")

	stream, err := Derive(d, Stream, effDefaults())
	require.NoError(t, err)
	assert.Equal(t, "*bridge.SafeStream[bridge.Unit]", stream.Results)
}

func TestDeriveVoidFallibleBlocking(t *testing.T) {
	d := &decl.Declaration{
		Name:    "flush",
		Effects: decl.Effects{Suspending: true, Fallible: true},
	}

	sig, err := Derive(d, Blocking, effDefaults())
	require.NoError(t, err)
	assert.Equal(t, "flushBlocking() error", sig.Render())
}

func TestDeriveBlockingFallibleOverride(t *testing.T) {
	d := &decl.Declaration{
		Name:    "tick",
		Effects: decl.Effects{Suspending: true},
		Result:  "int",
	}

	eff := effDefaults()

	sig, err := Derive(d, Blocking, eff)
	require.NoError(t, err)
	assert.Equal(t, "tickBlocking() int", sig.Render())

	eff.BlockingFallible = true

	sig, err = Derive(d, Blocking, eff)
	require.NoError(t, err)
	assert.Equal(t, "tickBlocking() (int, error)", sig.Render())
	assert.True(t, sig.Fallible)
}

func TestDeriveRequiresSuspendingSource(t *testing.T) {
	d := &decl.Declaration{
		Name:   "plain",
		Result: "int",
	}

	_, err := Derive(d, Blocking, effDefaults())
	require.Error(t, err)

	_, err = Derive(d, Callback, effDefaults())
	require.Error(t, err)

	// Future and Stream also accept non-suspending sources.
	_, err = Derive(d, Future, effDefaults())
	require.NoError(t, err)

	_, err = Derive(d, Stream, effDefaults())
	require.NoError(t, err)
}

func TestDeriveGenericsCopiedVerbatim(t *testing.T) {
	d := &decl.Declaration{
		Name: "collect",
		TypeParams: []decl.TypeParam{
			{Name: "K", Constraint: "comparable"},
			{Name: "V", Constraint: "any"},
		},
		Params:  []decl.Param{{Name: "keys", Type: "map[K]V"}},
		Effects: decl.Effects{Suspending: true},
		Result:  "[]V",
	}

	sig, err := Derive(d, Future, effDefaults())
	require.NoError(t, err)
	assert.Equal(t, "collectFuture[K comparable, V any](keys map[K]V) *bridge.SafeFuture[[]V]", sig.Render())
}

func TestDerivePrefixAndAvailability(t *testing.T) {
	eff := effDefaults()
	eff.Prefix = "Legacy"
	eff.Availability = config.AvailabilityPolicy{
		Kind:    config.AvailabilityDeprecated,
		Message: "migrate",
	}

	sig, err := Derive(fetchUser(), Future, eff)
	require.NoError(t, err)
	assert.Equal(t, "LegacyfetchUserFuture", sig.Name)
	assert.Equal(t, "migrate", sig.Availability.Message)
}

func TestParseConvention(t *testing.T) {
	tests := []struct {
		in      string
		want    Convention
		wantErr bool
	}{
		{"blocking", Blocking, false},
		{"future", Future, false},
		{"callback", Callback, false},
		{"stream", Stream, false},
		{"promise", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseConvention(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}

		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
