package workspace

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"practicelog/internal/gateway/gatewaytest"
	"practicelog/internal/identity/identitytest"
	"practicelog/internal/store"
	"practicelog/internal/tier"
	"practicelog/pkg/utils"
)

func newRegistry(t *testing.T) (*Registry, *identitytest.Provider, *gatewaytest.Memory) {
	t.Helper()
	mem := gatewaytest.NewMemory()
	provider := identitytest.NewProvider()
	factory := NewFactory(mem, provider, Config{DrillInsertMode: store.DrillInsertBatch, TTL: time.Hour}, zap.NewNop())
	return NewRegistry(factory, zap.NewNop()), provider, mem
}

func TestStoreFollowsIdentity(t *testing.T) {
	reg, provider, _ := newRegistry(t)
	provider.AddUser("a@example.com", "pw")
	provider.AddUser("b@example.com", "pw")

	w := reg.Create()
	_, err := w.Store()
	assert.ErrorIs(t, err, utils.ErrUnauthenticated)

	require.NoError(t, w.Identity.SignIn(t.Context(), "a@example.com", "pw"))
	first, err := w.Store()
	require.NoError(t, err)
	assert.Equal(t, w.Identity.State().UserID(), first.UserID())

	require.NoError(t, w.Identity.SignOut(t.Context()))
	_, err = w.Store()
	assert.ErrorIs(t, err, utils.ErrUnauthenticated)

	require.NoError(t, w.Identity.SignIn(t.Context(), "b@example.com", "pw"))
	second, err := w.Store()
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.NotEqual(t, first.UserID(), second.UserID())
}

func TestTokenRefreshKeepsStore(t *testing.T) {
	reg, provider, _ := newRegistry(t)
	provider.AddUser("a@example.com", "pw")
	provider.TokenTTL = 30 * time.Second

	w := reg.Create()
	require.NoError(t, w.Identity.SignIn(t.Context(), "a@example.com", "pw"))
	before, err := w.Store()
	require.NoError(t, err)

	require.NoError(t, w.Identity.EnsureFresh(t.Context()))
	after, err := w.Store()
	require.NoError(t, err)
	assert.Same(t, before, after)
}

func TestEntitlementFromProfile(t *testing.T) {
	reg, provider, mem := newRegistry(t)
	id := provider.AddUser("a@example.com", "pw")
	mem.Seed("profiles", map[string]any{"id": id, "is_pro": true})

	w := reg.Create()
	assert.Equal(t, tier.Free, w.Entitlement())
	require.NoError(t, w.Identity.SignIn(t.Context(), "a@example.com", "pw"))
	assert.True(t, w.Entitlement().Pro)
}

func TestRegistryLookupAndRemove(t *testing.T) {
	reg, provider, _ := newRegistry(t)
	provider.AddUser("a@example.com", "pw")

	w := reg.Create()
	require.NoError(t, w.Identity.SignIn(t.Context(), "a@example.com", "pw"))

	got, ok := reg.Lookup(w.ID)
	require.True(t, ok)
	assert.Same(t, w, got)
	_, ok = reg.Lookup("")
	assert.False(t, ok)

	reg.Remove(w.ID)
	_, ok = reg.Lookup(w.ID)
	assert.False(t, ok)
	_, err := w.Store()
	assert.ErrorIs(t, err, utils.ErrUnauthenticated)
}
