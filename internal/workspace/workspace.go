// Package workspace bundles one browser's identity manager and data store.
// The store lives only while someone is signed in and is rebuilt whenever a
// different user signs in.
package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"practicelog/internal/gateway"
	"practicelog/internal/identity"
	"practicelog/internal/repositories"
	"practicelog/internal/store"
	"practicelog/internal/tier"
	"practicelog/pkg/memcache"
	"practicelog/pkg/utils"
)

type Workspace struct {
	ID       string
	Identity *identity.Manager

	newStore    func(userID string) *store.Store
	clock       func() time.Time
	unsubscribe func()

	mu    sync.RWMutex
	store *store.Store
}

// Store returns the signed-in user's store.
func (w *Workspace) Store() (*store.Store, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.store == nil {
		return nil, utils.ErrUnauthenticated
	}
	return w.store, nil
}

// Entitlement is evaluated from the latest profile on every call.
func (w *Workspace) Entitlement() tier.Entitlement {
	return w.Identity.State().Entitlement(w.clock())
}

// Context attaches the current access token for gateway calls.
func (w *Workspace) Context(ctx context.Context) context.Context {
	return w.Identity.WithAccess(ctx)
}

func (w *Workspace) Close() {
	w.unsubscribe()
	w.mu.Lock()
	if w.store != nil {
		w.store.Clear()
		w.store = nil
	}
	w.mu.Unlock()
}

// onAuthEvent keeps the store in step with the identity: cleared on sign-out,
// rebuilt when a different user signs in.
func (w *Workspace) onAuthEvent(_ identity.Event, state identity.State) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.store != nil && state.SignedIn() && w.store.UserID() == state.UserID() {
		return
	}
	if w.store != nil {
		w.store.Clear()
		w.store = nil
	}
	if state.SignedIn() {
		w.store = w.newStore(state.UserID())
	}
}

type Config struct {
	DrillInsertMode store.DrillInsertMode
	ProfileTimeout  time.Duration
	TTL             time.Duration
}

// Factory builds workspaces that share the gateway, provider and repositories.
type Factory struct {
	provider identity.Provider
	repos    store.Repositories
	profiles repositories.ProfileRepository
	cfg      Config
	clock    func() time.Time
	logger   *zap.Logger
}

func NewFactory(gw gateway.Gateway, provider identity.Provider, cfg Config, logger *zap.Logger) *Factory {
	return &Factory{
		provider: provider,
		repos: store.Repositories{
			Athletes:       repositories.NewAthleteRepository(gw),
			Practices:      repositories.NewPracticeRepository(gw),
			Goals:          repositories.NewGoalRepository(gw),
			DrillFrequency: repositories.NewDrillFrequencyRepository(gw),
		},
		profiles: repositories.NewProfileRepository(gw),
		cfg:      cfg,
		clock:    time.Now,
		logger:   logger,
	}
}

func (f *Factory) New() *Workspace {
	id := uuid.NewString()
	logger := f.logger.With(zap.String("workspace_id", id))
	w := &Workspace{
		ID: id,
		Identity: identity.NewManager(f.provider, f.profiles, identity.Options{
			ProfileTimeout: f.cfg.ProfileTimeout,
			Clock:          f.clock,
			Logger:         logger,
		}),
		clock: f.clock,
		newStore: func(userID string) *store.Store {
			return store.New(userID, f.repos, store.Options{
				DrillInsertMode: f.cfg.DrillInsertMode,
				Clock:           f.clock,
				Logger:          logger,
			})
		},
	}
	w.unsubscribe = w.Identity.Subscribe(w.onAuthEvent)
	return w
}

// Registry keeps live workspaces keyed by the id stored in the browser cookie.
type Registry struct {
	factory *Factory
	cache   memcache.Cache[*Workspace]
	logger  *zap.Logger
}

func NewRegistry(factory *Factory, logger *zap.Logger) *Registry {
	ttl := factory.cfg.TTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	r := &Registry{factory: factory, logger: logger}
	r.cache = memcache.NewTTLCache(ttl, memcache.WithEvict(func(id string, w *Workspace) {
		logger.Debug("workspace evicted", zap.String("workspace_id", id))
		w.Close()
	}))
	return r
}

func (r *Registry) Lookup(id string) (*Workspace, bool) {
	if id == "" {
		return nil, false
	}
	return r.cache.Get(id)
}

func (r *Registry) Create() *Workspace {
	w := r.factory.New()
	r.cache.Set(w.ID, w)
	return w
}

// Remove drops a workspace and tears it down.
func (r *Registry) Remove(id string) {
	r.cache.Delete(id)
}

// RunJanitor evicts idle workspaces until ctx is cancelled.
func (r *Registry) RunJanitor(ctx context.Context, interval time.Duration) {
	memcache.RunJanitor(ctx, r.cache, interval)
}
