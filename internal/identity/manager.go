package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"practicelog/internal/gateway"
	"practicelog/internal/models/db_models"
	"practicelog/internal/repositories"
	"practicelog/pkg/utils"
)

const (
	DefaultProfileTimeout = 5 * time.Second
	// RefreshLeeway is how close to expiry an access token gets refreshed.
	RefreshLeeway = 60 * time.Second
)

type Options struct {
	ProfileTimeout time.Duration
	Clock          func() time.Time
	Logger         *zap.Logger
}

type Manager struct {
	provider Provider
	profiles repositories.ProfileRepository
	timeout  time.Duration
	clock    func() time.Time
	logger   *zap.Logger

	opMu sync.Mutex

	mu        sync.RWMutex
	state     State
	listeners map[int]Listener
	nextID    int
}

func NewManager(provider Provider, profiles repositories.ProfileRepository, opts Options) *Manager {
	if opts.ProfileTimeout <= 0 {
		opts.ProfileTimeout = DefaultProfileTimeout
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Manager{
		provider:  provider,
		profiles:  profiles,
		timeout:   opts.ProfileTimeout,
		clock:     opts.Clock,
		logger:    opts.Logger,
		listeners: map[int]Listener{},
	}
}

func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Subscribe registers fn for every later event. Call the returned func to
// unsubscribe.
func (m *Manager) Subscribe(fn Listener) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.listeners, id)
			m.mu.Unlock()
		})
	}
}

// WithAccess returns ctx carrying the current access token for gateway calls.
func (m *Manager) WithAccess(ctx context.Context) context.Context {
	if token := m.State().AccessToken; token != "" {
		return gateway.WithAccessToken(ctx, token)
	}
	return ctx
}

// Restore resumes a session from a stored refresh token. An empty token is
// not an error; the manager simply stays signed out.
func (m *Manager) Restore(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	m.opMu.Lock()
	defer m.opMu.Unlock()

	session, err := m.provider.Refresh(ctx, refreshToken)
	if err != nil {
		m.logger.Info("stored session could not be restored", zap.Error(err))
		return utils.ErrUnauthenticated
	}
	m.publish(ctx, EventSignedIn, session)
	return nil
}

func (m *Manager) SignIn(ctx context.Context, email, password string) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	session, err := m.provider.SignInWithPassword(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return classify(err)
	}
	m.publish(ctx, EventSignedIn, session)
	return nil
}

// SignUp registers a new account. The provider answers a duplicate email with
// a user that has no identities, which is reported as ErrAccountExists.
func (m *Manager) SignUp(ctx context.Context, email, password string) (SignUpResult, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	resp, err := m.provider.SignUp(ctx, strings.TrimSpace(email), password)
	if err != nil {
		return SignUpResult{}, classify(err)
	}
	if len(resp.User.Identities) == 0 {
		return SignUpResult{}, utils.ErrAccountExists
	}
	if resp.Session == nil {
		return SignUpResult{ConfirmationPending: true}, nil
	}
	m.publish(ctx, EventSignedIn, resp.Session)
	return SignUpResult{}, nil
}

// SignOut revokes the session at the provider and clears local state. Local
// state is cleared even when the provider call fails.
func (m *Manager) SignOut(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	token := m.State().AccessToken
	if token != "" {
		if err := m.provider.SignOut(ctx, token); err != nil {
			m.logger.Warn("provider sign-out failed", zap.Error(err))
		}
	}
	m.publish(ctx, EventSignedOut, nil)
	return nil
}

// RefreshProfile re-reads the profile, typically after an upgrade.
func (m *Manager) RefreshProfile(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	current := m.State()
	if !current.SignedIn() {
		return utils.ErrUnauthenticated
	}
	profile := m.fetchProfile(ctx, current.AccessToken, current.User.ID)
	next := current
	next.Profile = profile
	m.replace(EventProfileRefreshed, next)
	return nil
}

// EnsureFresh refreshes the access token when it expires within
// RefreshLeeway. A failed refresh signs the user out.
func (m *Manager) EnsureFresh(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	current := m.State()
	if !current.SignedIn() {
		return utils.ErrUnauthenticated
	}
	if m.clock().Add(RefreshLeeway).Before(current.ExpiresAt) {
		return nil
	}
	session, err := m.provider.Refresh(ctx, current.RefreshToken)
	if err != nil {
		m.logger.Info("token refresh failed, signing out", zap.String("user_id", current.User.ID), zap.Error(err))
		m.publish(ctx, EventSignedOut, nil)
		return utils.ErrUnauthenticated
	}
	m.publish(ctx, EventTokenRefreshed, session)
	return nil
}

// publish turns a provider event into the next state: sign-in and refresh
// re-fetch the profile, sign-out clears everything.
func (m *Manager) publish(ctx context.Context, event Event, session *Session) {
	if session == nil {
		m.replace(event, State{})
		return
	}
	user := session.User
	if user.ID == "" {
		user.ID = subject(session.AccessToken)
	}
	next := State{
		User:         &user,
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresAt:    tokenExpiry(session),
	}
	next.Profile = m.fetchProfile(ctx, next.AccessToken, user.ID)
	m.replace(event, next)
}

func (m *Manager) replace(event Event, next State) {
	m.mu.Lock()
	m.state = next
	listeners := make([]Listener, 0, len(m.listeners))
	for _, fn := range m.listeners {
		listeners = append(listeners, fn)
	}
	m.mu.Unlock()

	for _, fn := range listeners {
		fn(event, next)
	}
}

// fetchProfile never fails. Anything other than a found row within the
// timeout degrades the account to a free profile.
func (m *Manager) fetchProfile(ctx context.Context, accessToken, userID string) *db_models.Profile {
	fallback := &db_models.Profile{ID: userID, IsPro: false}

	ctx, cancel := context.WithTimeout(gateway.WithAccessToken(ctx, accessToken), m.timeout)
	defer cancel()

	profile, err := m.profiles.FindByID(ctx, userID)
	switch {
	case err != nil:
		m.logger.Warn("profile fetch failed, using free profile", zap.String("user_id", userID), zap.Error(err))
		return fallback
	case profile == nil:
		m.logger.Warn("profile row missing, using free profile", zap.String("user_id", userID))
		return fallback
	}
	return profile
}

func classify(err error) error {
	var pe *ProviderError
	if errors.As(err, &pe) {
		if pe.Code == "invalid_grant" || pe.Code == "invalid_credentials" ||
			(pe.Status == http.StatusBadRequest && strings.Contains(strings.ToLower(pe.Message), "invalid login")) {
			return fmt.Errorf("%w: %s", utils.ErrInvalidCredentials, pe.Message)
		}
		if pe.Code == "user_already_exists" {
			return utils.ErrAccountExists
		}
	}
	return err
}

// tokenExpiry prefers the exp claim of the access token over the expiry the
// provider reported alongside it.
func tokenExpiry(session *Session) time.Time {
	if claims, err := utils.AccessTokenClaims(session.AccessToken); err == nil && claims.ExpiresAt != nil {
		return claims.ExpiresAt.Time
	}
	return session.ExpiresAt
}

func subject(accessToken string) string {
	claims, err := utils.AccessTokenClaims(accessToken)
	if err != nil {
		return ""
	}
	return claims.Subject
}
