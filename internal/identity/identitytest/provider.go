// Package identitytest provides an in-memory identity.Provider that issues
// HS256 access tokens with real exp and sub claims.
package identitytest

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"practicelog/internal/identity"
)

type account struct {
	id       string
	email    string
	password string
}

type Provider struct {
	mu       sync.Mutex
	accounts map[string]account
	refresh  map[string]string
	// TokenTTL controls the exp claim of issued access tokens.
	TokenTTL time.Duration
	// RequireConfirmation makes sign-up return a user without a session.
	RequireConfirmation bool
	Now                 func() time.Time
	SignedOut           []string
}

func NewProvider() *Provider {
	return &Provider{
		accounts: map[string]account{},
		refresh:  map[string]string{},
		TokenTTL: time.Hour,
		Now:      time.Now,
	}
}

// AddUser registers an account and returns its id.
func (p *Provider) AddUser(email, password string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := uuid.NewString()
	p.accounts[email] = account{id: id, email: email, password: password}
	return id
}

func (p *Provider) SignInWithPassword(_ context.Context, email, password string) (*identity.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	acc, ok := p.accounts[email]
	if !ok || acc.password != password {
		return nil, &identity.ProviderError{Status: 400, Code: "invalid_grant", Message: "Invalid login credentials"}
	}
	return p.issueLocked(acc)
}

func (p *Provider) SignUp(_ context.Context, email, password string) (*identity.SignUpResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if acc, ok := p.accounts[email]; ok {
		return &identity.SignUpResponse{User: identity.User{ID: acc.id, Email: email}}, nil
	}
	acc := account{id: uuid.NewString(), email: email, password: password}
	p.accounts[email] = acc
	user := identity.User{ID: acc.id, Email: email, Identities: []identity.Identity{{ID: acc.id, Provider: "email"}}}
	if p.RequireConfirmation {
		return &identity.SignUpResponse{User: user}, nil
	}
	s, err := p.issueLocked(acc)
	if err != nil {
		return nil, err
	}
	return &identity.SignUpResponse{User: user, Session: s}, nil
}

func (p *Provider) Refresh(_ context.Context, refreshToken string) (*identity.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	email, ok := p.refresh[refreshToken]
	if !ok {
		return nil, &identity.ProviderError{Status: 400, Code: "invalid_grant", Message: "Invalid Refresh Token"}
	}
	delete(p.refresh, refreshToken)
	return p.issueLocked(p.accounts[email])
}

func (p *Provider) SignOut(_ context.Context, accessToken string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.SignedOut = append(p.SignedOut, accessToken)
	return nil
}

func (p *Provider) issueLocked(acc account) (*identity.Session, error) {
	exp := p.Now().Add(p.TokenTTL)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   acc.id,
		ExpiresAt: jwt.NewNumericDate(exp),
		ID:        uuid.NewString(),
	}).SignedString([]byte("identitytest"))
	if err != nil {
		return nil, err
	}
	refresh := uuid.NewString()
	p.refresh[refresh] = acc.email
	return &identity.Session{
		AccessToken:  token,
		RefreshToken: refresh,
		ExpiresAt:    exp,
		User:         identity.User{ID: acc.id, Email: acc.email, Identities: []identity.Identity{{ID: acc.id, Provider: "email"}}},
	}, nil
}
