package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"practicelog/pkg/utils"
)

// User is the identity provider's user object. Identities is empty when the
// provider hides an already registered email on sign-up.
type User struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Identities []Identity `json:"identities"`
}

type Identity struct {
	ID       string `json:"id"`
	Provider string `json:"provider"`
}

// Session is an authenticated session issued by the provider.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         User
}

// SignUpResponse carries the new user and, when no email confirmation is
// required, a session.
type SignUpResponse struct {
	User    User
	Session *Session
}

type Provider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
	SignUp(ctx context.Context, email, password string) (*SignUpResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// ProviderError is a request the identity provider rejected.
type ProviderError struct {
	Status  int
	Code    string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("identity provider returned status %d", e.Status)
}

var ErrProviderTransport = fmt.Errorf("identity provider transport failure: %w", utils.ErrBackendUnavailable)

type goTrue struct {
	base    *url.URL
	anonKey string
	client  *http.Client
	logger  *zap.Logger
}

// NewGoTrue talks to the hosted auth service mounted at <serviceURL>/auth/v1.
func NewGoTrue(serviceURL, anonKey string, client *http.Client, logger *zap.Logger) (Provider, error) {
	base, err := url.Parse(strings.TrimRight(serviceURL, "/") + "/auth/v1/")
	if err != nil {
		return nil, fmt.Errorf("parse auth url: %w", err)
	}
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &goTrue{base: base, anonKey: anonKey, client: client, logger: logger}, nil
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// tokenResponse covers both the session payload and the bare user payload
// that sign-up returns while confirmation is pending.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	User         *User  `json:"user"`

	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Identities []Identity `json:"identities"`
}

func (t tokenResponse) session(now time.Time) *Session {
	if t.AccessToken == "" {
		return nil
	}
	s := &Session{AccessToken: t.AccessToken, RefreshToken: t.RefreshToken}
	switch {
	case t.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(t.ExpiresAt, 0)
	case t.ExpiresIn > 0:
		s.ExpiresAt = now.Add(time.Duration(t.ExpiresIn) * time.Second)
	}
	if t.User != nil {
		s.User = *t.User
	}
	return s
}

func (t tokenResponse) user() User {
	if t.User != nil {
		return *t.User
	}
	return User{ID: t.ID, Email: t.Email, Identities: t.Identities}
}

func (g *goTrue) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	var out tokenResponse
	if err := g.do(ctx, http.MethodPost, "token?grant_type=password", "", credentials{email, password}, &out); err != nil {
		return nil, err
	}
	s := out.session(time.Now())
	if s == nil {
		return nil, fmt.Errorf("%w: sign-in response without session", ErrProviderTransport)
	}
	return s, nil
}

func (g *goTrue) SignUp(ctx context.Context, email, password string) (*SignUpResponse, error) {
	var out tokenResponse
	if err := g.do(ctx, http.MethodPost, "signup", "", credentials{email, password}, &out); err != nil {
		return nil, err
	}
	s := out.session(time.Now())
	u := out.user()
	if s != nil && s.User.ID == "" {
		s.User = u
	}
	return &SignUpResponse{User: u, Session: s}, nil
}

func (g *goTrue) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	var out tokenResponse
	body := map[string]string{"refresh_token": refreshToken}
	if err := g.do(ctx, http.MethodPost, "token?grant_type=refresh_token", "", body, &out); err != nil {
		return nil, err
	}
	s := out.session(time.Now())
	if s == nil {
		return nil, fmt.Errorf("%w: refresh response without session", ErrProviderTransport)
	}
	return s, nil
}

func (g *goTrue) SignOut(ctx context.Context, accessToken string) error {
	return g.do(ctx, http.MethodPost, "logout", accessToken, nil, nil)
}

func (g *goTrue) do(ctx context.Context, method, path, bearer string, body, out any) error {
	ref, err := url.Parse(path)
	if err != nil {
		return err
	}
	target := g.base.ResolveReference(ref)

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", ref.Path, err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProviderTransport, err)
	}
	if bearer == "" {
		bearer = g.anonKey
	}
	req.Header.Set("apikey", g.anonKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProviderTransport, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %w", ErrProviderTransport, err)
	}
	g.logger.Debug("auth request",
		zap.String("path", ref.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	if resp.StatusCode >= 300 {
		return decodeProviderError(resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode %s response: %w", ErrProviderTransport, ref.Path, err)
	}
	return nil
}

// decodeProviderError understands both the OAuth style body
// ({"error","error_description"}) and the newer {"code","error_code","msg"}.
func decodeProviderError(status int, raw []byte) error {
	var body struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		ErrorCode        string `json:"error_code"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
	}
	_ = json.Unmarshal(raw, &body)
	pe := &ProviderError{Status: status, Code: body.ErrorCode}
	if pe.Code == "" {
		pe.Code = body.Error
	}
	for _, m := range []string{body.ErrorDescription, body.Msg, body.Message, body.Error} {
		if m != "" {
			pe.Message = m
			break
		}
	}
	return pe
}
