package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"practicelog/internal/store"
	"practicelog/internal/workspace"
	"practicelog/pkg/utils"
)

const (
	SessionName = "practicelog"

	keyWorkspace = "workspace_id"
	keyRefresh   = "refresh_token"
	keyAthlete   = "athlete_id"

	ctxWorkspace = "workspace"
	ctxRegistry  = "workspace_registry"
)

// WorkspaceMiddleware attaches the browser's workspace to the request. A
// browser whose workspace was evicted, or a fresh process, gets a new one and
// the session is restored from the refresh token kept in the cookie.
func WorkspaceMiddleware(registry *workspace.Registry, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		id, _ := session.Get(keyWorkspace).(string)

		ws, ok := registry.Lookup(id)
		if !ok {
			ws = registry.Create()
			if refresh, _ := session.Get(keyRefresh).(string); refresh != "" {
				if err := ws.Identity.Restore(c.Request.Context(), refresh); err != nil {
					logger.Debug("session not restored", zap.String("workspace_id", ws.ID), zap.Error(err))
				}
			}
			if err := PersistSession(c, ws); err != nil {
				logger.Warn("could not save session cookie", zap.Error(err))
			}
		}
		c.Set(ctxWorkspace, ws)
		c.Set(ctxRegistry, registry)
		c.Next()
	}
}

// RequireSession rejects signed-out requests and refreshes tokens that are
// about to expire.
func RequireSession(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws := WorkspaceFrom(c)
		if ws == nil {
			utils.RespondError(c, http.StatusUnauthorized, utils.ErrUnauthenticated.Error())
			c.Abort()
			return
		}
		before := ws.Identity.State().RefreshToken
		if err := ws.Identity.EnsureFresh(c.Request.Context()); err != nil {
			if !errors.Is(err, utils.ErrUnauthenticated) {
				logger.Warn("token refresh failed", zap.Error(err))
			}
			_ = PersistSession(c, ws)
			utils.RespondError(c, http.StatusUnauthorized, utils.ErrUnauthenticated.Error())
			c.Abort()
			return
		}
		if ws.Identity.State().RefreshToken != before {
			if err := PersistSession(c, ws); err != nil {
				logger.Warn("could not save session cookie", zap.Error(err))
			}
		}
		c.Next()
	}
}

// PersistSession writes the workspace id and current refresh token to the
// cookie. It must run before the response body is written.
func PersistSession(c *gin.Context, ws *workspace.Workspace) error {
	session := sessions.Default(c)
	session.Set(keyWorkspace, ws.ID)
	if refresh := ws.Identity.State().RefreshToken; refresh != "" {
		session.Set(keyRefresh, refresh)
	} else {
		session.Delete(keyRefresh)
	}
	return session.Save()
}

// EndWorkspace drops the browser's workspace after sign-out and forgets it in
// the cookie. The remembered athlete stays. The next request starts a fresh
// workspace.
func EndWorkspace(c *gin.Context) error {
	ws := WorkspaceFrom(c)
	if v, ok := c.Get(ctxRegistry); ok && ws != nil {
		v.(*workspace.Registry).Remove(ws.ID)
	}
	session := sessions.Default(c)
	session.Delete(keyWorkspace)
	session.Delete(keyRefresh)
	return session.Save()
}

func WorkspaceFrom(c *gin.Context) *workspace.Workspace {
	v, ok := c.Get(ctxWorkspace)
	if !ok {
		return nil
	}
	ws, _ := v.(*workspace.Workspace)
	return ws
}

// CookiePreference remembers the selected athlete in the session cookie so
// the choice survives reloads and process restarts.
type CookiePreference struct {
	session sessions.Session
}

var _ store.AthletePreference = CookiePreference{}

func PreferenceFrom(c *gin.Context) CookiePreference {
	return CookiePreference{session: sessions.Default(c)}
}

func (p CookiePreference) LastAthleteID() string {
	id, _ := p.session.Get(keyAthlete).(string)
	return id
}

func (p CookiePreference) RememberAthlete(athleteID string) error {
	p.session.Set(keyAthlete, athleteID)
	return p.session.Save()
}
