package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"practicelog/internal/gateway/gatewaytest"
	"practicelog/internal/identity/identitytest"
	"practicelog/internal/workspace"
)

func TestEndWorkspaceDropsItFromRegistry(t *testing.T) {
	gin.SetMode(gin.TestMode)
	provider := identitytest.NewProvider()
	provider.AddUser("coach@example.com", "secret1")
	factory := workspace.NewFactory(gatewaytest.NewMemory(), provider, workspace.Config{TTL: time.Hour}, zap.NewNop())
	registry := workspace.NewRegistry(factory, zap.NewNop())

	var seen []string
	r := gin.New()
	r.Use(sessions.Sessions(SessionName, cookie.NewStore([]byte("0123456789abcdef0123456789abcdef"))))
	r.Use(WorkspaceMiddleware(registry, zap.NewNop()))
	r.POST("/sign-in", func(c *gin.Context) {
		ws := WorkspaceFrom(c)
		seen = append(seen, ws.ID)
		require.NoError(t, ws.Identity.SignIn(c.Request.Context(), "coach@example.com", "secret1"))
		require.NoError(t, PersistSession(c, ws))
		c.Status(http.StatusOK)
	})
	r.POST("/sign-out", func(c *gin.Context) {
		ws := WorkspaceFrom(c)
		seen = append(seen, ws.ID)
		require.NoError(t, ws.Identity.SignOut(c.Request.Context()))
		require.NoError(t, EndWorkspace(c))
		c.Status(http.StatusOK)
	})
	r.GET("/whoami", func(c *gin.Context) {
		seen = append(seen, WorkspaceFrom(c).ID)
		c.Status(http.StatusOK)
	})

	send := func(method, path string, cookies []*http.Cookie) []*http.Cookie {
		req := httptest.NewRequest(method, path, nil)
		for _, ck := range cookies {
			req.AddCookie(ck)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		if got := w.Result().Cookies(); len(got) > 0 {
			return got[len(got)-1:]
		}
		return cookies
	}

	jar := send(http.MethodPost, "/sign-in", nil)
	jar = send(http.MethodPost, "/sign-out", jar)
	send(http.MethodGet, "/whoami", jar)

	require.Len(t, seen, 3)
	assert.Equal(t, seen[0], seen[1])
	_, ok := registry.Lookup(seen[0])
	assert.False(t, ok)
	assert.NotEqual(t, seen[0], seen[2])
}
