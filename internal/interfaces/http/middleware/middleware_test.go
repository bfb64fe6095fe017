package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csc-helpdesk/csc/internal/application/auth/usecases"
	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/domain/permission"
	"github.com/csc-helpdesk/csc/internal/domain/user"
	uservo "github.com/csc-helpdesk/csc/internal/domain/user/valueobjects"
	"github.com/csc-helpdesk/csc/internal/infrastructure/auth"
	"github.com/csc-helpdesk/csc/internal/infrastructure/ratelimit"
	"github.com/csc-helpdesk/csc/internal/shared/constants"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func echoPrincipal(c *gin.Context) {
	p, ok := PrincipalFrom(c)
	if !ok {
		c.Status(http.StatusTeapot)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": p.UserID, "role": p.Role, "email": p.Email})
}

func issue(t *testing.T, svc *auth.JWTService, role permission.Role) string {
	t.Helper()
	token, _, err := svc.Generate(usecases.TokenClaims{UserID: "u-1", Email: "ana@corp.com", Name: "Ana", Role: role})
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	svc := auth.NewJWTService("secret", "csc-helpdesk", 60)
	m := NewAuthMiddleware(svc, logger.NewNopLogger())

	r := gin.New()
	r.GET("/me", m.RequireAuth(), echoPrincipal)
	r.GET("/ws", m.RequireAuthOrQueryToken(), echoPrincipal)

	token := issue(t, svc, permission.RoleManager)

	t.Run("valid bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := perform(r, req)
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "u-1", body["user_id"])
		assert.Equal(t, "MANAGER", body["role"])
		assert.Equal(t, "ana@corp.com", body["email"])
	})

	t.Run("missing header", func(t *testing.T) {
		w := perform(r, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Token "+token)
		w := perform(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid authorization header format")
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer nope")
		assert.Equal(t, http.StatusUnauthorized, perform(r, req).Code)
	})

	t.Run("query token only where allowed", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, perform(r, httptest.NewRequest(http.MethodGet, "/me?token="+token, nil)).Code)
		assert.Equal(t, http.StatusOK, perform(r, httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)).Code)
	})
}

type userLookupFunc func(ctx context.Context, id string) (*user.User, error)

func (f userLookupFunc) GetByID(ctx context.Context, id string) (*user.User, error) {
	return f(ctx, id)
}

func storedUser(t *testing.T, role permission.Role, active bool) *user.User {
	t.Helper()
	email, err := uservo.NewEmail("ana@corp.com")
	require.NoError(t, err)
	now := time.Now().UTC()
	u, err := user.ReconstructUser("u-1", email, "Ana Souza", role, "TI", "", active, nil, now, now)
	require.NoError(t, err)
	return u
}

func TestAuthMiddleware_StoredAccountWins(t *testing.T) {
	svc := auth.NewJWTService("secret", "csc-helpdesk", 60)
	token := issue(t, svc, permission.RoleAdmin)

	serve := func(lookup userLookupFunc) *httptest.ResponseRecorder {
		m := NewAuthMiddleware(svc, logger.NewNopLogger()).WithUserLookup(lookup)
		r := gin.New()
		r.GET("/me", m.RequireAuth(), echoPrincipal)
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		return perform(r, req)
	}

	t.Run("demoted user gets stored role", func(t *testing.T) {
		w := serve(func(_ context.Context, id string) (*user.User, error) {
			assert.Equal(t, "u-1", id)
			return storedUser(t, permission.RoleViewer, true), nil
		})
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "VIEWER", body["role"])
	})

	t.Run("deactivated user rejected", func(t *testing.T) {
		w := serve(func(context.Context, string) (*user.User, error) {
			return storedUser(t, permission.RoleAdmin, false), nil
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("deleted user rejected", func(t *testing.T) {
		w := serve(func(context.Context, string) (*user.User, error) {
			return nil, user.ErrUserNotFound
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("lookup failure is a server error", func(t *testing.T) {
		w := serve(func(context.Context, string) (*user.User, error) {
			return nil, errors.New("db down")
		})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

type stubEnforcer struct {
	err error
}

func (s stubEnforcer) Enforce(role, resource, action string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return permission.Checker{}.Enforce(role, resource, action)
}

func TestPermissionMiddleware(t *testing.T) {
	newRouter := func(enf permission.Enforcer, p *common.Principal) *gin.Engine {
		r := gin.New()
		r.GET("/reports", func(c *gin.Context) {
			if p != nil {
				SetPrincipal(c, *p)
			}
			c.Next()
		}, NewPermissionMiddleware(enf, logger.NewNopLogger()).RequirePermission(permission.ReportsView), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
		return r
	}
	req := func() *http.Request { return httptest.NewRequest(http.MethodGet, "/reports", nil) }

	tests := []struct {
		name string
		role permission.Role
		want int
	}{
		{"manager allowed", permission.RoleManager, http.StatusNoContent},
		{"super admin by wildcard", permission.RoleSuperAdmin, http.StatusNoContent},
		{"user forbidden", permission.RoleUser, http.StatusForbidden},
		{"unknown role forbidden", permission.Role("GUEST"), http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := common.Principal{UserID: "u", Role: tt.role}
			assert.Equal(t, tt.want, perform(newRouter(stubEnforcer{}, &p), req()).Code)
		})
	}

	t.Run("unauthenticated", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, perform(newRouter(stubEnforcer{}, nil), req()).Code)
	})

	t.Run("enforcer failure", func(t *testing.T) {
		p := common.Principal{UserID: "u", Role: permission.RoleAdmin}
		w := perform(newRouter(stubEnforcer{err: errors.New("db down")}, &p), req())
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

type failingLimiter struct{}

func (failingLimiter) Allow(_ context.Context, _ string, _ ratelimit.Policy) (ratelimit.Result, error) {
	return ratelimit.Result{}, errors.New("redis down")
}

func TestRateLimitMiddleware(t *testing.T) {
	policy := ratelimit.Policy{Limit: 2, Window: time.Hour}
	m := NewRateLimitMiddleware(ratelimit.NewMemoryRateLimiter(), policy, logger.NewNopLogger())

	r := gin.New()
	r.POST("/auth/login", m.Limit("auth"), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := perform(r, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := perform(r, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	t.Run("fails open", func(t *testing.T) {
		open := NewRateLimitMiddleware(failingLimiter{}, policy, logger.NewNopLogger())
		r := gin.New()
		r.POST("/auth/login", open.Limit("auth"), func(c *gin.Context) { c.Status(http.StatusOK) })
		assert.Equal(t, http.StatusOK, perform(r, httptest.NewRequest(http.MethodPost, "/auth/login", nil)).Code)
	})
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://csc.corp.com"}))
	r.GET("/api/tickets", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("listed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/tickets", nil)
		req.Header.Set("Origin", "https://csc.corp.com")
		w := perform(r, req)
		assert.Equal(t, "https://csc.corp.com", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("other origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/tickets", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := perform(r, req)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/tickets", nil)
		req.Header.Set("Origin", "https://csc.corp.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := perform(r, req)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestMeta(logger.NewNopLogger()), Recovery(logger.NewNopLogger()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w := perform(r, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), constants.ErrMsgInternalServerError)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestRedactedHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer secret")
	for _, h := range redactedHeaders(req) {
		assert.NotContains(t, h, "secret")
	}
}

func TestRequestMeta(t *testing.T) {
	r := gin.New()
	r.Use(RequestMeta(logger.NewNopLogger()))
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(constants.ContextKeyRequestID)) })

	t.Run("generated", func(t *testing.T) {
		w := perform(r, httptest.NewRequest(http.MethodGet, "/x", nil))
		id := w.Header().Get(constants.HeaderXRequestID)
		assert.Len(t, id, 36)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(constants.HeaderXRequestID, "abc-123")
		w := perform(r, req)
		assert.Equal(t, "abc-123", w.Header().Get(constants.HeaderXRequestID))
	})
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(time.Minute, "/ws"))
	hasDeadline := func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		c.JSON(http.StatusOK, gin.H{"deadline": ok})
	}
	r.GET("/api/x", hasDeadline)
	r.GET("/ws", hasDeadline)

	assert.JSONEq(t, `{"deadline":true}`, perform(r, httptest.NewRequest(http.MethodGet, "/api/x", nil)).Body.String())
	assert.JSONEq(t, `{"deadline":false}`, perform(r, httptest.NewRequest(http.MethodGet, "/ws", nil)).Body.String())
}
