package handlers

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csc-helpdesk/csc/internal/application/auth/dto"
	"github.com/csc-helpdesk/csc/internal/application/auth/usecases"
	"github.com/csc-helpdesk/csc/internal/application/common"
	userdto "github.com/csc-helpdesk/csc/internal/application/user/dto"
	"github.com/csc-helpdesk/csc/internal/domain/permission"
	"github.com/csc-helpdesk/csc/internal/interfaces/http/handlers/testutil"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
)

type mockAuthService struct {
	initiateFn func(ctx context.Context) (*dto.SSOLoginResponse, error)
	callbackFn func(ctx context.Context, cmd usecases.HandleSSOCallbackCommand) (*dto.LoginResponse, error)
	devLoginFn func(ctx context.Context, req dto.DevLoginRequest) (*dto.LoginResponse, error)
	logoutFn   func(ctx context.Context, p common.Principal) error
	meFn       func(ctx context.Context, p common.Principal) (*dto.MeResponse, error)
}

func (m *mockAuthService) InitiateSSOLogin(ctx context.Context) (*dto.SSOLoginResponse, error) {
	return m.initiateFn(ctx)
}

func (m *mockAuthService) HandleSSOCallback(ctx context.Context, cmd usecases.HandleSSOCallbackCommand) (*dto.LoginResponse, error) {
	return m.callbackFn(ctx, cmd)
}

func (m *mockAuthService) DevLogin(ctx context.Context, req dto.DevLoginRequest) (*dto.LoginResponse, error) {
	return m.devLoginFn(ctx, req)
}

func (m *mockAuthService) Logout(ctx context.Context, p common.Principal) error {
	return m.logoutFn(ctx, p)
}

func (m *mockAuthService) Me(ctx context.Context, p common.Principal) (*dto.MeResponse, error) {
	return m.meFn(ctx, p)
}

const testCallbackURL = "https://csc.corp.com/auth/callback"

func newTestAuthHandler(svc *mockAuthService) *AuthHandler {
	return NewAuthHandler(svc, testCallbackURL, testutil.NewMockLogger())
}

func loginResponse() *dto.LoginResponse {
	return &dto.LoginResponse{
		User:      &userdto.UserResponse{ID: "u-1", Email: "ana@corp.com", Name: "Ana", Role: "USER"},
		Token:     "jwt-token",
		ExpiresAt: time.Unix(1700000000, 0),
	}
}

func TestAuthHandler_InitiateSSO(t *testing.T) {
	t.Run("redirects to provider", func(t *testing.T) {
		h := newTestAuthHandler(&mockAuthService{
			initiateFn: func(ctx context.Context) (*dto.SSOLoginResponse, error) {
				return &dto.SSOLoginResponse{AuthURL: "https://login.example.com/authorize?state=s1", State: "s1"}, nil
			},
		})
		c, w := testutil.NewTestContext(http.MethodGet, "/auth/sso/login", nil)

		h.InitiateSSO(c)

		assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
		assert.Equal(t, "https://login.example.com/authorize?state=s1", w.Header().Get("Location"))
	})

	t.Run("not configured", func(t *testing.T) {
		h := newTestAuthHandler(&mockAuthService{
			initiateFn: func(ctx context.Context) (*dto.SSOLoginResponse, error) {
				return nil, errors.NewNotFoundError("single sign-on is not configured")
			},
		})
		c, w := testutil.NewTestContext(http.MethodGet, "/auth/sso/login", nil)

		h.InitiateSSO(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAuthHandler_HandleSSOCallback(t *testing.T) {
	t.Run("success puts token in fragment", func(t *testing.T) {
		var got usecases.HandleSSOCallbackCommand
		h := newTestAuthHandler(&mockAuthService{
			callbackFn: func(ctx context.Context, cmd usecases.HandleSSOCallbackCommand) (*dto.LoginResponse, error) {
				got = cmd
				return loginResponse(), nil
			},
		})
		c, w := testutil.NewTestContext(http.MethodGet, "/auth/sso/callback?code=abc&state=s1", nil)

		h.HandleSSOCallback(c)

		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "abc", got.Code)
		assert.Equal(t, "s1", got.State)

		loc, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "/auth/callback", loc.Path)
		assert.Empty(t, loc.RawQuery)
		frag, err := url.ParseQuery(loc.Fragment)
		require.NoError(t, err)
		assert.Equal(t, "jwt-token", frag.Get("token"))
		assert.Equal(t, "1700000000", frag.Get("expires_at"))
	})

	t.Run("domain rejection carries message", func(t *testing.T) {
		h := newTestAuthHandler(&mockAuthService{
			callbackFn: func(ctx context.Context, cmd usecases.HandleSSOCallbackCommand) (*dto.LoginResponse, error) {
				return nil, errors.NewForbiddenError("e-mail not authorized")
			},
		})
		c, w := testutil.NewTestContext(http.MethodGet, "/auth/sso/callback?code=abc&state=s1", nil)

		h.HandleSSOCallback(c)

		require.Equal(t, http.StatusFound, w.Code)
		loc, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "forbidden", loc.Query().Get("error"))
		assert.Equal(t, "e-mail not authorized", loc.Query().Get("message"))
		assert.Empty(t, loc.Fragment)
	})

	t.Run("internal failure is generic", func(t *testing.T) {
		h := newTestAuthHandler(&mockAuthService{
			callbackFn: func(ctx context.Context, cmd usecases.HandleSSOCallbackCommand) (*dto.LoginResponse, error) {
				return nil, stderrors.New("token endpoint: connection refused")
			},
		})
		c, w := testutil.NewTestContext(http.MethodGet, "/auth/sso/callback?error=access_denied", nil)

		h.HandleSSOCallback(c)

		loc, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "internal_error", loc.Query().Get("error"))
		assert.NotContains(t, loc.Query().Get("message"), "connection refused")
	})
}

func TestAuthHandler_DevLogin(t *testing.T) {
	valid := map[string]string{"name": "Ana", "email": "ana@corp.com", "area": "TI", "board": "Incidentes"}

	t.Run("success", func(t *testing.T) {
		var got dto.DevLoginRequest
		h := newTestAuthHandler(&mockAuthService{
			devLoginFn: func(ctx context.Context, req dto.DevLoginRequest) (*dto.LoginResponse, error) {
				got = req
				return loginResponse(), nil
			},
		})
		c, w := testutil.NewTestContext(http.MethodPost, "/auth/login", valid)

		h.DevLogin(c)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ana@corp.com", got.Email)

		var resp testutil.APIResponse
		require.NoError(t, testutil.ParseResponse(w, &resp))
		var data dto.LoginResponse
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, "jwt-token", data.Token)
		assert.Equal(t, "u-1", data.User.ID)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name string
			body map[string]string
		}{
			{"bad email", map[string]string{"name": "Ana", "email": "nope", "area": "TI", "board": "Incidentes"}},
			{"unknown area", map[string]string{"name": "Ana", "email": "ana@corp.com", "area": "Marketing", "board": "Incidentes"}},
			{"blank name", map[string]string{"name": "   ", "email": "ana@corp.com", "area": "TI", "board": "Incidentes"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				h := newTestAuthHandler(&mockAuthService{})
				c, w := testutil.NewTestContext(http.MethodPost, "/auth/login", tt.body)

				h.DevLogin(c)

				assert.Equal(t, http.StatusBadRequest, w.Code)
			})
		}
	})

	t.Run("disabled", func(t *testing.T) {
		h := newTestAuthHandler(&mockAuthService{
			devLoginFn: func(ctx context.Context, req dto.DevLoginRequest) (*dto.LoginResponse, error) {
				return nil, errors.NewNotFoundError("development sign-in is disabled")
			},
		})
		c, w := testutil.NewTestContext(http.MethodPost, "/auth/login", valid)

		h.DevLogin(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAuthHandler_LogoutAndMe(t *testing.T) {
	p := testutil.NewPrincipal("u-1", permission.RoleManager)

	t.Run("logout requires principal", func(t *testing.T) {
		h := newTestAuthHandler(&mockAuthService{})
		c, w := testutil.NewTestContext(http.MethodPost, "/auth/logout", nil)

		h.Logout(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("logout", func(t *testing.T) {
		var got common.Principal
		h := newTestAuthHandler(&mockAuthService{
			logoutFn: func(ctx context.Context, principal common.Principal) error {
				got = principal
				return nil
			},
		})
		c, w := testutil.NewTestContext(http.MethodPost, "/auth/logout", nil)
		testutil.SetPrincipal(c, p)

		h.Logout(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "u-1", got.UserID)
	})

	t.Run("me", func(t *testing.T) {
		h := newTestAuthHandler(&mockAuthService{
			meFn: func(ctx context.Context, principal common.Principal) (*dto.MeResponse, error) {
				return &dto.MeResponse{
					UserResponse: &userdto.UserResponse{ID: principal.UserID, Role: "MANAGER"},
					Permissions:  []string{"ticket:read"},
					CanAssign:    true,
				}, nil
			},
		})
		c, w := testutil.NewTestContext(http.MethodGet, "/auth/me", nil)
		testutil.SetPrincipal(c, p)

		h.Me(c)

		require.Equal(t, http.StatusOK, w.Code)
		var resp testutil.APIResponse
		require.NoError(t, testutil.ParseResponse(w, &resp))
		var data map[string]any
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, "u-1", data["id"])
		assert.Equal(t, true, data["can_assign"])
	})

	t.Run("me for deleted user", func(t *testing.T) {
		h := newTestAuthHandler(&mockAuthService{
			meFn: func(ctx context.Context, principal common.Principal) (*dto.MeResponse, error) {
				return nil, errors.NewNotFoundError("user not found")
			},
		})
		c, w := testutil.NewTestContext(http.MethodGet, "/auth/me", nil)
		testutil.SetPrincipal(c, p)

		h.Me(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
