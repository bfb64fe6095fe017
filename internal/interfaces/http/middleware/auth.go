package middleware

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/csc-helpdesk/csc/internal/application/common"
	"github.com/csc-helpdesk/csc/internal/domain/permission"
	"github.com/csc-helpdesk/csc/internal/domain/user"
	"github.com/csc-helpdesk/csc/internal/infrastructure/auth"
	"github.com/csc-helpdesk/csc/internal/shared/constants"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
	"github.com/csc-helpdesk/csc/internal/shared/utils"
)

// TokenVerifier validates a bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// UserLookup loads the current account state behind a token.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
	users    UserLookup
	logger   logger.Interface
}

func NewAuthMiddleware(verifier TokenVerifier, logger logger.Interface) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		logger:   logger,
	}
}

// WithUserLookup makes every authenticated request re-read the account, so
// deactivation and role changes apply before the token expires.
func (m *AuthMiddleware) WithUserLookup(users UserLookup) *AuthMiddleware {
	m.users = users
	return m
}

// RequireAuth accepts only an "Authorization: Bearer" header.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return m.require(false)
}

// RequireAuthOrQueryToken also accepts ?token=, for clients such as
// browsers opening a websocket that cannot set headers.
func (m *AuthMiddleware) RequireAuthOrQueryToken() gin.HandlerFunc {
	return m.require(true)
}

func (m *AuthMiddleware) require(allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, msg := bearerToken(c)
		if token == "" && allowQuery {
			token = c.Query("token")
		}
		if token == "" {
			if msg == "" {
				msg = "missing authorization token"
			}
			utils.ErrorResponse(c, http.StatusUnauthorized, msg)
			c.Abort()
			return
		}

		claims, err := m.verifier.Verify(token)
		if err != nil {
			m.logger.Debugw("failed to verify token", "path", c.Request.URL.Path, "error", err)
			utils.ErrorResponse(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		principal := common.Principal{
			UserID: claims.UserID,
			Email:  claims.Email,
			Name:   claims.Name,
			Role:   claims.Role,
		}
		if m.users != nil {
			status, msg := m.refresh(c.Request.Context(), &principal)
			if status != 0 {
				utils.ErrorResponse(c, status, msg)
				c.Abort()
				return
			}
		}

		SetPrincipal(c, principal)
		c.Next()
	}
}

// refresh replaces the token's role and profile with the stored account.
// It returns a non-zero status when the request must be rejected.
func (m *AuthMiddleware) refresh(ctx context.Context, p *common.Principal) (int, string) {
	u, err := m.users.GetByID(ctx, p.UserID)
	switch {
	case stderrors.Is(err, user.ErrUserNotFound):
		return http.StatusUnauthorized, "account no longer exists"
	case err != nil:
		m.logger.Errorw("failed to load user for token", "user_id", p.UserID, "error", err)
		return http.StatusInternalServerError, constants.ErrMsgInternalServerError
	case !u.IsActive():
		return http.StatusUnauthorized, user.ErrUserInactive.Error()
	}

	p.Role = u.Role()
	p.Name = u.Name()
	if u.Email() != nil {
		p.Email = u.Email().String()
	}
	return 0, ""
}

// bearerToken returns the token from the Authorization header, or an error
// message when the header is present but malformed.
func bearerToken(c *gin.Context) (string, string) {
	header := c.GetHeader(constants.HeaderAuthorization)
	if header == "" {
		return "", ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", "invalid authorization header format"
	}
	return strings.TrimSpace(parts[1]), ""
}

// SetPrincipal stores p on the request context under the well-known keys.
func SetPrincipal(c *gin.Context, p common.Principal) {
	c.Set(constants.ContextKeyUserID, p.UserID)
	c.Set(constants.ContextKeyEmail, p.Email)
	c.Set(constants.ContextKeyUserName, p.Name)
	c.Set(constants.ContextKeyRole, string(p.Role))
}

// PrincipalFrom returns the caller set by the auth middleware.
func PrincipalFrom(c *gin.Context) (common.Principal, bool) {
	userID := c.GetString(constants.ContextKeyUserID)
	if userID == "" {
		return common.Principal{}, false
	}
	return common.Principal{
		UserID: userID,
		Email:  c.GetString(constants.ContextKeyEmail),
		Name:   c.GetString(constants.ContextKeyUserName),
		Role:   permission.Role(c.GetString(constants.ContextKeyRole)),
	}, true
}
