package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/csc-helpdesk/csc/internal/application/auth/dto"
	"github.com/csc-helpdesk/csc/internal/application/auth/usecases"
	"github.com/csc-helpdesk/csc/internal/interfaces/http/handlers/common"
	"github.com/csc-helpdesk/csc/internal/shared/errors"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
	"github.com/csc-helpdesk/csc/internal/shared/utils"
)

type AuthHandler struct {
	service             authService
	frontendCallbackURL string
	logger              logger.Interface
}

func NewAuthHandler(service authService, frontendCallbackURL string, logger logger.Interface) *AuthHandler {
	return &AuthHandler{
		service:             service,
		frontendCallbackURL: frontendCallbackURL,
		logger:              logger,
	}
}

// InitiateSSO godoc
// @Summary Start single sign-on
// @Description Redirects to the identity provider (authorization code flow with PKCE).
// @Tags auth
// @Success 307 "Redirect to the identity provider"
// @Failure 404 {object} utils.APIResponse "Single sign-on is not configured"
// @Failure 429 {object} utils.APIResponse "Too many requests"
// @Router /auth/sso/login [get]
func (h *AuthHandler) InitiateSSO(c *gin.Context) {
	result, err := h.service.InitiateSSOLogin(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, result.AuthURL)
}

// HandleSSOCallback godoc
// @Summary Single sign-on callback
// @Description Completes the sign-in and redirects to the web client. On success the fragment carries token and expires_at; on failure the query carries error and message.
// @Tags auth
// @Param code query string false "Authorization code"
// @Param state query string false "State issued by /auth/sso/login"
// @Param error query string false "Error code sent by the identity provider"
// @Success 302 "Redirect to the web client"
// @Router /auth/sso/callback [get]
func (h *AuthHandler) HandleSSOCallback(c *gin.Context) {
	cmd := usecases.HandleSSOCallbackCommand{
		Code:  c.Query("code"),
		State: c.Query("state"),
		Error: c.Query("error"),
	}
	if cmd.Error != "" {
		h.logger.Warnw("identity provider returned error",
			"error_code", cmd.Error,
			"error_description", c.Query("error_description"),
		)
	}

	result, err := h.service.HandleSSOCallback(c.Request.Context(), cmd)
	if err != nil {
		h.redirectWithError(c, err)
		return
	}

	fragment := url.Values{}
	fragment.Set("token", result.Token)
	fragment.Set("expires_at", strconv.FormatInt(result.ExpiresAt.Unix(), 10))
	c.Redirect(http.StatusFound, h.frontendURL(nil, fragment))
}

// redirectWithError sends the browser back to the web client, which shows
// the message. Internal failures carry a generic message.
func (h *AuthHandler) redirectWithError(c *gin.Context, err error) {
	kind, msg := string(errors.ErrorTypeInternal), "sign-in failed, please try again"
	if appErr := errors.GetAppError(err); appErr != nil && appErr.Type != errors.ErrorTypeInternal {
		kind, msg = string(appErr.Type), appErr.Message
	}
	h.logger.Warnw("single sign-on failed", "error_type", kind, "error", err)

	q := url.Values{}
	q.Set("error", kind)
	q.Set("message", msg)
	c.Redirect(http.StatusFound, h.frontendURL(q, nil))
}

func (h *AuthHandler) frontendURL(query, fragment url.Values) string {
	u, err := url.Parse(h.frontendCallbackURL)
	if err != nil {
		u = &url.URL{Path: "/"}
	}
	if query != nil {
		existing := u.Query()
		for k, vs := range query {
			existing[k] = vs
		}
		u.RawQuery = existing.Encode()
	}
	if fragment != nil {
		u.Fragment = fragment.Encode()
	}
	return u.String()
}

// DevLogin godoc
// @Summary Development sign-in
// @Description Signs in with a self-declared identity. Only available when auth.dev_login is enabled; subject to the same e-mail allow-list as single sign-on.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.DevLoginRequest true "Identity"
// @Success 200 {object} utils.APIResponse{data=dto.LoginResponse} "Signed in"
// @Failure 400 {object} utils.APIResponse "Bad request"
// @Failure 403 {object} utils.APIResponse "E-mail not authorized"
// @Failure 404 {object} utils.APIResponse "Development sign-in disabled"
// @Failure 429 {object} utils.APIResponse "Too many requests"
// @Router /auth/login [post]
func (h *AuthHandler) DevLogin(c *gin.Context) {
	var req dto.DevLoginRequest
	if !common.BindJSON(c, &req) {
		return
	}

	result, err := h.service.DevLogin(c.Request.Context(), req)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Signed in successfully", result)
}

// Logout godoc
// @Summary Sign out
// @Description Records the sign-out. Tokens are stateless; the client discards its token.
// @Security Bearer
// @Tags auth
// @Produce json
// @Success 200 {object} utils.APIResponse "Signed out"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	p, ok := common.RequirePrincipal(c)
	if !ok {
		return
	}

	if err := h.service.Logout(c.Request.Context(), p); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Signed out successfully", nil)
}

// Me godoc
// @Summary Current user
// @Description The caller's profile with effective permissions.
// @Security Bearer
// @Tags auth
// @Produce json
// @Success 200 {object} utils.APIResponse{data=dto.MeResponse} "Current user"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 404 {object} utils.APIResponse "User not found"
// @Router /auth/me [get]
// @Router /api/users/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := common.RequirePrincipal(c)
	if !ok {
		return
	}

	result, err := h.service.Me(c.Request.Context(), p)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
