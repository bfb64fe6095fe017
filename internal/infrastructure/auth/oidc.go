package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/csc-helpdesk/csc/internal/application/auth/usecases"
	"github.com/csc-helpdesk/csc/internal/shared/config"
	"github.com/csc-helpdesk/csc/internal/shared/logger"
)

const (
	// httpClientTimeout is the timeout for HTTP requests to the identity provider
	httpClientTimeout = 30 * time.Second

	graphProfileURL = "https://graph.microsoft.com/v1.0/me?$select=department"
)

var ErrMissingIDToken = errors.New("identity provider returned no id_token")

// idTokenClaims are the identity claims read from an Azure AD (or generic
// OIDC) id_token.
type idTokenClaims struct {
	Email             string `json:"email"`
	PreferredUsername string `json:"preferred_username"`
	UPN               string `json:"upn"`
	Name              string `json:"name"`
	Department        string `json:"department"`
	jwt.RegisteredClaims
}

func (c *idTokenClaims) email() string {
	for _, v := range []string{c.Email, c.PreferredUsername, c.UPN} {
		if strings.Contains(v, "@") {
			return strings.ToLower(strings.TrimSpace(v))
		}
	}
	return ""
}

// OIDCClient runs the authorization code flow with PKCE.
type OIDCClient struct {
	config     *oauth2.Config
	profileURL string
	httpClient *http.Client
	logger     logger.Interface
}

func NewOIDCClient(cfg config.OIDCConfig, log logger.Interface) *OIDCClient {
	authURL, tokenURL := cfg.Endpoints()

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"openid", "profile", "email", "User.Read"}
	}

	// Department is only on the Graph profile; custom endpoints skip it.
	profileURL := ""
	if cfg.AuthURL == "" {
		profileURL = graphProfileURL
	}

	return &OIDCClient{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   authURL,
				TokenURL:  tokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		profileURL: profileURL,
		httpClient: &http.Client{Timeout: httpClientTimeout},
		logger:     log,
	}
}

var _ usecases.SSOClient = (*OIDCClient)(nil)

func (c *OIDCClient) GetAuthURL(state string) (string, string, error) {
	codeVerifier, codeChallenge, err := generatePKCEParams()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate PKCE parameters: %w", err)
	}

	authURL := c.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
		oauth2.SetAuthURLParam("response_mode", "query"),
	)

	return authURL, codeVerifier, nil
}

// Exchange redeems the code and reads the identity from the id_token. The
// token comes straight from the token endpoint over TLS, so its signature
// is not re-checked here.
func (c *OIDCClient) Exchange(ctx context.Context, code, codeVerifier string) (*usecases.Identity, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := c.config.Exchange(ctx, code, oauth2.SetAuthURLParam("code_verifier", codeVerifier))
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	raw, _ := token.Extra("id_token").(string)
	if raw == "" {
		return nil, ErrMissingIDToken
	}

	claims := &idTokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("failed to parse id_token: %w", err)
	}
	if aud := claims.Audience; len(aud) > 0 && !containsString(aud, c.config.ClientID) {
		return nil, fmt.Errorf("id_token audience mismatch")
	}

	identity := &usecases.Identity{
		Email:      claims.email(),
		Name:       strings.TrimSpace(claims.Name),
		Department: strings.TrimSpace(claims.Department),
	}
	if identity.Email == "" {
		return nil, fmt.Errorf("id_token carries no e-mail claim")
	}

	if identity.Department == "" && c.profileURL != "" {
		dept, err := c.fetchDepartment(ctx, token.AccessToken)
		if err != nil {
			c.logger.Warnw("failed to load department from profile",
				"email", identity.Email,
				"error", err,
			)
		}
		identity.Department = dept
	}

	return identity, nil
}

func (c *OIDCClient) fetchDepartment(ctx context.Context, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.profileURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to get profile: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to get profile: status %d, body: %s", resp.StatusCode, string(body))
	}

	var profile struct {
		Department string `json:"department"`
	}
	if err := json.Unmarshal(body, &profile); err != nil {
		return "", fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return strings.TrimSpace(profile.Department), nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
