package usecases

import (
	"context"
	"errors"
	"time"

	"github.com/csc-helpdesk/csc/internal/domain/audit"
	"github.com/csc-helpdesk/csc/internal/domain/permission"
)

// ErrStateNotFound is returned by a StateStore when the state is unknown,
// expired or already used.
var ErrStateNotFound = errors.New("oauth state not found or expired")

// StateStore keeps the PKCE verifier for an authorization request.
// Consume returns the verifier at most once.
type StateStore interface {
	Set(ctx context.Context, state string, codeVerifier string) error
	Consume(ctx context.Context, state string) (string, error)
}

// Identity is what the identity provider asserts about the user.
type Identity struct {
	Email      string
	Name       string
	Department string
}

type SSOClient interface {
	GetAuthURL(state string) (authURL string, codeVerifier string, err error)
	Exchange(ctx context.Context, code, codeVerifier string) (*Identity, error)
}

type TokenClaims struct {
	UserID string
	Email  string
	Name   string
	Role   permission.Role
}

type TokenIssuer interface {
	Generate(claims TokenClaims) (token string, expiresAt time.Time, err error)
}

type AuditRecorder interface {
	RecordBestEffort(ctx context.Context, actor audit.Actor, action audit.Action, resourceType, resourceID string, details map[string]any)
}
