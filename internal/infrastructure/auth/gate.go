package auth

import (
	"context"
	"strings"
	"time"

	"github.com/erp/custadmin/internal/domain/shared"
	"github.com/erp/custadmin/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const (
	// AuthHeaderKey is the header carrying the bearer credential
	AuthHeaderKey = "Authorization"
	// BearerPrefix must precede the token exactly, including the single space
	BearerPrefix = "Bearer "
)

// TokenVerifier checks a raw token and returns the principal it names
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*shared.Principal, error)
}

// ExtractBearerToken returns the token following "Bearer " in header.
// A missing header, another scheme or a blank token is shared.ErrUnauthenticated.
func ExtractBearerToken(header string) (string, error) {
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", shared.ErrUnauthenticated
	}
	token := strings.TrimSpace(header[len(BearerPrefix):])
	if token == "" {
		return "", shared.ErrUnauthenticated
	}
	return token, nil
}

// Gate authenticates requests before any customer operation runs
type Gate struct {
	verifier       TokenVerifier
	revocations    RevocationList
	revocationWait time.Duration
	logger         *zap.Logger
}

// GateOption configures a Gate
type GateOption func(*Gate)

// WithRevocationList rejects tokens whose jti has been revoked
func WithRevocationList(list RevocationList) GateOption {
	return func(g *Gate) {
		g.revocations = list
	}
}

// WithGateLogger sets the logger for revocation lookup failures
func WithGateLogger(l *zap.Logger) GateOption {
	return func(g *Gate) {
		g.logger = l
	}
}

// NewGate creates an access gate around verifier
func NewGate(verifier TokenVerifier, opts ...GateOption) *Gate {
	g := &Gate{
		verifier:       verifier,
		revocationWait: 500 * time.Millisecond,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Authenticate extracts and verifies the bearer credential in header.
// Missing or malformed credentials are shared.ErrUnauthenticated; a token
// that fails verification or was revoked is shared.ErrForbidden.
func (g *Gate) Authenticate(ctx context.Context, header string) (*shared.Principal, error) {
	token, err := ExtractBearerToken(header)
	if err != nil {
		return nil, err
	}

	principal, err := g.verifier.Verify(ctx, token)
	if err != nil {
		return nil, shared.ErrForbidden.Wrap(err)
	}

	if g.revocations != nil && principal.TokenID != "" {
		if g.isRevoked(ctx, principal.TokenID) {
			return nil, shared.ErrForbidden.Wrap(ErrTokenRevoked)
		}
	}

	return principal, nil
}

// isRevoked consults the revocation list. Lookup failures fail open.
func (g *Gate) isRevoked(ctx context.Context, jti string) bool {
	lookupCtx, cancel := context.WithTimeout(ctx, g.revocationWait)
	defer cancel()

	revoked, err := g.revocations.IsRevoked(lookupCtx, jti)
	if err != nil {
		g.logger.Warn("token revocation lookup failed, allowing request",
			zap.String("request_id", logger.GetRequestID(ctx)),
			zap.String("jti", jti),
			zap.Error(err),
		)
		return false
	}
	return revoked
}
