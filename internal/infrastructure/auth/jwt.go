package auth

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/erp/custadmin/internal/domain/shared"
	"github.com/erp/custadmin/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Verification errors. The gate folds all of them into shared.ErrForbidden;
// they stay distinct for logging.
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrMissingSubject   = errors.New("missing subject in claims")
	ErrTokenRevoked     = errors.New("token has been revoked")
)

// Claims represents the JWT claims carried by admin bearer tokens
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
}

// IssuedToken is a freshly signed bearer token
type IssuedToken struct {
	Token     string    `json:"access_token"`
	TokenID   string    `json:"jti"`
	ExpiresAt time.Time `json:"expires_at"`
	TokenType string    `json:"token_type"`
}

// PrincipalInput describes who a token is minted for
type PrincipalInput struct {
	Subject  string
	Username string
	// TTL overrides the configured expiration when positive
	TTL time.Duration
}

// JWTService signs and verifies HS256 bearer tokens
type JWTService struct {
	secret     []byte
	issuer     string
	expiration time.Duration
	now        func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:     []byte(cfg.Secret),
		issuer:     cfg.Issuer,
		expiration: cfg.AccessTokenExpiration,
		now:        time.Now,
	}
}

// IssueToken signs a token for input
func (s *JWTService) IssueToken(input PrincipalInput) (*IssuedToken, error) {
	if strings.TrimSpace(input.Subject) == "" {
		return nil, ErrMissingSubject
	}
	ttl := s.expiration
	if input.TTL > 0 {
		ttl = input.TTL
	}

	now := s.now()
	expiresAt := now.Add(ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   input.Subject,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Username: input.Username,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &IssuedToken{
		Token:     signed,
		TokenID:   claims.ID,
		ExpiresAt: expiresAt,
		TokenType: "Bearer",
	}, nil
}

// Verify checks the signature and time claims of tokenString and returns the
// principal it names. Exactly one parse is attempted.
func (s *JWTService) Verify(_ context.Context, tokenString string) (*shared.Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		default:
			return nil, ErrInvalidToken
		}
	}
	if !token.Valid {
		return nil, ErrInvalidClaims
	}

	subject := claims.Subject
	if subject == "" {
		subject = claims.Username
	}
	if subject == "" {
		return nil, ErrMissingSubject
	}

	claimSet, err := claimMap(claims)
	if err != nil {
		return nil, ErrInvalidClaims
	}

	return &shared.Principal{
		Subject:  subject,
		Username: claims.Username,
		TokenID:  claims.ID,
		Claims:   claimSet,
	}, nil
}

// claimMap flattens the typed claims into the generic claim set
func claimMap(claims *Claims) (map[string]any, error) {
	raw, err := json.Marshal(claims)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any)
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
