package middleware

import (
	"context"
	"net/http"

	"github.com/erp/custadmin/internal/domain/shared"
	"github.com/erp/custadmin/internal/infrastructure/auth"
	"github.com/erp/custadmin/internal/infrastructure/logger"
	"github.com/erp/custadmin/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PrincipalKey is where the authenticated principal lives in the gin context
const PrincipalKey = "principal"

// Authenticator turns an Authorization header into a principal.
// auth.Gate implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (*shared.Principal, error)
}

// AccessGate rejects requests without a valid bearer token. A missing or
// malformed header answers 401; a token that fails verification or was
// revoked answers 403.
func AccessGate(gate Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		principal, err := gate.Authenticate(ctx, c.GetHeader(auth.AuthHeaderKey))
		if err != nil {
			rejectAuth(c, err)
			return
		}

		ctx = auth.WithPrincipal(ctx, principal)
		ctx, log := logger.WithUserID(ctx, logger.FromContext(ctx), principal.Subject)
		c.Request = c.Request.WithContext(ctx)
		c.Set(PrincipalKey, principal)
		c.Set(logger.GinContextKey, log)

		c.Next()
	}
}

func rejectAuth(c *gin.Context, err error) {
	status, code, message := http.StatusUnauthorized, dto.ErrCodeUnauthorized, shared.ErrUnauthenticated.Message
	if shared.KindOf(err) == shared.KindForbidden {
		status, code, message = http.StatusForbidden, dto.ErrCodeForbidden, shared.ErrForbidden.Message
	}

	logger.FromContext(c.Request.Context()).Warn("access gate rejected request",
		zap.Int("status", status),
		zap.Error(err),
	)
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(code, message, GetRequestID(c)))
}

// GetPrincipal returns the principal admitted by AccessGate, or nil
func GetPrincipal(c *gin.Context) *shared.Principal {
	if p, ok := c.Get(PrincipalKey); ok {
		if principal, ok := p.(*shared.Principal); ok {
			return principal
		}
	}
	if principal, ok := auth.PrincipalFromContext(c.Request.Context()); ok {
		return principal
	}
	return nil
}
