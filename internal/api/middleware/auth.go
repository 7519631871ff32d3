package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/superbett/bancas-api/internal/api/handler/v1/response"
	"github.com/superbett/bancas-api/internal/domain"
	"github.com/superbett/bancas-api/internal/metrics"
)

const (
	authorizationHeader = "Authorization"
	bearerScheme        = "bearer"

	identityKey = "bancas.identity"
)

type TokenParser interface {
	Parse(token string) (domain.Identity, error)
}

type Authenticator struct {
	parser TokenParser
}

func NewAuthenticator(parser TokenParser) *Authenticator {
	return &Authenticator{
		parser: parser,
	}
}

// VerifyJWT requires a valid "Bearer <token>" header and stores the verified
// identity on the gin context.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := strings.TrimSpace(ctx.GetHeader(authorizationHeader))
		if header == "" {
			deny(ctx, response.ErrMissingToken())
			return
		}

		scheme, token, found := strings.Cut(header, " ")
		token = strings.TrimSpace(token)
		if !found || !strings.EqualFold(scheme, bearerScheme) || token == "" || strings.Contains(token, " ") {
			deny(ctx, response.ErrMalformedHeader())
			return
		}

		id, err := a.parser.Parse(token)
		if err != nil {
			deny(ctx, response.ErrInvalidOrExpiredToken())
			return
		}

		ctx.Set(identityKey, id)
		ctx.Next()
	}
}

// RequireRoles lets the request through only when the verified identity holds
// one of roles. A request without identity is refused.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		if parsed, err := domain.ParseRole(string(r)); err == nil {
			allowed[parsed] = struct{}{}
		}
	}

	return func(ctx *gin.Context) {
		id, ok := IdentityFromContext(ctx)
		if !ok {
			deny(ctx, response.ErrForbidden(nil))
			return
		}

		role, err := domain.ParseRole(string(id.Role))
		if err != nil {
			deny(ctx, response.ErrForbidden(nil))
			return
		}
		if _, ok = allowed[role]; !ok {
			deny(ctx, response.ErrForbidden(nil))
			return
		}

		ctx.Next()
	}
}

// IdentityFromContext returns the identity stored by VerifyJWT.
func IdentityFromContext(ctx *gin.Context) (domain.Identity, bool) {
	v, ok := ctx.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}

	id, ok := v.(domain.Identity)
	return id, ok
}

func deny(ctx *gin.Context, e *response.Err) {
	metrics.ObserveAuthFailure(e.Code)
	response.RenderErr(ctx, e)
}
