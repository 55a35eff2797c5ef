package serverutils

import (
	"strings"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/apperror"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/authz"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/token"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const principalKey = "principal"

// BearerToken returns the token from the Authorization header, or "" when there is none.
func BearerToken(ctx *fiber.Ctx) string {
	header := ctx.Get(fiber.HeaderAuthorization)
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

// JwtMiddleware accepts access tokens only and stores the caller as an authz.Principal.
func JwtMiddleware(tokens *token.Manager) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		raw := BearerToken(ctx)
		if raw == "" {
			return apperror.Unauthorized("Missing token")
		}

		claims, err := tokens.Parse(raw, token.TypeAccess)
		if err != nil {
			return apperror.Unauthorized("Invalid token")
		}

		ctx.Locals(principalKey, authz.Principal{
			UserId: claims.UserId,
			Email:  claims.Email,
			Role:   claims.Role,
		})
		return ctx.Next()
	}
}

func CurrentPrincipal(ctx *fiber.Ctx) (authz.Principal, bool) {
	p, ok := ctx.Locals(principalKey).(authz.Principal)
	return p, ok
}

// CurrentUserId panics outside JwtMiddleware; routes that call it are always behind it.
func CurrentUserId(ctx *fiber.Ctx) uuid.UUID {
	p, ok := CurrentPrincipal(ctx)
	if !ok {
		panic("serverutils: no principal on request")
	}
	return p.UserId
}

// RequireCapability must run after JwtMiddleware.
func RequireCapability(c authz.Capability) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		p, ok := CurrentPrincipal(ctx)
		if !ok {
			return apperror.Unauthorized("Missing token")
		}
		if !p.Can(c) {
			return apperror.Forbidden("Insufficient permissions")
		}
		return ctx.Next()
	}
}
