package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Abraxas-365/sift/pkg/kernel"
)

const authContextKey = "auth_context"

// AuthContext is the resolved identity stored in fiber locals for the
// duration of a request.
type AuthContext struct {
	UserID   kernel.UserID
	TenantID kernel.TenantID
	Scopes   []string
	IsAPIKey bool
}

// GetAuthContext retrieves the identity set by Authenticate
func GetAuthContext(c *fiber.Ctx) (*AuthContext, bool) {
	authCtx, ok := c.Locals(authContextKey).(*AuthContext)
	return authCtx, ok
}

// UnifiedAuthMiddleware accepts either a Bearer JWT or an X-API-Key
// header on the same routes.
type UnifiedAuthMiddleware struct {
	tokens TokenService
	keys   *APIKeyService
}

func NewUnifiedAuthMiddleware(tokens TokenService, keys *APIKeyService) *UnifiedAuthMiddleware {
	return &UnifiedAuthMiddleware{tokens: tokens, keys: keys}
}

// Authenticate resolves the caller identity or rejects the request
func (m *UnifiedAuthMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if apiKey := c.Get("X-API-Key"); apiKey != "" && m.keys != nil {
			key, err := m.keys.Verify(c.Context(), apiKey)
			if err != nil {
				return err
			}
			c.Locals(authContextKey, &AuthContext{
				TenantID: key.TenantID,
				Scopes:   key.Scopes,
				IsAPIKey: true,
			})
			return c.Next()
		}

		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return ErrRegistry.New(CodeMissingAuth)
		}
		claims, err := m.tokens.Verify(token)
		if err != nil {
			return err
		}
		c.Locals(authContextKey, &AuthContext{
			UserID:   kernel.UserID(claims.UserID),
			TenantID: kernel.TenantID(claims.TenantID),
			Scopes:   claims.Scopes,
		})
		return c.Next()
	}
}

// RequireScope gates a route behind a scope. Must run after
// Authenticate.
func (m *UnifiedAuthMiddleware) RequireScope(scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authCtx, ok := GetAuthContext(c)
		if !ok {
			return ErrRegistry.New(CodeMissingAuth)
		}
		if !HasScope(authCtx.Scopes, scope) {
			return ErrRegistry.New(CodeForbidden).WithDetail("required_scope", scope)
		}
		return c.Next()
	}
}
