package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/auth"
)

// Context keys set by JWTAuth.
const (
	ContextSubject = "subject"
	ContextRole    = "role"
)

// JWTAuth validates a Bearer token signed with secret and requires its role
// claim to be one of roles. The subject and role are stored on the context.
// An empty secret disables the check.
func JWTAuth(secret string, roles ...string) echo.MiddlewareFunc {
	if secret == "" {
		return passthrough
	}
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Se requiere un token de acceso"})
			}
			claims, err := auth.ParseToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Token inválido"})
			}
			if len(allowed) > 0 && !allowed[claims.Role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "Acceso denegado"})
			}
			c.Set(ContextSubject, claims.Subject)
			c.Set(ContextRole, claims.Role)
			return next(c)
		}
	}
}

// Subject returns the authenticated subject, or "" for anonymous requests.
func Subject(c echo.Context) string {
	s, _ := c.Get(ContextSubject).(string)
	return s
}

func passthrough(next echo.HandlerFunc) echo.HandlerFunc { return next }
