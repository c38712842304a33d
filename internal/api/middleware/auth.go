package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"auction-marketplace/internal/domain"
)

const identityContextKey = "verified_identity"

// RequireIdentity verifies the bearer token at the boundary: 401 when no
// token is presented, 403 when one is presented but fails verification.
// The verified identity is stashed for the handler, which passes it into
// the service call explicitly; services never read request context values.
func RequireIdentity(verifier domain.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := bearerToken(header)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Unauthorized"})
			}

			identity, err := verifier.Verify(token)
			if err != nil {
				return c.JSON(http.StatusForbidden, map[string]string{"message": "Invalid Token"})
			}

			c.Set(identityContextKey, *identity)
			return next(c)
		}
	}
}

// IdentityFrom returns the identity verified by RequireIdentity.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	identity, ok := c.Get(identityContextKey).(domain.Identity)
	return identity, ok
}

func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
