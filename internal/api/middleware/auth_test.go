package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/peterldowns/testy/check"

	"auction-marketplace/internal/auth"
	"auction-marketplace/internal/domain"
)

func protectedEcho(verifier domain.TokenVerifier) *echo.Echo {
	e := echo.New()
	e.POST("/protected", func(c echo.Context) error {
		identity, ok := IdentityFrom(c)
		if !ok {
			return c.NoContent(http.StatusInternalServerError)
		}
		return c.JSON(http.StatusOK, map[string]string{"username": identity.Username})
	}, RequireIdentity(verifier))
	return e
}

func TestRequireIdentity_NoToken(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)
	e := protectedEcho(manager)

	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	check.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireIdentity_MalformedHeader(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)
	e := protectedEcho(manager)

	for _, header := range []string{"Bearer", "Bearer ", "Basic abc123"} {
		req := httptest.NewRequest(http.MethodPost, "/protected", nil)
		req.Header.Set(echo.HeaderAuthorization, header)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		check.Equal(t, http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireIdentity_InvalidToken(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)
	e := protectedEcho(manager)

	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer not-a-real-token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	check.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireIdentity_ExpiredToken(t *testing.T) {
	expired := auth.NewJWTManager("test-secret", -time.Minute)
	token, err := expired.Generate(&domain.User{ID: "user_1", Username: "alice"})
	check.Nil(t, err)

	e := protectedEcho(auth.NewJWTManager("test-secret", time.Hour))

	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	check.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireIdentity_ValidToken(t *testing.T) {
	manager := auth.NewJWTManager("test-secret", time.Hour)
	token, err := manager.Generate(&domain.User{ID: "user_1", Username: "alice"})
	check.Nil(t, err)

	e := protectedEcho(manager)

	req := httptest.NewRequest(http.MethodPost, "/protected", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	check.Equal(t, http.StatusOK, rec.Code)
	check.True(t, len(rec.Body.String()) > 0)
}
