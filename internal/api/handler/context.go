package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Shiva-Rao-IT/faceauth/internal/core/domain"
)

// ctxClaims extracts the auth claims injected by the Auth middleware
// and performs a fast-fail check before any service call:
//   - role must be non-empty (presence proves the middleware ran).
//   - the student role requires a subject id; without it the JWT is
//     structurally valid but operationally unusable — reject with 401.
func ctxClaims(c echo.Context) (userID, role string, err error) {
	role, _ = c.Get("role").(string)
	if role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	userID, _ = c.Get("user_id").(string)
	if role == domain.RoleStudent && userID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "token missing subject identity")
	}

	return userID, role, nil
}
