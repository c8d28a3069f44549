package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxClaims extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: role must be non-empty
// (presence proves the middleware ran), and every operator token must carry
// an operator identity so sessions and refills can be attributed.
func ctxClaims(c echo.Context) (role, operatorID string, err error) {
	role, _ = c.Get("role").(string)
	if role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	operatorID, _ = c.Get("operator_id").(string)
	if operatorID == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "token missing operator identity")
	}

	return role, operatorID, nil
}
