package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxClaims extracts the identity claims injected by the Auth middleware and
// performs a fast-fail check before any handler logic: both fields must be
// present, their absence means the middleware did not run or the token
// carried no usable identity.
func ctxClaims(c echo.Context) (username, role string, err error) {
	username, _ = c.Get("username").(string)
	role, _ = c.Get("role").(string)
	if username == "" || role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return username, role, nil
}
