package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type meResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Me returns the identity embedded in the presented token, as verified by
// the Auth middleware. No credential store lookup is involved.
//
// @Summary      Current token identity
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  meResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	username, role, err := ctxClaims(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meResponse{Username: username, Role: role})
}
