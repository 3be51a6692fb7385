package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/rushdatamx/llantas-reluvsa-rushdata/internal/service"
	"github.com/rushdatamx/llantas-reluvsa-rushdata/pkg/response"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates a staff member and issues a session token.
// @Summary Staff login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body loginRequest true "Credentials"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, profile, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Success(c, gin.H{"token": token, "profile": profile})
}

// Me returns the profile behind the current token.
// @Summary Current profile
// @Tags auth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	profile, err := h.auth.Me(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		response.Unauthorized(c, "sesión inválida")
		return
	}
	response.Success(c, profile)
}

// Logout acknowledges the client discarding its token. Tokens are stateless
// so there is nothing to revoke server-side.
// @Summary Log out
// @Tags auth
// @Success 200 {object} response.Response
// @Router /api/v1/auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	response.Success(c, nil)
}
