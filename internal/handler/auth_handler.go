package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/gusti-hub/mlb-borneo-be/internal/service"
)

// AuthHandler serves login, registration and profile endpoints.
type AuthHandler struct {
	svc *service.AuthService
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "username and password are required")
		return
	}

	user, pair, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"user": user, "token": pair})
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	user, pair, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, gin.H{"user": user, "token": pair})
}

// Refresh handles POST /api/v1/auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "refresh_token is required")
		return
	}

	pair, err := h.svc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		Unauthorized(c, err.Error())
		return
	}
	Success(c, pair)
}

// Logout handles POST /api/v1/auth/logout, revoking the refresh token if
// the client sends it.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshJTI string `json:"refresh_jti"`
	}
	c.ShouldBindJSON(&req)

	if err := h.svc.Logout(c.Request.Context(), req.RefreshJTI); err != nil {
		InternalError(c, err.Error())
		return
	}
	Success(c, gin.H{"message": "logged out"})
}

// Me handles GET /api/v1/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.svc.GetCurrentUser(c.Request.Context(), GetUserID(c))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, user)
}

// UpdateProfile handles PUT /api/v1/auth/profile.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	user, err := h.svc.UpdateProfile(c.Request.Context(), GetUserID(c), &req)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, user)
}

// ChangePassword handles PUT /api/v1/auth/change-password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "current_password and new_password are required")
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), GetUserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		ServiceError(c, err)
		return
	}
	Success(c, gin.H{"message": "password changed"})
}
