package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jobtrackio/jobtrack-api/internal/application"
	"github.com/jobtrackio/jobtrack-api/internal/interface/middleware"
	"github.com/jobtrackio/jobtrack-api/pkg/response"
	"github.com/jobtrackio/jobtrack-api/pkg/validation"
)

type AuthHandler struct {
	Svc    *application.AuthService
	Logger *logrus.Logger
}

func NewAuthHandler(svc *application.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
	Name     string `json:"name"`
}

// Register POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrDetails(c, http.StatusBadRequest, "Validation failed", "Invalid request body", validation.ToDetails(err))
		return
	}
	u, pair, err := h.Svc.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeServiceErr(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusCreated, gin.H{
		"message":      "Registration successful",
		"user":         u.Public(),
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrDetails(c, http.StatusBadRequest, "Validation failed", "Invalid request body", validation.ToDetails(err))
		return
	}
	u, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceErr(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"message":      "Login successful",
		"user":         u.Public(),
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// Me GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	u, err := h.Svc.Me(c.Request.Context(), userID)
	if err != nil {
		writeServiceErr(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"user": u.Public()})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Refresh POST /api/auth/refresh-token
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrDetails(c, http.StatusBadRequest, "Validation failed", "Refresh token is required", validation.ToDetails(err))
		return
	}
	pair, err := h.Svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		writeServiceErr(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// Logout POST /api/auth/logout. Succeeds whether or not a valid token came
// along; a valid one also revokes the stored refresh token.
func (h *AuthHandler) Logout(c *gin.Context) {
	if userID, ok := middleware.UserID(c); ok {
		if err := h.Svc.Logout(c.Request.Context(), userID); err != nil {
			writeServiceErr(c, h.Logger, err)
			return
		}
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "Logged out successfully"})
}

type updateProfileRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateProfile PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrDetails(c, http.StatusBadRequest, "Validation failed", "Name is required", validation.ToDetails(err))
		return
	}
	userID, _ := middleware.UserID(c)
	u, err := h.Svc.UpdateProfile(c.Request.Context(), userID, req.Name)
	if err != nil {
		writeServiceErr(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "Profile updated", "user": u.Public()})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,pwd"`
}

// ChangePassword PUT /api/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrDetails(c, http.StatusBadRequest, "Validation failed", "Invalid request body", validation.ToDetails(err))
		return
	}
	userID, _ := middleware.UserID(c)
	if err := h.Svc.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceErr(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "Password changed"})
}
