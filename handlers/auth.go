package handlers

import (
	"net/http"

	"duet/models"
	userService "duet/services/user"
	"duet/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler exposes account and session endpoints.
type AuthHandler struct {
	UserService userService.UserService
}

// RegisterUserHandler handles POST /auth/register.
func (h *AuthHandler) RegisterUserHandler(c *gin.Context) {
	logger := utils.GetLogger()
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	resp, err := h.UserService.RegisterUser(req)
	if err != nil {
		logger.Error("Registration failed", zap.String("email", req.Email), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AuthenticateUserHandler handles POST /auth/login.
func (h *AuthHandler) AuthenticateUserHandler(c *gin.Context) {
	logger := utils.GetLogger()
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	resp, err := h.UserService.AuthenticateUser(req)
	if err != nil {
		logger.Warn("Login failed", zap.String("email", req.Email), zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetProfileHandler handles GET /auth/me.
func (h *AuthHandler) GetProfileHandler(c *gin.Context) {
	logger := utils.GetLogger()
	userID := c.GetString("userID")
	usr, err := h.UserService.GetUserByID(userID)
	if err != nil || usr == nil {
		logger.Error("Profile lookup failed", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, usr.PublicView())
}

// GoogleLoginHandler handles GET /auth/google/login. It hands the client
// the consent URL; the browser does the redirect.
func (h *AuthHandler) GoogleLoginHandler(c *gin.Context) {
	state := c.Query("state")
	if state == "" {
		state = "login"
	}
	c.JSON(http.StatusOK, models.GoogleAuthURL{AuthURL: h.UserService.GoogleAuthURL(state)})
}

// GoogleCallbackHandler handles GET /auth/google/callback?code=. It signs
// the user in, creating the account on first sight.
func (h *AuthHandler) GoogleCallbackHandler(c *gin.Context) {
	logger := utils.GetLogger()
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing authorization code"})
		return
	}
	resp, err := h.UserService.HandleGoogleCallback(c.Request.Context(), code)
	if err != nil {
		logger.Error("Google callback failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Google sign-in failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}
