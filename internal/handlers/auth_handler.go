package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"inkpress/internal/models"
	"inkpress/internal/repositories"
	"inkpress/internal/services"
)

const restrictedMsg = "Access restricted. Feature in limited testing."

type AuthHandler struct {
	accounts *services.AccountService

	frontendURL   string
	secureCookies bool
}

func NewAuthHandler(accounts *services.AccountService, frontendURL string, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		accounts:      accounts,
		frontendURL:   frontendURL,
		secureCookies: secureCookies,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	err := h.accounts.Register(req.Username, req.Email, req.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Verification email sent. Please check your inbox."})
	case errors.Is(err, services.ErrAccessRestricted):
		c.JSON(http.StatusForbidden, gin.H{"message": restrictedMsg})
	case errors.Is(err, services.ErrEmailSend):
		log.Printf("[auth][register] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to send verification email"})
	default:
		log.Printf("[auth][register] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}

// VerifyEmail always redirects; the verified flag is the only signal.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	ok := h.accounts.VerifyEmail(c.Param("token"))
	c.Redirect(http.StatusFound, fmt.Sprintf("%s/login?verified=%t", h.frontendURL, ok))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	res, err := h.accounts.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrAccessRestricted) {
			c.JSON(http.StatusForbidden, gin.H{"message": restrictedMsg})
			return
		}
		log.Printf("[auth][login] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if res.TwoFactorRequired {
		c.JSON(http.StatusPartialContent, gin.H{
			"message":           "OTP sent to your email for verification",
			"twoFactorRequired": true,
			"userId":            res.UserID,
		})
		return
	}

	setSessionCookie(c, res.Token, h.secureCookies)
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "twoFactorEnabled": false})
}

func (h *AuthHandler) VerifyOtp(c *gin.Context) {
	var req struct {
		UserID int    `json:"userId" binding:"required"`
		Otp    string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	token, err := h.accounts.VerifyOtp(req.UserID, req.Otp)
	switch {
	case err == nil:
		setSessionCookie(c, token, h.secureCookies)
		c.JSON(http.StatusOK, gin.H{"message": "Login successful via OTP"})
	case errors.Is(err, services.ErrOtpNotFound):
		c.JSON(http.StatusGone, gin.H{"message": "OTP expired or not found"})
	case errors.Is(err, services.ErrOtpInvalid):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid OTP"})
	default:
		log.Printf("[auth][verify-otp] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
	}
}

func (h *AuthHandler) Logout(c *gin.Context) {
	clearSessionCookie(c, h.secureCookies)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *AuthHandler) UpdateAuthorName(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name is required and must be a non-empty string."})
		return
	}

	userID, _ := getUserAndRole(c)
	if err := h.accounts.UpdateAuthorName(userID, req.Name); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		log.Printf("[auth][update-author-name] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Author name updated successfully"})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.CurrentPassword == "" || req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Both current and new passwords are required."})
		return
	}

	userID, _ := getUserAndRole(c)
	err := h.accounts.ChangePassword(userID, req.CurrentPassword, req.NewPassword)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully."})
	case errors.Is(err, services.ErrWrongPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Current password is incorrect."})
	case errors.Is(err, repositories.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
	default:
		log.Printf("[auth][change-password] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
	}
}

func (h *AuthHandler) TwoFactor(c *gin.Context) {
	var req struct {
		Enable bool `json:"enable"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	userID, _ := getUserAndRole(c)
	if err := h.accounts.SetTwoFactor(userID, req.Enable); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		log.Printf("[auth][two-factor] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error while updating 2FA."})
		return
	}

	state := "disabled"
	if req.Enable {
		state = "enabled"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":          fmt.Sprintf("Two-factor authentication has been %s.", state),
		"twoFactorEnabled": req.Enable,
	})
}

func (h *AuthHandler) GetUserDetails(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	user, err := h.accounts.GetUserDetails(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		log.Printf("[auth][get-user-details] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"authorName":       user.Username,
		"twoFactorEnabled": user.TwoFactorEnabled,
	})
}

// VerifySession confirms the cookie and echoes the decoded identity.
func (h *AuthHandler) VerifySession(c *gin.Context) {
	userID, role := getUserAndRole(c)
	c.JSON(http.StatusOK, gin.H{
		"message": "Token is valid",
		"user":    gin.H{"id": userID, "role": role},
	})
}
