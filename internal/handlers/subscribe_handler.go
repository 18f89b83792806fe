package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"inkpress/internal/services"
)

type SubscribeHandler struct {
	subscribers *services.SubscriberService
	frontendURL string
}

func NewSubscribeHandler(subscribers *services.SubscriberService, frontendURL string) *SubscribeHandler {
	return &SubscribeHandler{subscribers: subscribers, frontendURL: frontendURL}
}

func (h *SubscribeHandler) Subscribe(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email is required."})
		return
	}

	if err := h.subscribers.Subscribe(req.Email); err != nil {
		if errors.Is(err, services.ErrSubscribePending) {
			// non-committal on purpose
			c.JSON(http.StatusBadRequest, gin.H{"message": "If this email is eligible, a verification link has been sent."})
			return
		}
		log.Printf("[subscribe] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Verification email sent. Please check your inbox."})
}

// Verify always redirects to the front end; msg carries the outcome.
func (h *SubscribeHandler) Verify(c *gin.Context) {
	result := h.subscribers.VerifySubscription(c.Query("email"), c.Query("token"))
	c.Redirect(http.StatusFound, fmt.Sprintf("%s/?msg=%s", h.frontendURL, result))
}
