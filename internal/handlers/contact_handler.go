package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"inkpress/internal/models"
	"inkpress/internal/services"
)

type ContactHandler struct {
	contacts *services.ContactService
}

func NewContactHandler(contacts *services.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

func (h *ContactHandler) Submit(c *gin.Context) {
	var req models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "All fields are required."})
		return
	}

	err := h.contacts.Submit(req)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Thanks! We'll get back to you soon."})
	case errors.Is(err, services.ErrSubjectTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"message": services.SubjectLimitMessage()})
	case errors.Is(err, services.ErrMessageTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"message": services.MessageLimitMessage()})
	case errors.Is(err, services.ErrContactOpen):
		c.JSON(http.StatusBadRequest, gin.H{"message": "We've already received your message. Please try again later."})
	default:
		log.Printf("[contact] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error. Please try again later."})
	}
}
