package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"inkpress/internal/repositories"
	"inkpress/internal/services"
)

type LegalHandler struct {
	legal *services.LegalService
}

func NewLegalHandler(legal *services.LegalService) *LegalHandler {
	return &LegalHandler{legal: legal}
}

func (h *LegalHandler) Get(c *gin.Context) {
	page, err := h.legal.GetPage(c.Param("type"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, page)
	case errors.Is(err, services.ErrBadLegalType):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Unknown page type"})
	case errors.Is(err, repositories.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Page not found"})
	default:
		log.Printf("[legal][get] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	}
}

func (h *LegalHandler) Update(c *gin.Context) {
	pageType := c.Param("type")

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Content is required"})
		return
	}

	page, err := h.legal.UpdatePage(pageType, req.Content)
	if err != nil {
		if errors.Is(err, services.ErrBadLegalType) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Unknown page type"})
			return
		}
		log.Printf("[legal][update] %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("%s page updated", pageType),
		"data":    page,
	})
}
