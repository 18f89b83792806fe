package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"inkpress/internal/services"
)

type SitemapHandler struct {
	sitemap *services.SitemapService
}

func NewSitemapHandler(sitemap *services.SitemapService) *SitemapHandler {
	return &SitemapHandler{sitemap: sitemap}
}

func (h *SitemapHandler) Get(c *gin.Context) {
	xml, err := h.sitemap.Generate()
	if err != nil {
		log.Printf("[sitemap] %v", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, "application/xml", xml)
}
