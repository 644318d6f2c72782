package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alpha_backend/internal/services"
	"alpha_backend/internal/services/dto"
)

// NewsletterHandler - подписка на рассылку.
type NewsletterHandler struct {
	*BaseHandler
	newsletterService services.NewsletterService
}

func NewNewsletterHandler(base *BaseHandler, newsletterService services.NewsletterService) *NewsletterHandler {
	return &NewsletterHandler{
		BaseHandler:       base,
		newsletterService: newsletterService,
	}
}

// Subscribe POST /api/subscribers/subscribe
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req dto.NewsletterSubscribeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.newsletterService.Subscribe(c.Request.Context(), h.GetDB(c), req.Email); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Subscribed to newsletter."})
}
