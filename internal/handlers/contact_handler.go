package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alpha_backend/internal/services"
	"alpha_backend/internal/services/dto"
)

// ContactHandler - contact-форма.
type ContactHandler struct {
	*BaseHandler
	contactService services.ContactService
}

func NewContactHandler(base *BaseHandler, contactService services.ContactService) *ContactHandler {
	return &ContactHandler{
		BaseHandler:    base,
		contactService: contactService,
	}
}

// Send POST /api/contact
func (h *ContactHandler) Send(c *gin.Context) {
	var req dto.ContactRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.contactService.Send(c.Request.Context(), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message sent."})
}
