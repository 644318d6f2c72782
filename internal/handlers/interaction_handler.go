package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alpha_backend/internal/services"
	"alpha_backend/internal/services/dto"
)

// InteractionHandler - лайки, дизлайки, подписки, просмотры, комментарии.
type InteractionHandler struct {
	*BaseHandler
	interactionService services.InteractionService
}

func NewInteractionHandler(base *BaseHandler, interactionService services.InteractionService) *InteractionHandler {
	return &InteractionHandler{
		BaseHandler:        base,
		interactionService: interactionService,
	}
}

// ToggleLike POST /api/interactions/like/:podcastId
// Тело запроса опционально: метаданные для досоздания записи
// статического каталога, которой еще нет в БД.
func (h *InteractionHandler) ToggleLike(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var seed *dto.PodcastSeed
	if c.Request.ContentLength > 0 {
		seed = &dto.PodcastSeed{}
		if err := c.ShouldBindJSON(seed); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
			return
		}
	}

	resp, err := h.interactionService.ToggleLike(c.Request.Context(), h.GetDB(c), userID, c.Param("podcastId"), seed)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ToggleDislike POST /api/interactions/dislike/:podcastId
func (h *InteractionHandler) ToggleDislike(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.interactionService.ToggleDislike(c.Request.Context(), h.GetDB(c), userID, c.Param("podcastId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ToggleSubscribe POST /api/interactions/subscribe/:creatorId
func (h *InteractionHandler) ToggleSubscribe(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	resp, err := h.interactionService.ToggleSubscribe(c.Request.Context(), h.GetDB(c), userID, c.Param("creatorId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// IncrementView POST /api/interactions/view/:podcastId
// Счетчик публичный: авторизация не требуется.
func (h *InteractionHandler) IncrementView(c *gin.Context) {
	views, err := h.interactionService.IncrementView(c.Request.Context(), h.GetDB(c), c.Param("podcastId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"views": views})
}

// AddComment POST /api/interactions/comment/:podcastId
func (h *InteractionHandler) AddComment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.AddCommentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	comment, err := h.interactionService.AddComment(c.Request.Context(), h.GetDB(c), userID, c.Param("podcastId"), req.Text)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// GetComments GET /api/interactions/comments/:podcastId
func (h *InteractionHandler) GetComments(c *gin.Context) {
	comments, err := h.interactionService.GetComments(c.Request.Context(), h.GetDB(c), c.Param("podcastId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}
