package handlers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"alpha_backend/internal/services"
	"alpha_backend/internal/services/dto"
)

// PodcastHandler - CRUD подкастов и эпизодов.
type PodcastHandler struct {
	*BaseHandler
	podcastService services.PodcastService
}

func NewPodcastHandler(base *BaseHandler, podcastService services.PodcastService) *PodcastHandler {
	return &PodcastHandler{
		BaseHandler:    base,
		podcastService: podcastService,
	}
}

// formFiles извлекает необязательные файлы multipart-формы.
func formFiles(c *gin.Context) *services.PodcastFiles {
	files := &services.PodcastFiles{}
	files.Image = optionalFile(c, "image")
	files.Audio = optionalFile(c, "audio")
	files.Video = optionalFile(c, "video")
	return files
}

func optionalFile(c *gin.Context, field string) *multipart.FileHeader {
	file, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	return file
}

// Create POST /api/podcasts
func (h *PodcastHandler) Create(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePodcastRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	podcast, err := h.podcastService.Create(c.Request.Context(), h.GetDB(c), userID, &req, formFiles(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, podcast)
}

// Update PUT /api/podcasts/:id
func (h *PodcastHandler) Update(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdatePodcastRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	podcast, err := h.podcastService.Update(c.Request.Context(), h.GetDB(c), userID, c.Param("id"), &req, formFiles(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, podcast)
}

// Delete DELETE /api/podcasts/:id
func (h *PodcastHandler) Delete(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.podcastService.Delete(c.Request.Context(), h.GetDB(c), userID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Podcast deleted."})
}

// GetByID GET /api/podcasts/:id
func (h *PodcastHandler) GetByID(c *gin.Context) {
	resp, err := h.podcastService.GetByID(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetAll GET /api/podcasts
func (h *PodcastHandler) GetAll(c *gin.Context) {
	podcasts, err := h.podcastService.GetAll(c.Request.Context(), h.GetDB(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, podcasts)
}

// GetMine GET /api/podcasts/mine
func (h *PodcastHandler) GetMine(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	podcasts, err := h.podcastService.GetByUser(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, podcasts)
}

// AddEpisode POST /api/podcasts/:id/episodes
func (h *PodcastHandler) AddEpisode(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.AddEpisodeRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	episode, err := h.podcastService.AddEpisode(c.Request.Context(), h.GetDB(c), userID, c.Param("id"), &req, formFiles(c))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, episode)
}
