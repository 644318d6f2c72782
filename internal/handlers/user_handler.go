package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alpha_backend/internal/services"
	"alpha_backend/internal/services/dto"
)

// UserHandler - профиль, библиотека, история и удаление аккаунта.
type UserHandler struct {
	*BaseHandler
	userService    services.UserService
	accountService services.AccountService
}

func NewUserHandler(base *BaseHandler, userService services.UserService, accountService services.AccountService) *UserHandler {
	return &UserHandler{
		BaseHandler:    base,
		userService:    userService,
		accountService: accountService,
	}
}

// GetProfile GET /api/users/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetProfile(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile PUT /api/users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetPublicProfile GET /api/users/:id
func (h *UserHandler) GetPublicProfile(c *gin.Context) {
	profile, err := h.userService.GetPublicProfile(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// RequestDeletionOTP POST /api/users/delete-otp
func (h *UserHandler) RequestDeletionOTP(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.accountService.RequestDeletionOTP(c.Request.Context(), h.GetDB(c), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "OTP sent to your email."})
}

// DeleteAccount DELETE /api/users/delete
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.DeleteAccountRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	err := h.accountService.DeleteAccount(c.Request.Context(), h.GetDB(c), userID, req.OTP, req.Reason)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully."})
}

// ToggleLiked POST /api/users/like/:id
// Переключает подкаст в списке понравившегося и возвращает
// обновленный список id.
func (h *UserHandler) ToggleLiked(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	ids, err := h.userService.ToggleLiked(c.Request.Context(), h.GetDB(c), userID, c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ids)
}

// ToggleLibrary POST /api/users/library
func (h *UserHandler) ToggleLibrary(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ToggleLibraryRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	inLibrary, err := h.userService.ToggleLibrary(c.Request.Context(), h.GetDB(c), userID, req.PodcastID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"inLibrary": inLibrary})
}

// GetLibrary GET /api/users/library
func (h *UserHandler) GetLibrary(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	library, err := h.userService.GetLibrary(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, library)
}

// AddHistory POST /api/users/history
func (h *UserHandler) AddHistory(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.AddHistoryRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	if err := h.userService.AddHistory(c.Request.Context(), h.GetDB(c), userID, &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "History updated."})
}

// GetHistory GET /api/users/history
func (h *UserHandler) GetHistory(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	entries, err := h.userService.GetHistory(c.Request.Context(), h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, entries)
}
