package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/apperr"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/middleware"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/models"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/service"
	"go.uber.org/zap"
)

type LinkHandler struct {
	service        service.LinkService
	clickProcessor service.ClickProcessor
	logger         *zap.Logger
}

func NewLinkHandler(service service.LinkService, clickProcessor service.ClickProcessor, logger *zap.Logger) *LinkHandler {
	return &LinkHandler{
		service:        service,
		clickProcessor: clickProcessor,
		logger:         logger,
	}
}

// Navigate godoc
// @Summary Redirect by short key
// @Description Resolve a short key, count the click and redirect to the original URL
// @Tags links
// @Param key path string true "Short key"
// @Success 302
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /{key} [get]
func (h *LinkHandler) Navigate(c *gin.Context) {
	key := c.Param("key")

	link, err := h.service.Resolve(c.Request.Context(), key)
	if err != nil {
		c.Error(err)
		return
	}

	// Асинхронная запись аудита, счётчик уже увеличен в Resolve
	event := &models.ClickEvent{
		LinkID:    link.ID,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referer:   c.Request.Referer(),
	}
	if err := h.clickProcessor.Record(c.Request.Context(), event); err != nil {
		h.logger.Debug("Failed to record click (non-blocking)", zap.Error(err))
	}

	c.Redirect(http.StatusFound, link.OriginalURL)
}

// GetByKey godoc
// @Summary Get link by short key
// @Description Same semantics as the redirect, but returns the link record instead of a 302
// @Tags links
// @Produce json
// @Param key query string true "Short key"
// @Success 200 {object} models.Link
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/links/GeyByKey [get]
func (h *LinkHandler) GetByKey(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.Error(apperr.New(apperr.Validation, "key query parameter is required"))
		return
	}

	link, err := h.service.Resolve(c.Request.Context(), key)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, link)
}

// MostClickedLinks godoc
// @Summary Links ordered by click count
// @Tags links
// @Produce json
// @Success 200 {array} models.Link
// @Security Bearer
// @Router /api/links/MostClickedLinks [get]
func (h *LinkHandler) MostClickedLinks(c *gin.Context) {
	links, err := h.service.MostClicked(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, links)
}

// List godoc
// @Summary List all links
// @Tags links
// @Produce json
// @Success 200 {array} models.Link
// @Security Bearer
// @Router /api/links [get]
func (h *LinkHandler) List(c *gin.Context) {
	links, err := h.service.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, links)
}

// Get godoc
// @Summary Get link by id
// @Tags links
// @Produce json
// @Param id path string true "Link id"
// @Success 200 {object} models.Link
// @Failure 404 {object} ErrorResponse
// @Security Bearer
// @Router /api/links/{id} [get]
func (h *LinkHandler) Get(c *gin.Context) {
	link, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, link)
}

// Stats godoc
// @Summary Click audit totals for a link
// @Tags links
// @Produce json
// @Param id path string true "Link id"
// @Success 200 {object} models.ClickStats
// @Security Bearer
// @Router /api/links/{id}/stats [get]
func (h *LinkHandler) Stats(c *gin.Context) {
	stats, err := h.clickProcessor.Stats(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Create godoc
// @Summary Create a short link
// @Tags links
// @Accept json
// @Produce json
// @Param request body models.CreateLinkInput true "Link creation request"
// @Success 201 {object} models.Link
// @Failure 400 {object} ErrorResponse
// @Security Bearer
// @Router /api/links [post]
func (h *LinkHandler) Create(c *gin.Context) {
	var input models.CreateLinkInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperr.Wrap(apperr.Validation, "invalid request body", err))
		return
	}

	userID, ok := middleware.UserID(c)
	if !ok {
		c.Error(apperr.New(apperr.Auth, "authenticated user is required"))
		return
	}

	link, err := h.service.Create(c.Request.Context(), userID, &input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, link)
}

// Update godoc
// @Summary Replace a link
// @Tags links
// @Accept json
// @Param id path string true "Link id"
// @Param request body models.UpdateLinkInput true "Replacement record"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Security Bearer
// @Router /api/links/{id} [put]
func (h *LinkHandler) Update(c *gin.Context) {
	var input models.UpdateLinkInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperr.Wrap(apperr.Validation, "invalid request body", err))
		return
	}

	if err := h.service.Update(c.Request.Context(), c.Param("id"), &input); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Delete godoc
// @Summary Delete a link
// @Tags links
// @Param id path string true "Link id"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Security Bearer
// @Router /api/links/{id} [delete]
func (h *LinkHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
