package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/apperr"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/models"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/service"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// MostLinkShortenerUser godoc
// @Summary Owner of the most links
// @Tags users
// @Produce json
// @Success 200 {object} models.MostLinkShortenerUserResponse
// @Failure 404 {object} ErrorResponse
// @Security Bearer
// @Router /api/users/MostLinkShortenerUser [get]
func (h *UserHandler) MostLinkShortenerUser(c *gin.Context) {
	resp, err := h.service.MostLinkShortenerUser(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// List godoc
// @Summary List all users
// @Tags users
// @Produce json
// @Success 200 {array} models.User
// @Security Bearer
// @Router /api/users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// Get godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Param id path string true "User id"
// @Success 200 {object} models.User
// @Failure 404 {object} ErrorResponse
// @Security Bearer
// @Router /api/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// Create godoc
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Param request body models.UserInput true "User record"
// @Success 201 {object} models.User
// @Failure 400 {object} ErrorResponse
// @Security Bearer
// @Router /api/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var input models.UserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperr.Wrap(apperr.Validation, "invalid request body", err))
		return
	}

	user, err := h.service.Create(c.Request.Context(), &input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Update godoc
// @Summary Replace a user
// @Tags users
// @Accept json
// @Param id path string true "User id"
// @Param request body models.UserInput true "Replacement record"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Security Bearer
// @Router /api/users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	var input models.UserInput
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
// @Summary Delete a user
// @Tags users
// @Param id path string true "User id"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Security Bearer
// @Router /api/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
