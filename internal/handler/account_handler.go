package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/apperr"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/models"
	"github.com/tnhnyldz/LinkShorteningAssignment/internal/service"
)

type AccountHandler struct {
	service service.AuthService
}

func NewAccountHandler(service service.AuthService) *AccountHandler {
	return &AccountHandler{service: service}
}

// Authenticate godoc
// @Summary Authenticate and issue an access token
// @Tags account
// @Accept json
// @Produce json
// @Param request body models.AuthenticateInput true "Credentials"
// @Success 200 {object} models.AuthenticateResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/Account/Authenticate [post]
func (h *AccountHandler) Authenticate(c *gin.Context) {
	var input models.AuthenticateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(apperr.Wrap(apperr.Validation, "invalid request body", err))
		return
	}

	resp, err := h.service.Authenticate(c.Request.Context(), &input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
