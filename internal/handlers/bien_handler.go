package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"kupanga_backend/internal/apperrors"
	"kupanga_backend/internal/middleware"
	"kupanga_backend/internal/models"
	"kupanga_backend/internal/services"
	"kupanga_backend/internal/services/dto"
)

type BienHandler struct {
	*BaseHandler
	bienService services.BienService
	userService services.UserService
}

func NewBienHandler(base *BaseHandler, bienService services.BienService, userService services.UserService) *BienHandler {
	return &BienHandler{BaseHandler: base, bienService: bienService, userService: userService}
}

// RegisterRoutes registers the property routes. Creation is reserved to
// owners; the other mutations check ownership in the service layer.
func (h *BienHandler) RegisterRoutes(rg *gin.RouterGroup) {
	biens := rg.Group("/biens")
	{
		biens.POST("", middleware.RequireRole(models.RoleOwner), h.Create)
		biens.GET("", h.ListMine)
		biens.GET("/:id", h.GetByID)
		biens.PUT("/:id", h.Update)
		biens.DELETE("/:id", h.Delete)
	}
}

func (h *BienHandler) Create(c *gin.Context) {
	var req dto.BienCreateRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	bien, err := h.bienService.Create(user, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bien)
}

func (h *BienHandler) ListMine(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	biens, err := h.bienService.ListByProprietaire(user.ID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, biens)
}

func (h *BienHandler) GetByID(c *gin.Context) {
	bien, err := h.bienService.GetByID(c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, bien)
}

func (h *BienHandler) Update(c *gin.Context) {
	var req dto.BienUpdateRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	bien, err := h.bienService.Update(user.ID, c.Param("id"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, bien)
}

func (h *BienHandler) Delete(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	if err := h.bienService.Delete(user.ID, c.Param("id")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *BienHandler) currentUser(c *gin.Context) (*models.User, bool) {
	email := middleware.UserEmail(c)
	if email == "" {
		apperrors.HandleError(c, apperrors.ErrUnauthorized)
		return nil, false
	}

	user, err := h.userService.GetByEmail(email)
	if err != nil {
		h.HandleServiceError(c, err)
		return nil, false
	}
	return user, true
}
