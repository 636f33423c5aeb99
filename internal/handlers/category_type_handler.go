package handlers

import (
	"github.com/gin-gonic/gin"

	apperrors "paisabook/internal/errors"
	"paisabook/internal/services"
)

// CategoryTypeHandler handles category type requests.
type CategoryTypeHandler struct {
	typeService services.CategoryTypeServicer
}

// NewCategoryTypeHandler creates a new CategoryTypeHandler.
func NewCategoryTypeHandler(typeService services.CategoryTypeServicer) *CategoryTypeHandler {
	return &CategoryTypeHandler{typeService: typeService}
}

// CategoryTypeRequest represents the request payload for creating or
// updating a category type.
type CategoryTypeRequest struct {
	TypeName    string `json:"type_name" binding:"required,type_name"`
	Description string `json:"description" binding:"max=200"`
}

// ListCategoryTypes returns all category types
// @Summary     List category types
// @Description Return all category types ordered by name
// @Tags        category-types
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.CategoryType "Category types"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /category-types [get]
func (h *CategoryTypeHandler) ListCategoryTypes(c *gin.Context) {
	types, err := h.typeService.ListCategoryTypes()
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, types)
}

// CreateCategoryType creates a category type
// @Summary     Create a category type
// @Description Create a category type and seed matching default categories
// @Tags        category-types
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CategoryTypeRequest true "Category type details"
// @Success     201 {object} models.CategoryType "Category type created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Router      /category-types [post]
func (h *CategoryTypeHandler) CreateCategoryType(c *gin.Context) {
	var req CategoryTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	categoryType, err := h.typeService.CreateCategoryType(req.TypeName, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondCreated(c, categoryType)
}

// UpdateCategoryType updates a category type
// @Summary     Update a category type
// @Description Rename a category type or change its description
// @Tags        category-types
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category type ID"
// @Param       request body CategoryTypeRequest true "Category type details"
// @Success     200 {object} models.CategoryType "Category type updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Router      /category-types/{id} [put]
func (h *CategoryTypeHandler) UpdateCategoryType(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CategoryTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	categoryType, err := h.typeService.UpdateCategoryType(id, req.TypeName, req.Description)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, categoryType)
}

// DeleteCategoryType deletes a category type
// @Summary     Delete a category type
// @Description Delete a category type that no category references
// @Tags        category-types
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category type ID"
// @Success     200 {object} map[string]interface{} "Category type deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Still referenced"
// @Router      /category-types/{id} [delete]
func (h *CategoryTypeHandler) DeleteCategoryType(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.typeService.DeleteCategoryType(id); err != nil {
		respondWithError(c, err)
		return
	}
	respondMessage(c, "Category type deleted")
}
