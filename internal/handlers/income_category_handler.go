package handlers

import (
	"github.com/gin-gonic/gin"

	apperrors "paisabook/internal/errors"
	"paisabook/internal/services"
)

// IncomeCategoryHandler handles income category and subcategory requests.
// Subcategories have their own ID-addressed routes, unlike the
// name-addressed expense subcategory routes.
type IncomeCategoryHandler struct {
	categoryService services.IncomeCategoryServicer
}

// NewIncomeCategoryHandler creates a new IncomeCategoryHandler.
func NewIncomeCategoryHandler(categoryService services.IncomeCategoryServicer) *IncomeCategoryHandler {
	return &IncomeCategoryHandler{categoryService: categoryService}
}

// IncomeCategoryRequest represents the request payload for an income
// category write.
type IncomeCategoryRequest struct {
	Name           string  `json:"name" binding:"required,trimmed_min,max=100"`
	CategoryTypeID *string `json:"category_type_id" binding:"omitempty,uuid"`
}

// CreateIncomeSubcategoryRequest represents the request payload for
// creating an income subcategory.
type CreateIncomeSubcategoryRequest struct {
	Name        string `json:"name" binding:"required,trimmed_min,max=100"`
	IsRecurring bool   `json:"is_recurring"`
}

// UpdateIncomeSubcategoryRequest represents a partial income subcategory
// update.
type UpdateIncomeSubcategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,trimmed_min,max=100"`
	IsRecurring *bool   `json:"is_recurring"`
}

// ListCategories returns all income categories
// @Summary     List income categories
// @Description Return all income categories ordered by name
// @Tags        income-categories
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.IncomeCategory "Income categories"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /income-categories [get]
func (h *IncomeCategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.ListCategories()
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, categories)
}

// CreateCategory creates an income category
// @Summary     Create an income category
// @Description Create an income category with a unique name
// @Tags        income-categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body IncomeCategoryRequest true "Category details"
// @Success     201 {object} models.IncomeCategory "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Router      /income-categories [post]
func (h *IncomeCategoryHandler) CreateCategory(c *gin.Context) {
	var req IncomeCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.CreateCategory(req.Name, req.CategoryTypeID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondCreated(c, category)
}

// UpdateCategory renames an income category
// @Summary     Update an income category
// @Description Rename an income category; existing records keep the old name
// @Tags        income-categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Param       request body IncomeCategoryRequest true "Category details"
// @Success     200 {object} models.IncomeCategory "Category updated"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Router      /income-categories/{id} [put]
func (h *IncomeCategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req IncomeCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.UpdateCategory(id, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, category)
}

// DeleteCategory deletes an income category
// @Summary     Delete an income category
// @Description Delete an income category together with its subcategories
// @Tags        income-categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     200 {object} map[string]interface{} "Category deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /income-categories/{id} [delete]
func (h *IncomeCategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.categoryService.DeleteCategory(id); err != nil {
		respondWithError(c, err)
		return
	}
	respondMessage(c, "Category deleted")
}

// ListSubcategories returns the subcategories of an income category
// @Summary     List income subcategories
// @Description Return the subcategories of one income category ordered by name
// @Tags        income-categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     200 {array} models.IncomeSubcategory "Subcategories"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /income-categories/{id}/subcategories [get]
func (h *IncomeCategoryHandler) ListSubcategories(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	subs, err := h.categoryService.ListSubcategories(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, subs)
}

// CreateSubcategory creates an income subcategory
// @Summary     Create an income subcategory
// @Description Create a subcategory under an income category
// @Tags        income-categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Param       request body CreateIncomeSubcategoryRequest true "Subcategory details"
// @Success     201 {object} models.IncomeSubcategory "Subcategory created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Router      /income-categories/{id}/subcategories [post]
func (h *IncomeCategoryHandler) CreateSubcategory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateIncomeSubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	sub, err := h.categoryService.CreateSubcategory(id, req.Name, req.IsRecurring)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondCreated(c, sub)
}

// UpdateSubcategory updates an income subcategory by ID
// @Summary     Update an income subcategory
// @Description Apply a partial update to an income subcategory
// @Tags        income-categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Subcategory ID"
// @Param       request body UpdateIncomeSubcategoryRequest true "Subcategory fields"
// @Success     200 {object} models.IncomeSubcategory "Subcategory updated"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Router      /income-subcategories/{id} [put]
func (h *IncomeCategoryHandler) UpdateSubcategory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateIncomeSubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	sub, err := h.categoryService.UpdateSubcategory(id, req.Name, req.IsRecurring)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, sub)
}

// DeleteSubcategory removes an income subcategory by ID
// @Summary     Delete an income subcategory
// @Description Remove a single income subcategory
// @Tags        income-categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Subcategory ID"
// @Success     200 {object} map[string]interface{} "Subcategory deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /income-subcategories/{id} [delete]
func (h *IncomeCategoryHandler) DeleteSubcategory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.categoryService.DeleteSubcategory(id); err != nil {
		respondWithError(c, err)
		return
	}
	respondMessage(c, "Subcategory deleted")
}
