package handlers

import (
	"github.com/gin-gonic/gin"

	apperrors "paisabook/internal/errors"
	"paisabook/internal/services"
)

// ExpenseCategoryHandler handles expense category and subcategory requests.
type ExpenseCategoryHandler struct {
	categoryService services.ExpenseCategoryServicer
}

// NewExpenseCategoryHandler creates a new ExpenseCategoryHandler.
func NewExpenseCategoryHandler(categoryService services.ExpenseCategoryServicer) *ExpenseCategoryHandler {
	return &ExpenseCategoryHandler{categoryService: categoryService}
}

// CreateExpenseCategoryRequest represents the request payload for creating
// an expense category.
type CreateExpenseCategoryRequest struct {
	Name           string  `json:"name" binding:"required,trimmed_min,max=100"`
	Icon           string  `json:"icon" binding:"max=10"`
	CategoryTypeID *string `json:"category_type_id" binding:"omitempty,uuid"`
}

// UpdateExpenseCategoryRequest represents the request payload for renaming
// an expense category.
type UpdateExpenseCategoryRequest struct {
	Name string `json:"name" binding:"required,trimmed_min,max=100"`
	Icon string `json:"icon" binding:"max=10"`
}

// SubcategoryRequest represents the request payload for an expense
// subcategory write.
type SubcategoryRequest struct {
	Name        string `json:"name" binding:"required,trimmed_min,max=100"`
	Icon        string `json:"icon" binding:"max=10"`
	IsRecurring bool   `json:"is_recurring"`
	Frequency   string `json:"frequency" binding:"omitempty,frequency"`
}

// ListCategories returns active expense categories
// @Summary     List expense categories
// @Description Return active expense categories with their subcategories in display order
// @Tags        expense-categories
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.ExpenseCategory "Expense categories"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /expense-categories [get]
func (h *ExpenseCategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categoryService.ListActiveCategories()
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, categories)
}

// GetCategory returns one expense category
// @Summary     Get an expense category
// @Description Return one expense category with its subcategories
// @Tags        expense-categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     200 {object} models.ExpenseCategory "Expense category"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /expense-categories/{id} [get]
func (h *ExpenseCategoryHandler) GetCategory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	category, err := h.categoryService.GetCategoryByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, category)
}

// CreateCategory creates an expense category
// @Summary     Create an expense category
// @Description Create an expense category, optionally linked to a category type
// @Tags        expense-categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseCategoryRequest true "Category details"
// @Success     201 {object} models.ExpenseCategory "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Router      /expense-categories [post]
func (h *ExpenseCategoryHandler) CreateCategory(c *gin.Context) {
	var req CreateExpenseCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.CreateCategory(req.Name, req.Icon, req.CategoryTypeID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondCreated(c, category)
}

// UpdateCategory renames an expense category
// @Summary     Update an expense category
// @Description Rename an expense category or change its icon; existing records keep the old name
// @Tags        expense-categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Param       request body UpdateExpenseCategoryRequest true "Category details"
// @Success     200 {object} models.ExpenseCategory "Category updated"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Router      /expense-categories/{id} [put]
func (h *ExpenseCategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.UpdateCategory(id, req.Name, req.Icon)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, category)
}

// DeleteCategory deactivates an expense category
// @Summary     Delete an expense category
// @Description Deactivate an expense category; records that reference it are untouched
// @Tags        expense-categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     200 {object} map[string]interface{} "Category deactivated"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /expense-categories/{id} [delete]
func (h *ExpenseCategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.categoryService.DeactivateCategory(id); err != nil {
		respondWithError(c, err)
		return
	}
	respondMessage(c, "Category deleted")
}

// ListSubcategories returns the subcategories of an expense category
// @Summary     List expense subcategories
// @Description Return the subcategories of one expense category in display order
// @Tags        expense-categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Success     200 {array} models.ExpenseSubcategory "Subcategories"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Router      /expense-categories/{id}/subcategories [get]
func (h *ExpenseCategoryHandler) ListSubcategories(c *gin.Context) {
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

// AddSubcategory appends a subcategory to an expense category
// @Summary     Add an expense subcategory
// @Description Append a subcategory to an expense category, keeping display order
// @Tags        expense-categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Param       request body SubcategoryRequest true "Subcategory details"
// @Success     201 {object} models.ExpenseSubcategory "Subcategory created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Router      /expense-categories/{id}/subcategories [post]
func (h *ExpenseCategoryHandler) AddSubcategory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	sub, err := h.categoryService.AddSubcategory(id, services.SubcategoryInput{
		Name:        req.Name,
		Icon:        req.Icon,
		IsRecurring: req.IsRecurring,
		Frequency:   req.Frequency,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondCreated(c, sub)
}

// UpdateSubcategory updates a subcategory addressed by name
// @Summary     Update an expense subcategory
// @Description Update the subcategory with the given name under a category
// @Tags        expense-categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Param       name path string true "Subcategory name"
// @Param       request body SubcategoryRequest true "Subcategory details"
// @Success     200 {object} models.ExpenseSubcategory "Subcategory updated"
// @Failure     404 {object} ErrorResponse "Not found"
// @Failure     409 {object} ErrorResponse "Duplicate name"
// @Router      /expense-categories/{id}/subcategories/{name} [put]
func (h *ExpenseCategoryHandler) UpdateSubcategory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	name := c.Param("name")

	var req SubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	sub, err := h.categoryService.UpdateSubcategory(id, name, services.SubcategoryInput{
		Name:        req.Name,
		Icon:        req.Icon,
		IsRecurring: req.IsRecurring,
		Frequency:   req.Frequency,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, sub)
}

// DeleteSubcategory removes a subcategory addressed by name
// @Summary     Delete an expense subcategory
// @Description Remove the subcategory with the given name from a category
// @Tags        expense-categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Category ID"
// @Param       name path string true "Subcategory name"
// @Success     200 {object} map[string]interface{} "Subcategory deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /expense-categories/{id}/subcategories/{name} [delete]
func (h *ExpenseCategoryHandler) DeleteSubcategory(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	name := c.Param("name")

	if err := h.categoryService.DeleteSubcategory(id, name); err != nil {
		respondWithError(c, err)
		return
	}
	respondMessage(c, "Subcategory deleted")
}
