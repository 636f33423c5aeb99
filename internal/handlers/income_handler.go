package handlers

import (
	"github.com/gin-gonic/gin"

	apperrors "paisabook/internal/errors"
	"paisabook/internal/pagination"
	"paisabook/internal/services"
)

// IncomeHandler handles income record requests.
type IncomeHandler struct {
	incomeService services.IncomeServicer
}

// NewIncomeHandler creates a new IncomeHandler.
func NewIncomeHandler(incomeService services.IncomeServicer) *IncomeHandler {
	return &IncomeHandler{incomeService: incomeService}
}

// CreateIncome creates an income record
// @Summary     Create an income record
// @Description Record an income entry for the authenticated user
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body RecordRequest true "Income details"
// @Success     201 {object} models.Income "Income created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /incomes [post]
func (h *IncomeHandler) CreateIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	input, err := req.toRecordInput()
	if err != nil {
		respondWithError(c, err)
		return
	}

	income, err := h.incomeService.CreateIncome(userID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondCreated(c, income)
}

// ListIncomes returns the user's income records
// @Summary     List income records
// @Description Return a page of the authenticated user's income records, newest first
// @Tags        incomes
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number" default(1)
// @Param       page_size query int false "Page size" default(20)
// @Param       from_date query string false "Earliest date (YYYY-MM-DD)"
// @Param       to_date query string false "Latest date (YYYY-MM-DD)"
// @Param       category query string false "Category name filter"
// @Param       payment_method query string false "Payment method filter"
// @Success     200 {object} pagination.PageResponse[models.Income] "Income records"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /incomes [get]
func (h *IncomeHandler) ListIncomes(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	var query recordFilterQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	filter, err := query.toFilter()
	if err != nil {
		respondWithError(c, err)
		return
	}

	incomes, err := h.incomeService.GetUserIncomes(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, incomes)
}

// GetIncome returns one income record
// @Summary     Get an income record
// @Description Return one of the authenticated user's income records
// @Tags        incomes
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Income ID"
// @Success     200 {object} models.Income "Income record"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /incomes/{id} [get]
func (h *IncomeHandler) GetIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	income, err := h.incomeService.GetIncomeByID(userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, income)
}

// UpdateIncome updates an income record
// @Summary     Update an income record
// @Description Replace the mutable fields of one of the authenticated user's income records
// @Tags        incomes
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Income ID"
// @Param       request body RecordRequest true "Income details"
// @Success     200 {object} models.Income "Income updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /incomes/{id} [put]
func (h *IncomeHandler) UpdateIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	input, err := req.toRecordInput()
	if err != nil {
		respondWithError(c, err)
		return
	}

	income, err := h.incomeService.UpdateIncome(userID, id, input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, income)
}

// DeleteIncome removes an income record
// @Summary     Delete an income record
// @Description Remove one of the authenticated user's income records
// @Tags        incomes
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Income ID"
// @Success     200 {object} map[string]interface{} "Income deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /incomes/{id} [delete]
func (h *IncomeHandler) DeleteIncome(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.incomeService.DeleteIncome(userID, id); err != nil {
		respondWithError(c, err)
		return
	}
	respondMessage(c, "Income deleted")
}
