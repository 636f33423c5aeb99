package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "paisabook/internal/errors"
	"paisabook/internal/pagination"
	"paisabook/internal/services"
)

// ExpenseHandler handles expense record requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// RecordRequest represents the request payload for an expense or income
// record write. Date accepts YYYY-MM-DD or RFC 3339.
type RecordRequest struct {
	Amount             decimal.Decimal `json:"amount" binding:"required"`
	CategoryID         *string         `json:"category_id" binding:"omitempty,uuid"`
	Category           string          `json:"category" binding:"max=100"`
	Subcategory        string          `json:"subcategory" binding:"max=100"`
	PaymentMethod      string          `json:"payment_method" binding:"required,payment_method"`
	Date               string          `json:"date" binding:"required"`
	Description        string          `json:"description" binding:"max=500"`
	Tags               []string        `json:"tags" binding:"omitempty,dive,max=50"`
	IsRecurring        bool            `json:"is_recurring"`
	RecurringFrequency string          `json:"recurring_frequency" binding:"omitempty,frequency"`
	Notes              string          `json:"notes" binding:"max=1000"`
	ReceiptURL         string          `json:"receipt_url" binding:"omitempty,url,max=500"`
	UPIID              string          `json:"upi_id" binding:"max=100"`
}

// parseRecordDate accepts a date-only or full timestamp value.
func parseRecordDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be YYYY-MM-DD or RFC 3339")
}

// toRecordInput converts the request payload into the service input.
func (r *RecordRequest) toRecordInput() (services.RecordInput, error) {
	date, err := parseRecordDate(r.Date)
	if err != nil {
		return services.RecordInput{}, err
	}
	return services.RecordInput{
		Amount:             r.Amount,
		CategoryID:         r.CategoryID,
		CategoryName:       r.Category,
		Subcategory:        r.Subcategory,
		PaymentMethod:      r.PaymentMethod,
		Date:               date,
		Description:        r.Description,
		Tags:               r.Tags,
		IsRecurring:        r.IsRecurring,
		RecurringFrequency: r.RecurringFrequency,
		Notes:              r.Notes,
		ReceiptURL:         r.ReceiptURL,
		UPIID:              r.UPIID,
	}, nil
}

// recordFilterQuery holds the shared listing filters parsed from query
// strings.
type recordFilterQuery struct {
	FromDate      string `form:"from_date"`
	ToDate        string `form:"to_date"`
	Category      string `form:"category"`
	PaymentMethod string `form:"payment_method"`
}

func (q *recordFilterQuery) toFilter() (services.RecordFilter, error) {
	var filter services.RecordFilter
	if q.FromDate != "" {
		t, err := parseRecordDate(q.FromDate)
		if err != nil {
			return filter, err
		}
		filter.FromDate = &t
	}
	if q.ToDate != "" {
		t, err := parseRecordDate(q.ToDate)
		if err != nil {
			return filter, err
		}
		filter.ToDate = &t
	}
	if q.Category != "" {
		filter.CategoryName = &q.Category
	}
	if q.PaymentMethod != "" {
		filter.PaymentMethod = &q.PaymentMethod
	}
	return filter, nil
}

// CreateExpense creates an expense record
// @Summary     Create an expense
// @Description Record an expense for the authenticated user
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body RecordRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
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

	expense, err := h.expenseService.CreateExpense(userID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondCreated(c, expense)
}

// ListExpenses returns the user's expenses
// @Summary     List expenses
// @Description Return a page of the authenticated user's expenses, newest first
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number" default(1)
// @Param       page_size query int false "Page size" default(20)
// @Param       from_date query string false "Earliest date (YYYY-MM-DD)"
// @Param       to_date query string false "Latest date (YYYY-MM-DD)"
// @Param       category query string false "Category name filter"
// @Param       payment_method query string false "Payment method filter"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Expenses"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /expenses [get]
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
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

	expenses, err := h.expenseService.GetUserExpenses(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, expenses)
}

// GetExpense returns one expense record
// @Summary     Get an expense
// @Description Return one of the authenticated user's expenses
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} models.Expense "Expense"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
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

	expense, err := h.expenseService.GetExpenseByID(userID, id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, expense)
}

// UpdateExpense updates an expense record
// @Summary     Update an expense
// @Description Replace the mutable fields of one of the authenticated user's expenses
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Param       request body RecordRequest true "Expense details"
// @Success     200 {object} models.Expense "Expense updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
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

	expense, err := h.expenseService.UpdateExpense(userID, id, input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, expense)
}

// DeleteExpense removes an expense record
// @Summary     Delete an expense
// @Description Remove one of the authenticated user's expenses
// @Tags        expenses
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} map[string]interface{} "Expense deleted"
// @Failure     404 {object} ErrorResponse "Not found"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
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

	if err := h.expenseService.DeleteExpense(userID, id); err != nil {
		respondWithError(c, err)
		return
	}
	respondMessage(c, "Expense deleted")
}
