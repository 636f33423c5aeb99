package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "paisabook/internal/errors"
	"paisabook/internal/models"
	"paisabook/internal/pagination"
	"paisabook/internal/validator"
)

// expenseService handles user-owned expense records. Every query is
// scoped by user ID: rows belonging to other users are indistinguishable
// from rows that do not exist.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

// validateRecordInput applies the field-level checks shared by the
// expense and income stores. It never touches the database.
func validateRecordInput(in *RecordInput) error {
	if !in.Amount.GreaterThan(decimal.Zero) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	in.CategoryName = strings.TrimSpace(in.CategoryName)
	if in.CategoryID == nil && in.CategoryName == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if in.PaymentMethod == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "payment_method is required")
	}
	if in.Date.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}
	if in.IsRecurring && !validator.ValidFrequency(in.RecurringFrequency) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput,
			"recurring_frequency must be one of daily, weekly, monthly, quarterly, yearly")
	}
	if !in.IsRecurring {
		in.RecurringFrequency = ""
	}
	return nil
}

// CreateExpense creates an expense record. When a category ID is given,
// the category's current name is snapshotted onto the record so later
// renames leave history untouched.
func (s *expenseService) CreateExpense(userID string, in RecordInput) (*models.Expense, error) {
	if err := validateRecordInput(&in); err != nil {
		return nil, err
	}

	if in.CategoryID != nil {
		var category models.ExpenseCategory
		if err := s.db.First(&category, "id = ?", *in.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		in.CategoryName = category.Name
	}

	expense := &models.Expense{
		UserID:             userID,
		Amount:             in.Amount,
		CategoryID:         in.CategoryID,
		CategoryName:       in.CategoryName,
		Subcategory:        in.Subcategory,
		PaymentMethod:      in.PaymentMethod,
		Date:               in.Date,
		Description:        in.Description,
		Tags:               in.Tags,
		IsRecurring:        in.IsRecurring,
		RecurringFrequency: in.RecurringFrequency,
		Notes:              in.Notes,
		ReceiptURL:         in.ReceiptURL,
		UPIID:              in.UPIID,
	}
	if err := s.db.Create(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// GetUserExpenses returns a page of the user's expenses, newest first.
func (s *expenseService) GetUserExpenses(userID string, page pagination.PageRequest, filter RecordFilter) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := s.db.Model(&models.Expense{}).Where("user_id = ?", userID)
	if filter.FromDate != nil {
		base = base.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		base = base.Where("date <= ?", *filter.ToDate)
	}
	if filter.CategoryName != nil {
		base = base.Where("category_name = ?", *filter.CategoryName)
	}
	if filter.PaymentMethod != nil {
		base = base.Where("payment_method = ?", *filter.PaymentMethod)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Scopes(pagination.Ordered(page, "date DESC")).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpenseByID retrieves an expense by ID for a specific user.
func (s *expenseService) GetExpenseByID(userID, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	if err := s.db.Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense replaces the mutable fields of an expense record.
func (s *expenseService) UpdateExpense(userID, expenseID string, in RecordInput) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return nil, err
	}
	if err := validateRecordInput(&in); err != nil {
		return nil, err
	}

	if in.CategoryID != nil {
		var category models.ExpenseCategory
		if err := s.db.First(&category, "id = ?", *in.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		in.CategoryName = category.Name
	}

	expense.Amount = in.Amount
	expense.CategoryID = in.CategoryID
	expense.CategoryName = in.CategoryName
	expense.Subcategory = in.Subcategory
	expense.PaymentMethod = in.PaymentMethod
	expense.Date = in.Date
	expense.Description = in.Description
	expense.Tags = in.Tags
	expense.IsRecurring = in.IsRecurring
	expense.RecurringFrequency = in.RecurringFrequency
	expense.Notes = in.Notes
	expense.ReceiptURL = in.ReceiptURL
	expense.UPIID = in.UPIID

	if err := s.db.Save(expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expense, nil
}

// DeleteExpense removes an expense record owned by the user.
func (s *expenseService) DeleteExpense(userID, expenseID string) error {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
