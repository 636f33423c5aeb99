package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "paisabook/internal/errors"
	"paisabook/internal/models"
	"paisabook/internal/pagination"
)

// incomeService handles user-owned income records, mirroring the
// expense store with the income category tables.
type incomeService struct {
	db *gorm.DB
}

// NewIncomeService creates a new IncomeServicer.
func NewIncomeService(db *gorm.DB) IncomeServicer {
	return &incomeService{db: db}
}

// CreateIncome creates an income record with a category name snapshot.
func (s *incomeService) CreateIncome(userID string, in RecordInput) (*models.Income, error) {
	if err := validateRecordInput(&in); err != nil {
		return nil, err
	}

	if in.CategoryID != nil {
		var category models.IncomeCategory
		if err := s.db.First(&category, "id = ?", *in.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		in.CategoryName = category.Name
	}

	income := &models.Income{
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
	}
	if err := s.db.Create(income).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return income, nil
}

// GetUserIncomes returns a page of the user's income records, newest first.
func (s *incomeService) GetUserIncomes(userID string, page pagination.PageRequest, filter RecordFilter) (*pagination.PageResponse[models.Income], error) {
	page.Defaults()

	base := s.db.Model(&models.Income{}).Where("user_id = ?", userID)
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

	var incomes []models.Income
	if err := base.Scopes(pagination.Ordered(page, "date DESC")).Find(&incomes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(incomes, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetIncomeByID retrieves an income record by ID for a specific user.
func (s *incomeService) GetIncomeByID(userID, incomeID string) (*models.Income, error) {
	var income models.Income
	if err := s.db.Where("id = ? AND user_id = ?", incomeID, userID).First(&income).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrIncomeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &income, nil
}

// UpdateIncome replaces the mutable fields of an income record.
func (s *incomeService) UpdateIncome(userID, incomeID string, in RecordInput) (*models.Income, error) {
	income, err := s.GetIncomeByID(userID, incomeID)
	if err != nil {
		return nil, err
	}
	if err := validateRecordInput(&in); err != nil {
		return nil, err
	}

	if in.CategoryID != nil {
		var category models.IncomeCategory
		if err := s.db.First(&category, "id = ?", *in.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		in.CategoryName = category.Name
	}

	income.Amount = in.Amount
	income.CategoryID = in.CategoryID
	income.CategoryName = in.CategoryName
	income.Subcategory = in.Subcategory
	income.PaymentMethod = in.PaymentMethod
	income.Date = in.Date
	income.Description = in.Description
	income.Tags = in.Tags
	income.IsRecurring = in.IsRecurring
	income.RecurringFrequency = in.RecurringFrequency
	income.Notes = in.Notes

	if err := s.db.Save(income).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return income, nil
}

// DeleteIncome removes an income record owned by the user.
func (s *incomeService) DeleteIncome(userID, incomeID string) error {
	income, err := s.GetIncomeByID(userID, incomeID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(income).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
