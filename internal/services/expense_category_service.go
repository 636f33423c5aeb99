package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "paisabook/internal/errors"
	"paisabook/internal/models"
	"paisabook/internal/validator"
)

// expenseCategoryService handles expense-category business logic.
// Categories are soft-deleted via the is_active flag so historical
// expense records keep a resolvable reference.
type expenseCategoryService struct {
	db *gorm.DB
}

// NewExpenseCategoryService creates a new ExpenseCategoryServicer.
func NewExpenseCategoryService(db *gorm.DB) ExpenseCategoryServicer {
	return &expenseCategoryService{db: db}
}

// ListActiveCategories returns active categories ordered by name, with
// their subcategories in position order.
func (s *expenseCategoryService) ListActiveCategories() ([]models.ExpenseCategory, error) {
	var categories []models.ExpenseCategory
	err := s.db.
		Preload("Subcategories", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Where("is_active = ?", true).
		Order("name").
		Find(&categories).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category by ID, active or not.
func (s *expenseCategoryService) GetCategoryByID(id string) (*models.ExpenseCategory, error) {
	var category models.ExpenseCategory
	err := s.db.
		Preload("Subcategories", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&category, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// CreateCategory creates a category with no subcategories. A placeholder
// icon is used when none is given.
func (s *expenseCategoryService) CreateCategory(name, icon string, categoryTypeID *string) (*models.ExpenseCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}
	if icon == "" {
		icon = "📁"
	}

	// Uniqueness is checked among active rows only; the database unique
	// constraint still rejects the insert if a soft-deleted row holds
	// the name, which callers see as a conflict as well.
	var count int64
	if err := s.db.Model(&models.ExpenseCategory{}).
		Where("name = ? AND is_active = ?", name, true).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateCategory
	}

	if categoryTypeID != nil {
		var typeCount int64
		if err := s.db.Model(&models.CategoryType{}).Where("id = ?", *categoryTypeID).Count(&typeCount).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if typeCount == 0 {
			return nil, apperrors.ErrCategoryTypeNotFound
		}
	}

	category := &models.ExpenseCategory{
		Name:           name,
		Icon:           icon,
		CategoryTypeID: categoryTypeID,
		IsActive:       true,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// UpdateCategory renames a category and/or replaces its icon. Historical
// expense records are not rewritten: they carry a name snapshot taken at
// record creation, so a rename only affects future records.
func (s *expenseCategoryService) UpdateCategory(id, name, icon string) (*models.ExpenseCategory, error) {
	category, err := s.GetCategoryByID(id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name != "" && name != category.Name {
		var count int64
		if err := s.db.Model(&models.ExpenseCategory{}).
			Where("name = ? AND is_active = ? AND id <> ?", name, true, id).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return nil, apperrors.ErrDuplicateCategory
		}
		category.Name = name
	}
	if icon != "" {
		category.Icon = icon
	}

	if err := s.db.Save(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// DeactivateCategory soft-deletes a category by flipping its active flag.
// Existing expense records keep their category name snapshot; the
// category simply stops appearing in active listings.
func (s *expenseCategoryService) DeactivateCategory(id string) error {
	category, err := s.GetCategoryByID(id)
	if err != nil {
		return err
	}

	if err := s.db.Model(category).Update("is_active", false).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ListSubcategories returns the subcategories of one category in
// position order.
func (s *expenseCategoryService) ListSubcategories(categoryID string) ([]models.ExpenseSubcategory, error) {
	if _, err := s.GetCategoryByID(categoryID); err != nil {
		return nil, err
	}

	var subs []models.ExpenseSubcategory
	if err := s.db.Where("category_id = ?", categoryID).Order("position").Find(&subs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return subs, nil
}

// AddSubcategory appends a subcategory to a category. The name must be
// unique within the parent.
func (s *expenseCategoryService) AddSubcategory(categoryID string, in SubcategoryInput) (*models.ExpenseSubcategory, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "subcategory name is required")
	}
	if in.IsRecurring && !validator.ValidFrequency(in.Frequency) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			"frequency must be one of daily, weekly, monthly, quarterly, yearly")
	}

	if _, err := s.GetCategoryByID(categoryID); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.ExpenseSubcategory{}).
		Where("category_id = ? AND name = ?", categoryID, in.Name).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateSubcategory
	}

	// Append at the end of the current ordering.
	var maxPos int
	row := s.db.Model(&models.ExpenseSubcategory{}).
		Where("category_id = ?", categoryID).
		Select("COALESCE(MAX(position), -1)").Row()
	if err := row.Scan(&maxPos); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	sub := &models.ExpenseSubcategory{
		CategoryID:  categoryID,
		Name:        in.Name,
		Icon:        in.Icon,
		IsRecurring: in.IsRecurring,
		Frequency:   in.Frequency,
		Position:    maxPos + 1,
	}
	if err := s.db.Create(sub).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return sub, nil
}

// UpdateSubcategory updates the subcategory addressed by name within its
// parent category. A rename is checked for uniqueness within the parent.
func (s *expenseCategoryService) UpdateSubcategory(categoryID, name string, in SubcategoryInput) (*models.ExpenseSubcategory, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.IsRecurring && !validator.ValidFrequency(in.Frequency) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			"frequency must be one of daily, weekly, monthly, quarterly, yearly")
	}

	var sub models.ExpenseSubcategory
	err := s.db.Where("category_id = ? AND name = ?", categoryID, name).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSubcategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if in.Name != "" && in.Name != sub.Name {
		var count int64
		if err := s.db.Model(&models.ExpenseSubcategory{}).
			Where("category_id = ? AND name = ?", categoryID, in.Name).
			Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return nil, apperrors.ErrDuplicateSubcategory
		}
		sub.Name = in.Name
	}
	if in.Icon != "" {
		sub.Icon = in.Icon
	}
	sub.IsRecurring = in.IsRecurring
	if in.IsRecurring {
		sub.Frequency = in.Frequency
	} else {
		sub.Frequency = ""
	}

	if err := s.db.Save(&sub).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &sub, nil
}

// DeleteSubcategory removes the subcategory addressed by name within its
// parent category.
func (s *expenseCategoryService) DeleteSubcategory(categoryID, name string) error {
	var sub models.ExpenseSubcategory
	err := s.db.Where("category_id = ? AND name = ?", categoryID, name).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrSubcategoryNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Delete(&sub).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
