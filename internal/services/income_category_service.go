package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "paisabook/internal/errors"
	"paisabook/internal/models"
)

// incomeCategoryService handles income category and subcategory business
// logic. Unlike expense categories, subcategories here are fully
// normalized rows and category deletion cascades to them through the
// foreign key constraint.
type incomeCategoryService struct {
	db *gorm.DB
}

// NewIncomeCategoryService creates a new IncomeCategoryServicer.
func NewIncomeCategoryService(db *gorm.DB) IncomeCategoryServicer {
	return &incomeCategoryService{db: db}
}

// ListCategories returns all income categories ordered by name.
func (s *incomeCategoryService) ListCategories() ([]models.IncomeCategory, error) {
	var categories []models.IncomeCategory
	if err := s.db.Order("name").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryByID retrieves an income category by ID.
func (s *incomeCategoryService) GetCategoryByID(id string) (*models.IncomeCategory, error) {
	var category models.IncomeCategory
	if err := s.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// CreateCategory creates a new income category with a unique name.
func (s *incomeCategoryService) CreateCategory(name string, categoryTypeID *string) (*models.IncomeCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	var count int64
	if err := s.db.Model(&models.IncomeCategory{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrDuplicateCategory, "Income category '"+name+"' already exists")
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

	category := &models.IncomeCategory{Name: name, CategoryTypeID: categoryTypeID}
	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// UpdateCategory renames an income category.
func (s *incomeCategoryService) UpdateCategory(id, name string) (*models.IncomeCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	category, err := s.GetCategoryByID(id)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.IncomeCategory{}).
		Where("name = ? AND id <> ?", name, id).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.WithMessage(apperrors.ErrDuplicateCategory, "Income category '"+name+"' already exists")
	}

	category.Name = name
	if err := s.db.Save(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// DeleteCategory removes an income category. Its subcategories are
// removed by the storage layer's ON DELETE CASCADE, not application code.
func (s *incomeCategoryService) DeleteCategory(id string) error {
	category, err := s.GetCategoryByID(id)
	if err != nil {
		return err
	}

	if err := s.db.Select("Subcategories").Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ListSubcategories returns the subcategories of one income category
// ordered by name.
func (s *incomeCategoryService) ListSubcategories(categoryID string) ([]models.IncomeSubcategory, error) {
	if _, err := s.GetCategoryByID(categoryID); err != nil {
		return nil, err
	}

	var subs []models.IncomeSubcategory
	if err := s.db.Where("category_id = ?", categoryID).Order("name").Find(&subs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return subs, nil
}

// CreateSubcategory creates a subcategory under an income category,
// re-verifying parent existence and per-parent name uniqueness first.
func (s *incomeCategoryService) CreateSubcategory(categoryID, name string, isRecurring bool) (*models.IncomeSubcategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "subcategory name is required")
	}

	if _, err := s.GetCategoryByID(categoryID); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.IncomeSubcategory{}).
		Where("category_id = ? AND name = ?", categoryID, name).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateSubcategory
	}

	sub := &models.IncomeSubcategory{
		CategoryID:  categoryID,
		Name:        name,
		IsRecurring: isRecurring,
	}
	if err := s.db.Create(sub).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return sub, nil
}

// UpdateSubcategory updates a single subcategory row by ID. Nil fields
// are left untouched; a rename is checked for uniqueness within the
// parent before writing.
func (s *incomeCategoryService) UpdateSubcategory(id string, name *string, isRecurring *bool) (*models.IncomeSubcategory, error) {
	var sub models.IncomeSubcategory
	if err := s.db.First(&sub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSubcategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if name != nil {
		newName := strings.TrimSpace(*name)
		if newName == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "subcategory name is required")
		}
		if newName != sub.Name {
			var count int64
			if err := s.db.Model(&models.IncomeSubcategory{}).
				Where("category_id = ? AND name = ? AND id <> ?", sub.CategoryID, newName, id).
				Count(&count).Error; err != nil {
				return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if count > 0 {
				return nil, apperrors.ErrDuplicateSubcategory
			}
			sub.Name = newName
		}
	}
	if isRecurring != nil {
		sub.IsRecurring = *isRecurring
	}

	if err := s.db.Save(&sub).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &sub, nil
}

// DeleteSubcategory removes a single subcategory row by ID.
func (s *incomeCategoryService) DeleteSubcategory(id string) error {
	var sub models.IncomeSubcategory
	if err := s.db.First(&sub, "id = ?", id).Error; err != nil {
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
