package services

import (
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	apperrors "paisabook/internal/errors"
	"paisabook/internal/logger"
	"paisabook/internal/models"
	"paisabook/internal/validator"
)

// categoryTypeService handles category-type business logic.
type categoryTypeService struct {
	db *gorm.DB
}

// NewCategoryTypeService creates a new CategoryTypeServicer.
func NewCategoryTypeService(db *gorm.DB) CategoryTypeServicer {
	return &categoryTypeService{db: db}
}

// ListCategoryTypes returns all category types ordered by name.
func (s *categoryTypeService) ListCategoryTypes() ([]models.CategoryType, error) {
	var types []models.CategoryType
	if err := s.db.Order("type_name").Find(&types).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return types, nil
}

// CreateCategoryType creates a new category type and seeds one default
// expense category and one default income category named after it.
// Seeding is best-effort: failures are logged and do not fail the create.
func (s *categoryTypeService) CreateCategoryType(typeName, description string) (*models.CategoryType, error) {
	typeName = strings.TrimSpace(typeName)
	description = strings.TrimSpace(description)

	if !validator.ValidTypeName(typeName) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			"type_name must be 1-50 characters of letters, spaces, hyphens, or apostrophes")
	}
	if len(description) > 200 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description must be at most 200 characters")
	}

	// Duplicate pre-check for a friendly message; the unique constraint
	// on type_name remains the source of truth under concurrent creates.
	var count int64
	if err := s.db.Model(&models.CategoryType{}).Where("type_name = ?", typeName).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateCategoryType
	}

	ct := &models.CategoryType{TypeName: typeName, Description: description}
	if err := s.db.Create(ct).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.seedDefaultCategories(ct)
	return ct, nil
}

// seedDefaultCategories inserts the default expense and income category
// for a freshly created type. Partial failure is accepted: the parent
// create has already succeeded.
func (s *categoryTypeService) seedDefaultCategories(ct *models.CategoryType) {
	log := logger.With("category-types")

	var g errgroup.Group
	g.Go(func() error {
		ec := &models.ExpenseCategory{
			Name:           ct.TypeName,
			Icon:           "📁",
			CategoryTypeID: &ct.ID,
			IsActive:       true,
		}
		if err := s.db.Create(ec).Error; err != nil {
			log.Warnw("failed to seed default expense category",
				"type_name", ct.TypeName, "error", err.Error())
		}
		return nil
	})
	g.Go(func() error {
		ic := &models.IncomeCategory{
			Name:           ct.TypeName,
			CategoryTypeID: &ct.ID,
		}
		if err := s.db.Create(ic).Error; err != nil {
			log.Warnw("failed to seed default income category",
				"type_name", ct.TypeName, "error", err.Error())
		}
		return nil
	})
	_ = g.Wait()
}

// UpdateCategoryType renames a category type and/or replaces its description.
func (s *categoryTypeService) UpdateCategoryType(id, typeName, description string) (*models.CategoryType, error) {
	typeName = strings.TrimSpace(typeName)
	description = strings.TrimSpace(description)

	if !validator.ValidTypeName(typeName) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
			"type_name must be 1-50 characters of letters, spaces, hyphens, or apostrophes")
	}
	if len(description) > 200 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "description must be at most 200 characters")
	}

	var ct models.CategoryType
	if err := s.db.First(&ct, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryTypeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// Reject a rename to a name already held by a different row.
	var count int64
	if err := s.db.Model(&models.CategoryType{}).
		Where("type_name = ? AND id <> ?", typeName, id).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateCategoryType
	}

	ct.TypeName = typeName
	ct.Description = description
	if err := s.db.Save(&ct).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &ct, nil
}

// DeleteCategoryType removes a category type, refusing while any expense
// or income category still references it.
func (s *categoryTypeService) DeleteCategoryType(id string) error {
	var ct models.CategoryType
	if err := s.db.First(&ct, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrCategoryTypeNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenseRefs, incomeRefs int64
	var g errgroup.Group
	g.Go(func() error {
		return s.db.Model(&models.ExpenseCategory{}).Where("category_type_id = ?", id).Count(&expenseRefs).Error
	})
	g.Go(func() error {
		return s.db.Model(&models.IncomeCategory{}).Where("category_type_id = ?", id).Count(&incomeRefs).Error
	})
	if err := g.Wait(); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if expenseRefs > 0 || incomeRefs > 0 {
		return apperrors.ErrCategoryTypeInUse
	}

	if err := s.db.Delete(&ct).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
