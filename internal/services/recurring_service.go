package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "paisabook/internal/errors"
	"paisabook/internal/logger"
	"paisabook/internal/models"
)

// recurringService materializes recurring expense and income templates
// into concrete records. A template is any record with is_recurring set;
// its date tracks the most recently materialized occurrence, so a run
// that is late by several periods catches up in one pass.
type recurringService struct {
	db *gorm.DB
}

// NewRecurringService creates a new RecurringServicer.
func NewRecurringService(db *gorm.DB) RecurringServicer {
	return &recurringService{db: db}
}

// nextOccurrence returns the occurrence following date for the given
// frequency. Unknown frequencies return the zero time.
func nextOccurrence(date time.Time, frequency string) time.Time {
	switch frequency {
	case models.FrequencyDaily:
		return date.AddDate(0, 0, 1)
	case models.FrequencyWeekly:
		return date.AddDate(0, 0, 7)
	case models.FrequencyMonthly:
		return date.AddDate(0, 1, 0)
	case models.FrequencyQuarterly:
		return date.AddDate(0, 3, 0)
	case models.FrequencyYearly:
		return date.AddDate(1, 0, 0)
	default:
		return time.Time{}
	}
}

// MaterializeDue creates concrete records for every occurrence due at or
// before now and returns how many were created. Templates with a bad
// frequency are skipped and logged, never failed.
func (s *recurringService) MaterializeDue(now time.Time) (int, error) {
	log := logger.With("recurring")
	created := 0

	var expenses []models.Expense
	if err := s.db.Where("is_recurring = ?", true).Find(&expenses).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range expenses {
		template := &expenses[i]
		due := nextOccurrence(template.Date, template.RecurringFrequency)
		if due.IsZero() {
			log.Warnw("skipping expense template with unknown frequency",
				"expense_id", template.ID, "frequency", template.RecurringFrequency)
			continue
		}

		for !due.After(now) {
			clone := models.Expense{
				UserID:        template.UserID,
				Amount:        template.Amount,
				CategoryID:    template.CategoryID,
				CategoryName:  template.CategoryName,
				Subcategory:   template.Subcategory,
				PaymentMethod: template.PaymentMethod,
				Date:          due,
				Description:   template.Description,
				Tags:          template.Tags,
				Notes:         template.Notes,
			}
			if err := s.db.Create(&clone).Error; err != nil {
				return created, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			created++
			template.Date = due
			due = nextOccurrence(due, template.RecurringFrequency)
		}

		if err := s.db.Save(template).Error; err != nil {
			return created, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	var incomes []models.Income
	if err := s.db.Where("is_recurring = ?", true).Find(&incomes).Error; err != nil {
		return created, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range incomes {
		template := &incomes[i]
		due := nextOccurrence(template.Date, template.RecurringFrequency)
		if due.IsZero() {
			log.Warnw("skipping income template with unknown frequency",
				"income_id", template.ID, "frequency", template.RecurringFrequency)
			continue
		}

		for !due.After(now) {
			clone := models.Income{
				UserID:        template.UserID,
				Amount:        template.Amount,
				CategoryID:    template.CategoryID,
				CategoryName:  template.CategoryName,
				Subcategory:   template.Subcategory,
				PaymentMethod: template.PaymentMethod,
				Date:          due,
				Description:   template.Description,
				Tags:          template.Tags,
				Notes:         template.Notes,
			}
			if err := s.db.Create(&clone).Error; err != nil {
				return created, apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			created++
			template.Date = due
			due = nextOccurrence(due, template.RecurringFrequency)
		}

		if err := s.db.Save(template).Error; err != nil {
			return created, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return created, nil
}
