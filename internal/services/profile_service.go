package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"paisabook/internal/cache"
	apperrors "paisabook/internal/errors"
	"paisabook/internal/models"
)

// profileQueryTimeout bounds the profile lookup; it is the only
// query-level timeout in the system.
const profileQueryTimeout = 3 * time.Second

// profileService handles profile reads through an injected TTL cache.
// The cache is advisory: every write invalidates the user's entry, and a
// miss falls through to the database.
type profileService struct {
	db    *gorm.DB
	cache cache.Cache[*models.Profile]
}

// NewProfileService creates a new ProfileServicer backed by the given cache.
func NewProfileService(db *gorm.DB, c cache.Cache[*models.Profile]) ProfileServicer {
	return &profileService{db: db, cache: c}
}

// GetProfile retrieves a user's profile, serving from cache when possible.
func (s *profileService) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	if p, ok := s.cache.Get(userID); ok {
		return p, nil
	}

	queryCtx, cancel := context.WithTimeout(ctx, profileQueryTimeout)
	defer cancel()

	var profile models.Profile
	err := s.db.WithContext(queryCtx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.cache.Set(userID, &profile)
	return &profile, nil
}

// UpdateProfile applies the given field updates and invalidates the
// user's cache entry.
func (s *profileService) UpdateProfile(userID string, update ProfileUpdate) (*models.Profile, error) {
	var profile models.Profile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if update.Phone != nil {
		profile.Phone = *update.Phone
	}
	if update.HouseholdSize != nil {
		if *update.HouseholdSize < 1 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "household_size must be at least 1")
		}
		profile.HouseholdSize = *update.HouseholdSize
	}
	if update.MonthlyIncome != nil {
		profile.MonthlyIncome = *update.MonthlyIncome
	}
	if update.HasDebt != nil {
		profile.HasDebt = *update.HasDebt
	}
	if update.FinancialGoals != nil {
		profile.FinancialGoals = update.FinancialGoals
	}
	if update.PrimaryExpenses != nil {
		profile.PrimaryExpenses = update.PrimaryExpenses
	}
	if update.OnboardingCompleted != nil {
		profile.OnboardingCompleted = *update.OnboardingCompleted
	}

	if err := s.db.Save(&profile).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	s.cache.Invalidate(userID)
	return &profile, nil
}
