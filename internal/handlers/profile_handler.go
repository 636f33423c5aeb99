package handlers

import (
	"github.com/gin-gonic/gin"

	apperrors "paisabook/internal/errors"
	"paisabook/internal/services"
)

// ProfileHandler handles profile reads and onboarding updates.
type ProfileHandler struct {
	profileService services.ProfileServicer
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService services.ProfileServicer) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// UpdateProfileRequest represents the request payload for updating a profile.
// Absent fields are left unchanged.
type UpdateProfileRequest struct {
	Phone               *string  `json:"phone" binding:"omitempty,max=20"`
	HouseholdSize       *int     `json:"household_size" binding:"omitempty,min=1,max=50"`
	MonthlyIncome       *string  `json:"monthly_income" binding:"omitempty,max=50"`
	HasDebt             *bool    `json:"has_debt"`
	FinancialGoals      []string `json:"financial_goals" binding:"omitempty,dive,max=100"`
	PrimaryExpenses     []string `json:"primary_expenses" binding:"omitempty,dive,max=100"`
	OnboardingCompleted *bool    `json:"onboarding_completed"`
}

// GetProfile returns the authenticated user's profile
// @Summary     Get profile
// @Description Return the authenticated user's profile, served from cache when fresh
// @Tags        profile
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.Profile "Profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Profile not found"
// @Router      /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	profile, err := h.profileService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, profile)
}

// UpdateProfile updates the authenticated user's profile
// @Summary     Update profile
// @Description Apply partial updates to the authenticated user's profile
// @Tags        profile
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body UpdateProfileRequest true "Profile fields"
// @Success     200 {object} models.Profile "Updated profile"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /profile [put]
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	profile, err := h.profileService.UpdateProfile(userID, services.ProfileUpdate{
		Phone:               req.Phone,
		HouseholdSize:       req.HouseholdSize,
		MonthlyIncome:       req.MonthlyIncome,
		HasDebt:             req.HasDebt,
		FinancialGoals:      req.FinancialGoals,
		PrimaryExpenses:     req.PrimaryExpenses,
		OnboardingCompleted: req.OnboardingCompleted,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondOK(c, profile)
}
