package models

import "time"

// AuthProvider identifies how a user signed up.
type AuthProvider string

const (
	AuthProviderLocal  AuthProvider = "local"
	AuthProviderGoogle AuthProvider = "google"
)

// User represents an authenticated identity.
type User struct {
	Base
	Email         string       `gorm:"uniqueIndex;not null" json:"email"`
	Password      string       `json:"-"`
	FullName      string       `json:"full_name"`
	Provider      AuthProvider `gorm:"default:local" json:"provider"`
	GoogleSubject string       `gorm:"index" json:"-"`
	PictureURL    string       `json:"picture_url,omitempty"`
	IsActive      bool         `gorm:"default:true" json:"is_active"`

	RefreshTokenHash string     `gorm:"size:64" json:"-"`
	LastLoginAt      *time.Time `json:"last_login_at,omitempty"`

	Profile *Profile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

// Profile holds one row of onboarding and contact metadata per user.
type Profile struct {
	Base
	UserID              string   `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	Phone               string   `json:"phone,omitempty"`
	HouseholdSize       int      `json:"household_size"`
	MonthlyIncome       string   `json:"monthly_income,omitempty"`
	HasDebt             bool     `json:"has_debt"`
	FinancialGoals      []string `gorm:"serializer:json" json:"financial_goals"`
	PrimaryExpenses     []string `gorm:"serializer:json" json:"primary_expenses"`
	OnboardingCompleted bool     `gorm:"default:false" json:"onboarding_completed"`
}
