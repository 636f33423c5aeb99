package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecurringFrequency values accepted for recurring records.
const (
	FrequencyDaily     = "daily"
	FrequencyWeekly    = "weekly"
	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
	FrequencyYearly    = "yearly"
)

// Expense is a user-owned expense record. CategoryName is a display
// snapshot taken at creation time; renaming a category later does not
// rewrite historical rows.
type Expense struct {
	Base
	UserID             string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Amount             decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	CategoryID         *string         `gorm:"type:uuid;index" json:"category_id,omitempty"`
	CategoryName       string          `gorm:"not null" json:"category"`
	Subcategory        string          `json:"subcategory,omitempty"`
	PaymentMethod      string          `gorm:"not null" json:"payment_method"`
	Date               time.Time       `gorm:"not null;index" json:"date"`
	Description        string          `json:"description,omitempty"`
	Tags               []string        `gorm:"serializer:json" json:"tags"`
	IsRecurring        bool            `gorm:"default:false" json:"is_recurring"`
	RecurringFrequency string          `json:"recurring_frequency,omitempty"`
	Notes              string          `json:"notes,omitempty"`
	ReceiptURL         string          `json:"receipt_url,omitempty"`
	UPIID              string          `gorm:"column:upi_id" json:"upi_id,omitempty"`
}
