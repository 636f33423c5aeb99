package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Income is a user-owned income record. Mirrors Expense: the category
// name is snapshotted at creation time.
type Income struct {
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
}
