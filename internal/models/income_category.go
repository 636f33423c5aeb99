package models

// IncomeCategory is a named income category.
type IncomeCategory struct {
	Base
	Name           string  `gorm:"uniqueIndex;not null" json:"name"`
	CategoryTypeID *string `gorm:"type:uuid;index" json:"category_type_id,omitempty"`

	Subcategories []IncomeSubcategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"subcategories,omitempty"`
}

// IncomeSubcategory is a child row of an income category. Deleting the
// parent cascades here via the foreign key, not application logic.
type IncomeSubcategory struct {
	Base
	CategoryID  string `gorm:"type:uuid;not null;uniqueIndex:idx_income_subcat_name" json:"category_id"`
	Name        string `gorm:"not null;uniqueIndex:idx_income_subcat_name" json:"name"`
	IsRecurring bool   `gorm:"default:false" json:"is_recurring"`
}
