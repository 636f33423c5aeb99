package models

// ExpenseCategory is a named expense category. Categories are never
// hard-deleted: IsActive is flipped instead so historical expense rows
// keep a resolvable reference.
type ExpenseCategory struct {
	Base
	Name           string  `gorm:"uniqueIndex;not null" json:"name"`
	Icon           string  `json:"icon"`
	CategoryTypeID *string `gorm:"type:uuid;index" json:"category_type_id,omitempty"`
	IsActive       bool    `gorm:"default:true" json:"is_active"`

	Subcategories []ExpenseSubcategory `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"subcategories,omitempty"`
}

// ExpenseSubcategory is a child row of an expense category. Position
// preserves display order; (category_id, name) is unique.
type ExpenseSubcategory struct {
	Base
	CategoryID  string `gorm:"type:uuid;not null;uniqueIndex:idx_expense_subcat_name" json:"category_id"`
	Name        string `gorm:"not null;uniqueIndex:idx_expense_subcat_name" json:"name"`
	Icon        string `json:"icon"`
	IsRecurring bool   `gorm:"default:false" json:"is_recurring"`
	Frequency   string `json:"frequency,omitempty"`
	Position    int    `gorm:"default:0" json:"position"`
}
