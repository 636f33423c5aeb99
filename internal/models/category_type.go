package models

// CategoryType is a top-level tag grouping categories, e.g. "Expense",
// "Income", "Investment", "Savings". Reference data, admin-writable.
type CategoryType struct {
	Base
	TypeName    string `gorm:"uniqueIndex;size:50;not null" json:"type_name"`
	Description string `gorm:"size:200" json:"description"`

	ExpenseCategories []ExpenseCategory `gorm:"foreignKey:CategoryTypeID" json:"expense_categories,omitempty"`
	IncomeCategories  []IncomeCategory  `gorm:"foreignKey:CategoryTypeID" json:"income_categories,omitempty"`
}
