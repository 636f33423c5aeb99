package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"paisabook/internal/models"
	"paisabook/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, fullName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	UpsertGoogleUser(email, fullName, subject, pictureURL string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
}

// ProfileUpdate holds the mutable profile fields. Nil pointers leave the
// stored value untouched.
type ProfileUpdate struct {
	Phone               *string
	HouseholdSize       *int
	MonthlyIncome       *string
	HasDebt             *bool
	FinancialGoals      []string
	PrimaryExpenses     []string
	OnboardingCompleted *bool
}

// ProfileServicer defines the contract for profile lookups and onboarding.
type ProfileServicer interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpdateProfile(userID string, update ProfileUpdate) (*models.Profile, error)
}

// CategoryTypeServicer defines the contract for the category type store.
type CategoryTypeServicer interface {
	ListCategoryTypes() ([]models.CategoryType, error)
	CreateCategoryType(typeName, description string) (*models.CategoryType, error)
	UpdateCategoryType(id, typeName, description string) (*models.CategoryType, error)
	DeleteCategoryType(id string) error
}

// SubcategoryInput holds the fields of an expense subcategory write.
type SubcategoryInput struct {
	Name        string
	Icon        string
	IsRecurring bool
	Frequency   string
}

// ExpenseCategoryServicer defines the contract for the expense category
// store. Subcategories are addressed by name scoped to their parent.
type ExpenseCategoryServicer interface {
	ListActiveCategories() ([]models.ExpenseCategory, error)
	GetCategoryByID(id string) (*models.ExpenseCategory, error)
	CreateCategory(name, icon string, categoryTypeID *string) (*models.ExpenseCategory, error)
	UpdateCategory(id, name, icon string) (*models.ExpenseCategory, error)
	DeactivateCategory(id string) error
	ListSubcategories(categoryID string) ([]models.ExpenseSubcategory, error)
	AddSubcategory(categoryID string, in SubcategoryInput) (*models.ExpenseSubcategory, error)
	UpdateSubcategory(categoryID, name string, in SubcategoryInput) (*models.ExpenseSubcategory, error)
	DeleteSubcategory(categoryID, name string) error
}

// IncomeCategoryServicer defines the contract for the income category and
// subcategory stores.
type IncomeCategoryServicer interface {
	ListCategories() ([]models.IncomeCategory, error)
	GetCategoryByID(id string) (*models.IncomeCategory, error)
	CreateCategory(name string, categoryTypeID *string) (*models.IncomeCategory, error)
	UpdateCategory(id, name string) (*models.IncomeCategory, error)
	DeleteCategory(id string) error
	ListSubcategories(categoryID string) ([]models.IncomeSubcategory, error)
	CreateSubcategory(categoryID, name string, isRecurring bool) (*models.IncomeSubcategory, error)
	UpdateSubcategory(id string, name *string, isRecurring *bool) (*models.IncomeSubcategory, error)
	DeleteSubcategory(id string) error
}

// RecordInput holds the fields of an expense or income record write.
type RecordInput struct {
	Amount             decimal.Decimal
	CategoryID         *string
	CategoryName       string
	Subcategory        string
	PaymentMethod      string
	Date               time.Time
	Description        string
	Tags               []string
	IsRecurring        bool
	RecurringFrequency string
	Notes              string
	ReceiptURL         string
	UPIID              string
}

// RecordFilter holds optional filter parameters for listing records.
type RecordFilter struct {
	FromDate      *time.Time
	ToDate        *time.Time
	CategoryName  *string
	PaymentMethod *string
}

// ExpenseServicer defines the contract for user-owned expense records.
type ExpenseServicer interface {
	CreateExpense(userID string, in RecordInput) (*models.Expense, error)
	GetUserExpenses(userID string, page pagination.PageRequest, filter RecordFilter) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(userID, expenseID string) (*models.Expense, error)
	UpdateExpense(userID, expenseID string, in RecordInput) (*models.Expense, error)
	DeleteExpense(userID, expenseID string) error
}

// IncomeServicer defines the contract for user-owned income records.
type IncomeServicer interface {
	CreateIncome(userID string, in RecordInput) (*models.Income, error)
	GetUserIncomes(userID string, page pagination.PageRequest, filter RecordFilter) (*pagination.PageResponse[models.Income], error)
	GetIncomeByID(userID, incomeID string) (*models.Income, error)
	UpdateIncome(userID, incomeID string, in RecordInput) (*models.Income, error)
	DeleteIncome(userID, incomeID string) error
}

// PaymentServicer defines the contract for the Razorpay payment flow.
type PaymentServicer interface {
	CreateOrder(userID string, amount decimal.Decimal, currency string, expenseID *string, notes map[string]string) (*models.Payment, error)
	VerifyPayment(userID, orderID, paymentID, signature string) (*models.Payment, error)
	HandleWebhook(body []byte, signature string) error
	GetUserPayments(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Payment], error)
}

// ReceiptAnalysis is the structured result of analyzing receipt text.
type ReceiptAnalysis struct {
	Merchant      string          `json:"merchant"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
	Category      string          `json:"category"`
	Subcategory   string          `json:"subcategory,omitempty"`
	PaymentMethod string          `json:"payment_method,omitempty"`
}

// CategorySuggestion is the structured result of categorizing a description.
type CategorySuggestion struct {
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory,omitempty"`
	Confidence  float64 `json:"confidence"`
}

// IncomeDocumentAnalysis is the structured result of analyzing an income
// document (salary slip, invoice).
type IncomeDocumentAnalysis struct {
	Source      string          `json:"source"`
	Amount      decimal.Decimal `json:"amount"`
	Date        string          `json:"date"`
	Category    string          `json:"category"`
	IsRecurring bool            `json:"is_recurring"`
}

// AnalysisServicer defines the contract for LLM-backed document analysis.
type AnalysisServicer interface {
	AnalyzeReceipt(ctx context.Context, text string) (*ReceiptAnalysis, error)
	SuggestCategory(ctx context.Context, description string) (*CategorySuggestion, error)
	AnalyzeIncomeDocument(ctx context.Context, text string) (*IncomeDocumentAnalysis, error)
}

// RecurringServicer defines the contract for the recurring-record
// materializer run by the scheduler.
type RecurringServicer interface {
	MaterializeDue(now time.Time) (int, error)
}
