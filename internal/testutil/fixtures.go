package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"paisabook/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password, unique email and
// an empty profile.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
		Provider: models.AuthProviderLocal,
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	if err := db.Create(&models.Profile{UserID: user.ID}).Error; err != nil {
		t.Fatalf("failed to create test profile: %v", err)
	}
	return user
}

// CreateTestCategoryType creates a category type with a unique name.
func CreateTestCategoryType(t *testing.T, db *gorm.DB) *models.CategoryType {
	t.Helper()

	categoryType := &models.CategoryType{
		TypeName:    fmt.Sprintf("Test Type %d", nextID()),
		Description: "fixture category type",
	}
	if err := db.Create(categoryType).Error; err != nil {
		t.Fatalf("failed to create test category type: %v", err)
	}
	return categoryType
}

// CreateTestExpenseCategory creates an active expense category.
func CreateTestExpenseCategory(t *testing.T, db *gorm.DB) *models.ExpenseCategory {
	t.Helper()

	category := &models.ExpenseCategory{
		Name:     fmt.Sprintf("Test Category %d", nextID()),
		Icon:     "🧾",
		IsActive: true,
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test expense category: %v", err)
	}
	return category
}

// CreateTestExpenseSubcategory creates a subcategory under the given
// expense category at the next position.
func CreateTestExpenseSubcategory(t *testing.T, db *gorm.DB, categoryID string, position int) *models.ExpenseSubcategory {
	t.Helper()

	sub := &models.ExpenseSubcategory{
		CategoryID: categoryID,
		Name:       fmt.Sprintf("Test Subcategory %d", nextID()),
		Position:   position,
	}
	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("failed to create test expense subcategory: %v", err)
	}
	return sub
}

// CreateTestIncomeCategory creates an income category with a unique name.
func CreateTestIncomeCategory(t *testing.T, db *gorm.DB) *models.IncomeCategory {
	t.Helper()

	category := &models.IncomeCategory{
		Name: fmt.Sprintf("Test Income Category %d", nextID()),
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test income category: %v", err)
	}
	return category
}

// CreateTestExpense creates an expense record for the given user.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID string) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		UserID:        userID,
		Amount:        decimal.NewFromFloat(249.50),
		CategoryName:  "Groceries",
		PaymentMethod: "upi",
		Date:          time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		Description:   fmt.Sprintf("fixture expense %d", nextID()),
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestIncome creates an income record for the given user.
func CreateTestIncome(t *testing.T, db *gorm.DB, userID string) *models.Income {
	t.Helper()

	income := &models.Income{
		UserID:        userID,
		Amount:        decimal.NewFromInt(50000),
		CategoryName:  "Salary",
		PaymentMethod: "netbanking",
		Date:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Description:   fmt.Sprintf("fixture income %d", nextID()),
	}
	if err := db.Create(income).Error; err != nil {
		t.Fatalf("failed to create test income: %v", err)
	}
	return income
}

// CreateTestPayment creates a payment row in the created state.
func CreateTestPayment(t *testing.T, db *gorm.DB, userID string) *models.Payment {
	t.Helper()

	payment := &models.Payment{
		UserID:          userID,
		Amount:          decimal.NewFromInt(500),
		Currency:        "INR",
		Status:          models.PaymentStatusCreated,
		RazorpayOrderID: fmt.Sprintf("order_test%d", nextID()),
	}
	if err := db.Create(payment).Error; err != nil {
		t.Fatalf("failed to create test payment: %v", err)
	}
	return payment
}
