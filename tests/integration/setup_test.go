package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"paisabook/internal/cache"
	"paisabook/internal/handlers"
	"paisabook/internal/logger"
	"paisabook/internal/middleware"
	"paisabook/internal/models"
	"paisabook/internal/services"
	"paisabook/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
	Orders *fakeOrderClient
}

// fakeOrderClient stands in for the payment gateway.
type fakeOrderClient struct {
	counter atomic.Int64
}

func (f *fakeOrderClient) CreateOrder(_ int64, _, _ string, _ map[string]string) (string, error) {
	return fmt.Sprintf("order_it%d", f.counter.Add(1)), nil
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:testdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Profile{},
		&models.CategoryType{},
		&models.ExpenseCategory{},
		&models.ExpenseSubcategory{},
		&models.IncomeCategory{},
		&models.IncomeSubcategory{},
		&models.Expense{},
		&models.Income{},
		&models.Payment{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)
	orders := &fakeOrderClient{}

	// Services
	userService := services.NewUserService(db)
	profileCache := cache.NewTTLCache[*models.Profile](5 * time.Minute)
	profileService := services.NewProfileService(db, profileCache)
	categoryTypeService := services.NewCategoryTypeService(db)
	expenseCategoryService := services.NewExpenseCategoryService(db)
	incomeCategoryService := services.NewIncomeCategoryService(db)
	expenseService := services.NewExpenseService(db)
	incomeService := services.NewIncomeService(db)
	paymentService := services.NewPaymentService(db, orders, nil, nil, "it-key-secret", "it-webhook-secret")

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, nil)
	profileHandler := handlers.NewProfileHandler(profileService)
	categoryTypeHandler := handlers.NewCategoryTypeHandler(categoryTypeService)
	expenseCategoryHandler := handlers.NewExpenseCategoryHandler(expenseCategoryService)
	incomeCategoryHandler := handlers.NewIncomeCategoryHandler(incomeCategoryService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	incomeHandler := handlers.NewIncomeHandler(incomeService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)

	v1.POST("/payments/webhook", paymentHandler.Webhook)

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/auth/me", authHandler.Me)
	protected.POST("/auth/logout", authHandler.Logout)
	protected.GET("/profile", profileHandler.GetProfile)
	protected.PUT("/profile", profileHandler.UpdateProfile)

	categoryTypes := protected.Group("/category-types")
	categoryTypes.GET("", categoryTypeHandler.ListCategoryTypes)
	categoryTypes.POST("", categoryTypeHandler.CreateCategoryType)
	categoryTypes.PUT("/:id", categoryTypeHandler.UpdateCategoryType)
	categoryTypes.DELETE("/:id", categoryTypeHandler.DeleteCategoryType)

	expenseCategories := protected.Group("/expense-categories")
	expenseCategories.GET("", expenseCategoryHandler.ListCategories)
	expenseCategories.GET("/:id", expenseCategoryHandler.GetCategory)
	expenseCategories.POST("", expenseCategoryHandler.CreateCategory)
	expenseCategories.PUT("/:id", expenseCategoryHandler.UpdateCategory)
	expenseCategories.DELETE("/:id", expenseCategoryHandler.DeleteCategory)
	expenseCategories.GET("/:id/subcategories", expenseCategoryHandler.ListSubcategories)
	expenseCategories.POST("/:id/subcategories", expenseCategoryHandler.AddSubcategory)
	expenseCategories.PUT("/:id/subcategories/:name", expenseCategoryHandler.UpdateSubcategory)
	expenseCategories.DELETE("/:id/subcategories/:name", expenseCategoryHandler.DeleteSubcategory)

	incomeCategories := protected.Group("/income-categories")
	incomeCategories.GET("", incomeCategoryHandler.ListCategories)
	incomeCategories.POST("", incomeCategoryHandler.CreateCategory)
	incomeCategories.PUT("/:id", incomeCategoryHandler.UpdateCategory)
	incomeCategories.DELETE("/:id", incomeCategoryHandler.DeleteCategory)
	incomeCategories.GET("/:id/subcategories", incomeCategoryHandler.ListSubcategories)
	incomeCategories.POST("/:id/subcategories", incomeCategoryHandler.CreateSubcategory)
	protected.PUT("/income-subcategories/:id", incomeCategoryHandler.UpdateSubcategory)
	protected.DELETE("/income-subcategories/:id", incomeCategoryHandler.DeleteSubcategory)

	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.ListExpenses)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	incomes := protected.Group("/incomes")
	incomes.POST("", incomeHandler.CreateIncome)
	incomes.GET("", incomeHandler.ListIncomes)
	incomes.GET("/:id", incomeHandler.GetIncome)
	incomes.PUT("/:id", incomeHandler.UpdateIncome)
	incomes.DELETE("/:id", incomeHandler.DeleteIncome)

	payments := protected.Group("/payments")
	payments.POST("/create-order", paymentHandler.CreateOrder)
	payments.POST("/verify", paymentHandler.VerifyPayment)
	payments.GET("", paymentHandler.ListPayments)

	return &testApp{DB: db, Router: router, Orders: orders}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// data unwraps the success envelope's data object.
func data(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	result := parseJSON(t, rec)
	d, ok := result["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected data object, got: %s", rec.Body.String())
	}
	return d
}

// registerUser registers a new user and returns the access token, refresh token, and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (accessToken, refreshToken, userID string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q,"full_name":"Test User"}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	d := data(t, rec)
	user := d["user"].(map[string]interface{})
	return d["access_token"].(string), d["refresh_token"].(string), user["id"].(string)
}

// loginUser logs in and returns the access and refresh tokens.
func (app *testApp) loginUser(t *testing.T, email, password string) (accessToken, refreshToken string) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/login", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: %d %s", rec.Code, rec.Body.String())
	}
	d := data(t, rec)
	return d["access_token"].(string), d["refresh_token"].(string)
}
