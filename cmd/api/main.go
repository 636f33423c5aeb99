package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"paisabook/internal/cache"
	"paisabook/internal/config"
	"paisabook/internal/database"
	"paisabook/internal/handlers"
	"paisabook/internal/logger"
	"paisabook/internal/mail"
	"paisabook/internal/middleware"
	"paisabook/internal/models"
	"paisabook/internal/receipt"
	"paisabook/internal/services"
	"paisabook/internal/validator"

	_ "paisabook/internal/docs" // Import swagger docs
)

// @title           PaisaBook API
// @version         1.0
// @description     PaisaBook is a personal finance backend for tracking expenses and income, with receipt analysis, payments and Google sign-in.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom request validators
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)

	profileCache := cache.NewTTLCache[*models.Profile](appConfig.ProfileCacheTTL)
	profileService := services.NewProfileService(db, profileCache)

	categoryTypeService := services.NewCategoryTypeService(db)
	expenseCategoryService := services.NewExpenseCategoryService(db)
	incomeCategoryService := services.NewIncomeCategoryService(db)
	expenseService := services.NewExpenseService(db)
	incomeService := services.NewIncomeService(db)

	mailer := mail.NewSMTPMailer(appConfig)
	renderer := receipt.NewPDFRenderer()
	orderClient := services.NewRazorpayOrderClient(appConfig.RazorpayKeyID, appConfig.RazorpayKeySecret)
	paymentService := services.NewPaymentService(db, orderClient, mailer, renderer,
		appConfig.RazorpayKeySecret, appConfig.RazorpayWebhookSecret)

	openaiClient := services.NewOpenAIClient(appConfig.OpenAIAPIKey, appConfig.OpenAIBaseURL)
	analysisService := services.NewAnalysisService(openaiClient, appConfig.OpenAIModel, expenseCategoryService)

	recurringService := services.NewRecurringService(db)

	// Scheduler: materialize recurring records shortly after midnight and
	// sweep expired profile cache entries hourly.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("15 0 * * *", func() {
		count, err := recurringService.MaterializeDue(time.Now())
		if err != nil {
			log.Errorw("recurring materialization failed", "error", err)
			return
		}
		if count > 0 {
			log.Infow("recurring records materialized", "count", count)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule recurring job: %w", err)
	}
	if _, err := scheduler.AddFunc("@hourly", func() { profileCache.CleanExpired() }); err != nil {
		return fmt.Errorf("failed to schedule cache sweep: %w", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize handlers
	googleAuth := handlers.NewGoogleAuthenticator(appConfig)
	authHandler := handlers.NewAuthHandler(userService, googleAuth)
	profileHandler := handlers.NewProfileHandler(profileService)
	categoryTypeHandler := handlers.NewCategoryTypeHandler(categoryTypeService)
	expenseCategoryHandler := handlers.NewExpenseCategoryHandler(expenseCategoryService)
	incomeCategoryHandler := handlers.NewIncomeCategoryHandler(incomeCategoryService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	incomeHandler := handlers.NewIncomeHandler(incomeService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	analysisHandler := handlers.NewAnalysisHandler(analysisService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/google", authHandler.GoogleToken)
	auth.POST("/google-code", authHandler.GoogleCode)

	// Webhook is authenticated by its signature, not a bearer token.
	v1.POST("/payments/webhook", paymentHandler.Webhook)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/auth/me", authHandler.Me)
	protected.POST("/auth/logout", authHandler.Logout)

	protected.GET("/profile", profileHandler.GetProfile)
	protected.PUT("/profile", profileHandler.UpdateProfile)

	// Category type routes
	categoryTypes := protected.Group("/category-types")
	categoryTypes.GET("", categoryTypeHandler.ListCategoryTypes)
	categoryTypes.POST("", categoryTypeHandler.CreateCategoryType)
	categoryTypes.PUT("/:id", categoryTypeHandler.UpdateCategoryType)
	categoryTypes.DELETE("/:id", categoryTypeHandler.DeleteCategoryType)

	// Expense category routes
	expenseCategories := protected.Group("/expense-categories")
	expenseCategories.GET("", expenseCategoryHandler.ListCategories)
	expenseCategories.POST("", expenseCategoryHandler.CreateCategory)
	expenseCategories.GET("/:id", expenseCategoryHandler.GetCategory)
	expenseCategories.PUT("/:id", expenseCategoryHandler.UpdateCategory)
	expenseCategories.DELETE("/:id", expenseCategoryHandler.DeleteCategory)
	expenseCategories.GET("/:id/subcategories", expenseCategoryHandler.ListSubcategories)
	expenseCategories.POST("/:id/subcategories", expenseCategoryHandler.AddSubcategory)
	expenseCategories.PUT("/:id/subcategories/:name", expenseCategoryHandler.UpdateSubcategory)
	expenseCategories.DELETE("/:id/subcategories/:name", expenseCategoryHandler.DeleteSubcategory)

	// Income category routes
	incomeCategories := protected.Group("/income-categories")
	incomeCategories.GET("", incomeCategoryHandler.ListCategories)
	incomeCategories.POST("", incomeCategoryHandler.CreateCategory)
	incomeCategories.PUT("/:id", incomeCategoryHandler.UpdateCategory)
	incomeCategories.DELETE("/:id", incomeCategoryHandler.DeleteCategory)
	incomeCategories.GET("/:id/subcategories", incomeCategoryHandler.ListSubcategories)
	incomeCategories.POST("/:id/subcategories", incomeCategoryHandler.CreateSubcategory)

	incomeSubcategories := protected.Group("/income-subcategories")
	incomeSubcategories.PUT("/:id", incomeCategoryHandler.UpdateSubcategory)
	incomeSubcategories.DELETE("/:id", incomeCategoryHandler.DeleteSubcategory)

	// Expense record routes
	expenses := protected.Group("/expenses")
	expenses.POST("", expenseHandler.CreateExpense)
	expenses.GET("", expenseHandler.ListExpenses)
	expenses.GET("/:id", expenseHandler.GetExpense)
	expenses.PUT("/:id", expenseHandler.UpdateExpense)
	expenses.DELETE("/:id", expenseHandler.DeleteExpense)

	// Income record routes
	incomes := protected.Group("/incomes")
	incomes.POST("", incomeHandler.CreateIncome)
	incomes.GET("", incomeHandler.ListIncomes)
	incomes.GET("/:id", incomeHandler.GetIncome)
	incomes.PUT("/:id", incomeHandler.UpdateIncome)
	incomes.DELETE("/:id", incomeHandler.DeleteIncome)

	// Payment routes
	payments := protected.Group("/payments")
	payments.POST("/create-order", paymentHandler.CreateOrder)
	payments.POST("/verify", paymentHandler.VerifyPayment)
	payments.GET("", paymentHandler.ListPayments)

	// Document analysis routes
	ocr := protected.Group("/ocr")
	ocr.POST("/receipt", analysisHandler.AnalyzeReceipt)
	ocr.POST("/suggest-category", analysisHandler.SuggestCategory)
	ocr.POST("/income-document", analysisHandler.AnalyzeIncomeDocument)

	log.Infof("Starting PaisaBook backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
