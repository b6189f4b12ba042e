package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/mohamedjafersadhik43/construction-erp/internal/config"
	"github.com/mohamedjafersadhik43/construction-erp/internal/database"
	"github.com/mohamedjafersadhik43/construction-erp/internal/handlers"
	"github.com/mohamedjafersadhik43/construction-erp/internal/logger"
	"github.com/mohamedjafersadhik43/construction-erp/internal/middleware"
	"github.com/mohamedjafersadhik43/construction-erp/internal/models"
	"github.com/mohamedjafersadhik43/construction-erp/internal/services"
	"github.com/mohamedjafersadhik43/construction-erp/internal/validator"
)

func main() {
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

	// Register custom validators
	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	projectService := services.NewProjectService(db)
	ledgerService := services.NewLedgerService(db)
	insightService := services.NewInsightService(db)

	// Bootstrap the chart of accounts. A missing required account after
	// seeding is a configuration fault and aborts startup.
	if err := ledgerService.SeedChartOfAccounts(); err != nil {
		return fmt.Errorf("failed to seed chart of accounts: %w", err)
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	financeHandler := handlers.NewFinanceHandler(ledgerService)
	insightHandler := handlers.NewInsightHandler(insightService)

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

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/auth/me", authHandler.GetProfile)

	// Project routes
	projects := protected.Group("/projects")
	projects.GET("", projectHandler.GetProjects)
	projects.GET("/:id", projectHandler.GetProjectByID)
	projects.POST("", middleware.RequireRoles(models.RoleAdmin, models.RoleManager), projectHandler.CreateProject)
	projects.PUT("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleManager), projectHandler.UpdateProject)
	projects.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), projectHandler.DeleteProject)

	// Finance routes
	finance := protected.Group("/finance")
	finance.POST("/invoices", middleware.RequireRoles(models.RoleAdmin, models.RoleManager), financeHandler.CreateInvoice)
	finance.GET("/invoices", financeHandler.GetInvoices)
	finance.PUT("/invoices/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleManager), financeHandler.UpdateInvoiceStatus)
	finance.GET("/accounts", financeHandler.GetAccounts)
	finance.GET("/transactions", financeHandler.GetTransactions)

	// Insight routes
	insights := protected.Group("/insights")
	insights.GET("/risk/:id", insightHandler.GetProjectRisk)
	insights.GET("/dashboard", insightHandler.GetDashboardStats)
	insights.GET("/financial-summary", insightHandler.GetFinancialSummary)

	log.Infof("Starting Construction ERP backend server on port %s", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
