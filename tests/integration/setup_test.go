package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mohamedjafersadhik43/construction-erp/internal/handlers"
	"github.com/mohamedjafersadhik43/construction-erp/internal/logger"
	"github.com/mohamedjafersadhik43/construction-erp/internal/middleware"
	"github.com/mohamedjafersadhik43/construction-erp/internal/models"
	"github.com/mohamedjafersadhik43/construction-erp/internal/services"
	"github.com/mohamedjafersadhik43/construction-erp/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
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
	dsn := fmt.Sprintf("file:integrationdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Project{},
		&models.Invoice{},
		&models.Account{},
		&models.Transaction{},
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

	// Services
	userService := services.NewUserService(db)
	projectService := services.NewProjectService(db)
	ledgerService := services.NewLedgerService(db)
	insightService := services.NewInsightService(db)

	if err := ledgerService.SeedChartOfAccounts(); err != nil {
		t.Fatalf("failed to seed chart of accounts: %v", err)
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	financeHandler := handlers.NewFinanceHandler(ledgerService)
	insightHandler := handlers.NewInsightHandler(insightService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/auth/me", authHandler.GetProfile)

	projects := protected.Group("/projects")
	projects.GET("", projectHandler.GetProjects)
	projects.GET("/:id", projectHandler.GetProjectByID)
	projects.POST("", middleware.RequireRoles(models.RoleAdmin, models.RoleManager), projectHandler.CreateProject)
	projects.PUT("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleManager), projectHandler.UpdateProject)
	projects.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin), projectHandler.DeleteProject)

	finance := protected.Group("/finance")
	finance.POST("/invoices", middleware.RequireRoles(models.RoleAdmin, models.RoleManager), financeHandler.CreateInvoice)
	finance.GET("/invoices", financeHandler.GetInvoices)
	finance.PUT("/invoices/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleManager), financeHandler.UpdateInvoiceStatus)
	finance.GET("/accounts", financeHandler.GetAccounts)
	finance.GET("/transactions", financeHandler.GetTransactions)

	insights := protected.Group("/insights")
	insights.GET("/risk/:id", insightHandler.GetProjectRisk)
	insights.GET("/dashboard", insightHandler.GetDashboardStats)
	insights.GET("/financial-summary", insightHandler.GetFinancialSummary)

	return &testApp{DB: db, Router: router}
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

// userCounter keeps registered usernames unique across tests.
var userCounter atomic.Int64

// registerUser registers a user with the given role and returns the token and user ID.
func (app *testApp) registerUser(t *testing.T, role string) (token string, userID float64) {
	t.Helper()
	n := userCounter.Add(1)
	body := fmt.Sprintf(`{"username":"user%d","email":"user%d@test.com","password":"password123","role":%q}`, n, n, role)
	rec := app.request("POST", "/api/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(float64)
}

// assertErrorCode checks the standard error envelope in a response.
func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	if rec.Code != status {
		t.Fatalf("expected status %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	errObj, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	if errObj["code"] != code {
		t.Errorf("expected error code %s, got %v", code, errObj["code"])
	}
}
