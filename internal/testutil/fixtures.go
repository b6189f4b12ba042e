package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mohamedjafersadhik43/construction-erp/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with the default role and a hashed password.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	return CreateTestUserWithRole(t, db, models.RoleUser)
}

// CreateTestUserWithRole creates a user with the given role.
func CreateTestUserWithRole(t *testing.T, db *gorm.DB, role models.Role) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	n := nextID()
	user := &models.User{
		Username:     fmt.Sprintf("user%d", n),
		Email:        fmt.Sprintf("user%d@test.com", n),
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestProject creates an active project with the given budget, spent
// amount and progress percentage.
func CreateTestProject(t *testing.T, db *gorm.DB, budget, spent float64, progress int) *models.Project {
	t.Helper()

	project := &models.Project{
		Name:     fmt.Sprintf("Test Project %d", nextID()),
		Budget:   decimal.NewFromFloat(budget),
		Spent:    decimal.NewFromFloat(spent),
		Progress: progress,
		Status:   models.ProjectStatusActive,
	}
	if err := db.Create(project).Error; err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return project
}

// CreateTestProjectWithDates creates a project with explicit start and end dates.
func CreateTestProjectWithDates(t *testing.T, db *gorm.DB, budget, spent float64, progress int, start, end time.Time) *models.Project {
	t.Helper()

	project := CreateTestProject(t, db, budget, spent, progress)
	project.StartDate = &start
	project.EndDate = &end
	if err := db.Save(project).Error; err != nil {
		t.Fatalf("failed to set test project dates: %v", err)
	}
	return project
}

// CreateTestInvoice creates a pending invoice directly, bypassing the ledger.
func CreateTestInvoice(t *testing.T, db *gorm.DB, projectID *uint, amount float64, due time.Time) *models.Invoice {
	t.Helper()

	invoice := &models.Invoice{
		ProjectID:     projectID,
		InvoiceNumber: fmt.Sprintf("INV-TEST-%d", nextID()),
		ClientName:    "Test Client",
		Amount:        decimal.NewFromFloat(amount),
		Status:        models.InvoiceStatusPending,
		DueDate:       due,
	}
	if err := db.Create(invoice).Error; err != nil {
		t.Fatalf("failed to create test invoice: %v", err)
	}
	return invoice
}

// CreateTestAccount creates a ledger account of the given type with zero balance.
func CreateTestAccount(t *testing.T, db *gorm.DB, name string, accountType models.AccountType) *models.Account {
	t.Helper()

	account := &models.Account{
		Name:    name,
		Type:    accountType,
		Balance: decimal.Zero,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}
