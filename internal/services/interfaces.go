package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mohamedjafersadhik43/construction-erp/internal/models"
	"github.com/mohamedjafersadhik43/construction-erp/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(username, email, password string, role models.Role) (*models.User, error)
	AttemptLogin(username, password string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
}

// ProjectCreateInput holds the fields for creating a project.
type ProjectCreateInput struct {
	Name        string
	Description string
	Budget      decimal.Decimal
	StartDate   *time.Time
	EndDate     *time.Time
}

// ProjectUpdateFields holds optional fields for a partial project update.
// Nil fields are left unchanged.
type ProjectUpdateFields struct {
	Name        *string
	Description *string
	Budget      *decimal.Decimal
	Spent       *decimal.Decimal
	Progress    *int
	Status      *models.ProjectStatus
	StartDate   *time.Time
	EndDate     *time.Time
}

// ProjectServicer defines the contract for project-related business logic.
type ProjectServicer interface {
	CreateProject(input ProjectCreateInput) (*models.Project, error)
	GetProjects(status *models.ProjectStatus, page pagination.PageRequest) (*pagination.PageResponse[models.Project], error)
	GetProjectByID(id uint) (*models.Project, error)
	UpdateProject(id uint, fields ProjectUpdateFields) (*models.Project, error)
	DeleteProject(id uint) error
}

// InvoiceCreateInput holds the fields for issuing an invoice.
type InvoiceCreateInput struct {
	ProjectID     *uint
	InvoiceNumber string
	ClientName    string
	Amount        decimal.Decimal
	DueDate       time.Time
}

// InvoiceFilter holds optional filter parameters for listing invoices.
type InvoiceFilter struct {
	Status    *models.InvoiceStatus
	ProjectID *uint
}

// TransactionFilter holds optional filter parameters for listing ledger transactions.
type TransactionFilter struct {
	AccountID     *uint
	ReferenceType *string
}

// LedgerServicer defines the contract for the accounting ledger: the seeded
// chart of accounts, double-entry postings for invoice lifecycle events, and
// read-only listings of accounts and transactions.
type LedgerServicer interface {
	SeedChartOfAccounts() error
	CreateInvoice(input InvoiceCreateInput) (*models.Invoice, error)
	UpdateInvoiceStatus(invoiceID uint, status models.InvoiceStatus) (*models.Invoice, error)
	GetInvoices(filter InvoiceFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Invoice], error)
	GetAccounts() ([]models.Account, error)
	GetTransactions(filter TransactionFilter, limit int) ([]models.Transaction, error)
}

// RiskLevel is the four-band classification derived from a risk score.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "Low"
	RiskLevelMedium   RiskLevel = "Medium"
	RiskLevelHigh     RiskLevel = "High"
	RiskLevelCritical RiskLevel = "Critical"
)

// RiskFactor is one triggered heuristic with its severity and explanation.
type RiskFactor struct {
	Factor      string    `json:"factor"`
	Severity    RiskLevel `json:"severity"`
	Description string    `json:"description"`
}

// ProjectMetrics is the snapshot of project numbers the risk score was
// derived from.
type ProjectMetrics struct {
	Budget            decimal.Decimal      `json:"budget"`
	Spent             decimal.Decimal      `json:"spent"`
	Remaining         decimal.Decimal      `json:"remaining"`
	BudgetUsedPercent string               `json:"budgetUsedPercent"`
	Progress          int                  `json:"progress"`
	Status            models.ProjectStatus `json:"status"`
}

// ProjectRisk is the full risk assessment for one project.
type ProjectRisk struct {
	ProjectID       uint           `json:"projectId"`
	ProjectName     string         `json:"projectName"`
	RiskScore       int            `json:"riskScore"`
	RiskLevel       RiskLevel      `json:"riskLevel"`
	RiskFactors     []RiskFactor   `json:"riskFactors"`
	ProjectMetrics  ProjectMetrics `json:"projectMetrics"`
	Recommendations []string       `json:"recommendations"`
}

// ProjectStats aggregates project counts and totals for the dashboard.
type ProjectStats struct {
	Total       int             `json:"total"`
	Active      int             `json:"active"`
	Completed   int             `json:"completed"`
	TotalBudget decimal.Decimal `json:"totalBudget"`
	TotalSpent  decimal.Decimal `json:"totalSpent"`
	AvgProgress float64         `json:"avgProgress"`
}

// FinanceStats aggregates invoice counts and amounts by status.
type FinanceStats struct {
	TotalInvoices      int             `json:"totalInvoices"`
	PaidInvoices       int             `json:"paidInvoices"`
	PendingInvoices    int             `json:"pendingInvoices"`
	OverdueInvoices    int             `json:"overdueInvoices"`
	TotalRevenue       decimal.Decimal `json:"totalRevenue"`
	CollectedRevenue   decimal.Decimal `json:"collectedRevenue"`
	OutstandingRevenue decimal.Decimal `json:"outstandingRevenue"`
}

// RiskSummary is the average budget-band risk across active projects.
type RiskSummary struct {
	AverageRiskScore float64   `json:"averageRiskScore"`
	RiskLevel        RiskLevel `json:"riskLevel"`
}

// DashboardStats is the full dashboard snapshot.
type DashboardStats struct {
	Projects           ProjectStats         `json:"projects"`
	Finance            FinanceStats         `json:"finance"`
	Accounts           []models.Account     `json:"accounts"`
	Risk               RiskSummary          `json:"risk"`
	RecentTransactions []models.Transaction `json:"recentTransactions"`
}

// BalanceSheet groups account balances into assets, liabilities, and derived equity.
type BalanceSheet struct {
	Assets      decimal.Decimal `json:"assets"`
	Liabilities decimal.Decimal `json:"liabilities"`
	Equity      decimal.Decimal `json:"equity"`
}

// IncomeStatement groups revenue and expense balances with derived net income.
type IncomeStatement struct {
	Revenue   decimal.Decimal `json:"revenue"`
	Expenses  decimal.Decimal `json:"expenses"`
	NetIncome decimal.Decimal `json:"netIncome"`
}

// TypeBalance is the summed balance for one account type.
type TypeBalance struct {
	AccountType  models.AccountType `json:"account_type"`
	TotalBalance decimal.Decimal    `json:"total_balance"`
}

// FinancialSummary is the balance-sheet/income-statement snapshot.
type FinancialSummary struct {
	BalanceSheet    BalanceSheet    `json:"balanceSheet"`
	IncomeStatement IncomeStatement `json:"incomeStatement"`
	AccountsByType  []TypeBalance   `json:"accountsByType"`
}

// InsightServicer defines the contract for risk scoring and reporting rollups.
type InsightServicer interface {
	ScoreProject(projectID uint) (*ProjectRisk, error)
	DashboardStats() (*DashboardStats, error)
	FinancialSummary() (*FinancialSummary, error)
}
