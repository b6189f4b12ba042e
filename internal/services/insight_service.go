package services

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/mohamedjafersadhik43/construction-erp/internal/errors"
	"github.com/mohamedjafersadhik43/construction-erp/internal/models"
)

// insightService computes risk assessments and reporting rollups. Everything
// here is read-only over state the ledger and project services persisted.
type insightService struct {
	db *gorm.DB
}

// NewInsightService creates a new InsightServicer.
func NewInsightService(db *gorm.DB) InsightServicer {
	return &insightService{db: db}
}

// ScoreProject computes the risk assessment for one project.
func (s *insightService) ScoreProject(projectID uint) (*ProjectRisk, error) {
	var project models.Project
	if err := s.db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	risk := assessProject(&project, time.Now())
	return risk, nil
}

var oneHundred = decimal.NewFromInt(100)

// assessProject scores a project's health from budget and schedule signals.
// Rules are additive and independently evaluated; only the first matching
// budget band fires, while the schedule-delay band and the overdue rule can
// stack. The reported score is clamped to [0,100] after accumulation.
//
// A zero budget makes the budget percentages undefined, so the budget and
// reserve rules are skipped entirely rather than dividing by zero.
func assessProject(p *models.Project, now time.Time) *ProjectRisk {
	score := 0
	var factors []RiskFactor

	progress := p.Progress
	progressDec := decimal.NewFromInt(int64(progress))

	budgetDefined := p.Budget.IsPositive()
	budgetUsedPct := decimal.Zero
	if budgetDefined {
		budgetUsedPct = p.Spent.Div(p.Budget).Mul(oneHundred)

		diff := budgetUsedPct.Sub(progressDec)
		switch {
		case diff.GreaterThan(decimal.NewFromInt(30)):
			score += 50
			factors = append(factors, RiskFactor{
				Factor:      "Budget Overrun",
				Severity:    RiskLevelCritical,
				Description: fmt.Sprintf("Spent %s%% of budget but only %d%% complete", budgetUsedPct.StringFixed(1), progress),
			})
		case diff.GreaterThan(decimal.NewFromInt(15)):
			score += 30
			factors = append(factors, RiskFactor{
				Factor:      "Budget Warning",
				Severity:    RiskLevelHigh,
				Description: fmt.Sprintf("Budget usage (%s%%) exceeds progress (%d%%)", budgetUsedPct.StringFixed(1), progress),
			})
		case diff.GreaterThan(decimal.NewFromInt(5)):
			score += 15
			factors = append(factors, RiskFactor{
				Factor:      "Budget Concern",
				Severity:    RiskLevelMedium,
				Description: "Budget usage slightly ahead of progress",
			})
		}
	}

	if p.StartDate != nil && p.EndDate != nil {
		totalDuration := p.EndDate.Sub(*p.StartDate)
		if totalDuration > 0 {
			timeProgress := float64(now.Sub(*p.StartDate)) / float64(totalDuration) * 100

			if timeProgress > float64(progress)+20 {
				score += 30
				factors = append(factors, RiskFactor{
					Factor:      "Schedule Delay",
					Severity:    RiskLevelHigh,
					Description: fmt.Sprintf("%.1f%% of time elapsed but only %d%% complete", timeProgress, progress),
				})
			} else if timeProgress > float64(progress)+10 {
				score += 15
				factors = append(factors, RiskFactor{
					Factor:      "Schedule Risk",
					Severity:    RiskLevelMedium,
					Description: "Project falling behind schedule",
				})
			}
		}

		if now.After(*p.EndDate) && p.Status != models.ProjectStatusCompleted {
			score += 40
			factors = append(factors, RiskFactor{
				Factor:      "Overdue Project",
				Severity:    RiskLevelCritical,
				Description: "Project is past the deadline",
			})
		}
	}

	remaining := p.Budget.Sub(p.Spent)
	if budgetDefined {
		remainingPct := remaining.Div(p.Budget).Mul(oneHundred)
		if remainingPct.LessThan(decimal.NewFromInt(10)) && progress < 90 {
			score += 25
			factors = append(factors, RiskFactor{
				Factor:      "Low Budget Reserve",
				Severity:    RiskLevelHigh,
				Description: fmt.Sprintf("Only %s%% of budget remaining with %d%% work left", remainingPct.StringFixed(1), 100-progress),
			})
		}
	}

	level := riskLevelForScore(score)
	reported := score
	if reported > 100 {
		reported = 100
	}

	if factors == nil {
		factors = []RiskFactor{}
	}

	return &ProjectRisk{
		ProjectID:   p.ID,
		ProjectName: p.Name,
		RiskScore:   reported,
		RiskLevel:   level,
		RiskFactors: factors,
		ProjectMetrics: ProjectMetrics{
			Budget:            p.Budget,
			Spent:             p.Spent,
			Remaining:         remaining,
			BudgetUsedPercent: budgetUsedPct.StringFixed(2),
			Progress:          progress,
			Status:            p.Status,
		},
		Recommendations: generateRecommendations(level, factors),
	}
}

// riskLevelForScore maps an accumulated (pre-clamp) score to its level band.
func riskLevelForScore(score int) RiskLevel {
	switch {
	case score >= 70:
		return RiskLevelCritical
	case score >= 40:
		return RiskLevelHigh
	case score >= 20:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

// generateRecommendations builds the advisory list for a risk assessment.
// Duplicates are removed keeping the first occurrence; an empty result falls
// back to the monitoring pair.
func generateRecommendations(level RiskLevel, factors []RiskFactor) []string {
	var recommendations []string

	if level == RiskLevelCritical || level == RiskLevelHigh {
		recommendations = append(recommendations,
			"Schedule immediate project review meeting",
			"Identify cost-saving opportunities",
			"Consider reallocating resources",
		)
	}

	for _, factor := range factors {
		if strings.Contains(factor.Factor, "Budget") {
			recommendations = append(recommendations,
				"Review and optimize material costs",
				"Negotiate better rates with suppliers",
			)
		}
		if strings.Contains(factor.Factor, "Schedule") {
			recommendations = append(recommendations,
				"Increase workforce or extend working hours",
				"Identify and remove project bottlenecks",
			)
		}
	}

	if len(recommendations) == 0 {
		recommendations = append(recommendations,
			"Continue monitoring project metrics",
			"Maintain current project pace",
		)
	}

	seen := make(map[string]struct{}, len(recommendations))
	deduped := recommendations[:0]
	for _, r := range recommendations {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		deduped = append(deduped, r)
	}
	return deduped
}

// budgetBandScore is the rule-1 risk contribution of a single project,
// re-derived inline for the dashboard average without running the full
// assessment. A zero budget contributes zero.
func budgetBandScore(p *models.Project) int {
	if !p.Budget.IsPositive() {
		return 0
	}
	diff := p.Spent.Div(p.Budget).Mul(oneHundred).Sub(decimal.NewFromInt(int64(p.Progress)))
	switch {
	case diff.GreaterThan(decimal.NewFromInt(30)):
		return 50
	case diff.GreaterThan(decimal.NewFromInt(15)):
		return 30
	case diff.GreaterThan(decimal.NewFromInt(5)):
		return 15
	default:
		return 0
	}
}

// DashboardStats aggregates projects, invoices, accounts, average risk across
// active projects, and the most recent transactions into one snapshot.
func (s *insightService) DashboardStats() (*DashboardStats, error) {
	var projects []models.Project
	if err := s.db.Find(&projects).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	projectStats := ProjectStats{
		TotalBudget: decimal.Zero,
		TotalSpent:  decimal.Zero,
	}
	totalRisk := 0
	activeCount := 0
	progressSum := 0
	for i := range projects {
		p := &projects[i]
		projectStats.Total++
		projectStats.TotalBudget = projectStats.TotalBudget.Add(p.Budget)
		projectStats.TotalSpent = projectStats.TotalSpent.Add(p.Spent)
		progressSum += p.Progress

		switch p.Status {
		case models.ProjectStatusActive:
			projectStats.Active++
			totalRisk += budgetBandScore(p)
			activeCount++
		case models.ProjectStatusCompleted:
			projectStats.Completed++
		}
	}
	if projectStats.Total > 0 {
		projectStats.AvgProgress = round2(float64(progressSum) / float64(projectStats.Total))
	}

	var invoices []models.Invoice
	if err := s.db.Find(&invoices).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	financeStats := FinanceStats{
		TotalRevenue:       decimal.Zero,
		CollectedRevenue:   decimal.Zero,
		OutstandingRevenue: decimal.Zero,
	}
	for i := range invoices {
		inv := &invoices[i]
		financeStats.TotalInvoices++
		financeStats.TotalRevenue = financeStats.TotalRevenue.Add(inv.Amount)

		switch inv.Status {
		case models.InvoiceStatusPaid:
			financeStats.PaidInvoices++
			financeStats.CollectedRevenue = financeStats.CollectedRevenue.Add(inv.Amount)
		case models.InvoiceStatusPending:
			financeStats.PendingInvoices++
			financeStats.OutstandingRevenue = financeStats.OutstandingRevenue.Add(inv.Amount)
		case models.InvoiceStatusOverdue:
			financeStats.OverdueInvoices++
			financeStats.OutstandingRevenue = financeStats.OutstandingRevenue.Add(inv.Amount)
		}
	}

	var accounts []models.Account
	if err := s.db.Order("type ASC, name ASC").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	avgRisk := 0.0
	if activeCount > 0 {
		avgRisk = round2(float64(totalRisk) / float64(activeCount))
	}
	riskLevel := RiskLevelLow
	switch {
	case avgRisk >= 40:
		riskLevel = RiskLevelHigh
	case avgRisk >= 20:
		riskLevel = RiskLevelMedium
	}

	var recent []models.Transaction
	if err := s.db.Preload("Account").
		Order("created_at DESC, id DESC").
		Limit(10).
		Find(&recent).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &DashboardStats{
		Projects: projectStats,
		Finance:  financeStats,
		Accounts: accounts,
		Risk: RiskSummary{
			AverageRiskScore: avgRisk,
			RiskLevel:        riskLevel,
		},
		RecentTransactions: recent,
	}, nil
}

// FinancialSummary sums account balances by type and derives the balance
// sheet and income statement.
func (s *insightService) FinancialSummary() (*FinancialSummary, error) {
	var accounts []models.Account
	if err := s.db.Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	totals := make(map[models.AccountType]decimal.Decimal)
	for i := range accounts {
		totals[accounts[i].Type] = totals[accounts[i].Type].Add(accounts[i].Balance)
	}

	byType := make([]TypeBalance, 0, len(totals))
	for accountType, total := range totals {
		byType = append(byType, TypeBalance{AccountType: accountType, TotalBalance: total})
	}
	sort.Slice(byType, func(i, j int) bool {
		return byType[i].AccountType < byType[j].AccountType
	})

	assets := totals[models.AccountTypeAsset]
	liabilities := totals[models.AccountTypeLiability]
	revenue := totals[models.AccountTypeRevenue]
	expenses := totals[models.AccountTypeExpense]

	return &FinancialSummary{
		BalanceSheet: BalanceSheet{
			Assets:      assets,
			Liabilities: liabilities,
			Equity:      assets.Sub(liabilities),
		},
		IncomeStatement: IncomeStatement{
			Revenue:   revenue,
			Expenses:  expenses,
			NetIncome: revenue.Sub(expenses),
		},
		AccountsByType: byType,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
