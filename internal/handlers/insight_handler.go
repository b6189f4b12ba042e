package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mohamedjafersadhik43/construction-erp/internal/services"
)

// InsightHandler handles risk scoring and reporting requests.
type InsightHandler struct {
	insightService services.InsightServicer
}

// NewInsightHandler creates a new InsightHandler.
func NewInsightHandler(insightService services.InsightServicer) *InsightHandler {
	return &InsightHandler{insightService: insightService}
}

// GetProjectRisk handles risk assessment for one project
// @Summary     Get project risk
// @Description Compute the risk score, level, factors, and recommendations for a project
// @Tags        insights
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Project ID"
// @Success     200 {object} services.ProjectRisk "Risk assessment"
// @Failure     400 {object} ErrorResponse "Invalid project ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Router      /insights/risk/{id} [get]
func (h *InsightHandler) GetProjectRisk(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	risk, err := h.insightService.ScoreProject(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, risk)
}

// GetDashboardStats handles the dashboard snapshot
// @Summary     Get dashboard statistics
// @Description Aggregate project, invoice, account, and risk statistics with recent transactions
// @Tags        insights
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.DashboardStats "Dashboard snapshot"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /insights/dashboard [get]
func (h *InsightHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.insightService.DashboardStats()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetFinancialSummary handles the financial summary report
// @Summary     Get financial summary
// @Description Balance sheet and income statement derived from account balances
// @Tags        insights
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.FinancialSummary "Financial summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /insights/financial-summary [get]
func (h *InsightHandler) GetFinancialSummary(c *gin.Context) {
	summary, err := h.insightService.FinancialSummary()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
