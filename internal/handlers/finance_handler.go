package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/mohamedjafersadhik43/construction-erp/internal/errors"
	"github.com/mohamedjafersadhik43/construction-erp/internal/models"
	"github.com/mohamedjafersadhik43/construction-erp/internal/pagination"
	"github.com/mohamedjafersadhik43/construction-erp/internal/services"
)

// FinanceHandler handles invoice, account, and transaction requests.
type FinanceHandler struct {
	ledgerService services.LedgerServicer
}

// NewFinanceHandler creates a new FinanceHandler.
func NewFinanceHandler(ledgerService services.LedgerServicer) *FinanceHandler {
	return &FinanceHandler{ledgerService: ledgerService}
}

// CreateInvoiceRequest represents the request payload for issuing an invoice
type CreateInvoiceRequest struct {
	ProjectID     *uint           `json:"project_id"`
	InvoiceNumber string          `json:"invoice_number" binding:"required,min=1,max=100"`
	ClientName    string          `json:"client_name" binding:"required,min=1,max=200"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	DueDate       string          `json:"due_date" binding:"required"`
}

// UpdateInvoiceStatusRequest represents the request payload for a status change
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" binding:"required,invoice_status"`
}

// ListInvoicesQuery holds the query parameters for listing invoices.
type ListInvoicesQuery struct {
	Status    *string `form:"status" binding:"omitempty,invoice_status"`
	ProjectID *uint   `form:"project_id"`
	pagination.PageRequest
}

// ListTransactionsQuery holds the query parameters for listing transactions.
type ListTransactionsQuery struct {
	AccountID     *uint   `form:"account_id"`
	ReferenceType *string `form:"reference_type"`
}

// CreateInvoice handles invoice issuance. Besides creating the invoice it
// posts Debit Accounts Receivable / Credit Revenue to the ledger as one unit.
// @Summary     Issue an invoice
// @Description Create a new invoice and post it to the ledger (Admin or Manager)
// @Tags        finance
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateInvoiceRequest true "Invoice details"
// @Success     201 {object} models.Invoice "Invoice created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     409 {object} ErrorResponse "Duplicate invoice number"
// @Failure     500 {object} ErrorResponse "Posting failed"
// @Router      /finance/invoices [post]
func (h *FinanceHandler) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid due_date format"))
		return
	}

	invoice, err := h.ledgerService.CreateInvoice(services.InvoiceCreateInput{
		ProjectID:     req.ProjectID,
		InvoiceNumber: req.InvoiceNumber,
		ClientName:    req.ClientName,
		Amount:        req.Amount,
		DueDate:       dueDate,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Invoice created successfully",
		"invoice": invoice,
	})
}

// GetInvoices handles listing invoices
// @Summary     List invoices
// @Description Get invoices, newest first, optionally filtered by status and project
// @Tags        finance
// @Produce     json
// @Security    BearerAuth
// @Param       status     query string false "Invoice status filter"
// @Param       project_id query int    false "Project filter"
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} map[string]interface{} "Invoices"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /finance/invoices [get]
func (h *FinanceHandler) GetInvoices(c *gin.Context) {
	var query ListInvoicesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter := services.InvoiceFilter{ProjectID: query.ProjectID}
	if query.Status != nil {
		status := models.InvoiceStatus(*query.Status)
		filter.Status = &status
	}

	result, err := h.ledgerService.GetInvoices(filter, query.PageRequest)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":       len(result.Data),
		"invoices":    result.Data,
		"page":        result.Page,
		"total_items": result.TotalItems,
		"total_pages": result.TotalPages,
	})
}

// UpdateInvoiceStatus handles invoice status changes. Marking an invoice Paid
// posts the payment to the ledger; repeating it is a no-op.
// @Summary     Update invoice status
// @Description Change an invoice's status (Admin or Manager); the Paid transition posts the payment
// @Tags        finance
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                        true "Invoice ID"
// @Param       request body UpdateInvoiceStatusRequest true "New status"
// @Success     200 {object} models.Invoice "Updated invoice"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Forbidden"
// @Failure     404 {object} ErrorResponse "Invoice not found"
// @Failure     409 {object} ErrorResponse "Invoice already paid"
// @Failure     500 {object} ErrorResponse "Posting failed"
// @Router      /finance/invoices/{id} [put]
func (h *FinanceHandler) UpdateInvoiceStatus(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	invoice, err := h.ledgerService.UpdateInvoiceStatus(id, models.InvoiceStatus(req.Status))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Invoice status updated successfully",
		"invoice": invoice,
	})
}

// GetAccounts handles listing the chart of accounts
// @Summary     List accounts
// @Description Get the chart of accounts ordered by type then name
// @Tags        finance
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} map[string]interface{} "Accounts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /finance/accounts [get]
func (h *FinanceHandler) GetAccounts(c *gin.Context) {
	accounts, err := h.ledgerService.GetAccounts()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":    len(accounts),
		"accounts": accounts,
	})
}

// GetTransactions handles listing ledger transactions
// @Summary     List transactions
// @Description Get ledger transactions, newest first, capped at 100
// @Tags        finance
// @Produce     json
// @Security    BearerAuth
// @Param       account_id     query int    false "Account filter"
// @Param       reference_type query string false "Reference type filter (Invoice, Payment)"
// @Success     200 {object} map[string]interface{} "Transactions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /finance/transactions [get]
func (h *FinanceHandler) GetTransactions(c *gin.Context) {
	var query ListTransactionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transactions, err := h.ledgerService.GetTransactions(services.TransactionFilter{
		AccountID:     query.AccountID,
		ReferenceType: query.ReferenceType,
	}, 0)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":        len(transactions),
		"transactions": transactions,
	})
}
