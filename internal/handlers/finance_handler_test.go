package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/mohamedjafersadhik43/construction-erp/internal/errors"
	"github.com/mohamedjafersadhik43/construction-erp/internal/models"
	"github.com/mohamedjafersadhik43/construction-erp/internal/pagination"
	"github.com/mohamedjafersadhik43/construction-erp/internal/services"
)

type mockLedgerService struct {
	seedFn                func() error
	createInvoiceFn       func(input services.InvoiceCreateInput) (*models.Invoice, error)
	updateInvoiceStatusFn func(invoiceID uint, status models.InvoiceStatus) (*models.Invoice, error)
	getInvoicesFn         func(filter services.InvoiceFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Invoice], error)
	getAccountsFn         func() ([]models.Account, error)
	getTransactionsFn     func(filter services.TransactionFilter, limit int) ([]models.Transaction, error)
}

func (m *mockLedgerService) SeedChartOfAccounts() error {
	if m.seedFn != nil {
		return m.seedFn()
	}
	return nil
}

func (m *mockLedgerService) CreateInvoice(input services.InvoiceCreateInput) (*models.Invoice, error) {
	if m.createInvoiceFn != nil {
		return m.createInvoiceFn(input)
	}
	return &models.Invoice{}, nil
}

func (m *mockLedgerService) UpdateInvoiceStatus(invoiceID uint, status models.InvoiceStatus) (*models.Invoice, error) {
	if m.updateInvoiceStatusFn != nil {
		return m.updateInvoiceStatusFn(invoiceID, status)
	}
	return &models.Invoice{}, nil
}

func (m *mockLedgerService) GetInvoices(filter services.InvoiceFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Invoice], error) {
	if m.getInvoicesFn != nil {
		return m.getInvoicesFn(filter, page)
	}
	resp := pagination.NewPageResponse([]models.Invoice{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockLedgerService) GetAccounts() ([]models.Account, error) {
	if m.getAccountsFn != nil {
		return m.getAccountsFn()
	}
	return []models.Account{}, nil
}

func (m *mockLedgerService) GetTransactions(filter services.TransactionFilter, limit int) ([]models.Transaction, error) {
	if m.getTransactionsFn != nil {
		return m.getTransactionsFn(filter, limit)
	}
	return []models.Transaction{}, nil
}

func setupFinanceRouter(handler *FinanceHandler) *gin.Engine {
	r := gin.New()
	r.POST("/finance/invoices", handler.CreateInvoice)
	r.GET("/finance/invoices", handler.GetInvoices)
	r.PUT("/finance/invoices/:id", handler.UpdateInvoiceStatus)
	r.GET("/finance/accounts", handler.GetAccounts)
	r.GET("/finance/transactions", handler.GetTransactions)
	return r
}

func TestCreateInvoiceHandler(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		var captured services.InvoiceCreateInput
		mock := &mockLedgerService{
			createInvoiceFn: func(input services.InvoiceCreateInput) (*models.Invoice, error) {
				captured = input
				return &models.Invoice{
					Base:          models.Base{ID: 1},
					InvoiceNumber: input.InvoiceNumber,
					ClientName:    input.ClientName,
					Amount:        input.Amount,
					Status:        models.InvoiceStatusPending,
					DueDate:       input.DueDate,
				}, nil
			},
		}
		r := setupFinanceRouter(NewFinanceHandler(mock))

		rec := doRequest(r, "POST", "/finance/invoices",
			`{"invoice_number":"INV-001","client_name":"Acme Construction","amount":5000,"due_date":"2026-10-01"}`)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}

		if captured.InvoiceNumber != "INV-001" {
			t.Errorf("expected invoice number INV-001, got %s", captured.InvoiceNumber)
		}
		if !captured.Amount.Equal(decimal.NewFromInt(5000)) {
			t.Errorf("expected amount 5000, got %s", captured.Amount)
		}
		want := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
		if !captured.DueDate.Equal(want) {
			t.Errorf("expected due date %v, got %v", want, captured.DueDate)
		}

		invoice := parseJSON(t, rec)["invoice"].(map[string]interface{})
		if invoice["status"] != "Pending" {
			t.Errorf("expected status Pending, got %v", invoice["status"])
		}
	})

	t.Run("invalid_due_date", func(t *testing.T) {
		r := setupFinanceRouter(NewFinanceHandler(&mockLedgerService{}))
		rec := doRequest(r, "POST", "/finance/invoices",
			`{"invoice_number":"INV-001","client_name":"Acme Construction","amount":5000,"due_date":"October 1st"}`)
		assertErrorCode(t, rec, http.StatusBadRequest, "INVALID_INPUT")
	})

	t.Run("missing_fields", func(t *testing.T) {
		r := setupFinanceRouter(NewFinanceHandler(&mockLedgerService{}))
		rec := doRequest(r, "POST", "/finance/invoices", `{"invoice_number":"INV-001"}`)
		assertErrorCode(t, rec, http.StatusBadRequest, "INVALID_INPUT")
	})

	t.Run("duplicate_number", func(t *testing.T) {
		mock := &mockLedgerService{
			createInvoiceFn: func(_ services.InvoiceCreateInput) (*models.Invoice, error) {
				return nil, apperrors.ErrDuplicateInvoiceNumber
			},
		}
		r := setupFinanceRouter(NewFinanceHandler(mock))
		rec := doRequest(r, "POST", "/finance/invoices",
			`{"invoice_number":"INV-001","client_name":"Acme Construction","amount":5000,"due_date":"2026-10-01"}`)
		assertErrorCode(t, rec, http.StatusConflict, "DUPLICATE_INVOICE_NUMBER")
	})
}

func TestUpdateInvoiceStatusHandler(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		var gotID uint
		var gotStatus models.InvoiceStatus
		mock := &mockLedgerService{
			updateInvoiceStatusFn: func(invoiceID uint, status models.InvoiceStatus) (*models.Invoice, error) {
				gotID, gotStatus = invoiceID, status
				return &models.Invoice{Base: models.Base{ID: invoiceID}, Status: status}, nil
			},
		}
		r := setupFinanceRouter(NewFinanceHandler(mock))

		rec := doRequest(r, "PUT", "/finance/invoices/7", `{"status":"Paid"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotID != 7 || gotStatus != models.InvoiceStatusPaid {
			t.Errorf("expected (7, Paid), got (%d, %s)", gotID, gotStatus)
		}
	})

	t.Run("invalid_status_value", func(t *testing.T) {
		r := setupFinanceRouter(NewFinanceHandler(&mockLedgerService{}))
		rec := doRequest(r, "PUT", "/finance/invoices/7", `{"status":"Shredded"}`)
		assertErrorCode(t, rec, http.StatusBadRequest, "INVALID_INPUT")
	})

	t.Run("invalid_id", func(t *testing.T) {
		r := setupFinanceRouter(NewFinanceHandler(&mockLedgerService{}))
		rec := doRequest(r, "PUT", "/finance/invoices/abc", `{"status":"Paid"}`)
		assertErrorCode(t, rec, http.StatusBadRequest, "INVALID_INPUT")
	})

	t.Run("already_paid", func(t *testing.T) {
		mock := &mockLedgerService{
			updateInvoiceStatusFn: func(_ uint, _ models.InvoiceStatus) (*models.Invoice, error) {
				return nil, apperrors.ErrInvoiceAlreadyPaid
			},
		}
		r := setupFinanceRouter(NewFinanceHandler(mock))
		rec := doRequest(r, "PUT", "/finance/invoices/7", `{"status":"Cancelled"}`)
		assertErrorCode(t, rec, http.StatusConflict, "INVOICE_ALREADY_PAID")
	})
}

func TestGetInvoicesHandler(t *testing.T) {
	t.Run("passes_filters", func(t *testing.T) {
		var gotFilter services.InvoiceFilter
		var gotPage pagination.PageRequest
		mock := &mockLedgerService{
			getInvoicesFn: func(filter services.InvoiceFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Invoice], error) {
				gotFilter, gotPage = filter, page
				resp := pagination.NewPageResponse([]models.Invoice{{Base: models.Base{ID: 1}}}, page.Page, page.PageSize, 1)
				return &resp, nil
			},
		}
		r := setupFinanceRouter(NewFinanceHandler(mock))

		rec := doRequest(r, "GET", "/finance/invoices?status=Pending&project_id=3&page=2&page_size=10", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFilter.Status == nil || *gotFilter.Status != models.InvoiceStatusPending {
			t.Errorf("expected Pending status filter, got %v", gotFilter.Status)
		}
		if gotFilter.ProjectID == nil || *gotFilter.ProjectID != 3 {
			t.Errorf("expected project filter 3, got %v", gotFilter.ProjectID)
		}
		if gotPage.Page != 2 || gotPage.PageSize != 10 {
			t.Errorf("expected page 2 size 10, got %+v", gotPage)
		}

		result := parseJSON(t, rec)
		if result["count"].(float64) != 1 {
			t.Errorf("expected count 1, got %v", result["count"])
		}
	})

	t.Run("rejects_bad_status", func(t *testing.T) {
		r := setupFinanceRouter(NewFinanceHandler(&mockLedgerService{}))
		rec := doRequest(r, "GET", "/finance/invoices?status=Lost", "")
		assertErrorCode(t, rec, http.StatusBadRequest, "INVALID_INPUT")
	})
}

func TestGetTransactionsHandler(t *testing.T) {
	t.Run("passes_filters", func(t *testing.T) {
		var gotFilter services.TransactionFilter
		mock := &mockLedgerService{
			getTransactionsFn: func(filter services.TransactionFilter, limit int) ([]models.Transaction, error) {
				gotFilter = filter
				return []models.Transaction{{Base: models.Base{ID: 1}}}, nil
			},
		}
		r := setupFinanceRouter(NewFinanceHandler(mock))

		rec := doRequest(r, "GET", "/finance/transactions?account_id=2&reference_type=Payment", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotFilter.AccountID == nil || *gotFilter.AccountID != 2 {
			t.Errorf("expected account filter 2, got %v", gotFilter.AccountID)
		}
		if gotFilter.ReferenceType == nil || *gotFilter.ReferenceType != models.ReferenceTypePayment {
			t.Errorf("expected Payment reference filter, got %v", gotFilter.ReferenceType)
		}
	})
}
