package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/mohamedjafersadhik43/construction-erp/internal/errors"
	"github.com/mohamedjafersadhik43/construction-erp/internal/models"
	"github.com/mohamedjafersadhik43/construction-erp/internal/pagination"
)

// transactionListCap bounds transaction listings.
const transactionListCap = 100

// ledgerService owns the chart of accounts and all double-entry postings.
// Every mutating operation runs as a single database transaction: either the
// full posting pair plus balance deltas (plus any status change) commits, or
// nothing does.
type ledgerService struct {
	db *gorm.DB
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(db *gorm.DB) LedgerServicer {
	return &ledgerService{db: db}
}

// SeedChartOfAccounts creates any missing seeded accounts and verifies that
// the accounts postings depend on are present. Call at startup after
// migrations; a missing required account afterwards is a configuration fault.
func (s *ledgerService) SeedChartOfAccounts() error {
	for _, seed := range defaultChart() {
		account := seed
		if err := s.db.Where("name = ?", account.Name).FirstOrCreate(&account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	for _, name := range []string{AccountNameCash, AccountNameReceivable, AccountNameRevenue} {
		if _, err := accountByName(s.db, name); err != nil {
			return err
		}
	}
	return nil
}

// accountByName resolves a seeded account. A missing account is reported as
// ErrAccountMissing rather than a generic not-found: the chart is fixed
// configuration, so absence is an operator error.
func accountByName(tx *gorm.DB, name string) (*models.Account, error) {
	var account models.Account
	if err := tx.Where("name = ?", name).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.WithMessage(apperrors.ErrAccountMissing, fmt.Sprintf("Ledger account %q is not configured", name))
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// postingDelta converts a (kind, account type) pair into the signed balance
// change for a posting of the given amount. Debits increase asset and expense
// balances and decrease the rest; credits are the mirror image.
func postingDelta(kind models.TransactionKind, accountType models.AccountType, amount decimal.Decimal) decimal.Decimal {
	increases := accountType.IncreasesWithDebit() == (kind == models.TransactionKindDebit)
	if increases {
		return amount
	}
	return amount.Neg()
}

// post writes one ledger entry and applies its signed delta to the account
// balance. The delta is applied as a single conditional UPDATE so concurrent
// postings to the same account cannot lose updates. Must be called inside a
// database transaction.
func (s *ledgerService) post(tx *gorm.DB, account *models.Account, kind models.TransactionKind, amount decimal.Decimal, description string, referenceID uint, referenceType string) error {
	refID := referenceID
	entry := &models.Transaction{
		AccountID:     account.ID,
		Kind:          kind,
		Amount:        amount,
		Description:   description,
		ReferenceID:   &refID,
		ReferenceType: referenceType,
	}
	if err := tx.Create(entry).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrPostingFailed, err)
	}

	delta := postingDelta(kind, account.Type, amount)
	res := tx.Model(&models.Account{}).
		Where("id = ?", account.ID).
		Update("balance", gorm.Expr("balance + ?", delta))
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrPostingFailed, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.WithMessage(apperrors.ErrAccountMissing, fmt.Sprintf("Ledger account %q disappeared during posting", account.Name))
	}
	return nil
}

// CreateInvoice validates and persists a new invoice and posts its issuance:
// Debit Accounts Receivable / Credit Revenue for the invoice amount. The
// invoice row, both ledger entries, and both balance deltas commit together
// or not at all.
func (s *ledgerService) CreateInvoice(input InvoiceCreateInput) (*models.Invoice, error) {
	if input.InvoiceNumber == "" || input.ClientName == "" || input.DueDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invoice_number, client_name, amount and due_date are required")
	}
	if !input.Amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invoice amount must be greater than zero")
	}

	if input.ProjectID != nil {
		var count int64
		if err := s.db.Model(&models.Project{}).Where("id = ?", *input.ProjectID).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrProjectNotFound
		}
	}

	var count int64
	if err := s.db.Model(&models.Invoice{}).Where("invoice_number = ?", input.InvoiceNumber).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return nil, apperrors.ErrDuplicateInvoiceNumber
	}

	invoice := &models.Invoice{
		ProjectID:     input.ProjectID,
		InvoiceNumber: input.InvoiceNumber,
		ClientName:    input.ClientName,
		Amount:        input.Amount,
		Status:        models.InvoiceStatusPending,
		DueDate:       input.DueDate,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		receivable, err := accountByName(tx, AccountNameReceivable)
		if err != nil {
			return err
		}
		revenue, err := accountByName(tx, AccountNameRevenue)
		if err != nil {
			return err
		}

		if err := tx.Create(invoice).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrPostingFailed, err)
		}

		desc := fmt.Sprintf("Invoice %s for %s", invoice.InvoiceNumber, invoice.ClientName)
		if err := s.post(tx, receivable, models.TransactionKindDebit, invoice.Amount, desc, invoice.ID, models.ReferenceTypeInvoice); err != nil {
			return err
		}

		revDesc := fmt.Sprintf("Revenue from Invoice %s", invoice.InvoiceNumber)
		return s.post(tx, revenue, models.TransactionKindCredit, invoice.Amount, revDesc, invoice.ID, models.ReferenceTypeInvoice)
	})
	if err != nil {
		return nil, err
	}

	return invoice, nil
}

// UpdateInvoiceStatus changes an invoice's status. The transition to Paid is
// the payment posting: inside one transaction a conditional update (guarded by
// the pre-transition status) flips the invoice to Paid and stamps paid_date,
// then Debit Cash / Credit Accounts Receivable are posted for the invoice
// amount. If another request already won the transition the whole unit is a
// no-op, so repeated or concurrent payments post exactly once. A paid invoice
// cannot move to any other status.
func (s *ledgerService) UpdateInvoiceStatus(invoiceID uint, status models.InvoiceStatus) (*models.Invoice, error) {
	invoice, err := s.getInvoice(invoiceID)
	if err != nil {
		return nil, err
	}

	if invoice.Status == models.InvoiceStatusPaid {
		if status == models.InvoiceStatusPaid {
			// Idempotent: already paid, nothing to post.
			return invoice, nil
		}
		return nil, apperrors.ErrInvoiceAlreadyPaid
	}

	if status != models.InvoiceStatusPaid {
		if err := s.db.Model(invoice).Update("status", status).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return s.getInvoice(invoiceID)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.Invoice{}).
			Where("id = ? AND status <> ?", invoiceID, models.InvoiceStatusPaid).
			Updates(map[string]interface{}{
				"status":    models.InvoiceStatusPaid,
				"paid_date": now,
			})
		if res.Error != nil {
			return apperrors.Wrap(apperrors.ErrPostingFailed, res.Error)
		}
		if res.RowsAffected == 0 {
			// Lost the race to a concurrent payment; commit nothing.
			return nil
		}

		cash, err := accountByName(tx, AccountNameCash)
		if err != nil {
			return err
		}
		receivable, err := accountByName(tx, AccountNameReceivable)
		if err != nil {
			return err
		}

		desc := fmt.Sprintf("Payment received for Invoice %s", invoice.InvoiceNumber)
		if err := s.post(tx, cash, models.TransactionKindDebit, invoice.Amount, desc, invoice.ID, models.ReferenceTypePayment); err != nil {
			return err
		}
		return s.post(tx, receivable, models.TransactionKindCredit, invoice.Amount, desc, invoice.ID, models.ReferenceTypePayment)
	})
	if err != nil {
		return nil, err
	}

	return s.getInvoice(invoiceID)
}

func (s *ledgerService) getInvoice(invoiceID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	if err := s.db.Preload("Project").First(&invoice, invoiceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvoiceNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &invoice, nil
}

// GetInvoices retrieves a paginated, filtered list of invoices, newest first.
func (s *ledgerService) GetInvoices(filter InvoiceFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Invoice], error) {
	page.Defaults()

	base := s.db.Model(&models.Invoice{})
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}
	if filter.ProjectID != nil {
		base = base.Where("project_id = ?", *filter.ProjectID)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var invoices []models.Invoice
	if err := base.Scopes(pagination.Paginate(page)).
		Preload("Project").
		Order("created_at DESC, id DESC").
		Find(&invoices).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(invoices, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetAccounts retrieves the chart of accounts ordered by type then name.
func (s *ledgerService) GetAccounts() ([]models.Account, error) {
	var accounts []models.Account
	if err := s.db.Order("type ASC, name ASC").Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return accounts, nil
}

// GetTransactions retrieves ledger entries newest first with their accounts
// preloaded. The listing is capped at transactionListCap regardless of the
// requested limit.
func (s *ledgerService) GetTransactions(filter TransactionFilter, limit int) ([]models.Transaction, error) {
	if limit <= 0 || limit > transactionListCap {
		limit = transactionListCap
	}

	q := s.db.Model(&models.Transaction{})
	if filter.AccountID != nil {
		q = q.Where("account_id = ?", *filter.AccountID)
	}
	if filter.ReferenceType != nil {
		q = q.Where("reference_type = ?", *filter.ReferenceType)
	}

	var transactions []models.Transaction
	if err := q.Preload("Account").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}
