package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the lifecycle state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "Pending"
	InvoiceStatusPaid      InvoiceStatus = "Paid"
	InvoiceStatusOverdue   InvoiceStatus = "Overdue"
	InvoiceStatusCancelled InvoiceStatus = "Cancelled"
)

// Invoice is a bill issued to a client. Issuing one posts Debit Accounts
// Receivable / Credit Revenue; the transition to Paid posts Debit Cash /
// Credit Accounts Receivable and stamps PaidDate.
type Invoice struct {
	Base
	ProjectID     *uint           `gorm:"index" json:"project_id,omitempty"`
	InvoiceNumber string          `gorm:"uniqueIndex;not null" json:"invoice_number"`
	ClientName    string          `gorm:"not null" json:"client_name"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Status        InvoiceStatus   `gorm:"not null;default:'Pending';index" json:"status"`
	DueDate       time.Time       `gorm:"not null" json:"due_date"`
	PaidDate      *time.Time      `json:"paid_date,omitempty"`

	Project *Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:SET NULL" json:"project,omitempty"`
}
