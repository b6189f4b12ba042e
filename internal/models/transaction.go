package models

import "github.com/shopspring/decimal"

// TransactionKind is the side of a ledger posting.
type TransactionKind string

const (
	TransactionKindDebit  TransactionKind = "Debit"
	TransactionKindCredit TransactionKind = "Credit"
)

// Reference types for the economic event behind a transaction.
const (
	ReferenceTypeInvoice = "Invoice"
	ReferenceTypePayment = "Payment"
)

// Transaction is one immutable ledger entry. Every economic event posts a
// pair of them (one debit, one credit) of equal amount. ReferenceID and
// ReferenceType point back at the event for reporting only; they carry no
// ownership.
type Transaction struct {
	Base
	AccountID     uint            `gorm:"not null;index" json:"account_id"`
	Kind          TransactionKind `gorm:"not null" json:"transaction_type"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	Description   string          `json:"description"`
	ReferenceID   *uint           `gorm:"index:idx_transactions_reference" json:"reference_id,omitempty"`
	ReferenceType string          `gorm:"index:idx_transactions_reference" json:"reference_type,omitempty"`

	Account Account `gorm:"foreignKey:AccountID" json:"account,omitempty"`
}
