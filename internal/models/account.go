package models

import "github.com/shopspring/decimal"

// AccountType classifies entries in the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "Asset"
	AccountTypeLiability AccountType = "Liability"
	AccountTypeRevenue   AccountType = "Revenue"
	AccountTypeExpense   AccountType = "Expense"
	AccountTypeEquity    AccountType = "Equity"
)

// IncreasesWithDebit reports whether a debit increases balances of this
// account type. Asset and expense accounts grow on the debit side;
// liability, revenue, and equity accounts grow on the credit side.
func (t AccountType) IncreasesWithDebit() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// Account is one entry in the chart of accounts with a running balance.
// Accounts are created once at bootstrap and mutated only by ledger postings.
type Account struct {
	Base
	Name        string          `gorm:"uniqueIndex;not null" json:"account_name"`
	Type        AccountType     `gorm:"not null" json:"account_type"`
	Balance     decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"balance"`
	Description string          `json:"description"`

	Transactions []Transaction `gorm:"foreignKey:AccountID" json:"transactions,omitempty"`
}
