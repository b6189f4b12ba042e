package services

import "github.com/mohamedjafersadhik43/construction-erp/internal/models"

// Names of the seeded accounts that postings resolve at runtime.
const (
	AccountNameCash       = "Cash"
	AccountNameReceivable = "Accounts Receivable"
	AccountNameRevenue    = "Revenue"
)

// defaultChart is the fixed chart of accounts created at bootstrap.
// Balances start at zero and are mutated only by ledger postings.
func defaultChart() []models.Account {
	return []models.Account{
		{Name: AccountNameCash, Type: models.AccountTypeAsset, Description: "Cash on hand and in bank"},
		{Name: AccountNameReceivable, Type: models.AccountTypeAsset, Description: "Money owed by clients"},
		{Name: "Equipment", Type: models.AccountTypeAsset, Description: "Construction equipment and machinery"},
		{Name: "Accounts Payable", Type: models.AccountTypeLiability, Description: "Money owed to suppliers"},
		{Name: AccountNameRevenue, Type: models.AccountTypeRevenue, Description: "Income from projects"},
		{Name: "Labor Expense", Type: models.AccountTypeExpense, Description: "Wages and salaries"},
		{Name: "Materials Expense", Type: models.AccountTypeExpense, Description: "Construction materials cost"},
		{Name: "Equipment Expense", Type: models.AccountTypeExpense, Description: "Equipment rental and maintenance"},
	}
}
