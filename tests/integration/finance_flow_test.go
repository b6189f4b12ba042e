package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
)

// findAccountBalance pulls one account's balance out of the accounts listing.
func findAccountBalance(t *testing.T, app *testApp, token, name string) decimal.Decimal {
	t.Helper()
	rec := app.request("GET", "/api/finance/accounts", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list accounts failed: %d %s", rec.Code, rec.Body.String())
	}
	accounts := parseJSON(t, rec)["accounts"].([]interface{})
	for _, raw := range accounts {
		account := raw.(map[string]interface{})
		if account["account_name"] == name {
			return decimal.RequireFromString(account["balance"].(string))
		}
	}
	t.Fatalf("account %q not found in listing", name)
	return decimal.Zero
}

func TestFinanceFlow_InvoiceLifecycle(t *testing.T) {
	app := setupApp(t)
	managerToken, _ := app.registerUser(t, "Manager")

	// Issue an invoice: receivable and revenue move, cash does not.
	body := `{"invoice_number":"INV-2026-001","client_name":"Acme Construction","amount":5000,"due_date":"2026-10-01"}`
	rec := app.request("POST", "/api/finance/invoices", body, managerToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create invoice failed: %d %s", rec.Code, rec.Body.String())
	}
	invoice := parseJSON(t, rec)["invoice"].(map[string]interface{})
	invoiceID := invoice["id"].(float64)
	if invoice["status"] != "Pending" {
		t.Errorf("expected status Pending, got %v", invoice["status"])
	}

	if got := findAccountBalance(t, app, managerToken, "Accounts Receivable"); !got.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("expected receivable 5000, got %s", got)
	}
	if got := findAccountBalance(t, app, managerToken, "Revenue"); !got.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("expected revenue 5000, got %s", got)
	}
	if got := findAccountBalance(t, app, managerToken, "Cash"); !got.IsZero() {
		t.Errorf("expected cash 0, got %s", got)
	}

	// Mark paid: cash up, receivable cleared.
	rec = app.request("PUT", fmt.Sprintf("/api/finance/invoices/%.0f", invoiceID),
		`{"status":"Paid"}`, managerToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("mark paid failed: %d %s", rec.Code, rec.Body.String())
	}
	paid := parseJSON(t, rec)["invoice"].(map[string]interface{})
	if paid["status"] != "Paid" {
		t.Errorf("expected status Paid, got %v", paid["status"])
	}
	if paid["paid_date"] == nil {
		t.Error("expected paid_date to be set")
	}

	if got := findAccountBalance(t, app, managerToken, "Cash"); !got.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("expected cash 5000, got %s", got)
	}
	if got := findAccountBalance(t, app, managerToken, "Accounts Receivable"); !got.IsZero() {
		t.Errorf("expected receivable 0, got %s", got)
	}

	// Paying again is a no-op.
	rec = app.request("PUT", fmt.Sprintf("/api/finance/invoices/%.0f", invoiceID),
		`{"status":"Paid"}`, managerToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("repeat payment failed: %d %s", rec.Code, rec.Body.String())
	}
	if got := findAccountBalance(t, app, managerToken, "Cash"); !got.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("expected cash unchanged at 5000, got %s", got)
	}

	// A paid invoice cannot change status.
	rec = app.request("PUT", fmt.Sprintf("/api/finance/invoices/%.0f", invoiceID),
		`{"status":"Cancelled"}`, managerToken)
	assertErrorCode(t, rec, http.StatusConflict, "INVOICE_ALREADY_PAID")

	// Four ledger entries: the invoice pair and the payment pair.
	rec = app.request("GET", "/api/finance/transactions", "", managerToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("list transactions failed: %d %s", rec.Code, rec.Body.String())
	}
	if count := parseJSON(t, rec)["count"].(float64); count != 4 {
		t.Errorf("expected 4 ledger entries, got %v", count)
	}

	rec = app.request("GET", "/api/finance/transactions?reference_type=Payment", "", managerToken)
	if count := parseJSON(t, rec)["count"].(float64); count != 2 {
		t.Errorf("expected 2 payment entries, got %v", count)
	}
}

func TestFinanceFlow_DuplicateInvoiceNumber(t *testing.T) {
	app := setupApp(t)
	managerToken, _ := app.registerUser(t, "Manager")

	body := `{"invoice_number":"INV-2026-002","client_name":"Acme Construction","amount":100,"due_date":"2026-10-01"}`
	rec := app.request("POST", "/api/finance/invoices", body, managerToken)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create invoice failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("POST", "/api/finance/invoices", body, managerToken)
	assertErrorCode(t, rec, http.StatusConflict, "DUPLICATE_INVOICE_NUMBER")
}

func TestFinanceFlow_RoleEnforcement(t *testing.T) {
	app := setupApp(t)
	userToken, _ := app.registerUser(t, "User")

	body := `{"invoice_number":"INV-2026-003","client_name":"Acme Construction","amount":100,"due_date":"2026-10-01"}`
	rec := app.request("POST", "/api/finance/invoices", body, userToken)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user invoice creation, got %d: %s", rec.Code, rec.Body.String())
	}

	// Read-only finance endpoints stay open to authenticated users.
	rec = app.request("GET", "/api/finance/invoices", "", userToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("user invoice listing failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.request("GET", "/api/finance/accounts", "", userToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("user accounts listing failed: %d %s", rec.Code, rec.Body.String())
	}
}

func TestFinanceFlow_InvoiceFilters(t *testing.T) {
	app := setupApp(t)
	managerToken, _ := app.registerUser(t, "Manager")

	for i := 1; i <= 3; i++ {
		body := fmt.Sprintf(`{"invoice_number":"INV-F-%d","client_name":"Acme Construction","amount":100,"due_date":"2026-10-01"}`, i)
		rec := app.request("POST", "/api/finance/invoices", body, managerToken)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create invoice failed: %d %s", rec.Code, rec.Body.String())
		}
		if i == 1 {
			invoice := parseJSON(t, rec)["invoice"].(map[string]interface{})
			rec = app.request("PUT", fmt.Sprintf("/api/finance/invoices/%.0f", invoice["id"].(float64)),
				`{"status":"Paid"}`, managerToken)
			if rec.Code != http.StatusOK {
				t.Fatalf("mark paid failed: %d %s", rec.Code, rec.Body.String())
			}
		}
	}

	rec := app.request("GET", "/api/finance/invoices?status=Pending", "", managerToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("filtered listing failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["total_items"].(float64) != 2 {
		t.Errorf("expected 2 pending invoices, got %v", result["total_items"])
	}

	rec = app.request("GET", "/api/finance/invoices?page=1&page_size=2", "", managerToken)
	result = parseJSON(t, rec)
	if result["count"].(float64) != 2 || result["total_pages"].(float64) != 2 {
		t.Errorf("unexpected pagination: %v", result)
	}
}
