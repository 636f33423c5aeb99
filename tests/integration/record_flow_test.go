package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestExpenseFlow(t *testing.T) {
	app := setupApp(t)
	access, _, _ := app.registerUser(t, "spender@example.com", "password123")

	rec := app.request("POST", "/api/v1/expense-categories",
		`{"name":"Groceries","icon":"🛒"}`, access)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create category failed: %d %s", rec.Code, rec.Body.String())
	}
	categoryID := data(t, rec)["id"].(string)

	t.Run("create snapshots the category name", func(t *testing.T) {
		body := fmt.Sprintf(
			`{"amount":"249.50","category_id":%q,"payment_method":"upi","date":"2026-01-15","description":"weekly shop"}`,
			categoryID)
		rec := app.request("POST", "/api/v1/expenses", body, access)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create expense failed: %d %s", rec.Code, rec.Body.String())
		}
		expense := data(t, rec)
		if expense["category"] != "Groceries" {
			t.Errorf("expected snapshotted name, got %v", expense["category"])
		}

		// Renaming the category afterwards does not rewrite the record.
		rec = app.request("PUT", "/api/v1/expense-categories/"+categoryID,
			`{"name":"Food Shopping","icon":"🛒"}`, access)
		if rec.Code != http.StatusOK {
			t.Fatalf("rename failed: %d %s", rec.Code, rec.Body.String())
		}
		rec = app.request("GET", "/api/v1/expenses/"+expense["id"].(string), "", access)
		if data(t, rec)["category"] != "Groceries" {
			t.Error("expected record to keep the name at write time")
		}
	})

	t.Run("records are owner scoped", func(t *testing.T) {
		otherAccess, _, _ := app.registerUser(t, "other@example.com", "password123")

		rec := app.request("POST", "/api/v1/expenses",
			`{"amount":"75","category":"Snacks","payment_method":"cash","date":"2026-01-20"}`, access)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create failed: %d %s", rec.Code, rec.Body.String())
		}
		expenseID := data(t, rec)["id"].(string)

		rec = app.request("GET", "/api/v1/expenses/"+expenseID, "", otherAccess)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for another user's record, got %d", rec.Code)
		}
		rec = app.request("DELETE", "/api/v1/expenses/"+expenseID, "", otherAccess)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404 for another user's delete, got %d", rec.Code)
		}
	})

	t.Run("listing filters by date", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/expenses?from_date=2026-01-01&to_date=2026-01-16", "", access)
		if rec.Code != http.StatusOK {
			t.Fatalf("list failed: %d %s", rec.Code, rec.Body.String())
		}
		page := data(t, rec)
		if page["total_items"] != float64(1) {
			t.Errorf("expected 1 expense in window, got %v", page["total_items"])
		}
	})

	t.Run("income records mirror the expense surface", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/incomes",
			`{"amount":"90000","category":"Salary","payment_method":"netbanking","date":"2026-01-31","is_recurring":true,"recurring_frequency":"monthly"}`,
			access)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create income failed: %d %s", rec.Code, rec.Body.String())
		}
		incomeID := data(t, rec)["id"].(string)

		rec = app.request("PUT", "/api/v1/incomes/"+incomeID,
			`{"amount":"95000","category":"Salary","payment_method":"netbanking","date":"2026-01-31"}`, access)
		if rec.Code != http.StatusOK {
			t.Fatalf("update income failed: %d %s", rec.Code, rec.Body.String())
		}

		rec = app.request("DELETE", "/api/v1/incomes/"+incomeID, "", access)
		if rec.Code != http.StatusOK {
			t.Fatalf("delete income failed: %d %s", rec.Code, rec.Body.String())
		}
	})
}
