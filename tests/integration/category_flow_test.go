package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestCategoryFlow(t *testing.T) {
	app := setupApp(t)
	access, _, _ := app.registerUser(t, "categories@example.com", "password123")

	t.Run("category type seeds defaults", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/category-types",
			`{"type_name":"Essential","description":"Needs"}`, access)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create type failed: %d %s", rec.Code, rec.Body.String())
		}

		// Seeding creates starter expense categories under the new type.
		rec = app.request("GET", "/api/v1/expense-categories", "", access)
		if rec.Code != http.StatusOK {
			t.Fatalf("list failed: %d %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		seeded, ok := result["data"].([]interface{})
		if !ok || len(seeded) == 0 {
			t.Fatalf("expected seeded categories, got %s", rec.Body.String())
		}
	})

	t.Run("expense category and subcategory lifecycle", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/expense-categories",
			`{"name":"Travel","icon":"✈️"}`, access)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create category failed: %d %s", rec.Code, rec.Body.String())
		}
		categoryID := data(t, rec)["id"].(string)

		rec = app.request("POST",
			fmt.Sprintf("/api/v1/expense-categories/%s/subcategories", categoryID),
			`{"name":"Flights"}`, access)
		if rec.Code != http.StatusCreated {
			t.Fatalf("add subcategory failed: %d %s", rec.Code, rec.Body.String())
		}

		// Same name again conflicts within the parent.
		rec = app.request("POST",
			fmt.Sprintf("/api/v1/expense-categories/%s/subcategories", categoryID),
			`{"name":"Flights"}`, access)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409 for duplicate subcategory, got %d", rec.Code)
		}

		// Rename the subcategory by its current name.
		rec = app.request("PUT",
			fmt.Sprintf("/api/v1/expense-categories/%s/subcategories/Flights", categoryID),
			`{"name":"Domestic"}`, access)
		if rec.Code != http.StatusOK {
			t.Fatalf("rename subcategory failed: %d %s", rec.Code, rec.Body.String())
		}

		rec = app.request("DELETE",
			fmt.Sprintf("/api/v1/expense-categories/%s/subcategories/Domestic", categoryID),
			"", access)
		if rec.Code != http.StatusOK {
			t.Fatalf("delete subcategory failed: %d %s", rec.Code, rec.Body.String())
		}

		// Deactivating the category hides it from the listing.
		rec = app.request("DELETE", "/api/v1/expense-categories/"+categoryID, "", access)
		if rec.Code != http.StatusOK {
			t.Fatalf("deactivate failed: %d %s", rec.Code, rec.Body.String())
		}
		rec = app.request("GET", "/api/v1/expense-categories", "", access)
		result := parseJSON(t, rec)
		for _, item := range result["data"].([]interface{}) {
			if item.(map[string]interface{})["name"] == "Travel" {
				t.Error("expected deactivated category hidden from listing")
			}
		}
	})

	t.Run("income subcategories addressed by id", func(t *testing.T) {
		rec := app.request("POST", "/api/v1/income-categories", `{"name":"Consulting"}`, access)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create income category failed: %d %s", rec.Code, rec.Body.String())
		}
		categoryID := data(t, rec)["id"].(string)

		rec = app.request("POST",
			fmt.Sprintf("/api/v1/income-categories/%s/subcategories", categoryID),
			`{"name":"Retainer","is_recurring":true}`, access)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create subcategory failed: %d %s", rec.Code, rec.Body.String())
		}
		subID := data(t, rec)["id"].(string)

		rec = app.request("PUT", "/api/v1/income-subcategories/"+subID,
			`{"is_recurring":false}`, access)
		if rec.Code != http.StatusOK {
			t.Fatalf("update subcategory failed: %d %s", rec.Code, rec.Body.String())
		}
		if data(t, rec)["is_recurring"] != false {
			t.Error("expected recurrence cleared")
		}

		rec = app.request("DELETE", "/api/v1/income-subcategories/"+subID, "", access)
		if rec.Code != http.StatusOK {
			t.Fatalf("delete subcategory failed: %d %s", rec.Code, rec.Body.String())
		}
	})
}
