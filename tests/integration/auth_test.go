package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestAuthFlow(t *testing.T) {
	app := setupApp(t)

	t.Run("register then login", func(t *testing.T) {
		access, refresh, userID := app.registerUser(t, "flow@example.com", "password123")
		if access == "" || refresh == "" || userID == "" {
			t.Fatal("expected tokens and user ID from registration")
		}

		access2, _ := app.loginUser(t, "flow@example.com", "password123")

		rec := app.request("GET", "/api/v1/auth/me", "", access2)
		if rec.Code != http.StatusOK {
			t.Fatalf("me failed: %d %s", rec.Code, rec.Body.String())
		}
		me := data(t, rec)
		if me["email"] != "flow@example.com" {
			t.Errorf("expected own user, got %v", me["email"])
		}
	})

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		app.registerUser(t, "dup@example.com", "password123")

		rec := app.request("POST", "/api/v1/auth/register",
			`{"email":"dup@example.com","password":"password123"}`, "")
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", rec.Code)
		}
	})

	t.Run("protected route rejects missing token", func(t *testing.T) {
		rec := app.request("GET", "/api/v1/auth/me", "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})

	t.Run("refresh rotates and invalidates old token", func(t *testing.T) {
		_, refresh, _ := app.registerUser(t, "rotate@example.com", "password123")

		rec := app.request("POST", "/api/v1/auth/refresh",
			fmt.Sprintf(`{"refresh_token":%q}`, refresh), "")
		if rec.Code != http.StatusOK {
			t.Fatalf("refresh failed: %d %s", rec.Code, rec.Body.String())
		}
		rotated := data(t, rec)
		if rotated["refresh_token"] == refresh {
			t.Error("expected a new refresh token after rotation")
		}

		// The superseded token no longer matches the stored hash.
		rec = app.request("POST", "/api/v1/auth/refresh",
			fmt.Sprintf(`{"refresh_token":%q}`, refresh), "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 for superseded token, got %d", rec.Code)
		}
	})

	t.Run("logout stops refresh", func(t *testing.T) {
		access, refresh, _ := app.registerUser(t, "logout@example.com", "password123")

		rec := app.request("POST", "/api/v1/auth/logout", "", access)
		if rec.Code != http.StatusOK {
			t.Fatalf("logout failed: %d %s", rec.Code, rec.Body.String())
		}

		rec = app.request("POST", "/api/v1/auth/refresh",
			fmt.Sprintf(`{"refresh_token":%q}`, refresh), "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 after logout, got %d", rec.Code)
		}
	})

	t.Run("profile exists right after registration", func(t *testing.T) {
		access, _, _ := app.registerUser(t, "onboard@example.com", "password123")

		rec := app.request("GET", "/api/v1/profile", "", access)
		if rec.Code != http.StatusOK {
			t.Fatalf("profile fetch failed: %d %s", rec.Code, rec.Body.String())
		}
		profile := data(t, rec)
		if profile["onboarding_completed"] != false {
			t.Errorf("expected fresh profile, got %v", profile)
		}

		rec = app.request("PUT", "/api/v1/profile",
			`{"household_size":3,"financial_goals":["house"],"onboarding_completed":true}`, access)
		if rec.Code != http.StatusOK {
			t.Fatalf("profile update failed: %d %s", rec.Code, rec.Body.String())
		}
		updated := data(t, rec)
		if updated["household_size"] != float64(3) || updated["onboarding_completed"] != true {
			t.Errorf("expected onboarding applied, got %v", updated)
		}
	})
}
