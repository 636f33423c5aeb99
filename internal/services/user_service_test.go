package services

import (
	"testing"

	"paisabook/internal/models"
	"paisabook/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("valid_with_profile", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("Alice@Example.com", "supersecret", "Alice")
		testutil.AssertNoError(t, err)

		if user.Email != "alice@example.com" {
			t.Errorf("expected lowercased email, got %s", user.Email)
		}
		if user.Provider != models.AuthProviderLocal {
			t.Errorf("expected local provider, got %s", user.Provider)
		}

		var profileCount int64
		db.Model(&models.Profile{}).Where("user_id = ?", user.ID).Count(&profileCount)
		if profileCount != 1 {
			t.Errorf("expected a profile row, got %d", profileCount)
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("bob@example.com", "supersecret", "")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("BOB@example.com", "supersecret", "")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})

	t.Run("missing_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("", "pw", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
		_, err = svc.CreateUser("a@b.com", "", "")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestVerifyPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)

	user, err := svc.CreateUser("carol@example.com", "correct-horse", "")
	testutil.AssertNoError(t, err)

	if !svc.VerifyPassword(user, "correct-horse") {
		t.Error("expected correct password to verify")
	}
	if svc.VerifyPassword(user, "wrong") {
		t.Error("expected wrong password to fail")
	}

	// Google-only accounts have no hash and never verify.
	googleUser := &models.User{Provider: models.AuthProviderGoogle}
	if svc.VerifyPassword(googleUser, "anything") {
		t.Error("expected password login to fail for account without hash")
	}
}

func TestUpsertGoogleUser(t *testing.T) {
	t.Run("creates_new_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.UpsertGoogleUser("dave@example.com", "Dave", "google-sub-1", "https://img/d.png")
		testutil.AssertNoError(t, err)

		if user.Provider != models.AuthProviderGoogle {
			t.Errorf("expected google provider, got %s", user.Provider)
		}
		if user.LastLoginAt == nil {
			t.Error("expected last login stamped")
		}

		var profileCount int64
		db.Model(&models.Profile{}).Where("user_id = ?", user.ID).Count(&profileCount)
		if profileCount != 1 {
			t.Errorf("expected a profile row, got %d", profileCount)
		}
	})

	t.Run("links_existing_local_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		local, err := svc.CreateUser("erin@example.com", "supersecret", "Erin")
		testutil.AssertNoError(t, err)

		linked, err := svc.UpsertGoogleUser("erin@example.com", "Erin G", "google-sub-2", "")
		testutil.AssertNoError(t, err)

		if linked.ID != local.ID {
			t.Errorf("expected existing account linked, got new user %s", linked.ID)
		}
		if linked.GoogleSubject != "google-sub-2" {
			t.Error("expected google subject stored on linked account")
		}
		// The local password still works after linking.
		if !svc.VerifyPassword(linked, "supersecret") {
			t.Error("expected local password to survive linking")
		}
	})

	t.Run("repeat_login_matches_by_subject", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		first, err := svc.UpsertGoogleUser("frank@example.com", "Frank", "google-sub-3", "")
		testutil.AssertNoError(t, err)
		second, err := svc.UpsertGoogleUser("frank@example.com", "Frank", "google-sub-3", "")
		testutil.AssertNoError(t, err)

		if first.ID != second.ID {
			t.Errorf("expected same user on repeat login, got %s and %s", first.ID, second.ID)
		}

		var count int64
		db.Model(&models.User{}).Count(&count)
		if count != 1 {
			t.Errorf("expected 1 user, got %d", count)
		}
	})
}

func TestRefreshTokenHash(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewUserService(db)
	user := testutil.CreateTestUser(t, db)

	testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, "abc123"))

	hash, err := svc.GetRefreshTokenHash(user.ID)
	testutil.AssertNoError(t, err)
	if hash != "abc123" {
		t.Errorf("expected stored hash, got %q", hash)
	}

	err = svc.StoreRefreshTokenHash("9b9e7a5e-0000-0000-0000-000000000000", "x")
	testutil.AssertAppError(t, err, "USER_NOT_FOUND")
}
