package services

import (
	"context"
	"testing"
	"time"

	"paisabook/internal/cache"
	"paisabook/internal/models"
	"paisabook/internal/testutil"
)

func newProfileCache() cache.Cache[*models.Profile] {
	return cache.NewTTLCache[*models.Profile](time.Minute)
}

func TestGetProfile(t *testing.T) {
	t.Run("miss_then_hit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		c := newProfileCache()
		svc := NewProfileService(db, c)
		user := testutil.CreateTestUser(t, db)

		profile, err := svc.GetProfile(context.Background(), user.ID)
		testutil.AssertNoError(t, err)
		if profile.UserID != user.ID {
			t.Errorf("expected profile for %s, got %s", user.ID, profile.UserID)
		}
		if c.Size() != 1 {
			t.Errorf("expected 1 cached entry after read, got %d", c.Size())
		}

		// A second read is served from cache even if the row disappears.
		db.Where("user_id = ?", user.ID).Delete(&models.Profile{})
		cached, err := svc.GetProfile(context.Background(), user.ID)
		testutil.AssertNoError(t, err)
		if cached.UserID != user.ID {
			t.Error("expected cached profile to be returned")
		}
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db, newProfileCache())

		_, err := svc.GetProfile(context.Background(), "9b9e7a5e-0000-0000-0000-000000000000")
		testutil.AssertAppError(t, err, "PROFILE_NOT_FOUND")
	})
}

func TestUpdateProfile(t *testing.T) {
	t.Run("partial_update_invalidates_cache", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		c := newProfileCache()
		svc := NewProfileService(db, c)
		user := testutil.CreateTestUser(t, db)

		_, err := svc.GetProfile(context.Background(), user.ID)
		testutil.AssertNoError(t, err)
		if c.Size() != 1 {
			t.Fatalf("expected cache primed, got %d entries", c.Size())
		}

		size := 4
		done := true
		updated, err := svc.UpdateProfile(user.ID, ProfileUpdate{
			HouseholdSize:       &size,
			OnboardingCompleted: &done,
			FinancialGoals:      []string{"emergency fund", "retire early"},
		})
		testutil.AssertNoError(t, err)
		if updated.HouseholdSize != 4 || !updated.OnboardingCompleted {
			t.Errorf("expected updates applied, got %+v", updated)
		}
		if len(updated.FinancialGoals) != 2 {
			t.Errorf("expected 2 goals, got %d", len(updated.FinancialGoals))
		}
		if c.Size() != 0 {
			t.Errorf("expected cache invalidated on write, got %d entries", c.Size())
		}

		// The next read reflects the write.
		fresh, err := svc.GetProfile(context.Background(), user.ID)
		testutil.AssertNoError(t, err)
		if fresh.HouseholdSize != 4 {
			t.Errorf("expected fresh read to see household size 4, got %d", fresh.HouseholdSize)
		}
	})

	t.Run("rejects_household_below_one", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db, newProfileCache())
		user := testutil.CreateTestUser(t, db)

		zero := 0
		_, err := svc.UpdateProfile(user.ID, ProfileUpdate{HouseholdSize: &zero})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("not_found", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewProfileService(db, newProfileCache())

		phone := "+911234567890"
		_, err := svc.UpdateProfile("9b9e7a5e-0000-0000-0000-000000000000", ProfileUpdate{Phone: &phone})
		testutil.AssertAppError(t, err, "PROFILE_NOT_FOUND")
	})
}
