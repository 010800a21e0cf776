package user_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	usermodel "github.com/lazy-care/backend/internal/model/user"
	user "github.com/lazy-care/backend/internal/service/user"
	"github.com/lazy-care/backend/internal/store"
)

func newTestService(t *testing.T) *user.Service {
	t.Helper()
	path := filepath.Join(t.TempDir(), "users.json")
	return user.NewService(store.NewFileStore(path))
}

func strPtr(v string) *string { return &v }

func floatPtr(v float64) *float64 { return &v }

func unitPtr(v usermodel.WeightUnit) *usermodel.WeightUnit { return &v }

func TestCreateOrUpdateCreatesProfile(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	profile, created, err := svc.CreateOrUpdate(ctx, "alice", "a@x.com")
	if err != nil {
		t.Fatalf("CreateOrUpdate err: %v", err)
	}
	if !created {
		t.Fatal("expected new profile")
	}
	if profile.Username != "alice" || profile.Email != "a@x.com" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestCreateOrUpdateRefreshesUsername(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.CreateOrUpdate(ctx, "alice", "a@x.com"); err != nil {
		t.Fatalf("CreateOrUpdate err: %v", err)
	}

	profile, created, err := svc.CreateOrUpdate(ctx, "alice2", "a@x.com")
	if err != nil {
		t.Fatalf("CreateOrUpdate err: %v", err)
	}
	if created {
		t.Fatal("expected existing profile to be updated")
	}
	if profile.Username != "alice2" {
		t.Fatalf("expected refreshed username, got %q", profile.Username)
	}
}

func TestCreateOrUpdateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.CreateOrUpdate(ctx, "alice", ""); !errors.Is(err, user.ErrEmailRequired) {
		t.Fatalf("expected ErrEmailRequired, got %v", err)
	}
	if _, _, err := svc.CreateOrUpdate(ctx, "", "a@x.com"); !errors.Is(err, user.ErrUsernameRequired) {
		t.Fatalf("expected ErrUsernameRequired, got %v", err)
	}
}

func TestGetByEmailNotFound(t *testing.T) {
	svc := newTestService(t)

	_, found, err := svc.GetByEmail(context.Background(), "missing@x.com")
	if err != nil {
		t.Fatalf("GetByEmail err: %v", err)
	}
	if found {
		t.Fatal("expected not-found")
	}
}

func TestUpdateByEmailAppliesWhitelistedFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.CreateOrUpdate(ctx, "alice", "a@x.com"); err != nil {
		t.Fatalf("CreateOrUpdate err: %v", err)
	}

	update := user.Update{
		Birthday:   strPtr("1990-05-01"),
		Weight:     floatPtr(62.5),
		WeightUnit: unitPtr(usermodel.Kilograms),
		Gender:     strPtr("female"),
	}
	profile, found, err := svc.UpdateByEmail(ctx, "a@x.com", update)
	if err != nil {
		t.Fatalf("UpdateByEmail err: %v", err)
	}
	if !found {
		t.Fatal("expected profile to be found")
	}
	if profile.Birthday == nil || *profile.Birthday != "1990-05-01" {
		t.Fatalf("unexpected birthday: %v", profile.Birthday)
	}
	if profile.Weight == nil || *profile.Weight != 62.5 {
		t.Fatalf("unexpected weight: %v", profile.Weight)
	}
	if profile.WeightUnit == nil || *profile.WeightUnit != usermodel.Kilograms {
		t.Fatalf("unexpected unit: %v", profile.WeightUnit)
	}
	// Untouched fields survive.
	if profile.Username != "alice" {
		t.Fatalf("expected username preserved, got %q", profile.Username)
	}
}

func TestUpdateByEmailRejectsInvalidUnit(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.CreateOrUpdate(ctx, "alice", "a@x.com"); err != nil {
		t.Fatalf("CreateOrUpdate err: %v", err)
	}

	bad := usermodel.WeightUnit("stone")
	_, _, err := svc.UpdateByEmail(ctx, "a@x.com", user.Update{WeightUnit: &bad})
	if !errors.Is(err, user.ErrInvalidUnit) {
		t.Fatalf("expected ErrInvalidUnit, got %v", err)
	}
}

func TestUpdateByEmailNotFound(t *testing.T) {
	svc := newTestService(t)

	_, found, err := svc.UpdateByEmail(context.Background(), "missing@x.com", user.Update{Gender: strPtr("male")})
	if err != nil {
		t.Fatalf("UpdateByEmail err: %v", err)
	}
	if found {
		t.Fatal("expected not-found")
	}
}

func TestClearByEmailKeepsIdentity(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if _, _, err := svc.CreateOrUpdate(ctx, "alice", "a@x.com"); err != nil {
		t.Fatalf("CreateOrUpdate err: %v", err)
	}
	update := user.Update{
		Birthday:   strPtr("1990-05-01"),
		Weight:     floatPtr(62.5),
		WeightUnit: unitPtr(usermodel.Pounds),
		Gender:     strPtr("female"),
	}
	if _, _, err := svc.UpdateByEmail(ctx, "a@x.com", update); err != nil {
		t.Fatalf("UpdateByEmail err: %v", err)
	}

	profile, found, err := svc.ClearByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("ClearByEmail err: %v", err)
	}
	if !found {
		t.Fatal("expected profile to be found")
	}
	if profile.Birthday != nil || profile.Weight != nil || profile.WeightUnit != nil || profile.Gender != nil {
		t.Fatalf("expected optional fields cleared: %+v", profile)
	}
	if profile.Username != "alice" || profile.Email != "a@x.com" {
		t.Fatalf("expected identity retained: %+v", profile)
	}

	// The profile still exists afterwards.
	_, found, err = svc.GetByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("GetByEmail err: %v", err)
	}
	if !found {
		t.Fatal("expected profile to survive clearing")
	}
}
