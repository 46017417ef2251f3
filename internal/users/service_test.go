package users

import (
	"context"
	"errors"
	"testing"
)

func TestUpsertFromAuthRequiresIDAndEmail(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	if err := svc.UpsertFromAuth(context.Background(), User{Email: "a@b.com"}); err == nil {
		t.Fatal("expected error for missing id")
	}
	if err := svc.UpsertFromAuth(context.Background(), User{ID: "google:1"}); err == nil {
		t.Fatal("expected error for missing email")
	}
}

func TestUpsertFromAuthPreservesCreatedAt(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	base := User{ID: "google:1", Email: "a@b.com", FullName: "Ada"}
	if err := svc.UpsertFromAuth(ctx, base); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	first, err := svc.GetByID(ctx, "google:1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	base.FullName = "Ada L."
	if err := svc.UpsertFromAuth(ctx, base); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	second, err := svc.GetByID(ctx, "google:1")
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}

	if second.FullName != "Ada L." {
		t.Fatalf("expected updated name, got %q", second.FullName)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatal("expected CreatedAt to survive the upsert")
	}
}

func TestGetByIDUnknownUser(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	_, err := svc.GetByID(context.Background(), "google:missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
