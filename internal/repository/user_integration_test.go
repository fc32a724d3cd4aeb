//go:build integration

package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/formdrop/formdrop/internal/testutil"
)

func TestIntegrationUser_CreateAssignsIdentity(t *testing.T) {
	ctx, repo := newIntegrationEnv(t)

	user := testutil.NewTestUser(t, "ann")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if user.ID == 0 {
		t.Error("expected storage-assigned ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("expected storage-assigned created_at")
	}
}

func TestIntegrationUser_NilMessageStoredAsNull(t *testing.T) {
	ctx, repo := newIntegrationEnv(t)

	user := testutil.NewTestUser(t, "no-message")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	var isNull bool
	err := repo.Pool().QueryRow(ctx,
		"SELECT message IS NULL FROM users WHERE id = $1", user.ID,
	).Scan(&isNull)
	if err != nil {
		t.Fatalf("query message: %v", err)
	}
	if !isNull {
		t.Error("expected message to be NULL")
	}
}

func TestIntegrationUser_DuplicateEmail(t *testing.T) {
	ctx, repo := newIntegrationEnv(t)

	first := testutil.NewTestUser(t, "dup")
	if err := repo.CreateUser(ctx, first); err != nil {
		t.Fatalf("first CreateUser failed: %v", err)
	}

	second := testutil.NewTestUser(t, "dup")
	second.Email = first.Email
	err := repo.CreateUser(ctx, second)
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	n, err := testutil.CountUsersByEmail(ctx, repo.Pool(), first.Email)
	if err != nil {
		t.Fatalf("count users: %v", err)
	}
	if n != 1 {
		t.Errorf("expected exactly one row for %s, got %d", first.Email, n)
	}
}

func TestIntegrationUser_ListNewestFirst(t *testing.T) {
	ctx, repo := newIntegrationEnv(t)

	older := testutil.NewTestUser(t, "older")
	older.Message = testutil.StringPtr("first")
	if err := repo.CreateUser(ctx, older); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	// created_at must differ between the two rows
	time.Sleep(10 * time.Millisecond)

	newer := testutil.NewTestUser(t, "newer")
	if err := repo.CreateUser(ctx, newer); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	users, err := repo.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}

	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	if users[0].ID != newer.ID || users[1].ID != older.ID {
		t.Errorf("expected newest first, got ids %d, %d", users[0].ID, users[1].ID)
	}
	if !users[0].CreatedAt.After(users[1].CreatedAt) {
		t.Error("expected created_at descending")
	}
	if users[1].Message == nil || *users[1].Message != "first" {
		t.Errorf("expected message to round-trip, got %v", users[1].Message)
	}
	for _, u := range users {
		if u.PasswordHash != "" {
			t.Error("ListUsers must not load password hashes")
		}
	}
}

func TestIntegrationUser_ListEmpty(t *testing.T) {
	ctx, repo := newIntegrationEnv(t)

	users, err := repo.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if users == nil || len(users) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", users)
	}
}
