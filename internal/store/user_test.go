package store

import (
	"testing"

	"github.com/dvasiliu/larder/internal/database"
)

func setupUserTestDB(t *testing.T) *UserStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUserStore(db)
}

func TestUserCreateAndGet(t *testing.T) {
	s := setupUserTestDB(t)

	u, err := s.Create("alice", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.Username != "alice" {
		t.Errorf("username = %q, want %q", u.Username, "alice")
	}
	if u.PasswordHash != "hash" {
		t.Errorf("password hash = %q, want %q", u.PasswordHash, "hash")
	}

	byID, err := s.GetByID(u.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID == nil || byID.Username != "alice" {
		t.Fatalf("expected alice, got %+v", byID)
	}

	byName, err := s.GetByUsername("alice")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if byName == nil || byName.ID != u.ID {
		t.Fatalf("expected user %d, got %+v", u.ID, byName)
	}
}

func TestUserGetMissing(t *testing.T) {
	s := setupUserTestDB(t)

	u, err := s.GetByUsername("nobody")
	if err != nil {
		t.Fatalf("get missing user: %v", err)
	}
	if u != nil {
		t.Fatalf("expected nil for missing user, got %+v", u)
	}
}

func TestUserDuplicateUsername(t *testing.T) {
	s := setupUserTestDB(t)

	if _, err := s.Create("alice", "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := s.Create("alice", "other"); err == nil {
		t.Fatal("expected error for duplicate username")
	}
}
