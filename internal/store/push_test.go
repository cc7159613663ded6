package store

import (
	"testing"

	"github.com/mediscan/mediscan/internal/database"
)

func setupPushTestDB(t *testing.T) (*PushStore, *UserStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPushStore(db), NewUserStore(db)
}

func TestPushUpsert(t *testing.T) {
	ps, us := setupPushTestDB(t)

	u, _ := us.Create("alice@example.com", "hash", "Alice", "Smith", "")

	sub, err := ps.Upsert(u.ID, "https://push.example/ep1", "p256dh", "auth")
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if sub.Endpoint != "https://push.example/ep1" {
		t.Errorf("endpoint = %q", sub.Endpoint)
	}

	// Same endpoint again replaces keys instead of duplicating rows.
	updated, err := ps.Upsert(u.ID, "https://push.example/ep1", "p256dh2", "auth2")
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if updated.P256dhKey != "p256dh2" {
		t.Errorf("p256dh_key = %q, want %q", updated.P256dhKey, "p256dh2")
	}

	subs, err := ps.ListByUser(u.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subs) != 1 {
		t.Errorf("len = %d, want 1", len(subs))
	}
}

func TestPushDeleteByEndpoint(t *testing.T) {
	ps, us := setupPushTestDB(t)

	u, _ := us.Create("alice@example.com", "hash", "Alice", "Smith", "")
	ps.Upsert(u.ID, "https://push.example/ep1", "k", "a")

	if err := ps.DeleteByEndpoint("https://push.example/ep1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	subs, _ := ps.ListByUser(u.ID)
	if len(subs) != 0 {
		t.Errorf("len = %d, want 0", len(subs))
	}

	if err := ps.DeleteByEndpoint("https://push.example/missing"); err != nil {
		t.Fatalf("delete missing endpoint: %v", err)
	}
}
