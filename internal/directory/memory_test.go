package directory

import (
	"context"
	"errors"
	"testing"

	"userdesk.org/internal/auth"
)

func TestMemoryCreateAndFind(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	u := &User{Email: "a@x.com", Name: "A", Role: auth.RoleUser, PasswordHash: "hash"}
	if err := store.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == "" {
		t.Fatal("expected generated id")
	}
	if u.CreatedAt.IsZero() || u.UpdatedAt.IsZero() {
		t.Fatal("expected server-managed timestamps")
	}

	got, err := store.Find(ctx, u.ID)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got.Email != "a@x.com" {
		t.Fatalf("unexpected email: %s", got.Email)
	}

	byEmail, err := store.FindByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if byEmail.ID != u.ID {
		t.Fatalf("expected id %s, got %s", u.ID, byEmail.ID)
	}

	if _, err := store.Find(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryEmailUniqueness(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	if err := store.Create(ctx, &User{Email: "a@x.com", Name: "A", Role: auth.RoleUser}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := store.Create(ctx, &User{Email: "a@x.com", Name: "B", Role: auth.RoleUser})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestMemoryUpdate(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	a := &User{Email: "a@x.com", Name: "A", Role: auth.RoleUser}
	b := &User{Email: "b@x.com", Name: "B", Role: auth.RoleUser}
	for _, u := range []*User{a, b} {
		if err := store.Create(ctx, u); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	name := "A Updated"
	phone := "+1-555-0100"
	updated, err := store.Update(ctx, a.ID, UserUpdate{Name: &name, Phone: &phone})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != name {
		t.Fatalf("unexpected name: %s", updated.Name)
	}
	if updated.Phone == nil || *updated.Phone != phone {
		t.Fatalf("unexpected phone: %v", updated.Phone)
	}

	empty := ""
	updated, err = store.Update(ctx, a.ID, UserUpdate{Phone: &empty})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Phone != nil {
		t.Fatalf("expected cleared phone, got %v", *updated.Phone)
	}

	taken := "b@x.com"
	if _, err := store.Update(ctx, a.ID, UserUpdate{Email: &taken}); !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	fresh := "a2@x.com"
	if _, err := store.Update(ctx, a.ID, UserUpdate{Email: &fresh}); err != nil {
		t.Fatalf("Update email: %v", err)
	}
	if _, err := store.FindByEmail(ctx, "a@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("old email should be released, got %v", err)
	}

	if _, err := store.Update(ctx, "missing", UserUpdate{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryDelete(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	u := &User{Email: "a@x.com", Name: "A", Role: auth.RoleUser}
	if err := store.Create(ctx, u); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Delete(ctx, u.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := store.Delete(ctx, u.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("repeated delete should be ErrNotFound, got %v", err)
	}
	// Email is free for reuse after deletion.
	if err := store.Create(ctx, &User{Email: "a@x.com", Name: "A2", Role: auth.RoleUser}); err != nil {
		t.Fatalf("Create after delete: %v", err)
	}
}

func TestMemoryListOrder(t *testing.T) {
	store := NewMemory()
	ctx := context.Background()

	for _, email := range []string{"c@x.com", "a@x.com", "b@x.com"} {
		if err := store.Create(ctx, &User{Email: email, Name: email, Role: auth.RoleUser}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	users, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("expected 3 users, got %d", len(users))
	}
	for i := 1; i < len(users); i++ {
		if users[i-1].ID > users[i].ID {
			t.Fatal("expected creation order")
		}
	}
}
