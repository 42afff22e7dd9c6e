package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mmynk/billsplittr/internal/storage"
	"github.com/mmynk/billsplittr/internal/wizard"
)

func TestStore(t *testing.T) {
	store := New(time.Hour)
	defer store.Close()
	ctx := context.Background()

	session := wizard.New("s1", "en-US", "USD", time.Now())
	if err := store.Create(ctx, session); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	t.Run("Create rejects duplicates", func(t *testing.T) {
		if err := store.Create(ctx, session); err == nil {
			t.Error("expected error for duplicate session")
		}
	})

	t.Run("Get returns a copy", func(t *testing.T) {
		got, err := store.Get(ctx, "s1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		got.AddPerson("Mallory")

		again, _ := store.Get(ctx, "s1")
		if len(again.Bill.People) != 0 {
			t.Error("mutating a returned session changed the stored one")
		}
	})

	t.Run("Update commits on success", func(t *testing.T) {
		updated, err := store.Update(ctx, "s1", func(s *wizard.Session) error {
			s.AddPerson("Alice")
			return nil
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if len(updated.Bill.People) != 1 {
			t.Errorf("expected 1 person, got %d", len(updated.Bill.People))
		}
	})

	t.Run("Update rolls back on error", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := store.Update(ctx, "s1", func(s *wizard.Session) error {
			s.AddPerson("Bob")
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		got, _ := store.Get(ctx, "s1")
		if len(got.Bill.People) != 1 {
			t.Errorf("failed update leaked: %+v", got.Bill.People)
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		if _, err := store.Get(ctx, "nope"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Get: got %v", err)
		}
		if _, err := store.Update(ctx, "nope", func(*wizard.Session) error { return nil }); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Update: got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := store.Delete(ctx, "s1"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if err := store.Delete(ctx, "s1"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("second Delete: got %v", err)
		}
	})
}

func TestStore_Expiry(t *testing.T) {
	store := New(time.Minute)
	now := time.Unix(1000, 0)
	store.now = func() time.Time { return now }
	evicted := 0
	store.OnEvict = func(n int) { evicted += n }
	ctx := context.Background()

	for _, id := range []string{"a", "b"} {
		if err := store.Create(ctx, wizard.New(id, "en-US", "USD", now)); err != nil {
			t.Fatal(err)
		}
	}

	now = now.Add(45 * time.Second)
	if _, err := store.Get(ctx, "a"); err != nil {
		t.Fatalf("a should still be live: %v", err)
	}

	now = now.Add(30 * time.Second)
	if n := store.Sweep(); n != 1 {
		t.Errorf("Sweep removed %d, want 1", n)
	}
	if evicted != 1 {
		t.Errorf("OnEvict saw %d", evicted)
	}
	if _, err := store.Get(ctx, "b"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("b should have expired: %v", err)
	}

	now = now.Add(2 * time.Minute)
	if _, err := store.Get(ctx, "a"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("a should expire on access: %v", err)
	}
	if evicted != 2 {
		t.Errorf("OnEvict saw %d after expiry on access", evicted)
	}
	if store.Len() != 0 {
		t.Errorf("Len = %d", store.Len())
	}
}

func TestStore_ConcurrentUpdates(t *testing.T) {
	store := New(0)
	ctx := context.Background()
	if err := store.Create(ctx, wizard.New("s", "en-US", "USD", time.Now())); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(ctx, "s", func(s *wizard.Session) error {
				s.AddItem()
				return nil
			})
			if err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	got, _ := store.Get(ctx, "s")
	if len(got.Bill.Items) != 51 {
		t.Errorf("expected 51 items, got %d", len(got.Bill.Items))
	}
}

func TestStore_Janitor(t *testing.T) {
	store := New(time.Nanosecond)
	store.StartJanitor(time.Millisecond)
	if err := store.Create(context.Background(), wizard.New("x", "en-US", "USD", time.Now())); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for store.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}
	if store.Len() != 0 {
		t.Error("janitor did not evict the expired session")
	}
}
