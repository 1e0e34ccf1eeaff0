package store

import (
	"path/filepath"
	"testing"
	"time"

	"medstock/m/domain"
)

func newSQLiteStore(t *testing.T) *Store {
	t.Helper()
	kv, err := OpenSQLiteKV(filepath.Join(t.TempDir(), "shop.db"))
	if err != nil {
		t.Fatalf("open sqlite kv: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	s := New(kv)
	if err := s.Init(); err != nil {
		t.Fatalf("init store: %v", err)
	}
	return s
}

// Init writes an empty session record, which the sqlite substrate must
// accept as a zero-length payload rather than SQL NULL.
func TestSQLiteStoreInit(t *testing.T) {
	s := newSQLiteStore(t)

	user, err := s.CurrentUser()
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if user != nil {
		t.Fatalf("fresh store has session user %q", user.Username)
	}
	users, err := s.Users()
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 1 || users[0].Username != "admin" {
		t.Fatalf("seeded users = %+v", users)
	}
}

func TestSQLiteStoreSessionLifecycle(t *testing.T) {
	s := newSQLiteStore(t)

	user, err := s.Authenticate("admin", "admin123")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user == nil {
		t.Fatal("valid credentials rejected")
	}
	current, err := s.CurrentUser()
	if err != nil {
		t.Fatalf("current user: %v", err)
	}
	if current == nil || current.Username != "admin" {
		t.Fatalf("session user = %+v", current)
	}

	if err := s.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	current, err = s.CurrentUser()
	if err != nil {
		t.Fatalf("current user after logout: %v", err)
	}
	if current != nil {
		t.Fatalf("session survived logout: %+v", current)
	}
}

// The sale cascade runs the same on the durable backend: sale, stock
// decrement and derived alert commit in one transaction.
func TestSQLiteStoreSaleCascade(t *testing.T) {
	s := newSQLiteStore(t)

	m := medicineFixture(time.Now().AddDate(1, 0, 0))
	m.Quantity = 12
	m.MinStockLevel = 10
	added, err := s.AddMedicine(m)
	if err != nil {
		t.Fatalf("add medicine: %v", err)
	}

	if _, err := s.AddSale(saleFixture(added, 5)); err != nil {
		t.Fatalf("add sale: %v", err)
	}

	got, err := s.MedicineByID(added.ID)
	if err != nil {
		t.Fatalf("reload medicine: %v", err)
	}
	if got.Quantity != 7 {
		t.Fatalf("quantity = %d, want 7", got.Quantity)
	}
	if alerts := alertsOfType(t, s, domain.AlertLowStock); len(alerts) != 1 {
		t.Fatalf("low stock alerts = %d, want 1", len(alerts))
	}
}
