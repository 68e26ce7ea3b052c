package store

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/jelmberg/commission-tracker/internal/domain"
)

func TestSaveGetDelete(t *testing.T) {
	s, err := New("")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tx := domain.New("tx-1")
	tx.Address = "45090 Club Dr"
	if err := s.Save(tx); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Get("tx-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Address != "45090 Club Dr" {
		t.Errorf("Address = %q, want %q", got.Address, "45090 Club Dr")
	}

	// Mutating the returned copy must not affect the stored record.
	got.Address = "changed"
	again, _ := s.Get("tx-1")
	if again.Address != "45090 Club Dr" {
		t.Error("Get returned a shared reference instead of a copy")
	}

	if err := s.Delete("tx-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get("tx-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete error = %v, want ErrNotFound", err)
	}
	if err := s.Delete("tx-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete error = %v, want ErrNotFound", err)
	}
}

func TestListPreservesInsertionOrder(t *testing.T) {
	s, err := New("")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for _, id := range []string{"c", "a", "b"} {
		if err := s.Save(domain.New(id)); err != nil {
			t.Fatalf("Save(%q) failed: %v", id, err)
		}
	}

	list := s.List()
	if len(list) != 3 {
		t.Fatalf("List returned %d records, want 3", len(list))
	}
	for i, want := range []string{"c", "a", "b"} {
		if list[i].ID != want {
			t.Errorf("List[%d].ID = %q, want %q", i, list[i].ID, want)
		}
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.json")

	s, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tx := domain.New("tx-1")
	tx.ClosedPrice = 990000
	tx.CommissionPct = 2.41
	tx.NCI = 19261.64
	if err := s.Save(tx); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Save(domain.New("tx-2")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded, err := New(path)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	list := reloaded.List()
	if len(list) != 2 {
		t.Fatalf("reloaded %d records, want 2", len(list))
	}
	if list[0].ID != "tx-1" || list[1].ID != "tx-2" {
		t.Errorf("reload lost insertion order: %q, %q", list[0].ID, list[1].ID)
	}
	if list[0].ClosedPrice != 990000 || list[0].NCI != 19261.64 {
		t.Errorf("reloaded record lost values: %+v", list[0])
	}
}

func TestReplaceAllDropsSessions(t *testing.T) {
	s, err := New("")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	tx := domain.New("tx-1")
	if err := s.Save(tx); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	sess := s.Session("tx-1")
	sess.Touch(tx, domain.FieldNCI)
	if !sess.Pinned(domain.FieldNCI) {
		t.Fatal("expected NCI pinned")
	}

	if err := s.ReplaceAll([]*domain.Transaction{domain.New("tx-9")}); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	if s.Session("tx-1").Pinned(domain.FieldNCI) {
		t.Error("session survived ReplaceAll")
	}
	if _, err := s.Get("tx-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("old record survived ReplaceAll: %v", err)
	}
	if _, err := s.Get("tx-9"); err != nil {
		t.Errorf("new record missing after ReplaceAll: %v", err)
	}
}
