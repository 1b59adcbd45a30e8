package store

import (
	"testing"

	"github.com/dvasiliu/larder/internal/database"
)

func setupDrinkTestDB(t *testing.T) *DrinkStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewDrinkStore(db)
}

func TestDrinkCRUD(t *testing.T) {
	s := setupDrinkTestDB(t)

	d, err := s.Create("Riesling", "Wine", "2024-06", 12.5, "dry")
	if err != nil {
		t.Fatalf("create drink: %v", err)
	}
	if d.Name != "Riesling" || d.Type != "Wine" || d.Date != "2024-06" {
		t.Errorf("drink = %+v", d)
	}
	if d.Price != 12.5 || d.Comment != "dry" {
		t.Errorf("price/comment = %v/%q, want 12.5/dry", d.Price, d.Comment)
	}

	updated, err := s.Update(d.ID, "Riesling", "Wine", "2024-07", 13, "")
	if err != nil {
		t.Fatalf("update drink: %v", err)
	}
	if updated.Date != "2024-07" || updated.Price != 13 || updated.Comment != "" {
		t.Errorf("updated = %+v", updated)
	}

	if err := s.Delete(d.ID); err != nil {
		t.Fatalf("delete drink: %v", err)
	}
	got, err := s.GetByID(d.ID)
	if err != nil {
		t.Fatalf("get deleted drink: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil after delete, got %+v", got)
	}
}

func TestDrinkListFilters(t *testing.T) {
	s := setupDrinkTestDB(t)

	mustCreate := func(name, typ string) {
		t.Helper()
		if _, err := s.Create(name, typ, "2024-01", 1, ""); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	mustCreate("Pale Ale", "Beer")
	mustCreate("Amber Ale", "Beer")
	mustCreate("Merlot", "Wine")

	drinks, err := s.List(DrinkFilter{Name: "ale"})
	if err != nil {
		t.Fatalf("list by name: %v", err)
	}
	if len(drinks) != 2 {
		t.Fatalf("expected 2 ales, got %d", len(drinks))
	}
	// Alphabetical by name.
	if drinks[0].Name != "Amber Ale" {
		t.Errorf("expected Amber Ale first, got %q", drinks[0].Name)
	}

	drinks, err = s.List(DrinkFilter{Type: "Wine"})
	if err != nil {
		t.Fatalf("list by type: %v", err)
	}
	if len(drinks) != 1 || drinks[0].Name != "Merlot" {
		t.Fatalf("expected [Merlot], got %+v", drinks)
	}
}

func TestConsumeMovesDrink(t *testing.T) {
	s := setupDrinkTestDB(t)

	d, err := s.Create("Riesling", "Wine", "2024-06", 12.5, "dry")
	if err != nil {
		t.Fatalf("create drink: %v", err)
	}

	drunk, err := s.Consume(d.ID)
	if err != nil {
		t.Fatalf("consume drink: %v", err)
	}
	if drunk == nil {
		t.Fatal("expected drunk drink, got nil")
	}
	if drunk.Name != "Riesling" || drunk.Type != "Wine" || drunk.Date != "2024-06" {
		t.Errorf("drunk = %+v", drunk)
	}
	if drunk.Price != 12.5 || drunk.Comment != "dry" {
		t.Errorf("price/comment = %v/%q, want carried over", drunk.Price, drunk.Comment)
	}
	if drunk.ConsumedAt.IsZero() {
		t.Error("expected consumed_at to be set")
	}

	// The original is gone.
	got, err := s.GetByID(d.ID)
	if err != nil {
		t.Fatalf("get consumed drink: %v", err)
	}
	if got != nil {
		t.Fatalf("expected drink removed after consume, got %+v", got)
	}
}

func TestConsumeMissingDrink(t *testing.T) {
	s := setupDrinkTestDB(t)

	drunk, err := s.Consume(999)
	if err != nil {
		t.Fatalf("consume missing: %v", err)
	}
	if drunk != nil {
		t.Fatalf("expected nil for missing drink, got %+v", drunk)
	}
}

func TestUpdateDrunkComment(t *testing.T) {
	s := setupDrinkTestDB(t)

	d, err := s.Create("Riesling", "Wine", "2024-06", 12.5, "")
	if err != nil {
		t.Fatalf("create drink: %v", err)
	}
	drunk, err := s.Consume(d.ID)
	if err != nil {
		t.Fatalf("consume drink: %v", err)
	}

	got, err := s.UpdateDrunkComment(drunk.ID, "would buy again")
	if err != nil {
		t.Fatalf("update comment: %v", err)
	}
	if got.Comment != "would buy again" {
		t.Errorf("comment = %q, want %q", got.Comment, "would buy again")
	}
	if got.Name != "Riesling" {
		t.Errorf("name = %q, want untouched %q", got.Name, "Riesling")
	}
}
