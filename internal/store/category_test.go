package store

import (
	"testing"

	"github.com/dvasiliu/larder/internal/database"
)

func setupCategoryTestDB(t *testing.T) (*CategoryStore, *InventoryStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewCategoryStore(db), NewInventoryStore(db)
}

func TestCategorySeedData(t *testing.T) {
	cs, _ := setupCategoryTestDB(t)

	categories, err := cs.List()
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(categories) != 1 {
		t.Fatalf("expected 1 seed category, got %d", len(categories))
	}
	if categories[0].Name != "Else" {
		t.Errorf("seed name = %q, want %q", categories[0].Name, "Else")
	}
	if len(categories[0].SubTypes) != 1 || categories[0].SubTypes[0] != "Else" {
		t.Errorf("seed subtypes = %v, want [Else]", categories[0].SubTypes)
	}
}

func TestCategoryCreateAndNameExists(t *testing.T) {
	cs, _ := setupCategoryTestDB(t)

	c, err := cs.Create("Food")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if c.Name != "Food" {
		t.Errorf("name = %q, want %q", c.Name, "Food")
	}
	if len(c.SubTypes) != 0 {
		t.Errorf("expected no subtypes, got %v", c.SubTypes)
	}

	exists, err := cs.NameExists("Food", 0)
	if err != nil {
		t.Fatalf("name exists: %v", err)
	}
	if !exists {
		t.Error("expected Food to exist")
	}

	// The category itself is excluded when checking for rename conflicts.
	exists, err = cs.NameExists("Food", c.ID)
	if err != nil {
		t.Fatalf("name exists with exclude: %v", err)
	}
	if exists {
		t.Error("expected no conflict when excluding own id")
	}
}

func TestCategoryRenameCascadesToInventory(t *testing.T) {
	cs, is := setupCategoryTestDB(t)

	c, err := cs.Create("Food")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	item, err := is.Create("Milk", 1, "Food", "Dairy")
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	other, err := is.Create("Soap", 1, "Household", "Bathroom")
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	renamed, err := cs.Rename(c.ID, "Groceries")
	if err != nil {
		t.Fatalf("rename category: %v", err)
	}
	if renamed.Name != "Groceries" {
		t.Errorf("renamed name = %q, want %q", renamed.Name, "Groceries")
	}

	got, _ := is.GetByID(item.ID)
	if got.Type != "Groceries" {
		t.Errorf("cascaded type = %q, want %q", got.Type, "Groceries")
	}
	if got.SubType != "Dairy" {
		t.Errorf("sub_type = %q, want untouched %q", got.SubType, "Dairy")
	}

	got, _ = is.GetByID(other.ID)
	if got.Type != "Household" {
		t.Errorf("unrelated item type = %q, want %q", got.Type, "Household")
	}
}

func TestCategoryRenameMissing(t *testing.T) {
	cs, _ := setupCategoryTestDB(t)

	c, err := cs.Rename(999, "Whatever")
	if err != nil {
		t.Fatalf("rename missing: %v", err)
	}
	if c != nil {
		t.Fatalf("expected nil for missing category, got %+v", c)
	}
}

func TestCategoryDeleteBlanksInventory(t *testing.T) {
	cs, is := setupCategoryTestDB(t)

	c, err := cs.Create("Food")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	item, err := is.Create("Milk", 1, "Food", "Dairy")
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	if err := cs.Delete(c.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}

	got, _ := cs.GetByID(c.ID)
	if got != nil {
		t.Fatalf("expected category gone, got %+v", got)
	}

	// The item survives with its tags blanked.
	inv, _ := is.GetByID(item.ID)
	if inv == nil {
		t.Fatal("expected item to survive category delete")
	}
	if inv.Type != "" || inv.SubType != "" {
		t.Errorf("type/sub_type = %q/%q, want blank", inv.Type, inv.SubType)
	}
}

func TestSubTypeOrdering(t *testing.T) {
	cs, _ := setupCategoryTestDB(t)

	c, err := cs.Create("Food")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	for _, name := range []string{"Dairy", "Meat", "Bakery"} {
		if _, err := cs.AddSubType(c.ID, name); err != nil {
			t.Fatalf("add subtype %s: %v", name, err)
		}
	}

	got, err := cs.GetByID(c.ID)
	if err != nil {
		t.Fatalf("get category: %v", err)
	}
	want := []string{"Dairy", "Meat", "Bakery"}
	if len(got.SubTypes) != len(want) {
		t.Fatalf("expected %d subtypes, got %v", len(want), got.SubTypes)
	}
	for i, name := range want {
		if got.SubTypes[i] != name {
			t.Errorf("subtypes[%d] = %q, want %q", i, got.SubTypes[i], name)
		}
	}
}

func TestSubTypeRenameCascadesToInventory(t *testing.T) {
	cs, is := setupCategoryTestDB(t)

	c, err := cs.Create("Food")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if _, err := cs.AddSubType(c.ID, "Dairy"); err != nil {
		t.Fatalf("add subtype: %v", err)
	}

	milk, err := is.Create("Milk", 1, "Food", "Dairy")
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	// Same subtype name under a different category must not be touched.
	cheese, err := is.Create("Cheese", 1, "Snacks", "Dairy")
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	got, err := cs.RenameSubType(c.ID, "Dairy", "Milk Products")
	if err != nil {
		t.Fatalf("rename subtype: %v", err)
	}
	if len(got.SubTypes) != 1 || got.SubTypes[0] != "Milk Products" {
		t.Errorf("subtypes = %v, want [Milk Products]", got.SubTypes)
	}

	inv, _ := is.GetByID(milk.ID)
	if inv.SubType != "Milk Products" {
		t.Errorf("cascaded sub_type = %q, want %q", inv.SubType, "Milk Products")
	}
	inv, _ = is.GetByID(cheese.ID)
	if inv.SubType != "Dairy" {
		t.Errorf("other category sub_type = %q, want untouched %q", inv.SubType, "Dairy")
	}
}

func TestSubTypeDeleteBlanksInventorySubTypeOnly(t *testing.T) {
	cs, is := setupCategoryTestDB(t)

	c, err := cs.Create("Food")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if _, err := cs.AddSubType(c.ID, "Dairy"); err != nil {
		t.Fatalf("add subtype: %v", err)
	}
	item, err := is.Create("Milk", 1, "Food", "Dairy")
	if err != nil {
		t.Fatalf("create item: %v", err)
	}

	got, err := cs.DeleteSubType(c.ID, "Dairy")
	if err != nil {
		t.Fatalf("delete subtype: %v", err)
	}
	if len(got.SubTypes) != 0 {
		t.Errorf("subtypes = %v, want empty", got.SubTypes)
	}

	inv, _ := is.GetByID(item.ID)
	if inv.Type != "Food" {
		t.Errorf("type = %q, want kept %q", inv.Type, "Food")
	}
	if inv.SubType != "" {
		t.Errorf("sub_type = %q, want blank", inv.SubType)
	}
}
