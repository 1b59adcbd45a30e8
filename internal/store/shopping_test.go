package store

import (
	"testing"

	"github.com/dvasiliu/larder/internal/database"
)

func setupShoppingTestDB(t *testing.T) (*ShoppingStore, *InventoryStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewShoppingStore(db), NewInventoryStore(db)
}

func TestShoppingListCRUD(t *testing.T) {
	ss, _ := setupShoppingTestDB(t)

	list, err := ss.Create("Weekly")
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	if list.Name != "Weekly" {
		t.Errorf("name = %q, want %q", list.Name, "Weekly")
	}
	if len(list.Items) != 0 {
		t.Errorf("expected no items, got %v", list.Items)
	}

	exists, err := ss.NameExists("Weekly")
	if err != nil {
		t.Fatalf("name exists: %v", err)
	}
	if !exists {
		t.Error("expected Weekly to exist")
	}

	if err := ss.Delete(list.ID); err != nil {
		t.Fatalf("delete list: %v", err)
	}
	got, err := ss.GetByID(list.ID)
	if err != nil {
		t.Fatalf("get deleted list: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil after delete, got %+v", got)
	}
}

func TestAddItemMergesQuantities(t *testing.T) {
	ss, _ := setupShoppingTestDB(t)

	list, err := ss.Create("Weekly")
	if err != nil {
		t.Fatalf("create list: %v", err)
	}

	if _, err := ss.AddItem(list.ID, "Milk", 2); err != nil {
		t.Fatalf("add item: %v", err)
	}
	got, err := ss.AddItem(list.ID, "Milk", 3)
	if err != nil {
		t.Fatalf("add item again: %v", err)
	}

	if len(got.Items) != 1 {
		t.Fatalf("expected 1 merged entry, got %d", len(got.Items))
	}
	if got.Items[0].Quantity != 5 {
		t.Errorf("quantity = %v, want 5", got.Items[0].Quantity)
	}
}

func TestDeleteItemIdempotent(t *testing.T) {
	ss, _ := setupShoppingTestDB(t)

	list, err := ss.Create("Weekly")
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	if _, err := ss.AddItem(list.ID, "Milk", 2); err != nil {
		t.Fatalf("add item: %v", err)
	}

	got, err := ss.DeleteItem(list.ID, "Milk")
	if err != nil {
		t.Fatalf("delete item: %v", err)
	}
	if len(got.Items) != 0 {
		t.Fatalf("expected empty list, got %v", got.Items)
	}

	// Deleting again is not an error.
	got, err = ss.DeleteItem(list.ID, "Milk")
	if err != nil {
		t.Fatalf("delete absent item: %v", err)
	}
	if len(got.Items) != 0 {
		t.Fatalf("expected empty list, got %v", got.Items)
	}
}

func TestBuyItemIncrementsExistingInventory(t *testing.T) {
	ss, is := setupShoppingTestDB(t)

	inv, err := is.Create("Milk", 1, "Food", "Dairy")
	if err != nil {
		t.Fatalf("create inventory item: %v", err)
	}
	list, err := ss.Create("Weekly")
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	if _, err := ss.AddItem(list.ID, "Milk", 2); err != nil {
		t.Fatalf("add item: %v", err)
	}

	gotList, gotItem, err := ss.BuyItem(list.ID, "Milk", 2)
	if err != nil {
		t.Fatalf("buy item: %v", err)
	}
	if gotItem.ID != inv.ID {
		t.Errorf("expected existing item %d, got %d", inv.ID, gotItem.ID)
	}
	if gotItem.Quantity != 3 {
		t.Errorf("quantity = %v, want 3", gotItem.Quantity)
	}
	if gotItem.Type != "Food" || gotItem.SubType != "Dairy" {
		t.Errorf("type/sub_type = %q/%q, want kept Food/Dairy", gotItem.Type, gotItem.SubType)
	}
	if len(gotList.Items) != 0 {
		t.Errorf("expected entry removed from list, got %v", gotList.Items)
	}
}

func TestBuyItemCreatesInventoryUnderDefaultCategory(t *testing.T) {
	ss, is := setupShoppingTestDB(t)

	list, err := ss.Create("Weekly")
	if err != nil {
		t.Fatalf("create list: %v", err)
	}
	if _, err := ss.AddItem(list.ID, "Candles", 4); err != nil {
		t.Fatalf("add item: %v", err)
	}

	gotList, gotItem, err := ss.BuyItem(list.ID, "Candles", 4)
	if err != nil {
		t.Fatalf("buy item: %v", err)
	}
	if gotItem.Name != "Candles" || gotItem.Quantity != 4 {
		t.Errorf("item = %q/%v, want Candles/4", gotItem.Name, gotItem.Quantity)
	}
	if gotItem.Type != "Else" || gotItem.SubType != "Else" {
		t.Errorf("type/sub_type = %q/%q, want Else/Else", gotItem.Type, gotItem.SubType)
	}
	if len(gotList.Items) != 0 {
		t.Errorf("expected entry removed from list, got %v", gotList.Items)
	}

	items, err := is.List(InventoryFilter{Name: "Candles"})
	if err != nil {
		t.Fatalf("list inventory: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 inventory item, got %d", len(items))
	}
}
