package store

import (
	"database/sql"
	"fmt"

	"github.com/dvasiliu/larder/internal/model"
)

// Default category assigned to inventory items created by the buy flow.
const defaultBuyCategory = "Else"

type ShoppingStore struct {
	db *sql.DB
}

func NewShoppingStore(db *sql.DB) *ShoppingStore {
	return &ShoppingStore{db: db}
}

func (s *ShoppingStore) loadItems(listID int64) ([]model.ShoppingListItem, error) {
	rows, err := s.db.Query(
		`SELECT id, list_id, name, quantity FROM shopping_list_items WHERE list_id = ? ORDER BY id ASC`,
		listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	items := []model.ShoppingListItem{}
	for rows.Next() {
		var item model.ShoppingListItem
		if err := rows.Scan(&item.ID, &item.ListID, &item.Name, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *ShoppingStore) List() ([]model.ShoppingList, error) {
	rows, err := s.db.Query(`SELECT id, name, created_at FROM shopping_lists ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list shopping lists: %w", err)
	}
	defer rows.Close()

	var lists []model.ShoppingList
	for rows.Next() {
		var l model.ShoppingList
		if err := rows.Scan(&l.ID, &l.Name, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan shopping list: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range lists {
		items, err := s.loadItems(lists[i].ID)
		if err != nil {
			return nil, err
		}
		lists[i].Items = items
	}
	return lists, nil
}

func (s *ShoppingStore) GetByID(id int64) (*model.ShoppingList, error) {
	var l model.ShoppingList
	err := s.db.QueryRow(`SELECT id, name, created_at FROM shopping_lists WHERE id = ?`, id).
		Scan(&l.ID, &l.Name, &l.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get shopping list: %w", err)
	}

	items, err := s.loadItems(l.ID)
	if err != nil {
		return nil, err
	}
	l.Items = items
	return &l, nil
}

func (s *ShoppingStore) NameExists(name string) (bool, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM shopping_lists WHERE name = ?`, name).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check list name: %w", err)
	}
	return count > 0, nil
}

func (s *ShoppingStore) Create(name string) (*model.ShoppingList, error) {
	result, err := s.db.Exec(`INSERT INTO shopping_lists (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("insert shopping list: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ShoppingStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM shopping_lists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete shopping list: %w", err)
	}
	return nil
}

// AddItem adds an entry to the list, merging quantities when an entry with
// the same name already exists.
func (s *ShoppingStore) AddItem(listID int64, name string, quantity float64) (*model.ShoppingList, error) {
	_, err := s.db.Exec(
		`INSERT INTO shopping_list_items (list_id, name, quantity) VALUES (?, ?, ?)
		 ON CONFLICT(list_id, name) DO UPDATE SET quantity = quantity + excluded.quantity`,
		listID, name, quantity,
	)
	if err != nil {
		return nil, fmt.Errorf("add list item: %w", err)
	}
	return s.GetByID(listID)
}

// DeleteItem removes an entry by exact name. Removing an absent entry is
// not an error.
func (s *ShoppingStore) DeleteItem(listID int64, name string) (*model.ShoppingList, error) {
	_, err := s.db.Exec(
		`DELETE FROM shopping_list_items WHERE list_id = ? AND name = ?`,
		listID, name,
	)
	if err != nil {
		return nil, fmt.Errorf("delete list item: %w", err)
	}
	return s.GetByID(listID)
}

// BuyItem moves a list entry into the inventory: an existing inventory item
// with the same name has its quantity incremented, otherwise a new item is
// created under the default category. The list entry is removed. All three
// writes share one transaction.
func (s *ShoppingStore) BuyItem(listID int64, itemName string, quantity float64) (*model.ShoppingList, *model.InventoryItem, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, nil, fmt.Errorf("begin buy: %w", err)
	}
	defer tx.Rollback()

	var invID int64
	err = tx.QueryRow(`SELECT id FROM inventory_items WHERE name = ? ORDER BY id ASC LIMIT 1`, itemName).Scan(&invID)
	switch {
	case err == sql.ErrNoRows:
		result, err := tx.Exec(
			`INSERT INTO inventory_items (name, quantity, type, sub_type) VALUES (?, ?, ?, ?)`,
			itemName, quantity, defaultBuyCategory, defaultBuyCategory,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("insert bought item: %w", err)
		}
		invID, err = result.LastInsertId()
		if err != nil {
			return nil, nil, fmt.Errorf("last insert id: %w", err)
		}
	case err != nil:
		return nil, nil, fmt.Errorf("find inventory item: %w", err)
	default:
		if _, err := tx.Exec(`UPDATE inventory_items SET quantity = quantity + ? WHERE id = ?`, quantity, invID); err != nil {
			return nil, nil, fmt.Errorf("increment bought item: %w", err)
		}
	}

	if _, err := tx.Exec(`DELETE FROM shopping_list_items WHERE list_id = ? AND name = ?`, listID, itemName); err != nil {
		return nil, nil, fmt.Errorf("remove bought entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit buy: %w", err)
	}

	list, err := s.GetByID(listID)
	if err != nil {
		return nil, nil, err
	}

	row := s.db.QueryRow(`SELECT `+inventoryCols+` FROM inventory_items WHERE id = ?`, invID)
	item, err := scanInventoryItem(row)
	if err != nil {
		return nil, nil, fmt.Errorf("get bought item: %w", err)
	}
	return list, item, nil
}
