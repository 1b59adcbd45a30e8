package store

import (
	"database/sql"
	"fmt"

	"github.com/dvasiliu/larder/internal/model"
)

type InventoryStore struct {
	db *sql.DB
}

func NewInventoryStore(db *sql.DB) *InventoryStore {
	return &InventoryStore{db: db}
}

func scanInventoryItem(scanner interface{ Scan(...any) error }) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := scanner.Scan(&item.ID, &item.Name, &item.Quantity, &item.Type, &item.SubType, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

const inventoryCols = `id, name, quantity, type, sub_type, created_at`

// InventoryFilter narrows List results. Name is a case-insensitive
// substring match; Type and SubType are exact matches.
type InventoryFilter struct {
	Name    string
	Type    string
	SubType string
}

func (s *InventoryStore) List(f InventoryFilter) ([]model.InventoryItem, error) {
	query := `SELECT ` + inventoryCols + ` FROM inventory_items WHERE 1=1`
	var args []any

	if f.Name != "" {
		query += ` AND name LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(f.Name)+"%")
	}
	if f.Type != "" {
		query += ` AND type = ?`
		args = append(args, f.Type)
	}
	if f.SubType != "" {
		query += ` AND sub_type = ?`
		args = append(args, f.SubType)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var items []model.InventoryItem
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *InventoryStore) GetByID(id int64) (*model.InventoryItem, error) {
	row := s.db.QueryRow(`SELECT `+inventoryCols+` FROM inventory_items WHERE id = ?`, id)
	item, err := scanInventoryItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	return item, nil
}

func (s *InventoryStore) Create(name string, quantity float64, typ, subType string) (*model.InventoryItem, error) {
	result, err := s.db.Exec(
		`INSERT INTO inventory_items (name, quantity, type, sub_type) VALUES (?, ?, ?, ?)`,
		name, quantity, typ, subType,
	)
	if err != nil {
		return nil, fmt.Errorf("insert inventory item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *InventoryStore) Update(id int64, name string, quantity float64, typ, subType string) (*model.InventoryItem, error) {
	_, err := s.db.Exec(
		`UPDATE inventory_items SET name = ?, quantity = ?, type = ?, sub_type = ? WHERE id = ?`,
		name, quantity, typ, subType, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update inventory item: %w", err)
	}
	return s.GetByID(id)
}

func (s *InventoryStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM inventory_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}
	return nil
}

// escapeLike escapes LIKE wildcards so filter input matches literally.
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
