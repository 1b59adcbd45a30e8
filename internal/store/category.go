package store

import (
	"database/sql"
	"fmt"

	"github.com/dvasiliu/larder/internal/model"
)

// CategoryStore manages the type registry. Renames and deletes cascade
// into inventory_items by name, inside a single transaction so a failed
// cascade never leaves the registry and the inventory disagreeing.
type CategoryStore struct {
	db *sql.DB
}

func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

func (s *CategoryStore) loadSubTypes(q interface {
	Query(string, ...any) (*sql.Rows, error)
}, categoryID int64) ([]string, error) {
	rows, err := q.Query(
		`SELECT name FROM category_subtypes WHERE category_id = ? ORDER BY position ASC, id ASC`,
		categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("list subtypes: %w", err)
	}
	defer rows.Close()

	subTypes := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan subtype: %w", err)
		}
		subTypes = append(subTypes, name)
	}
	return subTypes, rows.Err()
}

func (s *CategoryStore) List() ([]model.Category, error) {
	rows, err := s.db.Query(`SELECT id, name, created_at FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range categories {
		subTypes, err := s.loadSubTypes(s.db, categories[i].ID)
		if err != nil {
			return nil, err
		}
		categories[i].SubTypes = subTypes
	}
	return categories, nil
}

func (s *CategoryStore) GetByID(id int64) (*model.Category, error) {
	var c model.Category
	err := s.db.QueryRow(`SELECT id, name, created_at FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}

	subTypes, err := s.loadSubTypes(s.db, c.ID)
	if err != nil {
		return nil, err
	}
	c.SubTypes = subTypes
	return &c, nil
}

func (s *CategoryStore) NameExists(name string, excludeID int64) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM categories WHERE name = ? AND id != ?`,
		name, excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check category name: %w", err)
	}
	return count > 0, nil
}

func (s *CategoryStore) Create(name string) (*model.Category, error) {
	result, err := s.db.Exec(`INSERT INTO categories (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("insert category: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

// Rename changes a category's name and retags every inventory item that
// carried the old name.
func (s *CategoryStore) Rename(id int64, newName string) (*model.Category, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin rename: %w", err)
	}
	defer tx.Rollback()

	var oldName string
	err = tx.QueryRow(`SELECT name FROM categories WHERE id = ?`, id).Scan(&oldName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category name: %w", err)
	}

	if _, err := tx.Exec(`UPDATE inventory_items SET type = ? WHERE type = ?`, newName, oldName); err != nil {
		return nil, fmt.Errorf("cascade rename: %w", err)
	}
	if _, err := tx.Exec(`UPDATE categories SET name = ? WHERE id = ?`, newName, id); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit rename: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes a category and blanks type/sub_type on every inventory
// item that referenced it. Items themselves are kept.
func (s *CategoryStore) Delete(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin delete: %w", err)
	}
	defer tx.Rollback()

	var name string
	err = tx.QueryRow(`SELECT name FROM categories WHERE id = ?`, id).Scan(&name)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("get category name: %w", err)
	}

	if _, err := tx.Exec(`UPDATE inventory_items SET type = '', sub_type = '' WHERE type = ?`, name); err != nil {
		return fmt.Errorf("cascade delete: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}

// AddSubType appends a subtype to the end of the category's list.
func (s *CategoryStore) AddSubType(id int64, name string) (*model.Category, error) {
	_, err := s.db.Exec(
		`INSERT INTO category_subtypes (category_id, name, position)
		 SELECT ?, ?, COALESCE(MAX(position), -1) + 1 FROM category_subtypes WHERE category_id = ?`,
		id, name, id,
	)
	if err != nil {
		return nil, fmt.Errorf("insert subtype: %w", err)
	}
	return s.GetByID(id)
}

// RenameSubType renames a subtype in place (position kept) and retags
// inventory items matching both the category name and the old subtype.
func (s *CategoryStore) RenameSubType(id int64, oldName, newName string) (*model.Category, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin subtype rename: %w", err)
	}
	defer tx.Rollback()

	var catName string
	err = tx.QueryRow(`SELECT name FROM categories WHERE id = ?`, id).Scan(&catName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category name: %w", err)
	}

	if _, err := tx.Exec(
		`UPDATE category_subtypes SET name = ? WHERE category_id = ? AND name = ?`,
		newName, id, oldName,
	); err != nil {
		return nil, fmt.Errorf("rename subtype: %w", err)
	}
	if _, err := tx.Exec(
		`UPDATE inventory_items SET sub_type = ? WHERE type = ? AND sub_type = ?`,
		newName, catName, oldName,
	); err != nil {
		return nil, fmt.Errorf("cascade subtype rename: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit subtype rename: %w", err)
	}
	return s.GetByID(id)
}

// DeleteSubType removes a subtype and blanks sub_type on inventory items
// matching both the category name and the subtype.
func (s *CategoryStore) DeleteSubType(id int64, name string) (*model.Category, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin subtype delete: %w", err)
	}
	defer tx.Rollback()

	var catName string
	err = tx.QueryRow(`SELECT name FROM categories WHERE id = ?`, id).Scan(&catName)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get category name: %w", err)
	}

	if _, err := tx.Exec(
		`DELETE FROM category_subtypes WHERE category_id = ? AND name = ?`,
		id, name,
	); err != nil {
		return nil, fmt.Errorf("delete subtype: %w", err)
	}
	if _, err := tx.Exec(
		`UPDATE inventory_items SET sub_type = '' WHERE type = ? AND sub_type = ?`,
		catName, name,
	); err != nil {
		return nil, fmt.Errorf("cascade subtype delete: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit subtype delete: %w", err)
	}
	return s.GetByID(id)
}
