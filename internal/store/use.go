package store

import (
	"database/sql"
	"fmt"

	"github.com/dvasiliu/larder/internal/model"
)

type UseStore struct {
	db *sql.DB
}

func NewUseStore(db *sql.DB) *UseStore {
	return &UseStore{db: db}
}

// UseInput is one entry of a use event. InventoryItemID is optional; when
// it does not resolve to a stock row the quantity is still recorded in the
// history but no stock is adjusted.
type UseInput struct {
	InventoryItemID *int64
	Name            string
	Quantity        float64
}

// Record decrements stock for each resolvable entry (floored at zero) and
// appends one immutable history record. The decrements and the history
// insert share a single transaction.
func (s *UseStore) Record(name *string, items []UseInput) (*model.UseHistory, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin use: %w", err)
	}
	defer tx.Rollback()

	var historyName sql.NullString
	if name != nil {
		historyName = sql.NullString{String: *name, Valid: true}
	}

	result, err := tx.Exec(`INSERT INTO use_history (name) VALUES (?)`, historyName)
	if err != nil {
		return nil, fmt.Errorf("insert history: %w", err)
	}
	historyID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	for _, item := range items {
		var ref sql.NullInt64
		if item.InventoryItemID != nil {
			var exists int
			err := tx.QueryRow(`SELECT COUNT(*) FROM inventory_items WHERE id = ?`, *item.InventoryItemID).Scan(&exists)
			if err != nil {
				return nil, fmt.Errorf("check inventory item: %w", err)
			}
			if exists > 0 {
				ref = sql.NullInt64{Int64: *item.InventoryItemID, Valid: true}
				if _, err := tx.Exec(
					`UPDATE inventory_items SET quantity = MAX(0, quantity - ?) WHERE id = ?`,
					item.Quantity, *item.InventoryItemID,
				); err != nil {
					return nil, fmt.Errorf("decrement stock: %w", err)
				}
			}
		}

		if _, err := tx.Exec(
			`INSERT INTO use_history_items (history_id, inventory_item_id, name, quantity) VALUES (?, ?, ?, ?)`,
			historyID, ref, item.Name, item.Quantity,
		); err != nil {
			return nil, fmt.Errorf("insert history item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit use: %w", err)
	}
	return s.GetByID(historyID)
}

func scanHistory(scanner interface{ Scan(...any) error }) (*model.UseHistory, error) {
	var h model.UseHistory
	var name sql.NullString
	err := scanner.Scan(&h.ID, &name, &h.UsedAt)
	if err != nil {
		return nil, err
	}
	if name.Valid {
		h.Name = &name.String
	}
	return &h, nil
}

func (s *UseStore) loadItems(historyID int64) ([]model.UseHistoryItem, error) {
	rows, err := s.db.Query(
		`SELECT id, history_id, inventory_item_id, name, quantity FROM use_history_items WHERE history_id = ? ORDER BY id ASC`,
		historyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list history items: %w", err)
	}
	defer rows.Close()

	items := []model.UseHistoryItem{}
	for rows.Next() {
		var item model.UseHistoryItem
		var ref sql.NullInt64
		if err := rows.Scan(&item.ID, &item.HistoryID, &ref, &item.Name, &item.Quantity); err != nil {
			return nil, fmt.Errorf("scan history item: %w", err)
		}
		if ref.Valid {
			item.InventoryItemID = &ref.Int64
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *UseStore) GetByID(id int64) (*model.UseHistory, error) {
	row := s.db.QueryRow(`SELECT id, name, used_at FROM use_history WHERE id = ?`, id)
	h, err := scanHistory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}

	items, err := s.loadItems(h.ID)
	if err != nil {
		return nil, err
	}
	h.Items = items
	return h, nil
}

// List returns all use events, most recent first.
func (s *UseStore) List() ([]model.UseHistory, error) {
	rows, err := s.db.Query(`SELECT id, name, used_at FROM use_history ORDER BY used_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var histories []model.UseHistory
	for rows.Next() {
		h, err := scanHistory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		histories = append(histories, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range histories {
		items, err := s.loadItems(histories[i].ID)
		if err != nil {
			return nil, err
		}
		histories[i].Items = items
	}
	return histories, nil
}
