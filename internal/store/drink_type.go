package store

import (
	"database/sql"
	"fmt"

	"github.com/dvasiliu/larder/internal/model"
)

type DrinkTypeStore struct {
	db *sql.DB
}

func NewDrinkTypeStore(db *sql.DB) *DrinkTypeStore {
	return &DrinkTypeStore{db: db}
}

func scanDrinkType(scanner interface{ Scan(...any) error }) (*model.DrinkType, error) {
	var dt model.DrinkType
	err := scanner.Scan(&dt.ID, &dt.Name, &dt.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &dt, nil
}

const drinkTypeCols = `id, name, created_at`

func (s *DrinkTypeStore) List() ([]model.DrinkType, error) {
	rows, err := s.db.Query(`SELECT ` + drinkTypeCols + ` FROM drink_types ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list drink types: %w", err)
	}
	defer rows.Close()

	var types []model.DrinkType
	for rows.Next() {
		dt, err := scanDrinkType(rows)
		if err != nil {
			return nil, fmt.Errorf("scan drink type: %w", err)
		}
		types = append(types, *dt)
	}
	return types, rows.Err()
}

func (s *DrinkTypeStore) GetByID(id int64) (*model.DrinkType, error) {
	row := s.db.QueryRow(`SELECT `+drinkTypeCols+` FROM drink_types WHERE id = ?`, id)
	dt, err := scanDrinkType(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get drink type: %w", err)
	}
	return dt, nil
}

func (s *DrinkTypeStore) NameExists(name string, excludeID int64) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM drink_types WHERE name = ? AND id != ?`,
		name, excludeID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check drink type name: %w", err)
	}
	return count > 0, nil
}

func (s *DrinkTypeStore) Create(name string) (*model.DrinkType, error) {
	result, err := s.db.Exec(`INSERT INTO drink_types (name) VALUES (?)`, name)
	if err != nil {
		return nil, fmt.Errorf("insert drink type: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *DrinkTypeStore) Rename(id int64, name string) (*model.DrinkType, error) {
	_, err := s.db.Exec(`UPDATE drink_types SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return nil, fmt.Errorf("rename drink type: %w", err)
	}
	return s.GetByID(id)
}

func (s *DrinkTypeStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM drink_types WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete drink type: %w", err)
	}
	return nil
}
