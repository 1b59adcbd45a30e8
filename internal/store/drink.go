package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/dvasiliu/larder/internal/model"
)

// DrinkStore manages purchased drinks and the consumed-drinks collection.
// Consume moves a row between the two inside one transaction.
type DrinkStore struct {
	db *sql.DB
}

func NewDrinkStore(db *sql.DB) *DrinkStore {
	return &DrinkStore{db: db}
}

func scanDrink(scanner interface{ Scan(...any) error }) (*model.Drink, error) {
	var d model.Drink
	err := scanner.Scan(&d.ID, &d.Name, &d.Type, &d.Date, &d.Price, &d.Comment, &d.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

const drinkCols = `id, name, type, date, price, comment, created_at`

// DrinkFilter narrows List results. Name is a case-insensitive substring
// match; Type is an exact match.
type DrinkFilter struct {
	Name string
	Type string
}

func (s *DrinkStore) List(f DrinkFilter) ([]model.Drink, error) {
	query := `SELECT ` + drinkCols + ` FROM drinks WHERE 1=1`
	var args []any

	if f.Name != "" {
		query += ` AND name LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(f.Name)+"%")
	}
	if f.Type != "" {
		query += ` AND type = ?`
		args = append(args, f.Type)
	}
	query += ` ORDER BY name ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list drinks: %w", err)
	}
	defer rows.Close()

	var drinks []model.Drink
	for rows.Next() {
		d, err := scanDrink(rows)
		if err != nil {
			return nil, fmt.Errorf("scan drink: %w", err)
		}
		drinks = append(drinks, *d)
	}
	return drinks, rows.Err()
}

func (s *DrinkStore) GetByID(id int64) (*model.Drink, error) {
	row := s.db.QueryRow(`SELECT `+drinkCols+` FROM drinks WHERE id = ?`, id)
	d, err := scanDrink(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get drink: %w", err)
	}
	return d, nil
}

func (s *DrinkStore) Create(name, typ, date string, price float64, comment string) (*model.Drink, error) {
	result, err := s.db.Exec(
		`INSERT INTO drinks (name, type, date, price, comment) VALUES (?, ?, ?, ?, ?)`,
		name, typ, date, price, comment,
	)
	if err != nil {
		return nil, fmt.Errorf("insert drink: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *DrinkStore) Update(id int64, name, typ, date string, price float64, comment string) (*model.Drink, error) {
	_, err := s.db.Exec(
		`UPDATE drinks SET name = ?, type = ?, date = ?, price = ?, comment = ? WHERE id = ?`,
		name, typ, date, price, comment, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update drink: %w", err)
	}
	return s.GetByID(id)
}

func (s *DrinkStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM drinks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete drink: %w", err)
	}
	return nil
}

// Consume copies a drink into drunk_drinks with the consumption timestamp
// and deletes the original, atomically. Returns nil when the drink does
// not exist.
func (s *DrinkStore) Consume(id int64) (*model.DrunkDrink, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin consume: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+drinkCols+` FROM drinks WHERE id = ?`, id)
	d, err := scanDrink(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get drink: %w", err)
	}

	result, err := tx.Exec(
		`INSERT INTO drunk_drinks (name, type, date, price, comment, consumed_at) VALUES (?, ?, ?, ?, ?, ?)`,
		d.Name, d.Type, d.Date, d.Price, d.Comment, time.Now().UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert drunk drink: %w", err)
	}
	drunkID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM drinks WHERE id = ?`, id); err != nil {
		return nil, fmt.Errorf("delete consumed drink: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit consume: %w", err)
	}
	return s.GetDrunkByID(drunkID)
}

func scanDrunkDrink(scanner interface{ Scan(...any) error }) (*model.DrunkDrink, error) {
	var d model.DrunkDrink
	err := scanner.Scan(&d.ID, &d.Name, &d.Type, &d.Date, &d.Price, &d.Comment, &d.ConsumedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

const drunkDrinkCols = `id, name, type, date, price, comment, consumed_at`

func (s *DrinkStore) ListDrunk() ([]model.DrunkDrink, error) {
	rows, err := s.db.Query(`SELECT ` + drunkDrinkCols + ` FROM drunk_drinks ORDER BY consumed_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list drunk drinks: %w", err)
	}
	defer rows.Close()

	var drinks []model.DrunkDrink
	for rows.Next() {
		d, err := scanDrunkDrink(rows)
		if err != nil {
			return nil, fmt.Errorf("scan drunk drink: %w", err)
		}
		drinks = append(drinks, *d)
	}
	return drinks, rows.Err()
}

func (s *DrinkStore) GetDrunkByID(id int64) (*model.DrunkDrink, error) {
	row := s.db.QueryRow(`SELECT `+drunkDrinkCols+` FROM drunk_drinks WHERE id = ?`, id)
	d, err := scanDrunkDrink(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get drunk drink: %w", err)
	}
	return d, nil
}

func (s *DrinkStore) UpdateDrunk(id int64, name, typ, date string, price float64, comment string) (*model.DrunkDrink, error) {
	_, err := s.db.Exec(
		`UPDATE drunk_drinks SET name = ?, type = ?, date = ?, price = ?, comment = ? WHERE id = ?`,
		name, typ, date, price, comment, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update drunk drink: %w", err)
	}
	return s.GetDrunkByID(id)
}

func (s *DrinkStore) UpdateDrunkComment(id int64, comment string) (*model.DrunkDrink, error) {
	_, err := s.db.Exec(`UPDATE drunk_drinks SET comment = ? WHERE id = ?`, comment, id)
	if err != nil {
		return nil, fmt.Errorf("update drunk comment: %w", err)
	}
	return s.GetDrunkByID(id)
}
