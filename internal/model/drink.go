package model

import "time"

type DrinkType struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Drink is a purchased beverage. Date is the purchase month (YYYY-MM).
type Drink struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Date      string    `json:"date"`
	Price     float64   `json:"price"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// DrunkDrink is a consumed beverage, created by moving a Drink record.
type DrunkDrink struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Date       string    `json:"date"`
	Price      float64   `json:"price"`
	Comment    string    `json:"comment"`
	ConsumedAt time.Time `json:"consumed_at"`
}
