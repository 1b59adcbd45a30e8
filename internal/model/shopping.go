package model

import "time"

type ShoppingList struct {
	ID        int64              `json:"id"`
	Name      string             `json:"name"`
	Items     []ShoppingListItem `json:"items"`
	CreatedAt time.Time          `json:"created_at"`
}

type ShoppingListItem struct {
	ID       int64   `json:"id"`
	ListID   int64   `json:"list_id"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
}
