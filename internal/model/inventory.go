package model

import "time"

type InventoryItem struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Quantity  float64   `json:"quantity"`
	Type      string    `json:"type"`
	SubType   string    `json:"sub_type"`
	CreatedAt time.Time `json:"created_at"`
}
