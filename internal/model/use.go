package model

import "time"

// UseHistory is an append-only record of a single use event. Items keep
// the name and quantity even when the referenced inventory row is gone.
type UseHistory struct {
	ID     int64            `json:"id"`
	Name   *string          `json:"name"`
	Items  []UseHistoryItem `json:"items"`
	UsedAt time.Time        `json:"used_at"`
}

type UseHistoryItem struct {
	ID              int64   `json:"id"`
	HistoryID       int64   `json:"history_id"`
	InventoryItemID *int64  `json:"inventory_item_id"`
	Name            string  `json:"name"`
	Quantity        float64 `json:"quantity"`
}
