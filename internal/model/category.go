package model

import "time"

// Category is a user-defined inventory type with an ordered list of
// unique subtype names. Inventory items reference categories by name.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	SubTypes  []string  `json:"sub_types"`
	CreatedAt time.Time `json:"created_at"`
}
