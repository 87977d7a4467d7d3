package model

import "time"

// Purchase is an append-only order record. Items are a frozen snapshot of the
// cart at payment time, independent of later catalog mutations.
type Purchase struct {
	ID        string     `json:"id"`
	UserEmail string     `json:"userEmail"`
	Date      time.Time  `json:"date"`
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
}
