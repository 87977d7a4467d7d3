package model

import "time"

// Review is an append-only product review. Unauthenticated reviewers get a
// guest fallback identity.
type Review struct {
	ID         string    `json:"id"`
	ProductID  uint64    `json:"productId"`
	UserName   string    `json:"userName"`
	UserAvatar string    `json:"userAvatar"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	Date       time.Time `json:"date"`
}
