package model

import "time"

type NotificationType string

const (
	NotificationSwapProposal NotificationType = "swap_proposal"
	NotificationSystem       NotificationType = "system"
)

// SwapProposal is the typed payload of a swap_proposal notification: the
// proposer offers a subset of their own listings, a note, and an optional
// cash top-up for the target listing.
type SwapProposal struct {
	ProposerEmail  string   `json:"proposerEmail"`
	OfferedItemIDs []uint64 `json:"offeredItemIds"`
	TargetItemID   uint64   `json:"targetItemId"`
	Note           string   `json:"note"`
	CashOffer      float64  `json:"cashOffer"`
}

// Notification is a per-user inbox entry. Notifications are never deleted;
// the read flag flips only via a bulk mark-all-read scoped to the recipient.
type Notification struct {
	ID        string           `json:"id"`
	UserEmail string           `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	Date      time.Time        `json:"date"`
	Swap      *SwapProposal    `json:"swap,omitempty"`
}
