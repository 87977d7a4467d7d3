package model

type ListingType string

const (
	ListingSale ListingType = "sale"
	ListingSwap ListingType = "swap"
)

// Normalize treats a missing listing type as a sale listing.
func (t ListingType) Normalize() ListingType {
	if t == "" {
		return ListingSale
	}
	return t
}

// Lister identifies the account that created a listing. Pre-seeded catalog
// entries have no lister.
type Lister struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Email  string `json:"email"`
}

// Product is a marketplace listing, either for sale or for swap.
type Product struct {
	ID          uint64      `json:"id"`
	Name        string      `json:"name"`
	Price       float64     `json:"price"`
	Category    string      `json:"category"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Images      []string    `json:"images"`
	Rating      float64     `json:"rating"`
	ListingType ListingType `json:"listingType,omitempty"`
	// SwapPreferences describes what the lister wants in return; swap listings only.
	SwapPreferences string  `json:"swapPreferences,omitempty"`
	AddedBy         *Lister `json:"addedBy,omitempty"`
}

// OwnedBy reports whether the listing was created by the given email.
func (p *Product) OwnedBy(email string) bool {
	return p.AddedBy != nil && p.AddedBy.Email == email
}
