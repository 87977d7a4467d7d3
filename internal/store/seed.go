package store

import (
	"context"
	"time"

	"github.com/swapmarket/swapmarket-backend/internal/model"
)

// ResetDefaults overwrites the catalog and review collections with the seed
// data, regardless of what is stored.
func ResetDefaults(ctx context.Context, coll *Collections) error {
	if err := coll.save(ctx, collProducts, DefaultCatalog()); err != nil {
		return err
	}
	return coll.save(ctx, collReviews, DefaultReviews(time.Now()))
}

// DefaultCatalog returns the seed listings written on first use of an empty
// products collection.
func DefaultCatalog() []model.Product {
	return []model.Product{
		{
			ID:          1,
			Name:        "Neo-Noir Leather Jacket",
			Price:       189.99,
			Category:    "Fashion",
			Description: "A sleek, genuine leather jacket with a modern cut. Perfect for chilly evenings and urban exploration.",
			Image:       "https://picsum.photos/seed/jacket/400/400",
			Images: []string{
				"https://picsum.photos/seed/jacket/400/400",
				"https://picsum.photos/seed/jacket2/400/400",
				"https://picsum.photos/seed/jacket3/400/400",
			},
			Rating:      4.8,
			ListingType: model.ListingSale,
		},
		{
			ID:          2,
			Name:        "Wireless Noise-Canceling Headphones",
			Price:       249.50,
			Category:    "Electronics",
			Description: "Immerse yourself in music with industry-leading noise cancellation and 30-hour battery life.",
			Image:       "https://picsum.photos/seed/headphones/400/400",
			Images:      []string{"https://picsum.photos/seed/headphones/400/400"},
			Rating:      4.9,
			ListingType: model.ListingSale,
		},
		{
			ID:          3,
			Name:        "Minimalist Analog Watch",
			Price:       120.00,
			Category:    "Accessories",
			Description: "Timeless design meeting modern precision. Features a sapphire crystal face and italian leather strap.",
			Image:       "https://picsum.photos/seed/watch/400/400",
			Images:      []string{"https://picsum.photos/seed/watch/400/400"},
			Rating:      4.6,
			ListingType: model.ListingSale,
		},
		{
			ID:          4,
			Name:        "Ergonomic Office Chair",
			Price:       350.00,
			Category:    "Home",
			Description: "Designed for comfort and productivity. Adjustable lumbar support and breathable mesh back.",
			Image:       "https://picsum.photos/seed/chair/400/400",
			Images:      []string{"https://picsum.photos/seed/chair/400/400"},
			Rating:      4.7,
			ListingType: model.ListingSale,
		},
		{
			ID:          5,
			Name:        "Smart Fitness Tracker",
			Price:       89.99,
			Category:    "Electronics",
			Description: "Track your steps, heart rate, and sleep patterns. Waterproof and stylish for everyday wear.",
			Image:       "https://picsum.photos/seed/tracker/400/400",
			Images:      []string{"https://picsum.photos/seed/tracker/400/400"},
			Rating:      4.5,
			ListingType: model.ListingSale,
		},
		{
			ID:          6,
			Name:        "Organic Cotton T-Shirt Set",
			Price:       45.00,
			Category:    "Fashion",
			Description: "A pack of 3 ultra-soft, sustainable cotton t-shirts in neutral colors.",
			Image:       "https://picsum.photos/seed/tshirt/400/400",
			Images:      []string{"https://picsum.photos/seed/tshirt/400/400"},
			Rating:      4.3,
			ListingType: model.ListingSale,
		},
		{
			ID:          7,
			Name:        "Ceramic Pour-Over Coffee Set",
			Price:       65.00,
			Category:    "Home",
			Description: "Brew the perfect cup of coffee with this artisanal ceramic pour-over set.",
			Image:       "https://picsum.photos/seed/coffee/400/400",
			Images:      []string{"https://picsum.photos/seed/coffee/400/400"},
			Rating:      4.8,
			ListingType: model.ListingSale,
		},
		{
			ID:          8,
			Name:        "Running Shoes 'Velocity'",
			Price:       110.00,
			Category:    "Sports",
			Description: "Lightweight, high-traction running shoes designed for speed and stability on any terrain.",
			Image:       "https://picsum.photos/seed/shoes/400/400",
			Images:      []string{"https://picsum.photos/seed/shoes/400/400"},
			Rating:      4.6,
			ListingType: model.ListingSale,
		},
		{
			ID:          9,
			Name:        "Vintage Polaroid Camera",
			Price:       150.00,
			Category:    "Electronics",
			Description: "Capture memories instantly with this refurbished vintage style instant camera.",
			Image:       "https://picsum.photos/seed/camera/400/400",
			Images:      []string{"https://picsum.photos/seed/camera/400/400"},
			Rating:      4.4,
			ListingType: model.ListingSale,
		},
		{
			ID:          10,
			Name:        "Canvas Weekend Bag",
			Price:       95.00,
			Category:    "Accessories",
			Description: "Durable canvas duffel bag with leather accents. The perfect size for a short getaway.",
			Image:       "https://picsum.photos/seed/bag/400/400",
			Images:      []string{"https://picsum.photos/seed/bag/400/400"},
			Rating:      4.7,
			ListingType: model.ListingSale,
		},
		{
			ID:          11,
			Name:        "Smart Home Speaker",
			Price:       199.00,
			Category:    "Electronics",
			Description: "High-fidelity sound with built-in voice assistant. Controls your smart home devices seamlessly.",
			Image:       "https://picsum.photos/seed/speaker/400/400",
			Images:      []string{"https://picsum.photos/seed/speaker/400/400"},
			Rating:      4.5,
			ListingType: model.ListingSale,
		},
		{
			ID:          12,
			Name:        "Yoga Mat & Block Set",
			Price:       55.00,
			Category:    "Sports",
			Description: "Non-slip eco-friendly yoga mat including two cork blocks for stability.",
			Image:       "https://picsum.photos/seed/yoga/400/400",
			Images:      []string{"https://picsum.photos/seed/yoga/400/400"},
			Rating:      4.8,
			ListingType: model.ListingSale,
		},
		{
			ID:              13,
			Name:            "Vintage Film Cameras Collection",
			Category:        "Electronics",
			Description:     "A set of 3 working film cameras from the 80s. Good condition, just need film.",
			Image:           "https://picsum.photos/seed/oldcamera/400/400",
			Images:          []string{"https://picsum.photos/seed/oldcamera/400/400"},
			ListingType:     model.ListingSwap,
			SwapPreferences: "Looking for a modern DSLR lens or a mechanical keyboard.",
		},
		{
			ID:              14,
			Name:            "Stack of Sci-Fi Novels",
			Category:        "Books",
			Description:     "10 classic sci-fi paperbacks including Dune and Foundation. Read once.",
			Image:           "https://picsum.photos/seed/books/400/400",
			Images:          []string{"https://picsum.photos/seed/books/400/400"},
			ListingType:     model.ListingSwap,
			SwapPreferences: "Will trade for philosophy books or a ukulele.",
		},
		{
			ID:              15,
			Name:            "iPhone 11 (64GB) - Gently Used",
			Category:        "Electronics",
			Description:     "Fully functional, minor scratches on the back. Battery health 85%.",
			Image:           "https://picsum.photos/seed/iphone/400/400",
			Images:          []string{"https://picsum.photos/seed/iphone/400/400"},
			ListingType:     model.ListingSwap,
			SwapPreferences: "Open to offers. Ideally a tablet or smart watch.",
		},
	}
}

// DefaultReviews returns the seed reviews written on first use of an empty
// reviews collection.
func DefaultReviews(now time.Time) []model.Review {
	return []model.Review{
		{
			ID:         "1",
			ProductID:  1,
			UserName:   "Alice M.",
			UserAvatar: "https://api.dicebear.com/7.x/avataaars/svg?seed=Alice",
			Rating:     5,
			Comment:    "Absolutely love the fit of this jacket! High quality leather.",
			Date:       now.Add(-2 * 24 * time.Hour),
		},
		{
			ID:         "2",
			ProductID:  1,
			UserName:   "John D.",
			UserAvatar: "https://api.dicebear.com/7.x/avataaars/svg?seed=John",
			Rating:     4,
			Comment:    "Great style, but runs slightly small.",
			Date:       now.Add(-5 * 24 * time.Hour),
		},
		{
			ID:         "3",
			ProductID:  2,
			UserName:   "Sarah K.",
			UserAvatar: "https://api.dicebear.com/7.x/avataaars/svg?seed=Sarah",
			Rating:     5,
			Comment:    "Best headphones I have ever owned. The noise cancellation is magic.",
			Date:       now.Add(-10 * 24 * time.Hour),
		},
	}
}
