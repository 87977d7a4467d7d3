package ai

import (
	"fmt"
	"strings"

	"github.com/swapmarket/swapmarket-backend/internal/model"
)

const maxDescriptionChars = 120

// condenseCatalog renders one line per listing so the whole catalog fits
// comfortably in a prompt. Descriptions are truncated.
func condenseCatalog(products []model.Product) string {
	var b strings.Builder
	for _, p := range products {
		desc := p.Description
		if len(desc) > maxDescriptionChars {
			desc = desc[:maxDescriptionChars]
		}
		fmt.Fprintf(&b, "id=%d | %s | %s | $%.2f | %s | %s\n",
			p.ID, p.Name, p.Category, p.Price, p.ListingType.Normalize(), desc)
	}
	return b.String()
}

func searchPrompt(query string, products []model.Product) string {
	return fmt.Sprintf(`You are a product search engine for a second-hand marketplace.
Given the catalog below and a shopper's query, return the ids of the products
that best match the intent of the query. Interpret meaning, not just keywords:
"something for a rainy hike" should match outdoor gear. Return an empty list
when nothing fits. Never invent ids that are not in the catalog.

Catalog:
%s
Query: %s`, condenseCatalog(products), query)
}

func insightsPrompt(p model.Product) string {
	return fmt.Sprintf(`You are a marketing copywriter for a second-hand marketplace.
For the listing below, produce:
- vibeTags: 3 short lowercase tags capturing its vibe
- sellingPoint: one punchy sentence on why to buy it
- bestOccasion: the occasion it suits best, in a few words

Listing:
Name: %s
Category: %s
Price: $%.2f
Description: %s`, p.Name, p.Category, p.Price, p.Description)
}

func chatPrompt(history []ChatTurn, message string, products []model.Product) string {
	var b strings.Builder
	b.WriteString(`You are Swapify's shopping assistant. Help the shopper find listings
from the catalog below. Be friendly and brief. When you recommend products,
put their ids in recommendedIds. Only recommend ids present in the catalog.
If a photo is attached, use it to understand what the shopper is looking for.

Catalog:
`)
	b.WriteString(condenseCatalog(products))
	if len(history) > 0 {
		b.WriteString("\nConversation so far:\n")
		for _, turn := range history {
			fmt.Fprintf(&b, "%s: %s\n", turn.Role, turn.Text)
		}
	}
	b.WriteString("\nShopper: ")
	b.WriteString(message)
	return b.String()
}
