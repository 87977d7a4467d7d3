package model

// CartItem is a product plus a quantity. At most one entry exists per product
// id; quantity never drops below 1 through decrements.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// CartTotal sums price times quantity over the items.
func CartTotal(items []CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// CartCount returns the total number of units across the items.
func CartCount(items []CartItem) int {
	var count int
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

// FindCartIndex returns the index of the item with the given product id, or -1.
func FindCartIndex(items []CartItem, productID uint64) int {
	for i := range items {
		if items[i].ID == productID {
			return i
		}
	}
	return -1
}
